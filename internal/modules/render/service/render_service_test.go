package service_test

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"testing"

	"bookshelf/internal/modules/render/cache"
	"bookshelf/internal/modules/render/domain"
	renderout "bookshelf/internal/modules/render/port/out"
	"bookshelf/internal/modules/render/service"
	apperrors "bookshelf/internal/platform/errors"
)

type fakeDoc struct {
	pages    int
	renders  atomic.Int32
	failPage int // -1 disables
	closed   bool
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) PageSizePoints(int) (float64, float64, error) { return 595, 842, nil }

func (d *fakeDoc) RenderPage(_ context.Context, req domain.RenderRequest) (*image.RGBA, error) {
	if req.PageIndex == d.failPage {
		return nil, fmt.Errorf("%w: fake corrupt page", apperrors.ErrRasterizationFailed)
	}
	d.renders.Add(1)
	return image.NewRGBA(image.Rect(0, 0, req.WidthPx, req.HeightPx)), nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

type fakeRasterizer struct {
	doc *fakeDoc
}

func (r fakeRasterizer) Open(string) (renderout.Document, error) {
	return r.doc, nil
}

func rasterizerFor(doc *fakeDoc) renderout.Rasterizer {
	return fakeRasterizer{doc: doc}
}

func newService(t *testing.T, doc *fakeDoc) *service.RenderService {
	t.Helper()
	pageCache, err := cache.New(3)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	limits := domain.Limits{MaxTransmitPixels: 1_000_000, MaxRenderPixels: 16_000_000, MaxRenderWidthPx: 8192}
	return service.NewRenderService(rasterizerFor(doc), pageCache, limits)
}

var state = domain.ViewportState{ZoomPercent: 100, FrameCols: 80, FrameRows: 40}

var metrics = domain.Metrics{CellWidthPx: 10, CellHeightPx: 20}

func TestRenderFrameCachesRepeatRequests(t *testing.T) {
	t.Parallel()
	doc := &fakeDoc{pages: 4, failPage: -1}
	svc := newService(t, doc)
	if _, err := svc.Open("/tmp/a.pdf"); err != nil {
		t.Fatalf("open: %v", err)
	}

	for i := 0; i < 3; i++ {
		frame, err := svc.RenderFrame(context.Background(), 0, state, metrics, domain.ColorRGB)
		if err != nil {
			t.Fatalf("render frame: %v", err)
		}
		if frame.Bitmap == nil || frame.Placeholder != "" {
			t.Fatalf("expected image frame, got %+v", frame)
		}
	}
	if got := doc.renders.Load(); got != 1 {
		t.Fatalf("identical requests must rasterize once, got %d", got)
	}
}

func TestRenderFrameCommitsCorrectedPan(t *testing.T) {
	t.Parallel()
	doc := &fakeDoc{pages: 2, failPage: -1}
	svc := newService(t, doc)
	if _, err := svc.Open("/tmp/a.pdf"); err != nil {
		t.Fatalf("open: %v", err)
	}

	panned := state
	panned.PanX = 99999
	frame, err := svc.RenderFrame(context.Background(), 0, panned, metrics, domain.ColorRGB)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if frame.State.PanX == panned.PanX {
		t.Fatalf("pan beyond the bitmap must be clamped, got %d", frame.State.PanX)
	}

	// A repeat request at the clamped position reflects the committed frame.
	again, err := svc.RenderFrame(context.Background(), 0, frame.State, metrics, domain.ColorRGB)
	if err != nil {
		t.Fatalf("render at corrected state: %v", err)
	}
	if again.State != frame.State {
		t.Fatalf("corrected state drifted: %+v vs %+v", again.State, frame.State)
	}
	if got := doc.renders.Load(); got != 1 {
		t.Fatalf("clamped repeat must not rasterize again, got %d", got)
	}
}

func TestRenderFrameFailureIsPageScoped(t *testing.T) {
	t.Parallel()
	doc := &fakeDoc{pages: 4, failPage: 1}
	svc := newService(t, doc)
	if _, err := svc.Open("/tmp/a.pdf"); err != nil {
		t.Fatalf("open: %v", err)
	}

	frame, err := svc.RenderFrame(context.Background(), 1, state, metrics, domain.ColorRGB)
	if err != nil {
		t.Fatalf("page failure must not unwind past the coordinator: %v", err)
	}
	if frame.Placeholder == "" || frame.Bitmap != nil {
		t.Fatalf("expected placeholder frame, got %+v", frame)
	}

	// Sibling pages are unaffected.
	frame, err = svc.RenderFrame(context.Background(), 2, state, metrics, domain.ColorRGB)
	if err != nil || frame.Bitmap == nil {
		t.Fatalf("sibling page should render: frame=%+v err=%v", frame, err)
	}
}

func TestOpenBumpsGenerationAndPurges(t *testing.T) {
	t.Parallel()
	doc := &fakeDoc{pages: 2, failPage: -1}
	svc := newService(t, doc)
	if _, err := svc.Open("/tmp/a.pdf"); err != nil {
		t.Fatalf("open: %v", err)
	}
	gen1 := svc.Generation()
	if _, err := svc.RenderFrame(context.Background(), 0, state, metrics, domain.ColorRGB); err != nil {
		t.Fatalf("render: %v", err)
	}

	if _, err := svc.Open("/tmp/a.pdf"); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if svc.Generation() == gen1 {
		t.Fatalf("reopen must bump the generation")
	}
	if _, err := svc.RenderFrame(context.Background(), 0, state, metrics, domain.ColorRGB); err != nil {
		t.Fatalf("render after reopen: %v", err)
	}
	if got := doc.renders.Load(); got != 2 {
		t.Fatalf("new generation must rasterize again, got %d renders", got)
	}
}

func TestRenderFrameRejectsOutOfRangePage(t *testing.T) {
	t.Parallel()
	doc := &fakeDoc{pages: 2, failPage: -1}
	svc := newService(t, doc)
	if _, err := svc.Open("/tmp/a.pdf"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.RenderFrame(context.Background(), 7, state, metrics, domain.ColorRGB); err == nil {
		t.Fatalf("out of range page must error")
	}
}

func TestCloseReleasesHandle(t *testing.T) {
	t.Parallel()
	doc := &fakeDoc{pages: 2, failPage: -1}
	svc := newService(t, doc)
	if _, err := svc.Open("/tmp/a.pdf"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !doc.closed {
		t.Fatalf("document handle must be closed with the session")
	}
	if _, err := svc.RenderFrame(context.Background(), 0, state, metrics, domain.ColorRGB); err == nil {
		t.Fatalf("render after close must error")
	}
}
