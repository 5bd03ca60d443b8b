package out

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/gen2brain/go-fitz"
	xdraw "golang.org/x/image/draw"

	"bookshelf/internal/modules/render/domain"
	renderout "bookshelf/internal/modules/render/port/out"
	apperrors "bookshelf/internal/platform/errors"
	"bookshelf/internal/platform/logging"
)

// FitzRasterizer opens documents with go-fitz (MuPDF).
type FitzRasterizer struct{}

func NewFitzRasterizer() renderout.Rasterizer {
	return &FitzRasterizer{}
}

func (FitzRasterizer) Open(path string) (renderout.Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrOpenFailed, path, err)
	}
	return &fitzDocument{doc: doc, pages: doc.NumPage()}, nil
}

// fitzDocument wraps a MuPDF handle. MuPDF contexts are not reentrant, so
// every call that touches the handle holds mu; there is one handle per
// viewing session.
type fitzDocument struct {
	mu    sync.Mutex
	doc   *fitz.Document
	pages int
}

func (d *fitzDocument) PageCount() int { return d.pages }

func (d *fitzDocument) PageSizePoints(pageIndex int) (float64, float64, error) {
	if pageIndex < 0 || pageIndex >= d.pages {
		return 0, 0, fmt.Errorf("page %d out of range [0,%d)", pageIndex, d.pages)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	bound, err := d.doc.Bound(pageIndex)
	if err != nil {
		return 0, 0, fmt.Errorf("page bound %d: %w", pageIndex, err)
	}
	w, h := float64(bound.Dx()), float64(bound.Dy())
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("page %d has degenerate bounds %vx%v", pageIndex, w, h)
	}
	return w, h, nil
}

// renderDPIBase is the PDF point resolution; target pixel width divided by
// the page width in points, times this, yields the rasterization DPI.
const renderDPIBase = 72.0

func (d *fitzDocument) RenderPage(ctx context.Context, req domain.RenderRequest) (*image.RGBA, error) {
	if req.PageIndex < 0 || req.PageIndex >= d.pages {
		return nil, fmt.Errorf("%w: page %d out of range [0,%d)", apperrors.ErrRasterizationFailed, req.PageIndex, d.pages)
	}
	if req.WidthPx < 1 || req.HeightPx < 1 {
		return nil, fmt.Errorf("%w: non-positive target %dx%d", apperrors.ErrRasterizationFailed, req.WidthPx, req.HeightPx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pageWPt, _, err := d.PageSizePoints(req.PageIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRasterizationFailed, err)
	}

	dpi := renderDPIBase * float64(req.WidthPx) / pageWPt
	d.mu.Lock()
	img, err := d.doc.ImageDPI(req.PageIndex, dpi)
	d.mu.Unlock()
	if err != nil {
		logging.Error("rasterize page", "page", req.PageIndex, "err", err)
		return nil, fmt.Errorf("%w: page %d: %v", apperrors.ErrRasterizationFailed, req.PageIndex, err)
	}

	out := scaleToExact(img, req.WidthPx, req.HeightPx)
	if req.Mode == domain.ColorGray {
		desaturate(out)
	}
	return out, nil
}

func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}

// scaleToExact resizes the rasterized page to the requested dimensions.
// DPI-based rendering lands within a pixel or two of the target; the cheap
// copy path handles the exact case.
func scaleToExact(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	if sb.Dx() == w && sb.Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}

func desaturate(img *image.RGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		// ITU-R BT.601 luma.
		y := (299*int(pix[i]) + 587*int(pix[i+1]) + 114*int(pix[i+2])) / 1000
		pix[i], pix[i+1], pix[i+2] = uint8(y), uint8(y), uint8(y)
	}
}
