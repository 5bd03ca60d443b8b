package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"bookshelf/internal/modules/render/cache"
	"bookshelf/internal/modules/render/domain"
	renderout "bookshelf/internal/modules/render/port/out"
	apperrors "bookshelf/internal/platform/errors"
	"bookshelf/internal/platform/logging"
)

// Frame is one produced image frame. Bitmap is a borrowed view owned by
// the page cache; consumers must not retain it past the frame.
type Frame struct {
	Bitmap    *cache.Bitmap
	Placement domain.PlacementGeometry
	State     domain.ViewportState
	Page      int

	// Placeholder is set instead of Bitmap when the page could not be
	// rasterized. Page-scoped: sibling pages stay renderable.
	Placeholder string
}

// RenderService coordinates the image pipeline for one viewing session:
// document handle ownership, the generation counter, the bitmap cache, and
// the viewport math. It holds exactly one open document at a time.
type RenderService struct {
	rasterizer renderout.Rasterizer
	cache      *cache.PageCache
	limits     domain.Limits

	mu         sync.Mutex
	doc        renderout.Document
	path       string
	generation uint64
	dirty      domain.DirtyTracker
	retained   Frame
}

func NewRenderService(rasterizer renderout.Rasterizer, pageCache *cache.PageCache, limits domain.Limits) *RenderService {
	return &RenderService{rasterizer: rasterizer, cache: pageCache, limits: limits}
}

// Open starts a viewing session for path, closing any previous session.
// Every open bumps the generation counter so stale cache entries can never
// satisfy requests against the new handle.
func (s *RenderService) Open(path string) (pageCount int, err error) {
	doc, err := s.rasterizer.Open(path)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	old := s.doc
	s.doc = doc
	s.path = path
	s.generation++
	s.dirty.Invalidate()
	s.retained = Frame{}
	s.mu.Unlock()
	s.cache.Purge()
	if old != nil {
		_ = old.Close()
	}
	logging.Debug("render session open", "path", path, "pages", doc.PageCount())
	return doc.PageCount(), nil
}

// Close ends the viewing session and releases the document handle.
func (s *RenderService) Close() error {
	s.mu.Lock()
	doc := s.doc
	s.doc = nil
	s.path = ""
	s.dirty.Invalidate()
	s.retained = Frame{}
	s.mu.Unlock()
	s.cache.Purge()
	if doc == nil {
		return nil
	}
	return doc.Close()
}

// Reload bumps the generation without reopening, invalidating all cached
// bitmaps and text pages keyed to the old generation.
func (s *RenderService) Reload() (uint64, error) {
	s.mu.Lock()
	path := s.path
	s.mu.Unlock()
	if path == "" {
		return 0, fmt.Errorf("no open document")
	}
	if _, err := s.Open(path); err != nil {
		return 0, err
	}
	return s.Generation(), nil
}

func (s *RenderService) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *RenderService) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0
	}
	return s.doc.PageCount()
}

// PageSizePoints reports the intrinsic page size. A failure falls back to a
// square page so viewport math stays defined.
func (s *RenderService) PageSizePoints(page int) (float64, float64) {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()
	if doc == nil {
		return 1, 1
	}
	w, h, err := doc.PageSizePoints(page)
	if err != nil {
		return 1, 1
	}
	return w, h
}

// RenderFrame produces the frame for (page, state) under the given cell
// metrics. Blocking: rasterization may run here on a cache miss, so callers
// dispatch this off the interactive loop. Rasterization failures are
// converted to a placeholder frame and never propagate further.
func (s *RenderService) RenderFrame(ctx context.Context, page int, state domain.ViewportState, m domain.Metrics, mode domain.ColorMode) (Frame, error) {
	s.mu.Lock()
	doc := s.doc
	gen := s.generation
	s.mu.Unlock()
	if doc == nil {
		return Frame{}, fmt.Errorf("no open document")
	}
	if page < 0 || page >= doc.PageCount() {
		return Frame{}, fmt.Errorf("%w: page %d", apperrors.ErrInvalidInput, page)
	}

	// Clean means the retained frame already reflects this exact state:
	// nothing is re-rendered, not even a cache lookup.
	cur := domain.FrameStamp{Page: page, Mode: mode.String(), State: state, Generation: gen}
	s.mu.Lock()
	if !s.dirty.Dirty(cur) && s.retained.Bitmap != nil {
		frame := s.retained
		s.mu.Unlock()
		return frame, nil
	}
	reason := s.dirty.Reason()
	s.mu.Unlock()
	logging.Debug("render frame", "page", page, "reason", reason)

	pageW, pageH := s.PageSizePoints(page)
	req := domain.RequestFor(page, state, pageW, pageH, m, s.limits, mode)
	key := domain.CacheKey{Generation: gen, Request: req}

	bmp, err := s.cache.GetOrRender(key, func() (*image.RGBA, error) {
		return doc.RenderPage(ctx, req)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrRasterizationFailed) {
			logging.Error("render frame placeholder", "page", page, "err", err)
			return Frame{Page: page, State: state, Placeholder: err.Error()}, nil
		}
		return Frame{}, err
	}

	placement, corrected := domain.Placement(state, bmp.Img.Bounds().Dx(), bmp.Img.Bounds().Dy(), m, s.limits)
	frame := Frame{Bitmap: bmp, Placement: placement, State: corrected, Page: page}

	// Commit the corrected state: a repeat request at the clamped position
	// is clean, a request at the rejected position re-clamps.
	s.mu.Lock()
	s.dirty.Commit(domain.FrameStamp{Page: page, Mode: mode.String(), State: corrected, Generation: gen})
	s.retained = frame
	s.mu.Unlock()
	return frame, nil
}
