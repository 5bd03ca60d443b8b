package out

import (
	"context"
	"image"

	"bookshelf/internal/modules/render/domain"
)

// Document is an open handle onto a paginated document. It is exclusively
// owned by one viewing session and must be closed when the session ends.
// Implementations backed by non-reentrant native libraries serialize calls
// internally.
type Document interface {
	PageCount() int
	PageSizePoints(pageIndex int) (w, h float64, err error)
	// RenderPage rasterizes one page region. The returned buffer dimensions
	// match the request exactly; the adapter performs any internal scaling.
	// The call is blocking and must run off the interactive loop.
	RenderPage(ctx context.Context, req domain.RenderRequest) (*image.RGBA, error)
	Close() error
}

// Rasterizer opens documents. Open failures are fatal to the viewing
// session and reported as apperrors.ErrOpenFailed.
type Rasterizer interface {
	Open(path string) (Document, error)
}
