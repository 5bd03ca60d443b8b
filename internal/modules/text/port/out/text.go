package out

import "bookshelf/internal/modules/text/domain"

// Document yields ordered positioned text-draw operations per page.
type Document interface {
	PageCount() int
	PageOps(pageIndex int) ([]domain.Op, error)
	Close() error
}

// Source opens documents for text extraction. Independent of the
// rasterization handle; both follow the same session lifecycle.
type Source interface {
	Open(path string) (Document, error)
}
