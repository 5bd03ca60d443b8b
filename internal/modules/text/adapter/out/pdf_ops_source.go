package out

import (
	"fmt"
	"os"

	"rsc.io/pdf"

	"bookshelf/internal/modules/text/domain"
	textout "bookshelf/internal/modules/text/port/out"
	apperrors "bookshelf/internal/platform/errors"
)

// PDFOpsSource reads positioned text operations with rsc.io/pdf.
type PDFOpsSource struct{}

func NewPDFOpsSource() textout.Source {
	return &PDFOpsSource{}
}

func (PDFOpsSource) Open(path string) (textout.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrOpenFailed, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrOpenFailed, err)
	}
	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrOpenFailed, err)
	}
	return &pdfDocument{file: f, reader: reader}, nil
}

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func (d *pdfDocument) PageCount() int { return d.reader.NumPage() }

func (d *pdfDocument) PageOps(pageIndex int) (ops []domain.Op, err error) {
	if pageIndex < 0 || pageIndex >= d.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range [0,%d)", pageIndex, d.reader.NumPage())
	}
	// rsc.io/pdf panics on some malformed content streams; treat that as
	// a page with no extractable text.
	defer func() {
		if r := recover(); r != nil {
			ops = nil
			err = fmt.Errorf("%w: content parse: %v", apperrors.ErrNoExtractableText, r)
		}
	}()

	page := d.reader.Page(pageIndex + 1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("%w: null page", apperrors.ErrNoExtractableText)
	}
	content := page.Content()
	ops = make([]domain.Op, 0, len(content.Text))
	for _, t := range content.Text {
		ops = append(ops, domain.Op{
			Text:     t.S,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	return ops, nil
}

func (d *pdfDocument) Close() error { return d.file.Close() }
