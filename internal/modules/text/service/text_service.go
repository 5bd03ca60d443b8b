package service

import (
	"fmt"
	"sync"

	"bookshelf/internal/modules/text/domain"
	textout "bookshelf/internal/modules/text/port/out"
	apperrors "bookshelf/internal/platform/errors"
)

// Page is the structured text of a single page, ready for display.
type Page struct {
	RawLines   []string
	Paragraphs []string
	// Empty is set when the page yielded no extractable text. Reason
	// carries a short human-readable explanation.
	Empty  bool
	Reason string
}

type pageKey struct {
	Generation uint64
	Page       int
}

// TextService opens a document through a Source and serves structured
// pages. Structuring results are cached per (generation, page) so mode
// switches in the reader do not re-parse content streams.
type TextService struct {
	source textout.Source
	opts   domain.Options

	mu         sync.Mutex
	doc        textout.Document
	path       string
	generation uint64
	pages      map[pageKey]*Page
	furniture  *domain.Furniture
	tokenized  map[int][]string
}

func NewTextService(source textout.Source, opts domain.Options) *TextService {
	return &TextService{
		source: source,
		opts:   opts,
		pages:  make(map[pageKey]*Page),
	}
}

// Open replaces the current document. Cached pages from the previous
// document stay keyed under the old generation and are dropped.
func (s *TextService) Open(path string) error {
	doc, err := s.source.Open(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil {
		_ = s.doc.Close()
	}
	s.doc = doc
	s.path = path
	s.generation++
	s.pages = make(map[pageKey]*Page)
	s.furniture = nil
	s.tokenized = nil
	return nil
}

func (s *TextService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	err := s.doc.Close()
	s.doc = nil
	s.pages = make(map[pageKey]*Page)
	s.furniture = nil
	s.tokenized = nil
	return err
}

func (s *TextService) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0
	}
	return s.doc.PageCount()
}

// Page returns the structured text of pageIndex. A page without
// extractable text is not an error: it comes back with Empty set.
func (s *TextService) Page(pageIndex int) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, fmt.Errorf("%w: no document open", apperrors.ErrInvalidInput)
	}
	if pageIndex < 0 || pageIndex >= s.doc.PageCount() {
		return nil, fmt.Errorf("%w: page %d out of range [0,%d)", apperrors.ErrInvalidInput, pageIndex, s.doc.PageCount())
	}
	key := pageKey{Generation: s.generation, Page: pageIndex}
	if p, ok := s.pages[key]; ok {
		return p, nil
	}
	p := s.buildPageLocked(pageIndex)
	s.pages[key] = p
	return p, nil
}

// Wrapped returns pageIndex reflowed and wrapped to width columns.
// Wrapping is done per call because width follows the terminal.
func (s *TextService) Wrapped(pageIndex, width int) ([]string, error) {
	p, err := s.Page(pageIndex)
	if err != nil {
		return nil, err
	}
	if p.Empty {
		return nil, nil
	}
	return domain.WrapParagraphs(p.Paragraphs, width), nil
}

func (s *TextService) buildPageLocked(pageIndex int) *Page {
	lines := s.tokenizedPageLocked(pageIndex)
	if len(lines) == 0 {
		return &Page{Empty: true, Reason: "no extractable text"}
	}
	stripped := s.furnitureLocked().Strip(lines)
	return &Page{
		RawLines:   lines,
		Paragraphs: domain.Reflow(stripped),
	}
}

func (s *TextService) tokenizedPageLocked(pageIndex int) []string {
	if s.tokenized == nil {
		s.tokenized = make(map[int][]string)
	}
	if lines, ok := s.tokenized[pageIndex]; ok {
		return lines
	}
	var lines []string
	if ops, err := s.doc.PageOps(pageIndex); err == nil {
		lines = domain.Tokenize(ops, s.opts)
	}
	s.tokenized[pageIndex] = lines
	return lines
}

// furnitureLocked samples the leading pages once per document and reuses
// the result for every page after that.
func (s *TextService) furnitureLocked() domain.Furniture {
	if s.furniture != nil {
		return *s.furniture
	}
	depth := s.opts.FurnitureSampleDepth
	if depth < 2 {
		depth = 5
	}
	n := s.doc.PageCount()
	if n > depth {
		n = depth
	}
	sampled := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		sampled = append(sampled, s.tokenizedPageLocked(i))
	}
	f := domain.DetectFurniture(sampled, s.opts)
	s.furniture = &f
	return f
}
