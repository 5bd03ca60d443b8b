package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bookshelf/internal/modules/catalog/domain"
	apperrors "bookshelf/internal/platform/errors"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (g *seqID) New() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type fakeStore struct {
	books     map[string]domain.Book
	progress  map[string]domain.Progress
	bookmarks map[string]domain.Bookmark
	notes     map[string]domain.Note
	prefs     domain.Prefs
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:     map[string]domain.Book{},
		progress:  map[string]domain.Progress{},
		bookmarks: map[string]domain.Bookmark{},
		notes:     map[string]domain.Note{},
	}
}

func (s *fakeStore) UpsertBook(_ context.Context, book domain.Book) error {
	s.books[book.ID] = book
	return nil
}

func (s *fakeStore) FindBook(_ context.Context, id string) (domain.Book, error) {
	book, ok := s.books[id]
	if !ok {
		return domain.Book{}, apperrors.ErrNotFound
	}
	return book, nil
}

func (s *fakeStore) FindBookByPath(_ context.Context, path string) (domain.Book, error) {
	for _, book := range s.books {
		if book.Path == path {
			return book, nil
		}
	}
	return domain.Book{}, apperrors.ErrNotFound
}

func (s *fakeStore) ListBooks(_ context.Context) ([]domain.Book, error) {
	var books []domain.Book
	for _, book := range s.books {
		books = append(books, book)
	}
	return books, nil
}

func (s *fakeStore) DeleteBook(_ context.Context, id string) error {
	delete(s.books, id)
	return nil
}

func (s *fakeStore) SetFavorite(_ context.Context, id string, favorite bool) error {
	book, ok := s.books[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	book.Favorite = favorite
	s.books[id] = book
	return nil
}

func (s *fakeStore) SaveProgress(_ context.Context, p domain.Progress) error {
	s.progress[p.BookID] = p
	return nil
}

func (s *fakeStore) FindProgress(_ context.Context, bookID string) (domain.Progress, error) {
	p, ok := s.progress[bookID]
	if !ok {
		return domain.Progress{}, apperrors.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) AddBookmark(_ context.Context, b domain.Bookmark) error {
	s.bookmarks[b.ID] = b
	return nil
}

func (s *fakeStore) ListBookmarks(_ context.Context, bookID string) ([]domain.Bookmark, error) {
	var out []domain.Bookmark
	for _, b := range s.bookmarks {
		if b.BookID == bookID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) DeleteBookmark(_ context.Context, id string) error {
	if _, ok := s.bookmarks[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.bookmarks, id)
	return nil
}

func noteKey(bookID string, page int) string { return fmt.Sprintf("%s:%d", bookID, page) }

func (s *fakeStore) SaveNote(_ context.Context, n domain.Note) error {
	s.notes[noteKey(n.BookID, n.Page)] = n
	return nil
}

func (s *fakeStore) FindNote(_ context.Context, bookID string, page int) (domain.Note, error) {
	n, ok := s.notes[noteKey(bookID, page)]
	if !ok {
		return domain.Note{}, apperrors.ErrNotFound
	}
	return n, nil
}

func (s *fakeStore) ListNotes(_ context.Context, bookID string) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range s.notes {
		if n.BookID == bookID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeStore) DeleteNote(_ context.Context, bookID string, page int) error {
	delete(s.notes, noteKey(bookID, page))
	return nil
}

func (s *fakeStore) SavePrefs(_ context.Context, p domain.Prefs) error {
	s.prefs = p
	return nil
}

func (s *fakeStore) LoadPrefs(_ context.Context) (domain.Prefs, error) {
	return s.prefs, nil
}

type fakeScanner struct {
	files []domain.ScannedFile
}

func (f *fakeScanner) Scan(context.Context, []domain.Root) ([]domain.ScannedFile, error) {
	return f.files, nil
}

func newService(store *fakeStore, scanner *fakeScanner) *CatalogService {
	return NewCatalogService(fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}, &seqID{}, store, scanner)
}

func TestScanAddsUpdatesAndRemoves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newFakeStore()
	scanner := &fakeScanner{files: []domain.ScannedFile{
		{Path: "/books/alpha.pdf", SizeBytes: 100},
		{Path: "/books/beta.pdf", SizeBytes: 200},
	}}
	svc := newService(store, scanner)

	result, err := svc.Scan(ctx, []domain.Root{{Path: "/books", Recursive: true}})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if result.Added != 2 || result.Removed != 0 {
		t.Fatalf("first scan: %+v", result)
	}

	// beta grows, alpha vanishes.
	scanner.files = []domain.ScannedFile{{Path: "/books/beta.pdf", SizeBytes: 250}}
	result, err = svc.Scan(ctx, nil)
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if result.Added != 0 || result.Updated != 1 || result.Removed != 1 {
		t.Fatalf("rescan: %+v", result)
	}

	books, _ := svc.ListBooks(ctx)
	if len(books) != 1 || books[0].Path != "/books/beta.pdf" || books[0].SizeBytes != 250 {
		t.Fatalf("catalog after rescan: %+v", books)
	}
}

func TestScanKeepsIDAcrossRescans(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newFakeStore()
	scanner := &fakeScanner{files: []domain.ScannedFile{{Path: "/books/alpha.pdf", SizeBytes: 100}}}
	svc := newService(store, scanner)

	if _, err := svc.Scan(ctx, nil); err != nil {
		t.Fatalf("scan: %v", err)
	}
	first, _ := svc.ListBooks(ctx)
	if _, err := svc.Scan(ctx, nil); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	second, _ := svc.ListBooks(ctx)
	if first[0].ID != second[0].ID {
		t.Fatalf("book id changed across rescans: %s vs %s", first[0].ID, second[0].ID)
	}
}

func TestOpenBookWithoutProgressStartsAtZero(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newFakeStore()
	scanner := &fakeScanner{files: []domain.ScannedFile{{Path: "/books/alpha.pdf", SizeBytes: 100}}}
	svc := newService(store, scanner)
	if _, err := svc.Scan(ctx, nil); err != nil {
		t.Fatalf("scan: %v", err)
	}
	books, _ := svc.ListBooks(ctx)

	book, progress, err := svc.OpenBook(ctx, books[0].ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if progress.Page != 0 || progress.BookID != book.ID {
		t.Fatalf("unexpected fresh progress: %+v", progress)
	}
	if book.LastOpenedAt.IsZero() {
		t.Error("open did not record last-opened time")
	}
}

func TestSaveAndReopenProgress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newFakeStore()
	scanner := &fakeScanner{files: []domain.ScannedFile{{Path: "/books/alpha.pdf", SizeBytes: 100}}}
	svc := newService(store, scanner)
	if _, err := svc.Scan(ctx, nil); err != nil {
		t.Fatalf("scan: %v", err)
	}
	books, _ := svc.ListBooks(ctx)
	id := books[0].ID

	err := svc.SaveProgress(ctx, domain.Progress{BookID: id, Page: 41, PageCount: 100, ZoomPercent: 150, Mode: "image"})
	if err != nil {
		t.Fatalf("save progress: %v", err)
	}
	_, progress, err := svc.OpenBook(ctx, id)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if progress.Page != 41 || progress.ZoomPercent != 150 || progress.Mode != "image" {
		t.Fatalf("progress not restored: %+v", progress)
	}

	if err := svc.SaveProgress(ctx, domain.Progress{BookID: id, Page: 100, PageCount: 100}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("out-of-range progress accepted: %v", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newFakeStore()
	scanner := &fakeScanner{files: []domain.ScannedFile{{Path: "/books/alpha.pdf", SizeBytes: 100}}}
	svc := newService(store, scanner)
	if _, err := svc.Scan(ctx, nil); err != nil {
		t.Fatalf("scan: %v", err)
	}
	books, _ := svc.ListBooks(ctx)

	on, err := svc.ToggleFavorite(ctx, books[0].ID)
	if err != nil || !on {
		t.Fatalf("first toggle: %v %v", on, err)
	}
	off, err := svc.ToggleFavorite(ctx, books[0].ID)
	if err != nil || off {
		t.Fatalf("second toggle: %v %v", off, err)
	}
	if _, err := svc.ToggleFavorite(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("toggle on missing book: %v", err)
	}
}

func TestBookmarkDefaultLabel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newService(newFakeStore(), &fakeScanner{})
	bookmark, err := svc.AddBookmark(ctx, "b1", 9, "  ")
	if err != nil {
		t.Fatalf("add bookmark: %v", err)
	}
	if bookmark.Label != "page 10" {
		t.Fatalf("default label = %q", bookmark.Label)
	}
}

func TestSaveNoteEmptyBodyDeletes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newFakeStore()
	svc := newService(store, &fakeScanner{})
	if err := svc.SaveNote(ctx, "b1", 3, "remember this"); err != nil {
		t.Fatalf("save note: %v", err)
	}
	note, err := svc.GetNote(ctx, "b1", 3)
	if err != nil || note.Body != "remember this" {
		t.Fatalf("get note: %+v %v", note, err)
	}
	if err := svc.SaveNote(ctx, "b1", 3, "   "); err != nil {
		t.Fatalf("clear note: %v", err)
	}
	if _, err := svc.GetNote(ctx, "b1", 3); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("cleared note still present: %v", err)
	}
}
