package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/modules/catalog/domain"
	catalogout "bookshelf/internal/modules/catalog/port/out"
	"bookshelf/internal/platform/clock"
	apperrors "bookshelf/internal/platform/errors"
	"bookshelf/internal/platform/id"
	"bookshelf/internal/platform/logging"
)

type CatalogService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   catalogout.Store
	scanner catalogout.Scanner
}

func NewCatalogService(clock clock.Clock, idGen id.Generator, store catalogout.Store, scanner catalogout.Scanner) *CatalogService {
	return &CatalogService{clock: clock, idGen: idGen, store: store, scanner: scanner}
}

// ScanResult summarizes one reconciliation pass over the library roots.
type ScanResult struct {
	Found   int
	Added   int
	Updated int
	Removed int
}

// Scan walks the roots and reconciles the catalog: new files become books,
// changed files are refreshed, and books whose file vanished are removed.
func (s *CatalogService) Scan(ctx context.Context, roots []domain.Root) (ScanResult, error) {
	files, err := s.scanner.Scan(ctx, roots)
	if err != nil {
		return ScanResult{}, err
	}

	result := ScanResult{Found: len(files)}
	now := s.clock.Now()
	onDisk := make(map[string]bool, len(files))

	for _, file := range files {
		onDisk[file.Path] = true
		existing, err := s.store.FindBookByPath(ctx, file.Path)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			book := domain.Book{
				ID:        s.idGen.New(),
				Path:      file.Path,
				Title:     domain.TitleFromPath(file.Path),
				SizeBytes: file.SizeBytes,
				AddedAt:   now,
				UpdatedAt: now,
			}
			if err := book.Validate(); err != nil {
				logging.Debug("scan skip invalid file", "path", file.Path, "err", err)
				continue
			}
			if err := s.store.UpsertBook(ctx, book); err != nil {
				return result, err
			}
			result.Added++
		case err != nil:
			return result, err
		case existing.SizeBytes != file.SizeBytes:
			existing.SizeBytes = file.SizeBytes
			existing.UpdatedAt = now
			if err := s.store.UpsertBook(ctx, existing); err != nil {
				return result, err
			}
			result.Updated++
		}
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return result, err
	}
	for _, book := range books {
		if !onDisk[book.Path] {
			if err := s.store.DeleteBook(ctx, book.ID); err != nil {
				return result, err
			}
			result.Removed++
		}
	}
	return result, nil
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.store.ListBooks(ctx)
}

func (s *CatalogService) GetBook(ctx context.Context, bookID string) (domain.Book, error) {
	return s.store.FindBook(ctx, bookID)
}

// OpenBook records the open and returns the book with its saved progress.
// A book without saved progress starts at page zero.
func (s *CatalogService) OpenBook(ctx context.Context, bookID string) (domain.Book, domain.Progress, error) {
	book, err := s.store.FindBook(ctx, bookID)
	if err != nil {
		return domain.Book{}, domain.Progress{}, err
	}
	book.LastOpenedAt = s.clock.Now()
	if err := s.store.UpsertBook(ctx, book); err != nil {
		return domain.Book{}, domain.Progress{}, err
	}
	progress, err := s.store.FindProgress(ctx, bookID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return book, domain.Progress{BookID: bookID}, nil
	}
	if err != nil {
		return domain.Book{}, domain.Progress{}, err
	}
	return book, progress, nil
}

func (s *CatalogService) GetProgress(ctx context.Context, bookID string) (domain.Progress, error) {
	return s.store.FindProgress(ctx, bookID)
}

func (s *CatalogService) SaveProgress(ctx context.Context, progress domain.Progress) error {
	progress.UpdatedAt = s.clock.Now()
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.store.SaveProgress(ctx, progress)
}

func (s *CatalogService) ToggleFavorite(ctx context.Context, bookID string) (bool, error) {
	book, err := s.store.FindBook(ctx, bookID)
	if err != nil {
		return false, err
	}
	if err := s.store.SetFavorite(ctx, bookID, !book.Favorite); err != nil {
		return false, err
	}
	return !book.Favorite, nil
}

func (s *CatalogService) AddBookmark(ctx context.Context, bookID string, page int, label string) (domain.Bookmark, error) {
	if strings.TrimSpace(label) == "" {
		label = fmt.Sprintf("page %d", page+1)
	}
	bookmark := domain.Bookmark{
		ID:        s.idGen.New(),
		BookID:    bookID,
		Page:      page,
		Label:     label,
		CreatedAt: s.clock.Now(),
	}
	if err := bookmark.Validate(); err != nil {
		return domain.Bookmark{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.store.AddBookmark(ctx, bookmark); err != nil {
		return domain.Bookmark{}, err
	}
	return bookmark, nil
}

func (s *CatalogService) ListBookmarks(ctx context.Context, bookID string) ([]domain.Bookmark, error) {
	return s.store.ListBookmarks(ctx, bookID)
}

func (s *CatalogService) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	return s.store.DeleteBookmark(ctx, bookmarkID)
}

// SaveNote stores the markdown note for one page; an empty body deletes it.
func (s *CatalogService) SaveNote(ctx context.Context, bookID string, page int, body string) error {
	if strings.TrimSpace(body) == "" {
		return s.store.DeleteNote(ctx, bookID, page)
	}
	note := domain.Note{BookID: bookID, Page: page, Body: body, UpdatedAt: s.clock.Now()}
	if err := note.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.store.SaveNote(ctx, note)
}

func (s *CatalogService) GetNote(ctx context.Context, bookID string, page int) (domain.Note, error) {
	return s.store.FindNote(ctx, bookID, page)
}

func (s *CatalogService) ListNotes(ctx context.Context, bookID string) ([]domain.Note, error) {
	return s.store.ListNotes(ctx, bookID)
}

func (s *CatalogService) SavePrefs(ctx context.Context, prefs domain.Prefs) error {
	return s.store.SavePrefs(ctx, prefs)
}

func (s *CatalogService) LoadPrefs(ctx context.Context) (domain.Prefs, error) {
	return s.store.LoadPrefs(ctx)
}
