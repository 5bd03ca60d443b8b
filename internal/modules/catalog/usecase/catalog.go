package usecase

import (
	"context"
	"errors"

	"bookshelf/internal/modules/catalog/domain"
	"bookshelf/internal/modules/catalog/dto"
	catalogin "bookshelf/internal/modules/catalog/port/in"
	"bookshelf/internal/modules/catalog/service"
	apperrors "bookshelf/internal/platform/errors"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Scan(ctx context.Context, input dto.ScanInput) (dto.ScanOutput, error) {
	roots := make([]domain.Root, 0, len(input.Roots))
	for _, r := range input.Roots {
		roots = append(roots, domain.Root{Path: r.Path, Recursive: r.Recursive})
	}
	result, err := i.svc.Scan(ctx, roots)
	if err != nil {
		return dto.ScanOutput{}, err
	}
	return dto.ScanOutput{
		Found:   result.Found,
		Added:   result.Added,
		Updated: result.Updated,
		Removed: result.Removed,
	}, nil
}

func (i *Interactor) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	books, err := i.svc.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookOutput, 0, len(books))
	for _, book := range books {
		out = append(out, toBookOutput(book, i.progressPct(ctx, book.ID)))
	}
	return out, nil
}

func (i *Interactor) progressPct(ctx context.Context, bookID string) float64 {
	progress, err := i.svc.GetProgress(ctx, bookID)
	if err != nil {
		return 0
	}
	return progress.Percent()
}

func (i *Interactor) OpenBook(ctx context.Context, bookID string) (dto.OpenBookOutput, error) {
	book, progress, err := i.svc.OpenBook(ctx, bookID)
	if err != nil {
		return dto.OpenBookOutput{}, err
	}
	return dto.OpenBookOutput{
		Book:        toBookOutput(book, progress.Percent()),
		Page:        progress.Page,
		PageCount:   progress.PageCount,
		ZoomPercent: progress.ZoomPercent,
		Mode:        progress.Mode,
	}, nil
}

func (i *Interactor) SaveProgress(ctx context.Context, input dto.SaveProgressInput) error {
	return i.svc.SaveProgress(ctx, domain.Progress{
		BookID:      input.BookID,
		Page:        input.Page,
		PageCount:   input.PageCount,
		ZoomPercent: input.ZoomPercent,
		Mode:        input.Mode,
	})
}

func (i *Interactor) ToggleFavorite(ctx context.Context, bookID string) (bool, error) {
	return i.svc.ToggleFavorite(ctx, bookID)
}

func (i *Interactor) AddBookmark(ctx context.Context, input dto.BookmarkInput) (dto.BookmarkOutput, error) {
	bookmark, err := i.svc.AddBookmark(ctx, input.BookID, input.Page, input.Label)
	if err != nil {
		return dto.BookmarkOutput{}, err
	}
	return dto.BookmarkOutput{ID: bookmark.ID, Page: bookmark.Page, Label: bookmark.Label}, nil
}

func (i *Interactor) ListBookmarks(ctx context.Context, bookID string) ([]dto.BookmarkOutput, error) {
	bookmarks, err := i.svc.ListBookmarks(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookmarkOutput, 0, len(bookmarks))
	for _, b := range bookmarks {
		out = append(out, dto.BookmarkOutput{ID: b.ID, Page: b.Page, Label: b.Label})
	}
	return out, nil
}

func (i *Interactor) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	return i.svc.DeleteBookmark(ctx, bookmarkID)
}

func (i *Interactor) SaveNote(ctx context.Context, input dto.NoteInput) error {
	return i.svc.SaveNote(ctx, input.BookID, input.Page, input.Body)
}

func (i *Interactor) GetNote(ctx context.Context, bookID string, page int) (dto.NoteOutput, error) {
	note, err := i.svc.GetNote(ctx, bookID, page)
	if errors.Is(err, apperrors.ErrNotFound) {
		return dto.NoteOutput{Page: page}, nil
	}
	if err != nil {
		return dto.NoteOutput{}, err
	}
	return dto.NoteOutput{Page: note.Page, Body: note.Body, UpdatedAt: note.UpdatedAt}, nil
}

func (i *Interactor) ListNotes(ctx context.Context, bookID string) ([]dto.NoteOutput, error) {
	notes, err := i.svc.ListNotes(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteOutput, 0, len(notes))
	for _, n := range notes {
		out = append(out, dto.NoteOutput{Page: n.Page, Body: n.Body, UpdatedAt: n.UpdatedAt})
	}
	return out, nil
}

func (i *Interactor) SavePrefs(ctx context.Context, input dto.PrefsInput) error {
	return i.svc.SavePrefs(ctx, domain.Prefs{
		Mode:              input.Mode,
		ZoomPercent:       input.ZoomPercent,
		MaxTransmitPixels: input.MaxTransmitPixels,
	})
}

func (i *Interactor) LoadPrefs(ctx context.Context) (dto.PrefsOutput, error) {
	prefs, err := i.svc.LoadPrefs(ctx)
	if err != nil {
		return dto.PrefsOutput{}, err
	}
	return dto.PrefsOutput{
		Mode:              prefs.Mode,
		ZoomPercent:       prefs.ZoomPercent,
		MaxTransmitPixels: prefs.MaxTransmitPixels,
	}, nil
}

func toBookOutput(book domain.Book, pct float64) dto.BookOutput {
	return dto.BookOutput{
		ID:           book.ID,
		Path:         book.Path,
		Title:        book.Title,
		SizeBytes:    book.SizeBytes,
		Favorite:     book.Favorite,
		LastOpenedAt: book.LastOpenedAt,
		ProgressPct:  pct,
	}
}
