package in

import (
	"context"

	"bookshelf/internal/modules/catalog/dto"
	catalogin "bookshelf/internal/modules/catalog/port/in"
)

type TUIHandler struct {
	usecase catalogin.Usecase
}

func NewTUIHandler(usecase catalogin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Scan(ctx context.Context, roots []dto.RootInput) (dto.ScanOutput, error) {
	return h.usecase.Scan(ctx, dto.ScanInput{Roots: roots})
}

func (h TUIHandler) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	return h.usecase.ListBooks(ctx)
}

func (h TUIHandler) OpenBook(ctx context.Context, bookID string) (dto.OpenBookOutput, error) {
	return h.usecase.OpenBook(ctx, bookID)
}

func (h TUIHandler) SaveProgress(ctx context.Context, input dto.SaveProgressInput) error {
	return h.usecase.SaveProgress(ctx, input)
}

func (h TUIHandler) ToggleFavorite(ctx context.Context, bookID string) (bool, error) {
	return h.usecase.ToggleFavorite(ctx, bookID)
}

func (h TUIHandler) AddBookmark(ctx context.Context, input dto.BookmarkInput) (dto.BookmarkOutput, error) {
	return h.usecase.AddBookmark(ctx, input)
}

func (h TUIHandler) ListBookmarks(ctx context.Context, bookID string) ([]dto.BookmarkOutput, error) {
	return h.usecase.ListBookmarks(ctx, bookID)
}

func (h TUIHandler) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	return h.usecase.DeleteBookmark(ctx, bookmarkID)
}

func (h TUIHandler) SaveNote(ctx context.Context, input dto.NoteInput) error {
	return h.usecase.SaveNote(ctx, input)
}

func (h TUIHandler) GetNote(ctx context.Context, bookID string, page int) (dto.NoteOutput, error) {
	return h.usecase.GetNote(ctx, bookID, page)
}

func (h TUIHandler) SavePrefs(ctx context.Context, input dto.PrefsInput) error {
	return h.usecase.SavePrefs(ctx, input)
}

func (h TUIHandler) LoadPrefs(ctx context.Context) (dto.PrefsOutput, error) {
	return h.usecase.LoadPrefs(ctx)
}
