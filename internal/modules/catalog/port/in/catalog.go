package in

import (
	"context"

	"bookshelf/internal/modules/catalog/dto"
)

type Usecase interface {
	Scan(ctx context.Context, input dto.ScanInput) (dto.ScanOutput, error)
	ListBooks(ctx context.Context) ([]dto.BookOutput, error)
	OpenBook(ctx context.Context, bookID string) (dto.OpenBookOutput, error)
	SaveProgress(ctx context.Context, input dto.SaveProgressInput) error
	ToggleFavorite(ctx context.Context, bookID string) (bool, error)

	AddBookmark(ctx context.Context, input dto.BookmarkInput) (dto.BookmarkOutput, error)
	ListBookmarks(ctx context.Context, bookID string) ([]dto.BookmarkOutput, error)
	DeleteBookmark(ctx context.Context, bookmarkID string) error

	SaveNote(ctx context.Context, input dto.NoteInput) error
	GetNote(ctx context.Context, bookID string, page int) (dto.NoteOutput, error)
	ListNotes(ctx context.Context, bookID string) ([]dto.NoteOutput, error)

	SavePrefs(ctx context.Context, input dto.PrefsInput) error
	LoadPrefs(ctx context.Context) (dto.PrefsOutput, error)
}
