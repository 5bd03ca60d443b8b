package out

import (
	"context"

	"bookshelf/internal/modules/catalog/domain"
)

// Store is the persistent catalog: books plus everything hanging off them.
type Store interface {
	UpsertBook(ctx context.Context, book domain.Book) error
	FindBook(ctx context.Context, id string) (domain.Book, error)
	FindBookByPath(ctx context.Context, path string) (domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	DeleteBook(ctx context.Context, id string) error
	SetFavorite(ctx context.Context, id string, favorite bool) error

	SaveProgress(ctx context.Context, progress domain.Progress) error
	FindProgress(ctx context.Context, bookID string) (domain.Progress, error)

	AddBookmark(ctx context.Context, bookmark domain.Bookmark) error
	ListBookmarks(ctx context.Context, bookID string) ([]domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error

	SaveNote(ctx context.Context, note domain.Note) error
	FindNote(ctx context.Context, bookID string, page int) (domain.Note, error)
	ListNotes(ctx context.Context, bookID string) ([]domain.Note, error)
	DeleteNote(ctx context.Context, bookID string, page int) error

	SavePrefs(ctx context.Context, prefs domain.Prefs) error
	LoadPrefs(ctx context.Context) (domain.Prefs, error)
}

// Scanner finds documents under the configured library roots.
type Scanner interface {
	Scan(ctx context.Context, roots []domain.Root) ([]domain.ScannedFile, error)
}
