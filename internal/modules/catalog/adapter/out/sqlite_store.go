package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bookshelf/internal/modules/catalog/domain"
	catalogout "bookshelf/internal/modules/catalog/port/out"
	apperrors "bookshelf/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

var _ catalogout.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
PRAGMA foreign_keys = ON;
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  path TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  favorite INTEGER NOT NULL DEFAULT 0,
  added_at TEXT NOT NULL,
  last_opened_at TEXT NOT NULL DEFAULT '',
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS book_progress (
  book_id TEXT PRIMARY KEY REFERENCES books(id) ON DELETE CASCADE,
  page INTEGER NOT NULL,
  page_count INTEGER NOT NULL,
  zoom_percent INTEGER NOT NULL,
  mode TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS bookmarks (
  id TEXT PRIMARY KEY,
  book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
  page INTEGER NOT NULL,
  label TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS notes (
  book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
  page INTEGER NOT NULL,
  body TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (book_id, page)
);
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) UpsertBook(ctx context.Context, book domain.Book) error {
	const stmt = `
INSERT INTO books (id, path, title, size_bytes, favorite, added_at, last_opened_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  path=excluded.path,
  title=excluded.title,
  size_bytes=excluded.size_bytes,
  favorite=excluded.favorite,
  last_opened_at=excluded.last_opened_at,
  updated_at=excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		book.ID,
		book.Path,
		book.Title,
		book.SizeBytes,
		boolToInt(book.Favorite),
		formatTime(book.AddedAt),
		formatTime(book.LastOpenedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert book: %w", err)
	}
	return nil
}

const bookColumns = `id, path, title, size_bytes, favorite, added_at, last_opened_at, updated_at`

func (s *SQLiteStore) FindBook(ctx context.Context, id string) (domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	return scanBook(row)
}

func (s *SQLiteStore) FindBookByPath(ctx context.Context, path string) (domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE path = ?`, path)
	return scanBook(row)
}

func (s *SQLiteStore) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func (s *SQLiteStore) DeleteBook(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE books SET favorite = ? WHERE id = ?`, boolToInt(favorite), id)
	if err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: book %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) SaveProgress(ctx context.Context, progress domain.Progress) error {
	const stmt = `
INSERT INTO book_progress (book_id, page, page_count, zoom_percent, mode, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(book_id) DO UPDATE SET
  page=excluded.page,
  page_count=excluded.page_count,
  zoom_percent=excluded.zoom_percent,
  mode=excluded.mode,
  updated_at=excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		progress.BookID,
		progress.Page,
		progress.PageCount,
		progress.ZoomPercent,
		progress.Mode,
		formatTime(progress.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindProgress(ctx context.Context, bookID string) (domain.Progress, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT book_id, page, page_count, zoom_percent, mode, updated_at FROM book_progress WHERE book_id = ?`, bookID)
	var p domain.Progress
	var updated string
	err := row.Scan(&p.BookID, &p.Page, &p.PageCount, &p.ZoomPercent, &p.Mode, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Progress{}, fmt.Errorf("%w: progress for %s", apperrors.ErrNotFound, bookID)
	}
	if err != nil {
		return domain.Progress{}, fmt.Errorf("find progress: %w", err)
	}
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

func (s *SQLiteStore) AddBookmark(ctx context.Context, bookmark domain.Bookmark) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (id, book_id, page, label, created_at) VALUES (?, ?, ?, ?, ?)`,
		bookmark.ID, bookmark.BookID, bookmark.Page, bookmark.Label, formatTime(bookmark.CreatedAt))
	if err != nil {
		return fmt.Errorf("add bookmark: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListBookmarks(ctx context.Context, bookID string) ([]domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, book_id, page, label, created_at FROM bookmarks WHERE book_id = ? ORDER BY page, created_at`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		var created string
		if err := rows.Scan(&b.ID, &b.BookID, &b.Page, &b.Label, &created); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		b.CreatedAt = parseTime(created)
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (s *SQLiteStore) DeleteBookmark(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: bookmark %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) SaveNote(ctx context.Context, note domain.Note) error {
	const stmt = `
INSERT INTO notes (book_id, page, body, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(book_id, page) DO UPDATE SET
  body=excluded.body,
  updated_at=excluded.updated_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, note.BookID, note.Page, note.Body, formatTime(note.UpdatedAt)); err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindNote(ctx context.Context, bookID string, page int) (domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT book_id, page, body, updated_at FROM notes WHERE book_id = ? AND page = ?`, bookID, page)
	var n domain.Note
	var updated string
	err := row.Scan(&n.BookID, &n.Page, &n.Body, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Note{}, fmt.Errorf("%w: note for %s page %d", apperrors.ErrNotFound, bookID, page)
	}
	if err != nil {
		return domain.Note{}, fmt.Errorf("find note: %w", err)
	}
	n.UpdatedAt = parseTime(updated)
	return n, nil
}

func (s *SQLiteStore) ListNotes(ctx context.Context, bookID string) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT book_id, page, body, updated_at FROM notes WHERE book_id = ? ORDER BY page`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		var updated string
		if err := rows.Scan(&n.BookID, &n.Page, &n.Body, &updated); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.UpdatedAt = parseTime(updated)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, bookID string, page int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE book_id = ? AND page = ?`, bookID, page); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SavePrefs(ctx context.Context, prefs domain.Prefs) error {
	const stmt = `
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value;
`
	pairs := map[string]string{
		"viewer.mode":                prefs.Mode,
		"viewer.zoom_percent":        strconv.Itoa(prefs.ZoomPercent),
		"viewer.max_transmit_pixels": strconv.Itoa(prefs.MaxTransmitPixels),
	}
	for key, value := range pairs {
		if _, err := s.db.ExecContext(ctx, stmt, key, value); err != nil {
			return fmt.Errorf("save pref %s: %w", key, err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadPrefs(ctx context.Context) (domain.Prefs, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings WHERE key LIKE 'viewer.%'`)
	if err != nil {
		return domain.Prefs{}, fmt.Errorf("load prefs: %w", err)
	}
	defer rows.Close()

	var prefs domain.Prefs
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return domain.Prefs{}, fmt.Errorf("scan pref: %w", err)
		}
		switch key {
		case "viewer.mode":
			prefs.Mode = value
		case "viewer.zoom_percent":
			prefs.ZoomPercent, _ = strconv.Atoi(value)
		case "viewer.max_transmit_pixels":
			prefs.MaxTransmitPixels, _ = strconv.Atoi(value)
		}
	}
	return prefs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (domain.Book, error) {
	var b domain.Book
	var favorite int
	var added, opened, updated string
	err := row.Scan(&b.ID, &b.Path, &b.Title, &b.SizeBytes, &favorite, &added, &opened, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.Book{}, fmt.Errorf("scan book: %w", err)
	}
	b.Favorite = favorite != 0
	b.AddedAt = parseTime(added)
	b.LastOpenedAt = parseTime(opened)
	b.UpdatedAt = parseTime(updated)
	return b, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
