package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	catalogout "bookshelf/internal/modules/catalog/adapter/out"
	"bookshelf/internal/modules/catalog/dto"
	catalogin "bookshelf/internal/modules/catalog/port/in"
	"bookshelf/internal/modules/catalog/service"
	"bookshelf/internal/modules/catalog/usecase"
	"bookshelf/internal/platform/clock"
	"bookshelf/internal/platform/id"
)

func newCatalog(t *testing.T, library string) (catalogin.Usecase, func()) {
	t.Helper()
	dbPath := filepath.Join(library, ".bookshelf", "bookshelf.db")
	store, err := catalogout.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	svc := service.NewCatalogService(clock.SystemClock{}, id.RandomHex{}, store, catalogout.NewFSScanner())
	return usecase.NewInteractor(svc), func() { _ = store.Close() }
}

func TestScanOpenProgressRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	library := t.TempDir()
	for _, name := range []string{"one.pdf", "two.pdf", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(library, name), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	uc, cleanup := newCatalog(t, library)
	defer cleanup()

	scan, err := uc.Scan(ctx, dto.ScanInput{Roots: []dto.RootInput{{Path: library, Recursive: true}}})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if scan.Found != 2 || scan.Added != 2 {
		t.Fatalf("scan result: %+v", scan)
	}

	books, err := uc.ListBooks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("want 2 books, got %+v", books)
	}

	id := books[0].ID
	err = uc.SaveProgress(ctx, dto.SaveProgressInput{BookID: id, Page: 12, PageCount: 40, ZoomPercent: 125, Mode: "reflow"})
	if err != nil {
		t.Fatalf("save progress: %v", err)
	}
	opened, err := uc.OpenBook(ctx, id)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened.Page != 12 || opened.ZoomPercent != 125 || opened.Mode != "reflow" {
		t.Fatalf("restored session: %+v", opened)
	}
	if opened.Book.ProgressPct != float64(13)/40*100 {
		t.Fatalf("progress pct: %v", opened.Book.ProgressPct)
	}
}

func TestBookmarksNotesAndPrefsPersist(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	library := t.TempDir()
	if err := os.WriteFile(filepath.Join(library, "book.pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write book: %v", err)
	}
	uc, cleanup := newCatalog(t, library)
	defer cleanup()

	if _, err := uc.Scan(ctx, dto.ScanInput{Roots: []dto.RootInput{{Path: library}}}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	books, _ := uc.ListBooks(ctx)
	id := books[0].ID

	mark, err := uc.AddBookmark(ctx, dto.BookmarkInput{BookID: id, Page: 7, Label: "figure 3"})
	if err != nil {
		t.Fatalf("add bookmark: %v", err)
	}
	marks, err := uc.ListBookmarks(ctx, id)
	if err != nil || len(marks) != 1 || marks[0].ID != mark.ID || marks[0].Label != "figure 3" {
		t.Fatalf("bookmarks: %+v %v", marks, err)
	}

	if err := uc.SaveNote(ctx, dto.NoteInput{BookID: id, Page: 7, Body: "## key result"}); err != nil {
		t.Fatalf("save note: %v", err)
	}
	note, err := uc.GetNote(ctx, id, 7)
	if err != nil || note.Body != "## key result" {
		t.Fatalf("note: %+v %v", note, err)
	}
	// Missing notes come back empty, not as errors.
	blank, err := uc.GetNote(ctx, id, 8)
	if err != nil || blank.Body != "" {
		t.Fatalf("missing note: %+v %v", blank, err)
	}

	err = uc.SavePrefs(ctx, dto.PrefsInput{Mode: "image", ZoomPercent: 150, MaxTransmitPixels: 1 << 20})
	if err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	prefs, err := uc.LoadPrefs(ctx)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if prefs.Mode != "image" || prefs.ZoomPercent != 150 || prefs.MaxTransmitPixels != 1<<20 {
		t.Fatalf("prefs round trip: %+v", prefs)
	}
}

func TestRescanRemovesDeletedFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	library := t.TempDir()
	path := filepath.Join(library, "gone.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	uc, cleanup := newCatalog(t, library)
	defer cleanup()

	if _, err := uc.Scan(ctx, dto.ScanInput{Roots: []dto.RootInput{{Path: library, Recursive: true}}}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	scan, err := uc.Scan(ctx, dto.ScanInput{Roots: []dto.RootInput{{Path: library, Recursive: true}}})
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if scan.Removed != 1 {
		t.Fatalf("rescan result: %+v", scan)
	}
	books, _ := uc.ListBooks(ctx)
	if len(books) != 0 {
		t.Fatalf("deleted file still cataloged: %+v", books)
	}
}
