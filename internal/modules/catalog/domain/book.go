package domain

import (
	"fmt"
	"strings"
	"time"
)

// Book is one document known to the catalog. Path is the identity used for
// scan reconciliation; ID is stable across renames of the title.
type Book struct {
	ID           string
	Path         string
	Title        string
	SizeBytes    int64
	Favorite     bool
	AddedAt      time.Time
	LastOpenedAt time.Time
	UpdatedAt    time.Time
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(b.Path) == "" {
		return fmt.Errorf("path is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// Progress is the reader position saved per book.
type Progress struct {
	BookID      string
	Page        int
	PageCount   int
	ZoomPercent int
	Mode        string
	UpdatedAt   time.Time
}

func (p Progress) Validate() error {
	if strings.TrimSpace(p.BookID) == "" {
		return fmt.Errorf("book id is required")
	}
	if p.Page < 0 {
		return fmt.Errorf("page must not be negative")
	}
	if p.PageCount > 0 && p.Page >= p.PageCount {
		return fmt.Errorf("page %d outside document of %d pages", p.Page, p.PageCount)
	}
	return nil
}

// Percent reports reading progress in [0,100].
func (p Progress) Percent() float64 {
	if p.PageCount <= 0 {
		return 0
	}
	return float64(p.Page+1) / float64(p.PageCount) * 100
}

type Bookmark struct {
	ID        string
	BookID    string
	Page      int
	Label     string
	CreatedAt time.Time
}

func (b Bookmark) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(b.BookID) == "" {
		return fmt.Errorf("book id is required")
	}
	if b.Page < 0 {
		return fmt.Errorf("page must not be negative")
	}
	return nil
}

// Note is the markdown note attached to one page of a book. At most one note
// per (book, page); saving overwrites.
type Note struct {
	BookID    string
	Page      int
	Body      string
	UpdatedAt time.Time
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.BookID) == "" {
		return fmt.Errorf("book id is required")
	}
	if n.Page < 0 {
		return fmt.Errorf("page must not be negative")
	}
	return nil
}

// Prefs are the viewer preferences persisted across sessions.
type Prefs struct {
	Mode              string
	ZoomPercent       int
	MaxTransmitPixels int
}

// Root is one configured library location. A non-recursive root only takes
// files directly inside it.
type Root struct {
	Path      string
	Recursive bool
}

// ScannedFile is a document found on disk during a catalog scan.
type ScannedFile struct {
	Path      string
	SizeBytes int64
}

// TitleFromPath derives a display title from a file path: base name without
// extension, underscores as spaces.
func TitleFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.TrimSpace(strings.ReplaceAll(base, "_", " "))
}
