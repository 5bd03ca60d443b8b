package dto

import "time"

type ScanInput struct {
	Roots []RootInput
}

type RootInput struct {
	Path      string
	Recursive bool
}

type ScanOutput struct {
	Found   int
	Added   int
	Updated int
	Removed int
}

type BookOutput struct {
	ID           string
	Path         string
	Title        string
	SizeBytes    int64
	Favorite     bool
	LastOpenedAt time.Time
	ProgressPct  float64
}

type OpenBookOutput struct {
	Book        BookOutput
	Page        int
	PageCount   int
	ZoomPercent int
	Mode        string
}

type SaveProgressInput struct {
	BookID      string
	Page        int
	PageCount   int
	ZoomPercent int
	Mode        string
}

type BookmarkInput struct {
	BookID string
	Page   int
	Label  string
}

type BookmarkOutput struct {
	ID    string
	Page  int
	Label string
}

type NoteInput struct {
	BookID string
	Page   int
	Body   string
}

type NoteOutput struct {
	Page      int
	Body      string
	UpdatedAt time.Time
}

type PrefsInput struct {
	Mode              string
	ZoomPercent       int
	MaxTransmitPixels int
}

type PrefsOutput struct {
	Mode              string
	ZoomPercent       int
	MaxTransmitPixels int
}
