package domain

import (
	"testing"
	"time"
)

func TestBookValidate(t *testing.T) {
	t.Parallel()

	valid := Book{ID: "b1", Path: "/books/go.pdf", Title: "go", AddedAt: time.Now()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid book rejected: %v", err)
	}
	for name, book := range map[string]Book{
		"missing id":    {Path: "/books/go.pdf", Title: "go"},
		"missing path":  {ID: "b1", Title: "go"},
		"missing title": {ID: "b1", Path: "/books/go.pdf"},
	} {
		if err := book.Validate(); err == nil {
			t.Errorf("%s accepted", name)
		}
	}
}

func TestProgressValidateAndPercent(t *testing.T) {
	t.Parallel()

	p := Progress{BookID: "b1", Page: 24, PageCount: 100}
	if err := p.Validate(); err != nil {
		t.Fatalf("valid progress rejected: %v", err)
	}
	if got := p.Percent(); got != 25 {
		t.Errorf("percent = %v, want 25", got)
	}
	if err := (Progress{BookID: "b1", Page: 100, PageCount: 100}).Validate(); err == nil {
		t.Error("page past end accepted")
	}
	if err := (Progress{BookID: "b1", Page: -1}).Validate(); err == nil {
		t.Error("negative page accepted")
	}
	if got := (Progress{BookID: "b1"}).Percent(); got != 0 {
		t.Errorf("percent without page count = %v, want 0", got)
	}
}

func TestTitleFromPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/books/the_go_programming_language.pdf": "the go programming language",
		"plain.pdf":     "plain",
		"/books/nodots": "nodots",
	}
	for in, want := range cases {
		if got := TitleFromPath(in); got != want {
			t.Errorf("TitleFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
