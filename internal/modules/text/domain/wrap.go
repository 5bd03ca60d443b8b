package domain

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapParagraphs word-wraps already-structured paragraphs to a frame width
// in cells, separating paragraphs with a blank line. Wrapping is cheap and
// recomputed on every width change; structuring is not, and is cached.
func WrapParagraphs(paragraphs []string, width int) []string {
	if width < 1 {
		return append([]string(nil), paragraphs...)
	}
	var out []string
	for i, para := range paragraphs {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, WrapLine(para, width)...)
	}
	return out
}

// WrapLine wraps a single logical line at word boundaries, measuring
// display width. Words wider than the frame are broken at rune boundaries.
func WrapLine(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, word := range strings.Fields(text) {
		wordWidth := runewidth.StringWidth(word)
		sep := 0
		if curWidth > 0 {
			sep = 1
		}

		if curWidth+sep+wordWidth <= width {
			if sep == 1 {
				cur.WriteByte(' ')
				curWidth++
			}
			cur.WriteString(word)
			curWidth += wordWidth
			continue
		}

		if curWidth > 0 {
			flush()
		}

		if wordWidth <= width {
			cur.WriteString(word)
			curWidth = wordWidth
			continue
		}

		// Oversized word: hard-break at rune boundaries.
		for _, r := range word {
			rw := runewidth.RuneWidth(r)
			if curWidth+rw > width && curWidth > 0 {
				flush()
			}
			cur.WriteRune(r)
			curWidth += rw
		}
	}
	if curWidth > 0 {
		flush()
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
