package domain

import (
	"strings"
	"unicode"
)

// TextPage is the structured text of one page: tokenized raw lines and
// reflowed paragraphs. Cached per (generation, page) by the service layer.
type TextPage struct {
	RawLines   []string
	Paragraphs []string
}

// Reflow turns raw lines into paragraphs: soft line breaks inside a
// paragraph are dropped, hyphenated words rejoined, and explicit blank
// lines kept as hard paragraph breaks that are never joined across.
func Reflow(rawLines []string) []string {
	var paragraphs []string
	var cur string
	flush := func() {
		if trimmed := strings.TrimSpace(cur); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
		cur = ""
	}

	for _, line := range rawLines {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if cur == "" {
			cur = line
			continue
		}
		switch {
		case dehyphenable(cur, line):
			cur = cur[:len(cur)-1] + line
		case !endsSentence(cur) && startsLower(line):
			cur += " " + line
		default:
			flush()
			cur = line
		}
	}
	flush()
	return paragraphs
}

// dehyphenable reports whether prev ends in letter-hyphen and next starts
// with a letter, i.e. a word split across a line break.
func dehyphenable(prev, next string) bool {
	if len(prev) < 2 || !strings.HasSuffix(prev, "-") {
		return false
	}
	runes := []rune(prev)
	if !unicode.IsLetter(runes[len(runes)-2]) {
		return false
	}
	first := []rune(next)
	return len(first) > 0 && unicode.IsLetter(first[0])
}

func endsSentence(line string) bool {
	runes := []rune(strings.TrimRight(line, `"')]`+"”’"))
	if len(runes) == 0 {
		return false
	}
	switch runes[len(runes)-1] {
	case '.', '!', '?', ':', ';':
		return true
	}
	return false
}

func startsLower(line string) bool {
	runes := []rune(line)
	return len(runes) > 0 && unicode.IsLower(runes[0])
}

// Furniture is the set of repeated header and footer strings detected
// across the sampled leading pages of a document.
type Furniture struct {
	Top    map[string]bool
	Bottom map[string]bool
}

// DetectFurniture samples the first and last raw line of up to
// opts.FurnitureSampleDepth pages. Any line recurring verbatim at the same
// position across more than the majority fraction of sampled pages is
// classified as page furniture.
func DetectFurniture(pages [][]string, opts Options) Furniture {
	opts = opts.withDefaults()
	sampled := 0
	topCounts := map[string]int{}
	bottomCounts := map[string]int{}
	for _, lines := range pages {
		if sampled == opts.FurnitureSampleDepth {
			break
		}
		first, last := edgeLines(lines)
		if first == "" && last == "" {
			continue
		}
		sampled++
		if first != "" {
			topCounts[first]++
		}
		if last != "" {
			bottomCounts[last]++
		}
	}

	out := Furniture{Top: map[string]bool{}, Bottom: map[string]bool{}}
	// Recurrence needs at least two pages to mean anything.
	if sampled < 2 {
		return out
	}
	threshold := float64(sampled) * opts.FurnitureMajority
	for line, n := range topCounts {
		if float64(n) > threshold {
			out.Top[line] = true
		}
	}
	for line, n := range bottomCounts {
		if float64(n) > threshold {
			out.Bottom[line] = true
		}
	}
	return out
}

func edgeLines(lines []string) (first, last string) {
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			first = t
			break
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if t := strings.TrimSpace(lines[i]); t != "" {
			last = t
			break
		}
	}
	return first, last
}

// Strip removes detected furniture from the top and bottom of a page's raw
// lines; top and bottom positions are handled independently.
func (f Furniture) Strip(lines []string) []string {
	if len(lines) == 0 || (len(f.Top) == 0 && len(f.Bottom) == 0) {
		return lines
	}
	out := append([]string(nil), lines...)
	if first, idx := firstNonBlank(out); idx >= 0 && f.Top[first] {
		out = append(out[:idx], out[idx+1:]...)
	}
	if last, idx := lastNonBlank(out); idx >= 0 && f.Bottom[last] {
		out = append(out[:idx], out[idx+1:]...)
	}
	return out
}

func firstNonBlank(lines []string) (string, int) {
	for i, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			return t, i
		}
	}
	return "", -1
}

func lastNonBlank(lines []string) (string, int) {
	for i := len(lines) - 1; i >= 0; i-- {
		if t := strings.TrimSpace(lines[i]); t != "" {
			return t, i
		}
	}
	return "", -1
}
