package domain

import "strings"

// Op is one positioned text-draw operation, in content-stream order.
// Coordinates are text-space points with Y growing upward, as reported by
// the text source.
type Op struct {
	Text     string
	X, Y     float64
	W        float64 // advance width of the fragment
	FontSize float64
}

// Options are the structuring heuristics, externally configured because the
// sampled defaults have no single canonical value.
type Options struct {
	// WordGapEm: inter-fragment horizontal gap, in em units of the active
	// font size, above which the source encoded an intentional visual gap
	// and a space is inserted.
	WordGapEm float64

	// LineToleranceEm: vertical movement, in em units, beyond which a
	// line break is emitted.
	LineToleranceEm float64

	// FurnitureSampleDepth is how many leading pages are sampled for
	// repeated header/footer detection.
	FurnitureSampleDepth int

	// FurnitureMajority is the fraction of sampled pages a line must
	// recur on to count as page furniture.
	FurnitureMajority float64
}

func (o Options) withDefaults() Options {
	if o.WordGapEm <= 0 {
		o.WordGapEm = 0.2
	}
	if o.LineToleranceEm <= 0 {
		o.LineToleranceEm = 0.5
	}
	if o.FurnitureSampleDepth < 2 {
		o.FurnitureSampleDepth = 5
	}
	if o.FurnitureMajority <= 0 || o.FurnitureMajority > 1 {
		o.FurnitureMajority = 0.5
	}
	return o
}

// Tokenize concatenates fragments in operation order into raw lines. A line
// break is emitted when the vertical position moves beyond the tolerance;
// adjacency alone never inserts a space, only a horizontal gap beyond the
// word-gap threshold does.
func Tokenize(ops []Op, opts Options) []string {
	opts = opts.withDefaults()
	if len(ops) == 0 {
		return nil
	}

	var lines []string
	var cur strings.Builder
	flush := func() {
		lines = append(lines, strings.TrimRight(cur.String(), " "))
		cur.Reset()
	}

	prev := ops[0]
	cur.WriteString(prev.Text)
	for _, op := range ops[1:] {
		size := op.FontSize
		if size <= 0 {
			size = prev.FontSize
		}
		if size <= 0 {
			size = 12
		}
		tol := opts.LineToleranceEm * size

		dy := prev.Y - op.Y
		if dy > tol || -dy > tol {
			flush()
		} else {
			gap := op.X - (prev.X + prev.W)
			if gap > opts.WordGapEm*size {
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(op.Text)
		prev = op
	}
	flush()
	return lines
}
