package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookshelf/internal/modules/text/domain"
)

var opts = domain.Options{WordGapEm: 0.2, LineToleranceEm: 0.5}

func op(text string, x, y, w float64) domain.Op {
	return domain.Op{Text: text, X: x, Y: y, W: w, FontSize: 10}
}

func TestTokenizeAdjacentFragmentsConcatenate(t *testing.T) {
	t.Parallel()
	// Kerned fragments of one word: no gap, no space inserted.
	lines := domain.Tokenize([]domain.Op{
		op("Ty", 10, 700, 12),
		op("pe", 22, 700, 11),
		op("setting", 33.4, 700, 35),
	}, opts)
	assert.Equal(t, []string{"Typesetting"}, lines)
}

func TestTokenizeGapInsertsSpace(t *testing.T) {
	t.Parallel()
	// 4pt gap at 10pt font is 0.4em, above the 0.2em threshold.
	lines := domain.Tokenize([]domain.Op{
		op("hello", 10, 700, 25),
		op("world", 39, 700, 25),
	}, opts)
	assert.Equal(t, []string{"hello world"}, lines)
}

func TestTokenizeSmallGapDoesNotInsertSpace(t *testing.T) {
	t.Parallel()
	// 1pt of kerning slack stays below the threshold.
	lines := domain.Tokenize([]domain.Op{
		op("over", 10, 700, 20),
		op("lap", 31, 700, 15),
	}, opts)
	assert.Equal(t, []string{"overlap"}, lines)
}

func TestTokenizeVerticalMovementBreaksLine(t *testing.T) {
	t.Parallel()
	lines := domain.Tokenize([]domain.Op{
		op("first line", 10, 700, 50),
		op("second line", 10, 688, 55),
	}, opts)
	assert.Equal(t, []string{"first line", "second line"}, lines)
}

func TestTokenizeBaselineJitterStaysOnLine(t *testing.T) {
	t.Parallel()
	// Sub-tolerance vertical wobble (superscripts, font mixing) must not
	// split the line.
	lines := domain.Tokenize([]domain.Op{
		op("x", 10, 700, 6),
		op("2", 16.2, 703, 4),
	}, opts)
	assert.Len(t, lines, 1)
}

func TestTokenizeEmptyOps(t *testing.T) {
	t.Parallel()
	assert.Nil(t, domain.Tokenize(nil, opts))
}
