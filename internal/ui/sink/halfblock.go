package sink

import (
	"fmt"
	"image"
	"strings"
)

// HalfblockSink renders the image as ▀ cells: the glyph's foreground is the
// upper pixel, the background the lower one, giving two vertical samples
// per cell. Works in any terminal with 24-bit color.
type HalfblockSink struct{}

func NewHalfblockSink() *HalfblockSink { return &HalfblockSink{} }

func (HalfblockSink) Name() string { return "halfblock" }

func (HalfblockSink) Emit(img *image.RGBA, placement Placement) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil bitmap")
	}
	crop := placement.Crop.Intersect(img.Bounds())
	if crop.Empty() {
		return "", fmt.Errorf("empty crop %v in bitmap %v", placement.Crop, img.Bounds())
	}
	cols, rows := placement.CellCols, placement.CellRows
	if cols <= 0 || rows <= 0 {
		return "", fmt.Errorf("empty cell rect %dx%d", cols, rows)
	}

	// One sample per half-cell.
	frame := scaleRGBA(img, crop, cols, rows*2)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			tr, tg, tb := rgbAt(frame, col, row*2)
			br, bg, bb := rgbAt(frame, col, row*2+1)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
		}
		b.WriteString("\x1b[0m")
	}
	return b.String(), nil
}

// Clear is a no-op: halfblock frames are ordinary cells and the next draw
// overwrites them.
func (HalfblockSink) Clear() string { return "" }

func rgbAt(img *image.RGBA, x, y int) (uint8, uint8, uint8) {
	i := img.PixOffset(x, y)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}
