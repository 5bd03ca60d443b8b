package domain

import "image"

// ColorMode selects the pixel format requested from the rasterizer.
type ColorMode uint8

const (
	ColorRGB ColorMode = iota
	ColorGray
)

func (m ColorMode) String() string {
	if m == ColorGray {
		return "gray"
	}
	return "rgb"
}

// RenderRequest carries the exact parameters needed to reproduce a page
// bitmap deterministically. Two equal requests yield bit-identical output
// for a stable document generation.
type RenderRequest struct {
	PageIndex int
	WidthPx   int
	HeightPx  int
	Mode      ColorMode
}

// CacheKey is a RenderRequest scoped to a document generation. Bumping the
// generation on reload invalidates every cached bitmap at once.
type CacheKey struct {
	Generation uint64
	Request    RenderRequest
}

// ViewportState is the user-navigable view into a page. Pan offsets are in
// pixels of the rendered bitmap. Mutated only by navigation actions.
type ViewportState struct {
	ZoomPercent int
	PanX        int
	PanY        int
	FrameCols   int
	FrameRows   int
}

// Fitted reports whether the page should be fit whole into the frame:
// no zoom, no pan.
func (s ViewportState) Fitted() bool {
	return s.ZoomPercent == 100 && s.PanX == 0 && s.PanY == 0
}

// Metrics is the terminal cell geometry in pixels.
type Metrics struct {
	CellWidthPx  int
	CellHeightPx int
}

func (m Metrics) normalized() Metrics {
	if m.CellWidthPx < 1 {
		m.CellWidthPx = 1
	}
	if m.CellHeightPx < 1 {
		m.CellHeightPx = 1
	}
	return m
}

// Limits are the externally configured pixel budgets.
type Limits struct {
	MaxTransmitPixels int
	MaxRenderPixels   int
	MaxRenderWidthPx  int
}

// PlacementGeometry is the fully derived output of the viewport controller:
// which bitmap region to transmit, at what size, placed at which cells.
// Recomputed every frame; it has no lifecycle of its own.
type PlacementGeometry struct {
	// Crop is the source rectangle in bitmap pixels, always contained in
	// the bitmap bounds.
	Crop image.Rectangle

	// TransmitW/H are the dimensions of the buffer actually emitted. They
	// equal the crop size unless the transmission budget forced a
	// downscale.
	TransmitW int
	TransmitH int

	// CellRect is the target cell rectangle within the frame. It reflects
	// the pre-downscale size so a downscaled buffer is stretched back to
	// fill the same placement.
	CellRect image.Rectangle
}

// Downscaled reports whether the transmit buffer is smaller than the crop.
func (p PlacementGeometry) Downscaled() bool {
	return p.TransmitW < p.Crop.Dx() || p.TransmitH < p.Crop.Dy()
}
