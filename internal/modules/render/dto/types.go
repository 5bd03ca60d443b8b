package dto

import "image"

type OpenInput struct {
	Path string
}

type OpenOutput struct {
	PageCount  int
	Generation uint64
}

type FrameInput struct {
	Page         int
	ZoomPercent  int
	PanX         int
	PanY         int
	FrameCols    int
	FrameRows    int
	CellWidthPx  int
	CellHeightPx int
	Gray         bool
}

// FrameOutput carries one produced frame. Image is a borrowed view owned by
// the page cache; it is only valid until the next frame is requested.
type FrameOutput struct {
	Page  int
	Image *image.RGBA

	// Crop and placement geometry, in bitmap pixels and frame cells.
	CropX, CropY, CropW, CropH int
	TransmitW, TransmitH       int
	CellX, CellY               int
	CellCols, CellRows         int

	// Corrected viewport after pan clamping.
	ZoomPercent, PanX, PanY int

	// Placeholder is set instead of Image when the page failed to
	// rasterize.
	Placeholder string
}
