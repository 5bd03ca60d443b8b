package domain

import (
	"image"
	"math"
)

// Viewport geometry is pure: given page size, frame size, zoom, pan and the
// pixel budgets it derives the render request and the crop/fit transform.
// All clamping side effects are reported back through the returned state.

const maxPageRatio = 20.0
const minPageRatio = 0.05

// PageRatio returns the width/height aspect ratio of a page, clamped to a
// sane range so corrupt page boxes cannot explode the render width.
func PageRatio(pageWPt, pageHPt float64) float64 {
	if pageHPt < 1 {
		pageHPt = 1
	}
	if pageWPt < 1 {
		pageWPt = 1
	}
	ratio := pageWPt / pageHPt
	return math.Min(math.Max(ratio, minPageRatio), maxPageRatio)
}

// RequestFor computes the render request for a page under the given state.
// At zoom 100 with no pan the page is fit height-first into the frame; any
// zoom scales the render width proportionally. The width is capped by the
// configured render pixel budget and an absolute width ceiling.
func RequestFor(pageIndex int, state ViewportState, pageWPt, pageHPt float64, m Metrics, l Limits, mode ColorMode) RenderRequest {
	m = m.normalized()
	frameWPx := max(state.FrameCols, 1) * m.CellWidthPx
	frameHPx := max(state.FrameRows, 1) * m.CellHeightPx
	ratio := PageRatio(pageWPt, pageHPt)

	baseW := frameWPx
	if state.Fitted() {
		fitW := int(math.Round(float64(frameHPx) * ratio))
		if fitW < 1 {
			fitW = 1
		}
		baseW = min(frameWPx, fitW)
	}

	zoom := state.ZoomPercent
	if zoom < 1 {
		zoom = 1
	}
	widthPx := baseW * zoom / 100
	widthPx = min(widthPx, widthCap(ratio, l))
	if widthPx < 1 {
		widthPx = 1
	}

	heightPx := int(math.Round(float64(widthPx) / ratio))
	if heightPx < 1 {
		heightPx = 1
	}

	return RenderRequest{
		PageIndex: pageIndex,
		WidthPx:   widthPx,
		HeightPx:  heightPx,
		Mode:      mode,
	}
}

func widthCap(ratio float64, l Limits) int {
	limit := l.MaxRenderWidthPx
	if limit < 1 {
		limit = 8192
	}
	if l.MaxRenderPixels > 0 {
		byArea := int(math.Floor(math.Sqrt(float64(l.MaxRenderPixels) * ratio)))
		if byArea < 1 {
			byArea = 1
		}
		limit = min(limit, byArea)
	}
	return limit
}

// Placement derives the crop and cell placement for an already rendered
// bitmap. Pan is clamped so the crop never leaves the bitmap; the corrected
// state is returned so the UI observes the adjusted pan rather than having
// it silently dropped. The target cell rectangle is always centered in the
// frame.
func Placement(state ViewportState, bmpW, bmpH int, m Metrics, l Limits) (PlacementGeometry, ViewportState) {
	m = m.normalized()
	frameWPx := max(state.FrameCols, 1) * m.CellWidthPx
	frameHPx := max(state.FrameRows, 1) * m.CellHeightPx
	if bmpW < 1 {
		bmpW = 1
	}
	if bmpH < 1 {
		bmpH = 1
	}

	maxPanX := max(bmpW-frameWPx, 0)
	maxPanY := max(bmpH-frameHPx, 0)
	state.PanX = clamp(state.PanX, 0, maxPanX)
	state.PanY = clamp(state.PanY, 0, maxPanY)

	cropW := min(frameWPx, bmpW-state.PanX)
	cropH := min(frameHPx, bmpH-state.PanY)
	crop := image.Rect(state.PanX, state.PanY, state.PanX+cropW, state.PanY+cropH)

	transmitW, transmitH := cropW, cropH
	if l.MaxTransmitPixels > 0 {
		area := cropW * cropH
		if area > l.MaxTransmitPixels {
			scale := math.Sqrt(float64(l.MaxTransmitPixels) / float64(area))
			scale = math.Min(math.Max(scale, 0.01), 1.0)
			transmitW = max(int(math.Round(float64(cropW)*scale)), 1)
			transmitH = max(int(math.Round(float64(cropH)*scale)), 1)
			// Rounding both axes up can still overshoot the budget by a
			// pixel row; trim the taller axis until it fits.
			for transmitW*transmitH > l.MaxTransmitPixels && transmitH > 1 {
				transmitH--
			}
		}
	}

	// Cell footprint of the pre-downscale crop, centered in the frame.
	cols := clamp(ceilDiv(cropW, m.CellWidthPx), 1, state.FrameCols)
	rows := clamp(ceilDiv(cropH, m.CellHeightPx), 1, state.FrameRows)
	offX := (state.FrameCols - cols) / 2
	offY := (state.FrameRows - rows) / 2
	cellRect := image.Rect(offX, offY, offX+cols, offY+rows)

	return PlacementGeometry{
		Crop:      crop,
		TransmitW: transmitW,
		TransmitH: transmitH,
		CellRect:  cellRect,
	}, state
}

// ClampZoom bounds a zoom percentage to the configured range.
func ClampZoom(zoom, minPct, maxPct int) int {
	return clamp(zoom, minPct, maxPct)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ceilDiv(a, b int) int {
	if b < 1 {
		return a
	}
	return (a + b - 1) / b
}
