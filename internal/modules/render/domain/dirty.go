package domain

// FrameStamp identifies the navigation state a produced frame reflects:
// page, view mode, viewport, and document generation.
type FrameStamp struct {
	Page       int
	Mode       string
	State      ViewportState
	Generation uint64
}

// DirtyTracker decides whether a new frame is needed by diffing the last
// committed stamp against the current one. The pipeline never re-executes
// rasterization while the tracker is clean.
type DirtyTracker struct {
	committed FrameStamp
	hasFrame  bool
	reason    string
}

// Dirty reports whether cur differs from the committed stamp, remembering a
// human-readable reason for the first difference found.
func (d *DirtyTracker) Dirty(cur FrameStamp) bool {
	if !d.hasFrame {
		d.reason = "no frame"
		return true
	}
	prev := d.committed
	switch {
	case prev.Generation != cur.Generation:
		d.reason = "document reloaded"
	case prev.Page != cur.Page:
		d.reason = "page changed"
	case prev.Mode != cur.Mode:
		d.reason = "mode changed"
	case prev.State.FrameCols != cur.State.FrameCols || prev.State.FrameRows != cur.State.FrameRows:
		d.reason = "frame resized"
	case prev.State != cur.State:
		d.reason = "viewport moved"
	default:
		d.reason = ""
		return false
	}
	return true
}

// Reason returns why the last Dirty call answered true.
func (d *DirtyTracker) Reason() string { return d.reason }

// Commit records that a frame reflecting cur has been produced.
func (d *DirtyTracker) Commit(cur FrameStamp) {
	d.committed = cur
	d.hasFrame = true
}

// Invalidate forces the next Dirty call to answer true.
func (d *DirtyTracker) Invalidate() {
	d.hasFrame = false
}

// Matches reports whether a result produced for stamp still reflects cur.
// Stale results are discarded by the caller, never displayed.
func (s FrameStamp) Matches(cur FrameStamp) bool {
	return s == cur
}
