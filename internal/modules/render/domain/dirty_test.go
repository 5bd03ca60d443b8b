package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookshelf/internal/modules/render/domain"
)

func stamp() domain.FrameStamp {
	return domain.FrameStamp{
		Page:       3,
		Mode:       "image",
		State:      domain.ViewportState{ZoomPercent: 100, FrameCols: 80, FrameRows: 40},
		Generation: 1,
	}
}

func TestDirtyTrackerCleanAfterCommit(t *testing.T) {
	t.Parallel()
	var d domain.DirtyTracker
	cur := stamp()
	assert.True(t, d.Dirty(cur), "no committed frame means dirty")
	d.Commit(cur)
	assert.False(t, d.Dirty(cur), "committed state must be clean")
}

func TestDirtyTrackerDetectsEachMutation(t *testing.T) {
	t.Parallel()
	mutations := []struct {
		name   string
		mutate func(*domain.FrameStamp)
		reason string
	}{
		{"page", func(s *domain.FrameStamp) { s.Page++ }, "page changed"},
		{"mode", func(s *domain.FrameStamp) { s.Mode = "text" }, "mode changed"},
		{"zoom", func(s *domain.FrameStamp) { s.State.ZoomPercent = 150 }, "viewport moved"},
		{"pan", func(s *domain.FrameStamp) { s.State.PanX = 10 }, "viewport moved"},
		{"resize", func(s *domain.FrameStamp) { s.State.FrameRows = 20 }, "frame resized"},
		{"generation", func(s *domain.FrameStamp) { s.Generation++ }, "document reloaded"},
	}
	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			t.Parallel()
			var d domain.DirtyTracker
			d.Commit(stamp())
			cur := stamp()
			m.mutate(&cur)
			assert.True(t, d.Dirty(cur))
			assert.Equal(t, m.reason, d.Reason())
		})
	}
}

func TestDirtyTrackerInvalidate(t *testing.T) {
	t.Parallel()
	var d domain.DirtyTracker
	cur := stamp()
	d.Commit(cur)
	d.Invalidate()
	assert.True(t, d.Dirty(cur))
}

func TestFrameStampMatches(t *testing.T) {
	t.Parallel()
	a := stamp()
	b := stamp()
	assert.True(t, a.Matches(b))
	b.State.PanY = 4
	assert.False(t, a.Matches(b), "in-flight results for a superseded state are stale")
}
