package sink

import (
	"image"
	"os/exec"
	"strings"
)

// Placement tells a sink which part of a bitmap to show and where. Crop is
// in bitmap pixels; the cell rect is in terminal cells relative to the
// frame origin.
type Placement struct {
	Crop                 image.Rectangle
	TransmitW, TransmitH int
	CellX, CellY         int
	CellCols, CellRows   int
}

// Sink turns a bitmap into a terminal payload. Emit returns the escape
// sequence (or cell text) to print at the placement's cell origin; Clear
// returns whatever removes the previous image, if the protocol needs it.
type Sink interface {
	Name() string
	Emit(img *image.RGBA, placement Placement) (string, error)
	Clear() string
}

// Kind is the detected graphics capability of the hosting terminal.
type Kind int

const (
	KindHalfblock Kind = iota
	KindKitty
)

// Detect inspects the environment through lookup (usually os.Getenv) and
// picks a protocol. KITTY_WINDOW_ID is reliable when present; TERM survives
// SSH where KITTY_WINDOW_ID does not. Anything ambiguous falls back to
// halfblocks, which work everywhere.
func Detect(lookup func(string) string) Kind {
	if strings.TrimSpace(lookup("KITTY_WINDOW_ID")) != "" {
		return KindKitty
	}
	if strings.HasPrefix(strings.TrimSpace(lookup("TERM")), "xterm-kitty") {
		return KindKitty
	}
	return KindHalfblock
}

// InTmux reports whether we are running under tmux, which requires
// passthrough wrapping for kitty graphics.
func InTmux(lookup func(string) string) bool {
	return lookup("TMUX") != ""
}

// EnsureTmuxPassthrough enables kitty graphics passthrough in tmux. Best
// effort: failures (old tmux, restricted env) are ignored.
func EnsureTmuxPassthrough(lookup func(string) string) {
	if !InTmux(lookup) {
		return
	}
	cmd := exec.Command("tmux", "set-option", "-g", "allow-passthrough", "on")
	_ = cmd.Run()
}

// New builds the sink for the detected kind.
func New(kind Kind, tmux bool) Sink {
	if kind == KindKitty {
		return NewKittySink(tmux)
	}
	return NewHalfblockSink()
}
