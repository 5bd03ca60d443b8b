package dto

// Mode selects how a page's text is presented.
type Mode string

const (
	ModeRaw    Mode = "raw"
	ModeWrap   Mode = "wrap"
	ModeReflow Mode = "reflow"
)

// Cycle returns the next mode in presentation order: reflow, wrap, raw.
func (m Mode) Cycle() Mode {
	switch m {
	case ModeReflow:
		return ModeWrap
	case ModeWrap:
		return ModeRaw
	default:
		return ModeReflow
	}
}

type OpenInput struct {
	Path string
}

type OpenOutput struct {
	PageCount int
}

type PageInput struct {
	Page  int
	Mode  Mode
	Width int
}

type PageOutput struct {
	Page  int
	Lines []string

	// Empty is set when the page yielded no extractable text; Reason says
	// why, for the status line.
	Empty  bool
	Reason string
}
