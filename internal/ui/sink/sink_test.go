package sink

import (
	"encoding/base64"
	"image"
	"image/color"
	"strings"
	"testing"
)

func envWith(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestDetectKittyWindowID(t *testing.T) {
	t.Parallel()
	env := envWith(map[string]string{"KITTY_WINDOW_ID": "3", "TERM": "xterm-256color"})
	if got := Detect(env); got != KindKitty {
		t.Fatalf("Detect = %v, want kitty", got)
	}
}

func TestDetectTermOverSSH(t *testing.T) {
	t.Parallel()
	// KITTY_WINDOW_ID is not forwarded over SSH by default, TERM is.
	env := envWith(map[string]string{"TERM": "xterm-kitty"})
	if got := Detect(env); got != KindKitty {
		t.Fatalf("Detect = %v, want kitty", got)
	}
}

func TestDetectFallsBackToHalfblocks(t *testing.T) {
	t.Parallel()
	env := envWith(map[string]string{"TERM": "xterm-256color", "TMUX": "/tmp/tmux-0/default,123,0"})
	if got := Detect(env); got != KindHalfblock {
		t.Fatalf("Detect = %v, want halfblock", got)
	}
	if !InTmux(env) {
		t.Fatal("tmux not detected")
	}
}

func testImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestKittyEmitChunksAndHeader(t *testing.T) {
	t.Parallel()

	s := NewKittySink(false)
	img := testImage(64, 64, color.RGBA{R: 255, A: 255})
	out, err := s.Emit(img, Placement{
		Crop:      image.Rect(0, 0, 64, 64),
		TransmitW: 64, TransmitH: 64,
		CellCols: 8, CellRows: 4,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !strings.HasPrefix(out, "\x1b_Ga=T,f=32,i=1,q=2,s=64,v=64,c=8,r=4,m=1;") {
		t.Fatalf("header: %q", out[:60])
	}
	// 64*64*4 bytes base64 > 4096, so there must be continuation chunks and
	// a final m=0.
	if !strings.Contains(out, "\x1b_Gm=1;") || !strings.Contains(out, "\x1b_Gm=0;") {
		t.Error("missing chunk continuation markers")
	}
	for _, chunk := range strings.Split(out, "\x1b\\") {
		if i := strings.IndexByte(chunk, ';'); i >= 0 {
			if len(chunk)-i-1 > kittyChunkSize {
				t.Fatalf("chunk of %d bytes exceeds limit", len(chunk)-i-1)
			}
		}
	}
}

func TestKittyEmitPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewKittySink(false)
	img := testImage(2, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	out, err := s.Emit(img, Placement{Crop: image.Rect(0, 0, 2, 1), TransmitW: 2, TransmitH: 1, CellCols: 1, CellRows: 1})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	start := strings.IndexByte(out, ';') + 1
	end := strings.Index(out, "\x1b\\")
	raw, err := base64.StdEncoding.DecodeString(out[start:end])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	want := []byte{10, 20, 30, 255, 10, 20, 30, 255}
	if string(raw) != string(want) {
		t.Fatalf("payload = %v, want %v", raw, want)
	}
}

func TestKittyEmitDownscalesToTransmitSize(t *testing.T) {
	t.Parallel()

	s := NewKittySink(false)
	img := testImage(100, 100, color.RGBA{G: 200, A: 255})
	out, err := s.Emit(img, Placement{Crop: image.Rect(0, 0, 100, 100), TransmitW: 10, TransmitH: 10, CellCols: 5, CellRows: 5})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !strings.Contains(out, "s=10,v=10") {
		t.Fatalf("transmit size not honored: %q", out[:60])
	}
}

func TestKittyTmuxPassthroughWrapping(t *testing.T) {
	t.Parallel()

	s := NewKittySink(true)
	img := testImage(1, 1, color.RGBA{A: 255})
	out, err := s.Emit(img, Placement{Crop: image.Rect(0, 0, 1, 1), TransmitW: 1, TransmitH: 1, CellCols: 1, CellRows: 1})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !strings.HasPrefix(out, "\x1bPtmux;") || !strings.HasSuffix(out, "\x1b\\") {
		t.Fatalf("missing passthrough framing: %q", out)
	}
	if !strings.Contains(out, "\x1b\x1b_G") {
		t.Error("inner escapes not doubled")
	}
	if clear := s.Clear(); !strings.HasPrefix(clear, "\x1bPtmux;") {
		t.Errorf("clear not wrapped: %q", clear)
	}
}

func TestKittyEmitRejectsBadInput(t *testing.T) {
	t.Parallel()

	s := NewKittySink(false)
	if _, err := s.Emit(nil, Placement{}); err == nil {
		t.Error("nil image accepted")
	}
	img := testImage(4, 4, color.RGBA{A: 255})
	if _, err := s.Emit(img, Placement{Crop: image.Rect(10, 10, 20, 20)}); err == nil {
		t.Error("out-of-bounds crop accepted")
	}
}

func TestHalfblockEmitShape(t *testing.T) {
	t.Parallel()

	s := NewHalfblockSink()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	// Top half red, bottom half blue.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := color.RGBA{R: 255, A: 255}
			if y >= 2 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	out, err := s.Emit(img, Placement{Crop: image.Rect(0, 0, 4, 4), CellCols: 4, CellRows: 2})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	rowsOut := strings.Split(out, "\n")
	if len(rowsOut) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rowsOut))
	}
	if got := strings.Count(out, "▀"); got != 8 {
		t.Fatalf("want 8 halfblock cells, got %d", got)
	}
	// Row 0 samples only the red half: fg and bg both red.
	if !strings.Contains(rowsOut[0], "\x1b[38;2;255;0;0m\x1b[48;2;255;0;0m") {
		t.Errorf("top row colors: %q", rowsOut[0])
	}
	if !strings.Contains(rowsOut[1], "\x1b[38;2;0;0;255m\x1b[48;2;0;0;255m") {
		t.Errorf("bottom row colors: %q", rowsOut[1])
	}
	for _, row := range rowsOut {
		if !strings.HasSuffix(row, "\x1b[0m") {
			t.Errorf("row not reset: %q", row)
		}
	}
}

func TestHalfblockClearIsEmpty(t *testing.T) {
	t.Parallel()
	if got := NewHalfblockSink().Clear(); got != "" {
		t.Fatalf("halfblock clear = %q", got)
	}
}
