package sink

import (
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	xdraw "golang.org/x/image/draw"
)

const kittyChunkSize = 4096

// KittySink emits kitty graphics protocol escape sequences. The same image
// id is reused for every frame so the terminal replaces the previous page
// instead of accumulating placements.
type KittySink struct {
	imageID uint32
	tmux    bool
}

func NewKittySink(tmux bool) *KittySink {
	return &KittySink{imageID: 1, tmux: tmux}
}

func (s *KittySink) Name() string { return "kitty" }

func (s *KittySink) Emit(img *image.RGBA, placement Placement) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil bitmap")
	}
	crop := placement.Crop.Intersect(img.Bounds())
	if crop.Empty() {
		return "", fmt.Errorf("empty crop %v in bitmap %v", placement.Crop, img.Bounds())
	}
	w, h := placement.TransmitW, placement.TransmitH
	if w <= 0 || h <= 0 {
		w, h = crop.Dx(), crop.Dy()
	}
	frame := scaleRGBA(img, crop, w, h)

	payload := base64.StdEncoding.EncodeToString(rawRGBA(frame))

	var b strings.Builder
	first := true
	for len(payload) > 0 {
		n := kittyChunkSize
		if n > len(payload) {
			n = len(payload)
		}
		chunk := payload[:n]
		payload = payload[n:]

		more := 0
		if len(payload) > 0 {
			more = 1
		}
		var ctrl string
		if first {
			first = false
			ctrl = fmt.Sprintf("a=T,f=32,i=%d,q=2,s=%d,v=%d,c=%d,r=%d,m=%d",
				s.imageID, w, h, placement.CellCols, placement.CellRows, more)
		} else {
			ctrl = fmt.Sprintf("m=%d", more)
		}
		b.WriteString(s.wrap("\x1b_G" + ctrl + ";" + chunk + "\x1b\\"))
	}
	return b.String(), nil
}

// Clear deletes the placement for our image id.
func (s *KittySink) Clear() string {
	return s.wrap(fmt.Sprintf("\x1b_Ga=d,d=i,i=%d,q=2\x1b\\", s.imageID))
}

// wrap applies tmux passthrough framing: the sequence is sandwiched in a
// DCS and every ESC inside is doubled.
func (s *KittySink) wrap(seq string) string {
	if !s.tmux {
		return seq
	}
	return "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}

// scaleRGBA extracts crop from img and scales it to w x h. When the crop
// already has the target size the pixels are copied without resampling.
func scaleRGBA(img *image.RGBA, crop image.Rectangle, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if crop.Dx() == w && crop.Dy() == h {
		xdraw.Copy(dst, image.Point{}, img, crop, xdraw.Src, nil)
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, crop, xdraw.Src, nil)
	return dst
}

// rawRGBA returns the pixel bytes without stride padding.
func rawRGBA(img *image.RGBA) []byte {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	if img.Stride == rowLen && b.Min == (image.Point{}) {
		return img.Pix[:rowLen*b.Dy()]
	}
	out := make([]byte, 0, rowLen*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[start:start+rowLen]...)
	}
	return out
}
