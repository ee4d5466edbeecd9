package wallpaper

import (
	"fmt"
	"image"
	"image/color"
)

// Metrics gives the recorder the same text measurements the rasterizer uses,
// so recorded coordinates match the PNG pixel for pixel.
type Metrics interface {
	TextWidth(s string, face Face) int
	Ascent(face Face) int
}

// Op is one serialized draw call.
type Op struct {
	Kind  string `json:"op"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	W     int    `json:"w,omitempty"`
	H     int    `json:"h,omitempty"`
	Color string `json:"color"`
	To    string `json:"to,omitempty"`
	Text  string `json:"text,omitempty"`
	Face  string `json:"face,omitempty"`
}

type Ops struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Ops    []Op `json:"ops"`
}

// Recorder is a Surface that keeps the draw calls instead of pixels.
type Recorder struct {
	width, height int
	metrics       Metrics
	ops           []Op
}

var _ Surface = (*Recorder)(nil)

func NewRecorder(width, height int, m Metrics) *Recorder {
	return &Recorder{width: width, height: height, metrics: m}
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) FillRect(rect image.Rectangle, c color.RGBA) {
	r.ops = append(r.ops, Op{
		Kind: "rect", X: rect.Min.X, Y: rect.Min.Y, W: rect.Dx(), H: rect.Dy(),
		Color: hexRGBA(c),
	})
}

func (r *Recorder) VerticalGradient(rect image.Rectangle, top, bottom color.RGBA) {
	r.ops = append(r.ops, Op{
		Kind: "gradient", X: rect.Min.X, Y: rect.Min.Y, W: rect.Dx(), H: rect.Dy(),
		Color: hexRGBA(top), To: hexRGBA(bottom),
	})
}

func (r *Recorder) Text(x, y int, s string, face Face, c color.RGBA) {
	r.ops = append(r.ops, Op{
		Kind: "text", X: x, Y: y, Text: s, Face: face.String(),
		Color: hexRGBA(c),
	})
}

func (r *Recorder) TextWidth(s string, face Face) int { return r.metrics.TextWidth(s, face) }

func (r *Recorder) Ascent(face Face) int { return r.metrics.Ascent(face) }

func (r *Recorder) Ops() Ops {
	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)
	return Ops{Width: r.width, Height: r.height, Ops: ops}
}

// hexRGBA renders a premultiplied color as straight-alpha #rrggbbaa.
func hexRGBA(c color.RGBA) string {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", nc.R, nc.G, nc.B, nc.A)
}
