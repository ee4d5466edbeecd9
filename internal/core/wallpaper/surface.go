package wallpaper

import (
	"image"
	"image/color"
)

type Face int

const (
	FaceClock Face = iota
	FaceTitle
	FaceHeading
	FaceBody
	FaceLabel
)

func (f Face) String() string {
	switch f {
	case FaceClock:
		return "clock"
	case FaceTitle:
		return "title"
	case FaceHeading:
		return "heading"
	case FaceBody:
		return "body"
	default:
		return "label"
	}
}

// Surface is what the compositor draws on. The server rasterizes into an
// image; the draw-op recorder serializes the same calls for clients that
// render themselves.
type Surface interface {
	Size() (width, height int)
	FillRect(r image.Rectangle, c color.RGBA)
	VerticalGradient(r image.Rectangle, top, bottom color.RGBA)
	// Text draws s with its baseline at y.
	Text(x, y int, s string, face Face, c color.RGBA)
	TextWidth(s string, face Face) int
	Ascent(face Face) int
}
