package canvas

import (
	"math"

	"golang.org/x/image/font/basicfont"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
)

// BaseWidth is the canvas width the faces are designed for at scale 1.
const BaseWidth = 540

type face struct {
	font tinyfont.Fonter
	mult int
}

// Fonts maps compositor faces to concrete fonts for one canvas width.
// Labels use the 7x13 bitmap face; everything else is FreeSans.
type Fonts struct {
	scale int
	faces map[wallpaper.Face]face
}

var _ wallpaper.Metrics = Fonts{}

func NewFonts(width int) Fonts {
	k := max(1, int(math.Round(float64(width)/BaseWidth)))
	return Fonts{
		scale: k,
		faces: map[wallpaper.Face]face{
			wallpaper.FaceClock:   {&freesans.Bold24pt7b, 2 * k},
			wallpaper.FaceTitle:   {&freesans.Bold24pt7b, k},
			wallpaper.FaceHeading: {&freesans.Bold18pt7b, k},
			wallpaper.FaceBody:    {&freesans.Regular12pt7b, k},
		},
	}
}

func (f Fonts) Scale() int { return f.scale }

func (f Fonts) TextWidth(s string, fc wallpaper.Face) int {
	if tf, ok := f.faces[fc]; ok {
		_, outbox := tinyfont.LineWidth(tf.font, s)
		return int(outbox) * tf.mult
	}
	return len([]rune(s)) * basicfont.Face7x13.Advance * f.scale
}

func (f Fonts) Ascent(fc wallpaper.Face) int {
	if tf, ok := f.faces[fc]; ok {
		info := tf.font.GetGlyph('H').Info()
		return -int(info.YOffset) * tf.mult
	}
	return basicfont.Face7x13.Ascent * f.scale
}
