package canvas

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/tinyfont"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
)

// Raster is a wallpaper.Surface backed by an RGBA image.
type Raster struct {
	img   *image.RGBA
	fonts Fonts
}

var _ wallpaper.Surface = (*Raster)(nil)

func NewRaster(img *image.RGBA) *Raster {
	return &Raster{img: img, fonts: NewFonts(img.Bounds().Dx())}
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) FillRect(rect image.Rectangle, c color.RGBA) {
	op := draw.Over
	if c.A == 0xff {
		op = draw.Src
	}
	draw.Draw(r.img, rect, image.NewUniform(c), image.Point{}, op)
}

func (r *Raster) VerticalGradient(rect image.Rectangle, top, bottom color.RGBA) {
	rect = rect.Intersect(r.img.Bounds())
	h := rect.Dy()
	if h <= 0 {
		return
	}

	// Bands of a few rows keep the Lab blend count low on tall canvases.
	band := max(1, h/256)
	for y := rect.Min.Y; y < rect.Max.Y; y += band {
		t := 0.0
		if h > 1 {
			t = float64(y-rect.Min.Y) / float64(h-1)
		}
		row := image.Rect(rect.Min.X, y, rect.Max.X, min(y+band, rect.Max.Y))
		draw.Draw(r.img, row, image.NewUniform(wallpaper.Blend(top, bottom, t)), image.Point{}, draw.Src)
	}
}

func (r *Raster) Text(x, y int, s string, fc wallpaper.Face, c color.RGBA) {
	if tf, ok := r.fonts.faces[fc]; ok {
		d := &pixelDisplay{img: r.img, origin: image.Pt(x, y), scale: tf.mult}
		tinyfont.WriteLine(d, tf.font, 0, 0, s, c)
		return
	}
	r.bitmapText(x, y, s, c)
}

// bitmapText draws basicfont glyphs into a 1x mask, scales the mask with
// nearest neighbour and composites the color through it.
func (r *Raster) bitmapText(x, y int, s string, c color.RGBA) {
	face := basicfont.Face7x13
	k := r.fonts.scale

	d := font.Drawer{Face: face}
	w := d.MeasureString(s).Ceil()
	if w <= 0 {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, face.Height))
	d.Dst = mask
	d.Src = image.Opaque
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(s)

	scaled := mask
	if k > 1 {
		scaled = image.NewAlpha(image.Rect(0, 0, w*k, face.Height*k))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), draw.Src, nil)
	}

	dst := image.Rect(x, y-face.Ascent*k, x+scaled.Bounds().Dx(), y-face.Ascent*k+scaled.Bounds().Dy())
	draw.DrawMask(r.img, dst, image.NewUniform(c), image.Point{}, scaled, image.Point{}, draw.Over)
}

func (r *Raster) TextWidth(s string, fc wallpaper.Face) int { return r.fonts.TextWidth(s, fc) }

func (r *Raster) Ascent(fc wallpaper.Face) int { return r.fonts.Ascent(fc) }
