package canvas

import (
	"image"
	"image/color"
	"math"

	"tinygo.org/x/drivers"
)

// pixelDisplay lets tinyfont draw into an image. Logical pixel (0, 0) sits at
// origin and every logical pixel covers a scale x scale block.
type pixelDisplay struct {
	img    *image.RGBA
	origin image.Point
	scale  int
}

var _ drivers.Displayer = (*pixelDisplay)(nil)

func (d *pixelDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(min(b.Dx()/d.scale, math.MaxInt16)), int16(min(b.Dy()/d.scale, math.MaxInt16))
}

func (d *pixelDisplay) SetPixel(x, y int16, c color.RGBA) {
	px := d.origin.X + int(x)*d.scale
	py := d.origin.Y + int(y)*d.scale
	block := image.Rect(px, py, px+d.scale, py+d.scale).Intersect(d.img.Bounds())
	for yy := block.Min.Y; yy < block.Max.Y; yy++ {
		for xx := block.Min.X; xx < block.Max.X; xx++ {
			blendPixel(d.img, xx, yy, c)
		}
	}
}

func (d *pixelDisplay) Display() error { return nil }

// blendPixel composites a premultiplied color over the pixel at (x, y).
func blendPixel(img *image.RGBA, x, y int, c color.RGBA) {
	i := img.PixOffset(x, y)
	if c.A == 0xff {
		img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
		return
	}
	inv := 255 - uint32(c.A)
	p := img.Pix[i : i+4 : i+4]
	p[0] = uint8(uint32(c.R) + uint32(p[0])*inv/255)
	p[1] = uint8(uint32(c.G) + uint32(p[1])*inv/255)
	p[2] = uint8(uint32(c.B) + uint32(p[2])*inv/255)
	p[3] = uint8(uint32(c.A) + uint32(p[3])*inv/255)
}
