package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
)

// Renderer turns scenes into pixels or draw-op lists.
type Renderer struct {
	encoder png.Encoder
}

func NewRenderer() *Renderer {
	return &Renderer{encoder: png.Encoder{CompressionLevel: png.BestSpeed}}
}

func (r *Renderer) Render(sc wallpaper.Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, sc.Width, sc.Height))
	wallpaper.Compose(NewRaster(img), sc)
	return img
}

// WithClock returns a copy of base with the clock overlay; base is not modified.
func (r *Renderer) WithClock(base *image.RGBA, sc wallpaper.Scene) *image.RGBA {
	img := image.NewRGBA(base.Bounds())
	draw.Draw(img, img.Bounds(), base, base.Bounds().Min, draw.Src)
	wallpaper.DrawClock(NewRaster(img), sc)
	return img
}

func (r *Renderer) Record(sc wallpaper.Scene) wallpaper.Ops {
	rec := wallpaper.NewRecorder(sc.Width, sc.Height, NewFonts(sc.Width))
	wallpaper.Compose(rec, sc)
	return rec.Ops()
}

func (r *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("canvas: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Downscale resizes img by factor (0 < factor < 1); other factors return img unchanged.
func Downscale(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor >= 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
