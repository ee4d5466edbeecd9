package wallpaper

import (
	"image"
	"math"
)

// Geometry places n square cells inside an area.
type Geometry struct {
	Origin image.Point
	Cols   int
	Rows   int
	Pitch  int
	Gap    int
}

// FitGrid sizes n cells into area. With cols > 0 the column count is fixed;
// otherwise the count giving the largest cell pitch wins. The block is
// centered horizontally and top-aligned.
func FitGrid(n, cols int, area image.Rectangle) Geometry {
	w, h := area.Dx(), area.Dy()
	if n <= 0 || w <= 0 || h <= 0 {
		return Geometry{Origin: area.Min}
	}

	if cols <= 0 {
		cols = bestColumns(n, w, h)
	}
	if cols > n {
		cols = n
	}
	rows := (n + cols - 1) / cols

	pitch := min(w/cols, h/rows)
	if pitch < 1 {
		pitch = 1
	}

	g := Geometry{
		Cols:  cols,
		Rows:  rows,
		Pitch: pitch,
		Gap:   gapFor(pitch),
	}
	g.Origin = image.Pt(area.Min.X+(w-cols*pitch)/2, area.Min.Y)
	return g
}

func bestColumns(n, w, h int) int {
	// pitch is maximal near sqrt(n*w/h); scan a window around it.
	guess := int(math.Sqrt(float64(n) * float64(w) / float64(h)))
	best, bestPitch := 1, 0
	for c := max(1, guess-8); c <= min(n, guess+8); c++ {
		rows := (n + c - 1) / c
		p := min(w/c, h/rows)
		if p > bestPitch {
			best, bestPitch = c, p
		}
	}
	return best
}

func gapFor(pitch int) int {
	switch {
	case pitch >= 5:
		return pitch / 5
	case pitch >= 3:
		return 1
	default:
		return 0
	}
}

// Cell returns the drawable square for cell i, gap excluded.
func (g Geometry) Cell(i int) image.Rectangle {
	if g.Cols == 0 {
		return image.Rectangle{}
	}
	col, row := i%g.Cols, i/g.Cols
	x := g.Origin.X + col*g.Pitch
	y := g.Origin.Y + row*g.Pitch
	side := g.Pitch - g.Gap
	return image.Rect(x, y, x+side, y+side)
}

// Bounds is the rectangle occupied by the whole block.
func (g Geometry) Bounds() image.Rectangle {
	return image.Rect(g.Origin.X, g.Origin.Y, g.Origin.X+g.Cols*g.Pitch, g.Origin.Y+g.Rows*g.Pitch)
}
