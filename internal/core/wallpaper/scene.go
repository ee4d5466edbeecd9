package wallpaper

import (
	"image"
	"math"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

// Layout fractions, relative to canvas width (X) or height (Y).
const (
	marginXFrac = 0.07

	lockscreenTopFrac    = 0.26
	homeTopFrac          = 0.07
	lockscreenBottomFrac = 0.07
	homeBottomFrac       = 0.13

	sectionGapFrac   = 0.015
	headerHeightFrac = 0.05
	statsHeightFrac  = 0.085
	habitsHeightFrac = 0.08
	quoteHeightFrac  = 0.07
	lifeGridShare    = 0.68
)

// Scene is the full input of one composition.
type Scene struct {
	Width         int
	Height        int
	WallpaperType string
	Palette       Palette
	// Now is the wall clock in the user's timezone; only the clock overlay reads it.
	Now     time.Time
	Derived Derived
	Goal    *domain.Goal
	Quote   string

	ShowLifeGrid   bool
	ShowYearGrid   bool
	ShowAgeStats   bool
	ShowQuote      bool
	ShowHabitLayer bool
	ShowGoal       bool
}

func NewScene(s domain.WallpaperSettings, d Derived, goal *domain.Goal, palette Palette, now time.Time) Scene {
	return Scene{
		Width:          s.Width,
		Height:         s.Height,
		WallpaperType:  s.WallpaperType,
		Palette:        palette,
		Now:            now.In(s.Location()),
		Derived:        d,
		Goal:           goal,
		Quote:          s.Quote,
		ShowLifeGrid:   s.ShowLifeGrid,
		ShowYearGrid:   s.ShowYearGrid,
		ShowAgeStats:   s.ShowAgeStats,
		ShowQuote:      s.ShowQuote && s.Quote != "",
		ShowHabitLayer: s.ShowHabitLayer,
		ShowGoal:       s.ShowPinnedGoal && goal != nil,
	}
}

// Layout holds the slot of every block. Empty rectangles are not drawn.
type Layout struct {
	Header    image.Rectangle
	Streak    image.Rectangle
	Dashboard image.Rectangle
	Habits    image.Rectangle
	Goal      image.Rectangle
	LifeGrid  image.Rectangle
	YearGrid  image.Rectangle
	Quote     image.Rectangle
}

func ComputeLayout(sc Scene) Layout {
	w, h := sc.Width, sc.Height
	fy := func(f float64) int { return int(math.Round(float64(h) * f)) }

	mx := int(math.Round(float64(w) * marginXFrac))
	gap := fy(sectionGapFrac)
	left, right := mx, w-mx
	mid := w / 2
	half := gap / 2

	topFrac, bottomFrac := lockscreenTopFrac, lockscreenBottomFrac
	if sc.WallpaperType == domain.WallpaperTypeHome {
		topFrac, bottomFrac = homeTopFrac, homeBottomFrac
	}
	y := fy(topFrac)
	bottom := h - fy(bottomFrac)

	var l Layout

	l.Header = image.Rect(left, y, right, y+fy(headerHeightFrac))
	y = l.Header.Max.Y + gap

	if sc.ShowAgeStats {
		row := image.Rect(left, y, right, y+fy(statsHeightFrac))
		l.Streak = image.Rect(row.Min.X, row.Min.Y, mid-half, row.Max.Y)
		l.Dashboard = image.Rect(mid+half, row.Min.Y, row.Max.X, row.Max.Y)
		y = row.Max.Y + gap
	}

	if sc.ShowHabitLayer || sc.ShowGoal {
		row := image.Rect(left, y, right, y+fy(habitsHeightFrac))
		switch {
		case sc.ShowHabitLayer && sc.ShowGoal:
			l.Habits = image.Rect(row.Min.X, row.Min.Y, mid-half, row.Max.Y)
			l.Goal = image.Rect(mid+half, row.Min.Y, row.Max.X, row.Max.Y)
		case sc.ShowHabitLayer:
			l.Habits = row
		default:
			l.Goal = row
		}
		y = row.Max.Y + gap
	}

	if sc.ShowQuote {
		l.Quote = image.Rect(left, bottom-fy(quoteHeightFrac), right, bottom)
		bottom = l.Quote.Min.Y - gap
	}

	if bottom <= y {
		return l
	}
	area := image.Rect(left, y, right, bottom)

	switch {
	case sc.ShowLifeGrid && sc.ShowYearGrid:
		split := area.Min.Y + int(float64(area.Dy())*lifeGridShare)
		l.LifeGrid = image.Rect(area.Min.X, area.Min.Y, area.Max.X, split-half)
		l.YearGrid = image.Rect(area.Min.X, split+half, area.Max.X, area.Max.Y)
	case sc.ShowLifeGrid:
		l.LifeGrid = area
	case sc.ShowYearGrid:
		l.YearGrid = area
	}

	return l
}
