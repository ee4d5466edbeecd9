package wallpaper

import (
	"math"
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

const WeeksPerYear = 52

type CellState int

const (
	CellFuture CellState = iota
	CellLived
	CellCurrent
)

func (s CellState) String() string {
	switch s {
	case CellLived:
		return "lived"
	case CellCurrent:
		return "current"
	default:
		return "future"
	}
}

// Marker is a reminder attached to a grid cell.
type Marker struct {
	ReminderID string
	Title      string
	Icon       string
	Color      string
	Priority   int
	Important  bool
}

// Grid is a laid-out life or year grid. Cells only carry markers; their
// state derives from Lived and Current so that a 30k cell days-mode grid
// stays cheap.
type Grid struct {
	Mode         string
	Start        time.Time
	IntervalDays int
	Total        int
	Lived        int
	// Current is the index of the cell containing today, -1 when today falls outside the grid.
	Current  int
	Progress float64
	// Columns is the preferred column count, 0 to let the layout choose.
	Columns int
	Markers map[int][]Marker
}

func (g *Grid) State(i int) CellState {
	switch {
	case i == g.Current:
		return CellCurrent
	case i < g.Lived:
		return CellLived
	default:
		return CellFuture
	}
}

// Primary returns the marker whose glyph is drawn on cell i.
func (g *Grid) Primary(i int) (Marker, bool) {
	ms := g.Markers[i]
	if len(ms) == 0 {
		return Marker{}, false
	}
	return ms[0], true
}

// CellStart is the first calendar day covered by cell i.
func (g *Grid) CellStart(i int) time.Time {
	return domain.AddDays(g.Start, i*g.IntervalDays)
}

// LayoutLifeGrid lays out a whole life starting at dob: years*52 week cells,
// or floor(years*365.25) day cells.
func LayoutLifeGrid(dob time.Time, years int, mode string, today time.Time, reminders []*domain.Reminder) *Grid {
	if years < 0 {
		years = 0
	}

	var total, interval, cols int
	if mode == domain.GridModeDays {
		total = int(math.Floor(float64(years) * 365.25))
		interval = 1
	} else {
		mode = domain.GridModeWeeks
		total = years * WeeksPerYear
		interval = 7
		cols = WeeksPerYear
	}

	g := layoutGrid(mode, dob, total, interval, today, reminders)
	g.Columns = cols
	return g
}

// LayoutYearGrid lays out the current calendar year from January 1.
func LayoutYearGrid(today time.Time, mode string, reminders []*domain.Reminder) *Grid {
	jan1 := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	if mode == domain.GridModeDays {
		days := domain.DaysBetween(jan1, jan1.AddDate(1, 0, 0))
		g := layoutGrid(domain.GridModeDays, jan1, days, 1, today, reminders)
		g.Columns = 0
		return g
	}

	g := layoutGrid(domain.GridModeWeeks, jan1, WeeksPerYear, 7, today, reminders)
	g.Columns = 13
	return g
}

func layoutGrid(mode string, start time.Time, total, interval int, today time.Time, reminders []*domain.Reminder) *Grid {
	elapsed := domain.DaysBetween(start, today)
	lived := floorDiv(elapsed, interval)

	g := &Grid{
		Mode:         mode,
		Start:        start,
		IntervalDays: interval,
		Total:        total,
		Lived:        clampInt(lived, 0, total),
		Current:      -1,
		Markers:      make(map[int][]Marker),
	}

	if total > 0 {
		g.Progress = clampFloat(float64(lived)/float64(total)*100, 0, 100)
	}
	if elapsed >= 0 && lived < total {
		g.Current = lived
	}

	g.attachReminders(reminders)
	return g
}

func (g *Grid) attachReminders(reminders []*domain.Reminder) {
	if g.Total == 0 {
		return
	}

	for _, r := range reminders {
		if r == nil {
			continue
		}
		start, end, ok := r.Span()
		if !ok {
			continue
		}

		first := floorDiv(domain.DaysBetween(g.Start, start), g.IntervalDays)
		last := floorDiv(domain.DaysBetween(g.Start, end), g.IntervalDays)
		if last < 0 || first >= g.Total {
			continue
		}
		first = clampInt(first, 0, g.Total-1)
		last = clampInt(last, 0, g.Total-1)

		m := Marker{
			ReminderID: r.ID,
			Title:      r.Title,
			Icon:       r.Icon,
			Color:      r.DisplayColor(),
			Priority:   r.ClampedPriority(),
			Important:  r.IsImportant,
		}
		for i := first; i <= last; i++ {
			g.Markers[i] = append(g.Markers[i], m)
		}
	}

	for i, ms := range g.Markers {
		if len(ms) < 2 {
			continue
		}
		sort.SliceStable(ms, func(a, b int) bool {
			if ms[a].Priority != ms[b].Priority {
				return ms[a].Priority > ms[b].Priority
			}
			return ms[a].Important && !ms[b].Important
		})
		g.Markers[i] = ms
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
