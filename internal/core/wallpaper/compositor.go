package wallpaper

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const maxQuoteLines = 3

var shadowColor = color.RGBA{A: 0x8c}

// Compose draws a scene in fixed z-order: background, life header, streak and
// dashboard, habit heatmap and goal, grids with reminder markers, quote.
// Compose is deterministic: the same scene gives the same call sequence.
func Compose(s Surface, sc Scene) {
	pt := newPainter(s, sc)
	l := ComputeLayout(sc)

	pt.background()
	pt.lifeHeader(l.Header)

	if sc.ShowAgeStats {
		pt.streakWidget(l.Streak)
		pt.dashboard(l.Dashboard)
	}
	if sc.ShowHabitLayer {
		pt.heatmap(l.Habits)
	}
	if sc.ShowGoal {
		pt.goal(l.Goal)
	}

	if sc.ShowLifeGrid {
		if g := sc.Derived.LifeGrid; g != nil {
			pt.grid(g, l.LifeGrid, "", true)
		} else {
			pt.missingBirthDate(l.LifeGrid)
		}
	}
	if sc.ShowYearGrid && sc.Derived.YearGrid != nil {
		g := sc.Derived.YearGrid
		title := fmt.Sprintf("%d", sc.Derived.Today.Year())
		pt.grid(g, l.YearGrid, title, false)
	}

	if sc.ShowQuote {
		pt.quote(l.Quote, sc.Quote)
	}
}

// DrawClock draws the time and date the phone would show over the wallpaper.
// It only adds to what is already on the surface.
func DrawClock(s Surface, sc Scene) {
	pt := newPainter(s, sc)
	now := sc.Now
	fy := func(f float64) int { return int(math.Round(float64(sc.Height) * f)) }

	if sc.WallpaperType == domain.WallpaperTypeHome {
		mx := int(math.Round(float64(sc.Width) * marginXFrac))
		y := fy(0.045)
		pt.text(mx, y, now.Format("15:04"), FaceBody, pt.p.TextMain)
		pt.textRight(sc.Width-mx, y, now.Format("Mon 2 Jan"), FaceBody, pt.p.TextSub)
		return
	}

	cx := sc.Width / 2
	pt.textCenter(cx, fy(0.15), now.Format("15:04"), FaceClock, pt.p.TextMain)
	pt.textCenter(cx, fy(0.19), now.Format("Monday, January 2"), FaceHeading, pt.p.TextSub)
}

type painter struct {
	s      Surface
	p      Palette
	sc     Scene
	shadow int
}

func newPainter(s Surface, sc Scene) painter {
	return painter{
		s:      s,
		p:      sc.Palette,
		sc:     sc,
		shadow: max(1, int(math.Round(float64(sc.Width)/540))),
	}
}

// text always draws the drop shadow before the glyphs.
func (pt painter) text(x, y int, str string, face Face, c color.RGBA) {
	if str == "" {
		return
	}
	pt.s.Text(x+pt.shadow, y+pt.shadow, str, face, shadowColor)
	pt.s.Text(x, y, str, face, c)
}

func (pt painter) textRight(right, y int, str string, face Face, c color.RGBA) {
	pt.text(right-pt.s.TextWidth(str, face), y, str, face, c)
}

func (pt painter) textCenter(cx, y int, str string, face Face, c color.RGBA) {
	pt.text(cx-pt.s.TextWidth(str, face)/2, y, str, face, c)
}

func (pt painter) fill(r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	pt.s.FillRect(r, c)
}

func (pt painter) bar(r image.Rectangle, pct float64, track, fill color.RGBA) {
	pt.fill(r, track)
	w := int(float64(r.Dx()) * clampFloat(pct, 0, 100) / 100)
	if w > 0 {
		pt.fill(image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), fill)
	}
}

func (pt painter) outline(r image.Rectangle, c color.RGBA) {
	pt.fill(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	pt.fill(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	pt.fill(image.Rect(r.Min.X, r.Min.Y+1, r.Min.X+1, r.Max.Y-1), c)
	pt.fill(image.Rect(r.Max.X-1, r.Min.Y+1, r.Max.X, r.Max.Y-1), c)
}

func (pt painter) padding(r image.Rectangle) int {
	return max(2, r.Dy()/8)
}

func (pt painter) background() {
	full := image.Rect(0, 0, pt.sc.Width, pt.sc.Height)
	pt.s.VerticalGradient(full, pt.p.BG, Blend(pt.p.BG, pt.p.Card, 0.85))
}

func (pt painter) lifeHeader(r image.Rectangle) {
	if r.Empty() {
		return
	}
	st := pt.sc.Derived.Stats
	baseline := r.Min.Y + pt.s.Ascent(FaceHeading)

	label := "LIFE"
	if st.AgeYears > 0 {
		label = fmt.Sprintf("LIFE  |  AGE %d", st.AgeYears)
	}
	pt.text(r.Min.X, baseline, label, FaceBody, pt.p.TextSub)

	pct, progress := "--", 0.0
	if g := pt.sc.Derived.LifeGrid; g != nil {
		progress = g.Progress
		pct = fmt.Sprintf("%.1f%%", g.Progress)
	}
	pt.textRight(r.Max.X, baseline, pct, FaceHeading, pt.p.TextMain)

	barH := max(2, int(math.Round(float64(pt.sc.Height)*0.005)))
	pt.bar(image.Rect(r.Min.X, r.Max.Y-barH, r.Max.X, r.Max.Y), progress, pt.p.GridInactive, pt.p.Accent)
}

func (pt painter) streakWidget(r image.Rectangle) {
	if r.Empty() {
		return
	}
	st := pt.sc.Derived.Stats
	pad := pt.padding(r)
	pt.fill(r, pt.p.Card)

	streakColor := pt.p.TextSub
	if st.StreakActiveToday {
		streakColor = pt.p.Accent
	}

	x := r.Min.X + pad
	baseline := r.Min.Y + pad + pt.s.Ascent(FaceTitle)
	n := formatInt(st.CurrentStreak)
	pt.text(x, baseline, n, FaceTitle, streakColor)
	pt.text(x+pt.s.TextWidth(n, FaceTitle)+pad/2, baseline, "day streak", FaceBody, pt.p.TextMain)

	detail := fmt.Sprintf("best %s  |  today %d%%", formatInt(st.LongestStreak), st.TodayCompletionPercentage)
	if st.WeeksLived > 0 {
		detail = fmt.Sprintf("best %s  |  %s weeks lived", formatInt(st.LongestStreak), formatInt(st.WeeksLived))
	}
	pt.text(x, r.Max.Y-pad, pt.fit(detail, FaceLabel, r.Dx()-2*pad), FaceLabel, pt.p.TextSub)
}

// dashboard shows today's completion and the 7 day growth sparkline.
func (pt painter) dashboard(r image.Rectangle) {
	if r.Empty() {
		return
	}
	st := pt.sc.Derived.Stats
	pad := pt.padding(r)
	pt.fill(r, pt.p.Card)

	baseline := r.Min.Y + pad + pt.s.Ascent(FaceBody)
	pt.text(r.Min.X+pad, baseline, "7 DAYS", FaceBody, pt.p.TextSub)
	pt.textRight(r.Max.X-pad, baseline, fmt.Sprintf("%d%%", st.TodayCompletionPercentage), FaceBody, pt.p.TextMain)

	chart := image.Rect(r.Min.X+pad, baseline+pad/2, r.Max.X-pad, r.Max.Y-pad)
	n := len(st.GrowthHistory)
	if chart.Empty() || n == 0 {
		return
	}

	gap := max(1, chart.Dx()/(n*6))
	barW := (chart.Dx() - gap*(n-1)) / n
	if barW < 1 {
		return
	}
	for i, pct := range st.GrowthHistory {
		x := chart.Min.X + i*(barW+gap)
		track := image.Rect(x, chart.Min.Y, x+barW, chart.Max.Y)
		pt.fill(track, pt.p.GridInactive)

		h := chart.Dy() * clampInt(pct, 0, 100) / 100
		if pct > 0 && h < 2 {
			h = 2
		}
		c := pt.p.GridActive
		if i == n-1 {
			c = pt.p.Accent
		}
		pt.fill(image.Rect(x, chart.Max.Y-h, x+barW, chart.Max.Y), c)
	}
}

// heatmap draws the 84 day cells as 12 week columns of 7 days.
func (pt painter) heatmap(r image.Rectangle) {
	if r.Empty() {
		return
	}
	cells := pt.sc.Derived.Stats.Heatmap
	pad := pt.padding(r)
	pt.fill(r, pt.p.Card)

	baseline := r.Min.Y + pad + pt.s.Ascent(FaceLabel)
	pt.text(r.Min.X+pad, baseline, "12 WEEKS", FaceLabel, pt.p.TextSub)
	pt.textRight(r.Max.X-pad, baseline, fmt.Sprintf("%d habits", pt.sc.Derived.Stats.ActiveHabits), FaceLabel, pt.p.TextSub)

	area := image.Rect(r.Min.X+pad, baseline+pad/2, r.Max.X-pad, r.Max.Y-pad)
	cols := (len(cells) + 6) / 7
	if area.Empty() || cols == 0 {
		return
	}
	pitch := min(area.Dx()/cols, area.Dy()/7)
	if pitch < 1 {
		return
	}
	gap := gapFor(pitch)
	x0 := area.Min.X + (area.Dx()-cols*pitch)/2

	for i, c := range cells {
		x := x0 + (i/7)*pitch
		y := area.Min.Y + (i%7)*pitch
		pt.fill(image.Rect(x, y, x+pitch-gap, y+pitch-gap), pt.levelColor(c.Level))
	}
}

func (pt painter) levelColor(level int) color.RGBA {
	return pt.p.LevelColor(level)
}

func (pt painter) goal(r image.Rectangle) {
	g := pt.sc.Goal
	if r.Empty() || g == nil {
		return
	}
	pad := pt.padding(r)
	pt.fill(r, pt.p.Card)
	inner := r.Dx() - 2*pad

	baseline := r.Min.Y + pad + pt.s.Ascent(FaceBody)
	pt.text(r.Min.X+pad, baseline, pt.fit(g.Title, FaceBody, inner), FaceBody, pt.p.TextMain)

	progress := g.Progress()
	meta := fmt.Sprintf("%d%%", progress)
	if g.Category != "" {
		meta = fmt.Sprintf("%s  |  %d%%", strings.ToUpper(g.Category), progress)
	}
	metaY := baseline + pad/2 + pt.s.Ascent(FaceLabel)
	pt.text(r.Min.X+pad, metaY, pt.fit(meta, FaceLabel, inner), FaceLabel, pt.p.TextSub)

	barH := max(2, pad/2)
	pt.bar(image.Rect(r.Min.X+pad, r.Max.Y-pad-barH, r.Max.X-pad, r.Max.Y-pad), float64(progress), pt.p.GridInactive, pt.p.Accent)
}

func (pt painter) grid(g *Grid, r image.Rectangle, title string, ageLabels bool) {
	if r.Empty() || g.Total == 0 {
		return
	}

	area := r
	if title != "" {
		baseline := r.Min.Y + pt.s.Ascent(FaceBody)
		pt.text(r.Min.X, baseline, title, FaceBody, pt.p.TextSub)
		pt.textRight(r.Max.X, baseline, fmt.Sprintf("%.0f%%", g.Progress), FaceBody, pt.p.TextMain)
		area.Min.Y = baseline + pt.s.Ascent(FaceBody)/2
	}

	geo := FitGrid(g.Total, g.Columns, area)
	for i := 0; i < g.Total; i++ {
		cell := geo.Cell(i)
		if cell.Min.Y >= area.Max.Y {
			break
		}
		pt.fill(cell, pt.stateColor(g.State(i)))

		m, ok := g.Primary(i)
		if !ok {
			continue
		}
		side := cell.Dx()
		if inset := side / 4; side >= 4 {
			pt.fill(cell.Inset(inset), pt.markerColor(m))
		} else {
			pt.fill(cell, pt.markerColor(m))
		}
		if m.Important && side >= 4 {
			pt.outline(cell, pt.p.TextMain)
		}
	}

	if ageLabels && g.Columns == WeeksPerYear && geo.Pitch >= 6 {
		for row := 10; row < geo.Rows; row += 10 {
			y := geo.Origin.Y + row*geo.Pitch + geo.Pitch - geo.Gap
			if y > area.Max.Y {
				break
			}
			pt.textRight(geo.Origin.X-geo.Pitch, y, fmt.Sprintf("%d", row), FaceLabel, pt.p.TextSub)
		}
	}
}

func (pt painter) stateColor(s CellState) color.RGBA {
	switch s {
	case CellLived:
		return pt.p.GridActive
	case CellCurrent:
		return pt.p.Accent
	default:
		return pt.p.GridInactive
	}
}

func (pt painter) markerColor(m Marker) color.RGBA {
	if m.Color != "" {
		if c, err := ParseHexColor(m.Color); err == nil {
			return c
		}
	}
	return pt.p.Accent
}

func (pt painter) missingBirthDate(r image.Rectangle) {
	if r.Empty() {
		return
	}
	y := r.Min.Y + r.Dy()/3
	msg := pt.fit("Set your date of birth to see your life in weeks", FaceBody, r.Dx())
	pt.textCenter(r.Min.X+r.Dx()/2, y, msg, FaceBody, pt.p.TextSub)
}

// quote wraps the text and anchors its last line on the bottom of r.
func (pt painter) quote(r image.Rectangle, q string) {
	if r.Empty() || q == "" {
		return
	}

	const sample = "abcdefghijklmnopqrstuvwxyz"
	charW := max(1, pt.s.TextWidth(sample, FaceBody)/len(sample))
	limit := max(8, r.Dx()/charW)

	lines := strings.Split(wordwrap.String(q, limit), "\n")
	if len(lines) > maxQuoteLines {
		lines = lines[:maxQuoteLines]
		lines[maxQuoteLines-1] = strings.TrimRight(lines[maxQuoteLines-1], " ") + "..."
	}

	lineH := pt.s.Ascent(FaceBody) * 3 / 2
	cx := r.Min.X + r.Dx()/2
	y := r.Max.Y - (len(lines)-1)*lineH
	for _, line := range lines {
		pt.textCenter(cx, y, pt.fit(strings.TrimSpace(line), FaceBody, r.Dx()), FaceBody, pt.p.TextMain)
		y += lineH
	}
}

// fit shortens s with an ellipsis until it is at most width wide.
func (pt painter) fit(s string, face Face, width int) string {
	if pt.s.TextWidth(s, face) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "..."
		if pt.s.TextWidth(candidate, face) <= width {
			return candidate
		}
	}
	return ""
}

func formatInt(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
