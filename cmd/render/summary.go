package main

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
)

type summary struct {
	palette wallpaper.Palette
	plain   bool

	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	box   lipgloss.Style
	r     *lipgloss.Renderer
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

func newSummary(w io.Writer, noColor bool, p wallpaper.Palette) *summary {
	r := lipgloss.NewRenderer(w)
	plain := noColor || r.ColorProfile() == termenv.Ascii
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}

	return &summary{
		palette: p,
		plain:   plain,
		r:       r,
		title:   r.NewStyle().Bold(true).Foreground(hex(p.Accent)),
		label:   r.NewStyle().Foreground(hex(p.TextSub)).Width(16),
		value:   r.NewStyle().Bold(true).Foreground(hex(p.TextMain)),
		box:     r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(hex(p.GridInactive)).Padding(0, 1),
	}
}

func (s *summary) row(label string, value any) string {
	return s.label.Render(label) + s.value.Render(fmt.Sprint(value))
}

// heatmap lays the 84 cells out as the wallpaper does: one column per week.
func (s *summary) heatmap(cells []domain.HeatmapCell) string {
	glyphs := []string{"·", "░", "▒", "▓", "█"}

	rows := make([]strings.Builder, 7)
	for i, c := range cells {
		level := min(max(c.Level, 0), 4)
		cell := s.r.NewStyle().Foreground(hex(s.palette.LevelColor(level))).Render("■")
		if s.plain {
			cell = glyphs[level]
		}
		rows[i%7].WriteString(cell)
	}

	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}

func (s *summary) render(b *domain.WallpaperBundle, out string) string {
	st := b.Stats
	lines := []string{
		s.title.Render("Kanso wallpaper") + "  " + s.label.UnsetWidth().Render(out),
		"",
		s.row("Theme", s.palette.ID),
		s.row("Canvas", fmt.Sprintf("%d×%d %s", b.Settings.Width, b.Settings.Height, b.Settings.WallpaperType)),
		s.row("Life", fmt.Sprintf("%d%%", st.LifeProgressPercentage)),
		s.row("Age", st.AgeYears),
		s.row("Weeks lived", st.WeeksLived),
		s.row("Streak", fmt.Sprintf("%d (best %d)", st.CurrentStreak, st.LongestStreak)),
		s.row("Today", fmt.Sprintf("%d%% of %d habits", st.TodayCompletionPercentage, st.ActiveHabits)),
		s.row("Reminders", len(b.Reminders)),
	}
	if b.Goal != nil {
		lines = append(lines, s.row("Goal", fmt.Sprintf("%s %d%%", b.Goal.Title, b.Goal.Progress())))
	}
	lines = append(lines, "", s.heatmap(st.Heatmap))

	return s.box.Render(strings.Join(lines, "\n"))
}
