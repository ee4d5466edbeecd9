package wallpaper

import (
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

// GenerateHeatmap returns the 84 days ending today, oldest first.
func GenerateHeatmap(activity domain.ActivityMap, habitCount int, today time.Time) []domain.HeatmapCell {
	if habitCount < 0 {
		habitCount = 0
	}

	cells := make([]domain.HeatmapCell, 0, domain.HeatmapDays)
	start := domain.AddDays(today, -(domain.HeatmapDays - 1))

	for i := 0; i < domain.HeatmapDays; i++ {
		day := domain.AddDays(start, i)
		completed := activity.On(day)
		pct := completionPercentage(completed, habitCount)

		cells = append(cells, domain.HeatmapCell{
			Date:        domain.DateKey(day),
			Completed:   completed,
			TotalHabits: habitCount,
			Percentage:  pct,
			Level:       IntensityLevel(pct),
			DayOfWeek:   int(day.Weekday()),
		})
	}

	return cells
}

// IntensityLevel buckets a completion percentage into 0..4.
// 1-24% and 25-49% share level 1.
func IntensityLevel(pct int) int {
	switch {
	case pct <= 0:
		return 0
	case pct < 25:
		return 1
	case pct < 50:
		return 1
	case pct < 75:
		return 2
	case pct < 100:
		return 3
	default:
		return 4
	}
}
