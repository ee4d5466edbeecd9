package wallpaper

import (
	"math"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

// BuildActivityMap counts done logs per calendar day over [from, to]. Every
// day of the window gets a key, 0 when nothing was logged. Duplicate logs for
// the same habit and day are counted as given.
func BuildActivityMap(logs []domain.HabitLog, from, to time.Time) domain.ActivityMap {
	from = domain.DateOf(from, time.UTC)
	to = domain.DateOf(to, time.UTC)

	counts := make(map[string]int, len(logs))
	for _, l := range logs {
		if !l.Done {
			continue
		}
		day, ok := l.Day()
		if !ok {
			continue
		}
		counts[domain.DateKey(day)]++
	}

	days := domain.DaysBetween(from, to) + 1
	if days < 0 {
		days = 0
	}

	activity := make(domain.ActivityMap, days)
	for d := from; !d.After(to); d = domain.AddDays(d, 1) {
		key := domain.DateKey(d)
		activity[key] = counts[key]
	}

	return activity
}

// LogsBetween keeps the logs dated within [from, to].
func LogsBetween(logs []domain.HabitLog, from, to time.Time) []domain.HabitLog {
	out := make([]domain.HabitLog, 0, len(logs))
	for _, l := range logs {
		day, ok := l.Day()
		if !ok || day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// GrowthHistory is the completion percentage of each of the last 7 days, oldest first.
func GrowthHistory(activity domain.ActivityMap, habitCount int, today time.Time) []int {
	history := make([]int, domain.GrowthDays)
	start := domain.AddDays(today, -(domain.GrowthDays - 1))
	for i := range history {
		history[i] = completionPercentage(activity.On(domain.AddDays(start, i)), habitCount)
	}
	return history
}

func completionPercentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	p := int(math.Round(float64(completed) / float64(total) * 100))
	if p > 100 {
		return 100
	}
	return p
}
