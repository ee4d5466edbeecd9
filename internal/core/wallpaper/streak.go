package wallpaper

import (
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

// CurrentStreak counts consecutive active days ending today. A day without
// activity today means no streak, whatever happened yesterday.
func CurrentStreak(activity domain.ActivityMap, today, windowStart time.Time) (streak int, activeToday bool) {
	if activity.On(today) == 0 {
		return 0, false
	}

	for d := today; !d.Before(windowStart); d = domain.AddDays(d, -1) {
		if activity.On(d) == 0 {
			break
		}
		streak++
	}

	return streak, true
}

// LongestStreak is the longest run of consecutive days with at least one done log.
func LongestStreak(logs []domain.HabitLog) int {
	uniqueDays := make(map[string]bool)
	var sortedDates []time.Time

	for _, l := range logs {
		if !l.Done {
			continue
		}
		day, ok := l.Day()
		if !ok {
			continue
		}
		key := domain.DateKey(day)
		if !uniqueDays[key] {
			uniqueDays[key] = true
			sortedDates = append(sortedDates, day)
		}
	}

	if len(sortedDates) == 0 {
		return 0
	}

	sort.Slice(sortedDates, func(i, j int) bool {
		return sortedDates[i].Before(sortedDates[j])
	})

	longest := 1
	run := 1
	for i := 1; i < len(sortedDates); i++ {
		if domain.DaysBetween(sortedDates[i-1], sortedDates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return longest
}
