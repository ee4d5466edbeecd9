package wallpaper

import (
	"math"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

// ActivityWindowDays bounds the current-streak walk and the habit log query.
// The longest streak is computed over the same logs, so runs that ended more
// than a year ago are not counted.
const ActivityWindowDays = 365

type DeriveInput struct {
	Settings  domain.WallpaperSettings
	Habits    []*domain.Habit
	Reminders []*domain.Reminder
	// Now is converted to a calendar date in the settings timezone.
	Now time.Time
}

type Derived struct {
	Today    time.Time
	Stats    domain.DerivedStats
	LifeGrid *Grid
	YearGrid *Grid
}

// Derive runs aggregation, streaks, heatmap and grid layout. It is pure and
// never fails: empty collections produce zero values.
func Derive(in DeriveInput) Derived {
	s := in.Settings
	today := domain.DateOf(in.Now, s.Location())

	logs := domain.ActiveLogs(in.Habits)
	habitCount := domain.CountActive(in.Habits)

	windowStart := domain.AddDays(today, -(ActivityWindowDays - 1))
	activity := BuildActivityMap(logs, windowStart, today)
	current, activeToday := CurrentStreak(activity, today, windowStart)

	heatStart := domain.AddDays(today, -(domain.HeatmapWindow - 1))
	recent := BuildActivityMap(LogsBetween(logs, heatStart, today), heatStart, today)
	growth := GrowthHistory(recent, habitCount, today)

	stats := domain.DerivedStats{
		CurrentStreak:             current,
		LongestStreak:             LongestStreak(logs),
		StreakActiveToday:         activeToday,
		TodayCompletionPercentage: growth[len(growth)-1],
		GrowthHistory:             growth,
		Heatmap:                   GenerateHeatmap(recent, habitCount, today),
		ActiveHabits:              habitCount,
	}

	d := Derived{Today: today}

	if dob, ok := s.BirthDate(); ok {
		d.LifeGrid = LayoutLifeGrid(dob, s.LifeExpectancy, s.YearGridMode, today, in.Reminders)
		stats.LifeProgressPercentage = int(math.Round(d.LifeGrid.Progress))
		if !today.Before(dob) {
			stats.DaysLived = domain.DaysBetween(dob, today)
			stats.WeeksLived = stats.DaysLived / 7
			stats.AgeYears = ageYears(dob, today)
		}
	}

	if s.ShowYearGrid {
		d.YearGrid = LayoutYearGrid(today, s.YearGridMode, in.Reminders)
	}

	d.Stats = stats
	return d
}

func ageYears(dob, today time.Time) int {
	years := today.Year() - dob.Year()
	if !sameMonthDayOrLater(today, dob) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func sameMonthDayOrLater(today, dob time.Time) bool {
	if today.Month() != dob.Month() {
		return today.Month() > dob.Month()
	}
	return today.Day() >= dob.Day()
}
