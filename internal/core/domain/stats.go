package domain

import "time"

const (
	HeatmapDays   = 84
	GrowthDays    = 7
	HeatmapWindow = 90
)

// ActivityMap counts completed habits per local calendar date ("YYYY-MM-DD").
type ActivityMap map[string]int

func (m ActivityMap) On(day time.Time) int {
	return m[DateKey(day)]
}

type HeatmapCell struct {
	Date        string `json:"date"`
	Completed   int    `json:"completed"`
	TotalHabits int    `json:"total_habits"`
	Percentage  int    `json:"percentage"`
	Level       int    `json:"level"`
	DayOfWeek   int    `json:"day_of_week"`
}

type DerivedStats struct {
	CurrentStreak             int           `json:"current_streak"`
	LongestStreak             int           `json:"longest_streak"`
	StreakActiveToday         bool          `json:"streak_active_today"`
	TodayCompletionPercentage int           `json:"today_completion_percentage"`
	GrowthHistory             []int         `json:"growth_history"`
	Heatmap                   []HeatmapCell `json:"heatmap"`
	LifeProgressPercentage    int           `json:"life_progress_percentage"`
	ActiveHabits              int           `json:"active_habits"`
	AgeYears                  int           `json:"age_years"`
	WeeksLived                int           `json:"weeks_lived"`
	DaysLived                 int           `json:"days_lived"`
}

// WallpaperBundle is everything a renderer needs for one wallpaper.
type WallpaperBundle struct {
	Settings    WallpaperSettings `json:"settings"`
	Habits      []*Habit          `json:"habits"`
	Goals       []*Goal           `json:"goals"`
	Goal        *Goal             `json:"goal,omitempty"`
	Reminders   []*Reminder       `json:"reminders"`
	Stats       DerivedStats      `json:"stats"`
	GeneratedAt time.Time         `json:"generated_at"`
}
