package wallpaper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

var testToday = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func dayKey(offset int) string {
	return domain.DateKey(domain.AddDays(testToday, offset))
}

// habitWithDays builds an active habit done on each given offset from testToday.
func habitWithDays(id string, offsets ...int) *domain.Habit {
	h := &domain.Habit{ID: id, UserID: "u1", Title: id, IsActive: true}
	for _, o := range offsets {
		h.Logs = append(h.Logs, domain.HabitLog{HabitID: id, Date: dayKey(o), Done: true})
	}
	return h
}

func TestBuildActivityMap(t *testing.T) {
	logs := []domain.HabitLog{
		{HabitID: "a", Date: dayKey(0), Done: true},
		{HabitID: "b", Date: dayKey(0), Done: true},
		{HabitID: "a", Date: dayKey(-1), Done: false},
		{HabitID: "a", Date: dayKey(-2), Done: true},
		{HabitID: "a", Date: "not-a-date", Done: true},
		{HabitID: "a", Date: dayKey(-30), Done: true},
	}

	m := BuildActivityMap(logs, domain.AddDays(testToday, -6), testToday)

	assert.Len(t, m, 7, "every day of the window must have a key")
	assert.Equal(t, 2, m.On(testToday))
	assert.Equal(t, 0, m.On(domain.AddDays(testToday, -1)))
	assert.Equal(t, 1, m.On(domain.AddDays(testToday, -2)))
	assert.Equal(t, 0, m.On(domain.AddDays(testToday, -30)), "days outside the window are not present")

	t.Run("Duplicates are summed", func(t *testing.T) {
		dup := []domain.HabitLog{
			{HabitID: "a", Date: dayKey(0), Done: true},
			{HabitID: "a", Date: dayKey(0), Done: true},
		}
		assert.Equal(t, 2, BuildActivityMap(dup, testToday, testToday).On(testToday))
	})
}

func TestCurrentStreak(t *testing.T) {
	windowStart := domain.AddDays(testToday, -364)

	tests := []struct {
		name        string
		offsets     []int
		wantStreak  int
		wantToday   bool
	}{
		{"Success: Five days ending today", []int{0, -1, -2, -3, -4}, 5, true},
		{"Success: Only today", []int{0}, 1, true},
		{"Broken: Gap stops the walk", []int{0, -1, -3, -4}, 2, true},
		{"Zero: Yesterday counts for nothing without today", []int{-1, -2, -3}, 0, false},
		{"Zero: No logs", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := habitWithDays("h", tt.offsets...)
			activity := BuildActivityMap(h.Logs, windowStart, testToday)

			streak, active := CurrentStreak(activity, testToday, windowStart)
			assert.Equal(t, tt.wantStreak, streak)
			assert.Equal(t, tt.wantToday, active)
		})
	}

	t.Run("Stops at window start", func(t *testing.T) {
		h := habitWithDays("h", 0, -1, -2, -3, -4, -5)
		start := domain.AddDays(testToday, -2)
		activity := BuildActivityMap(h.Logs, start, testToday)

		streak, _ := CurrentStreak(activity, testToday, start)
		assert.Equal(t, 3, streak)
	})
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		logs []domain.HabitLog
		want int
	}{
		{"Empty", nil, 0},
		{"All false", []domain.HabitLog{{Date: dayKey(0)}, {Date: dayKey(-1)}}, 0},
		{"Single day", habitWithDays("h", -10).Logs, 1},
		{"Unsorted with duplicates", habitWithDays("h", -1, -3, -2, -2, -8, -9).Logs, 3},
		{"Two runs", habitWithDays("h", -20, -19, -18, -17, -5, -4).Logs, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestStreak(tt.logs))
		})
	}
}

func TestIntensityLevel(t *testing.T) {
	cases := map[int]int{
		0:   0,
		1:   1,
		24:  1,
		25:  1,
		49:  1,
		50:  2,
		74:  2,
		75:  3,
		99:  3,
		100: 4,
	}
	for pct, want := range cases {
		assert.Equal(t, want, IntensityLevel(pct), "pct=%d", pct)
	}
}

func TestGenerateHeatmap(t *testing.T) {
	habits := []*domain.Habit{
		habitWithDays("a", 0, -1, -83, -84),
		habitWithDays("b", 0),
		habitWithDays("c"),
	}
	logs := domain.ActiveLogs(habits)
	activity := BuildActivityMap(logs, domain.AddDays(testToday, -89), testToday)

	cells := GenerateHeatmap(activity, 3, testToday)
	require.Len(t, cells, domain.HeatmapDays)

	assert.Equal(t, dayKey(-83), cells[0].Date, "oldest first")
	assert.Equal(t, dayKey(0), cells[83].Date, "ends today")

	for i := 1; i < len(cells); i++ {
		assert.Less(t, cells[i-1].Date, cells[i].Date)
	}

	today := cells[83]
	assert.Equal(t, 2, today.Completed)
	assert.Equal(t, 3, today.TotalHabits)
	assert.Equal(t, 67, today.Percentage)
	assert.Equal(t, 2, today.Level)
	assert.Equal(t, int(time.Saturday), today.DayOfWeek)

	assert.Equal(t, 33, cells[82].Percentage)
	assert.Equal(t, 1, cells[82].Level)
	assert.Equal(t, 1, cells[0].Completed)
}

func TestDerive_Scenarios(t *testing.T) {
	settings, err := domain.NewDefaultSettings("u1")
	require.NoError(t, err)
	now := testToday.Add(15 * time.Hour)

	t.Run("Scenario A: No active habits", func(t *testing.T) {
		inactive := habitWithDays("old", 0, -1)
		inactive.IsActive = false

		d := Derive(DeriveInput{Settings: *settings, Habits: []*domain.Habit{inactive}, Now: now})

		require.Len(t, d.Stats.Heatmap, domain.HeatmapDays)
		for _, c := range d.Stats.Heatmap {
			assert.Equal(t, 0, c.Percentage)
			assert.Equal(t, 0, c.Level)
		}
		assert.Equal(t, 0, d.Stats.TodayCompletionPercentage)
		assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0}, d.Stats.GrowthHistory)
		assert.Equal(t, 0, d.Stats.CurrentStreak)
		assert.Equal(t, 0, d.Stats.ActiveHabits)
	})

	t.Run("Scenario B: Five day streak ending today", func(t *testing.T) {
		h := habitWithDays("run", 0, -1, -2, -3, -4)

		d := Derive(DeriveInput{Settings: *settings, Habits: []*domain.Habit{h}, Now: now})

		assert.Equal(t, 5, d.Stats.CurrentStreak)
		assert.True(t, d.Stats.StreakActiveToday)
		assert.Equal(t, 5, d.Stats.LongestStreak)
		assert.Equal(t, 100, d.Stats.TodayCompletionPercentage)
		assert.Equal(t, []int{0, 0, 100, 100, 100, 100, 100}, d.Stats.GrowthHistory)
	})

	t.Run("Scenario C: Every day but today", func(t *testing.T) {
		h := habitWithDays("gap", -1, -2, -3, -4, -5, -6, -7, -8, -9)

		d := Derive(DeriveInput{Settings: *settings, Habits: []*domain.Habit{h}, Now: now})

		assert.Equal(t, 0, d.Stats.CurrentStreak)
		assert.False(t, d.Stats.StreakActiveToday)
		assert.Equal(t, 9, d.Stats.LongestStreak)
		assert.GreaterOrEqual(t, d.Stats.LongestStreak, d.Stats.CurrentStreak)
	})

	t.Run("Timezone picks the local calendar day", func(t *testing.T) {
		s := *settings
		s.Timezone = "Pacific/Auckland"
		h := habitWithDays("tz", 1)

		// 15:00 UTC on the 15th is already the 16th in Auckland.
		d := Derive(DeriveInput{Settings: s, Habits: []*domain.Habit{h}, Now: now})

		assert.Equal(t, dayKey(1), domain.DateKey(d.Today))
		assert.Equal(t, 1, d.Stats.CurrentStreak)
	})

	t.Run("No birth date leaves life stats at zero", func(t *testing.T) {
		d := Derive(DeriveInput{Settings: *settings, Now: now})

		assert.Nil(t, d.LifeGrid)
		assert.Equal(t, 0, d.Stats.LifeProgressPercentage)
		assert.Equal(t, 0, d.Stats.AgeYears)
	})

	t.Run("Age stats", func(t *testing.T) {
		s := *settings
		s.DateOfBirth = "2000-06-16"

		d := Derive(DeriveInput{Settings: s, Now: now})

		assert.Equal(t, 23, d.Stats.AgeYears, "birthday is tomorrow")
		assert.Equal(t, domain.DaysBetween(time.Date(2000, 6, 16, 0, 0, 0, 0, time.UTC), testToday), d.Stats.DaysLived)
		assert.Equal(t, d.Stats.DaysLived/7, d.Stats.WeeksLived)
	})
}

func TestDerive_Idempotent(t *testing.T) {
	settings, _ := domain.NewDefaultSettings("u1")
	settings.DateOfBirth = "1990-03-03"
	settings.ShowYearGrid = true
	habits := []*domain.Habit{habitWithDays("a", 0, -1, -5), habitWithDays("b", -2)}

	in := DeriveInput{Settings: *settings, Habits: habits, Now: testToday}
	assert.Equal(t, Derive(in), Derive(in))
}
