package domain_test

import (
	"testing"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoal_Progress(t *testing.T) {
	var nilGoal *domain.Goal
	assert.Equal(t, 0, nilGoal.Progress())
	assert.Equal(t, 0, (&domain.Goal{}).Progress())

	g := &domain.Goal{SubGoals: []domain.SubGoal{{Completed: true}, {Completed: true}, {}}}
	assert.Equal(t, 67, g.Progress())
}

func TestSelectGoal(t *testing.T) {
	newest := &domain.Goal{ID: "g3", Title: "Learn Go"}
	pinned := &domain.Goal{ID: "g2", Title: "Run a marathon", IsPinned: true}
	oldest := &domain.Goal{ID: "g1", Title: "Read 20 books"}
	goals := []*domain.Goal{newest, pinned, oldest}

	t.Run("Title match wins", func(t *testing.T) {
		assert.Equal(t, oldest, domain.SelectGoal(goals, "  read 20 BOOKS "))
	})

	t.Run("Pinned flag", func(t *testing.T) {
		assert.Equal(t, pinned, domain.SelectGoal(goals, "unknown title"))
	})

	t.Run("Most recent otherwise", func(t *testing.T) {
		assert.Equal(t, newest, domain.SelectGoal([]*domain.Goal{nil, newest, oldest}, ""))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Nil(t, domain.SelectGoal(nil, "x"))
	})
}

func TestReminder_Span(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
		wantOK    bool
	}{
		{"Range", "2024-06-15", "2024-06-16", "2024-06-15", "2024-06-16", true},
		{"Missing end", "2024-06-15", "", "2024-06-15", "2024-06-15", true},
		{"Reversed", "2024-06-16", "2024-06-15", "2024-06-15", "2024-06-16", true},
		{"Bad start", "tomorrow", "2024-06-15", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &domain.Reminder{StartDate: tt.start, EndDate: tt.end}
			start, end, ok := r.Span()

			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantStart, domain.DateKey(start))
			assert.Equal(t, tt.wantEnd, domain.DateKey(end))
		})
	}
}

func TestReminder_Display(t *testing.T) {
	r := &domain.Reminder{Priority: 9, Color: "red"}
	assert.Equal(t, domain.MaxPriority, r.ClampedPriority())
	assert.Equal(t, "", r.DisplayColor())

	r = &domain.Reminder{Priority: -2, Color: "#abc"}
	assert.Equal(t, domain.MinPriority, r.ClampedPriority())
	assert.Equal(t, "#abc", r.DisplayColor())
}

func TestHabit_ActiveLogs(t *testing.T) {
	habits := []*domain.Habit{
		{ID: "a", IsActive: true, Logs: []domain.HabitLog{{HabitID: "a", Date: "2024-06-15", Done: true}}},
		{ID: "b", IsActive: false, Logs: []domain.HabitLog{{HabitID: "b", Date: "2024-06-15", Done: true}}},
		nil,
		{ID: "c", IsActive: true, Color: "not-a-color"},
	}

	assert.Len(t, domain.ActiveLogs(habits), 1)
	assert.Equal(t, 2, domain.CountActive(habits))
	assert.Equal(t, domain.DefaultColor, habits[3].DisplayColor())
}
