package domain

import (
	"regexp"
	"time"
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	DefaultIcon  = "default_icon"
	DefaultColor = "#10B981"
	MaxTitleLen  = 100
)

type Habit struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Color     string     `json:"color" db:"color"`
	Icon      string     `json:"icon" db:"icon"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	SortOrder int        `json:"sort_order" db:"sort_order"`
	Logs      []HabitLog `json:"logs"`
}

// HabitLog is one day of one habit. Date is the user's local calendar date,
// not a timestamp; at most one log per habit per date is stored.
type HabitLog struct {
	HabitID string `json:"habit_id" db:"habit_id"`
	Date    string `json:"date" db:"log_date"`
	Done    bool   `json:"done" db:"done"`
}

func (l HabitLog) Day() (time.Time, bool) {
	d, err := ParseDate(l.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// DisplayColor returns the habit color if it is a valid hex color, DefaultColor otherwise.
func (h *Habit) DisplayColor() string {
	if colorRegex.MatchString(h.Color) {
		return h.Color
	}
	return DefaultColor
}

// ActiveLogs flattens the logs of all active habits.
func ActiveLogs(habits []*Habit) []HabitLog {
	var logs []HabitLog
	for _, h := range habits {
		if h == nil || !h.IsActive {
			continue
		}
		logs = append(logs, h.Logs...)
	}
	return logs
}

func CountActive(habits []*Habit) int {
	n := 0
	for _, h := range habits {
		if h != nil && h.IsActive {
			n++
		}
	}
	return n
}
