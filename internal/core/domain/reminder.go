package domain

import "time"

const (
	MinPriority = 0
	MaxPriority = 4
)

type Reminder struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	Title       string `json:"title" db:"title"`
	StartDate   string `json:"start_date" db:"start_date"`
	EndDate     string `json:"end_date" db:"end_date"`
	Icon        string `json:"icon" db:"icon"`
	Color       string `json:"color" db:"color"`
	Priority    int    `json:"priority" db:"priority"`
	IsImportant bool   `json:"is_important" db:"is_important"`
	IsFullDay   bool   `json:"is_full_day" db:"is_full_day"`
}

// Span returns the inclusive date range of the reminder. A missing or
// malformed end date collapses the range to the start date; a reversed range
// is swapped.
func (r *Reminder) Span() (start, end time.Time, ok bool) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = ParseDate(r.EndDate)
	if err != nil {
		end = start
	}
	if end.Before(start) {
		start, end = end, start
	}
	return start, end, true
}

func (r *Reminder) ClampedPriority() int {
	if r.Priority < MinPriority {
		return MinPriority
	}
	if r.Priority > MaxPriority {
		return MaxPriority
	}
	return r.Priority
}

func (r *Reminder) DisplayColor() string {
	if colorRegex.MatchString(r.Color) {
		return r.Color
	}
	return ""
}
