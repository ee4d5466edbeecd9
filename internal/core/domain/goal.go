package domain

import (
	"math"
	"strings"
)

type Goal struct {
	ID       string    `json:"id" db:"id"`
	UserID   string    `json:"user_id" db:"user_id"`
	Title    string    `json:"title" db:"title"`
	Category string    `json:"category" db:"category"`
	IsPinned bool      `json:"is_pinned" db:"is_pinned"`
	SubGoals []SubGoal `json:"sub_goals"`
}

type SubGoal struct {
	ID        string `json:"id" db:"id"`
	GoalID    string `json:"goal_id" db:"goal_id"`
	Title     string `json:"title" db:"title"`
	Completed bool   `json:"completed" db:"completed"`
}

// Progress is the rounded share of completed sub-goals, 0 when there are none.
func (g *Goal) Progress() int {
	if g == nil || len(g.SubGoals) == 0 {
		return 0
	}
	done := 0
	for _, sg := range g.SubGoals {
		if sg.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(g.SubGoals)) * 100))
}

// SelectGoal picks the goal shown on the wallpaper: the one titled pinnedTitle
// (case-insensitive) when given, else the first flagged pinned, else the first
// in the list. Goals are expected newest first.
func SelectGoal(goals []*Goal, pinnedTitle string) *Goal {
	if len(goals) == 0 {
		return nil
	}

	if t := strings.TrimSpace(pinnedTitle); t != "" {
		for _, g := range goals {
			if g != nil && strings.EqualFold(g.Title, t) {
				return g
			}
		}
	}

	for _, g := range goals {
		if g != nil && g.IsPinned {
			return g
		}
	}

	for _, g := range goals {
		if g != nil {
			return g
		}
	}
	return nil
}
