package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

var _ domain.HabitRepository = (*SQLHabitRepository)(nil)

type SQLHabitRepository struct {
	db *sqlx.DB
}

func NewSQLHabitRepository(db *sqlx.DB) *SQLHabitRepository {
	return &SQLHabitRepository{db: db}
}

func (r *SQLHabitRepository) ListActiveWithLogs(ctx context.Context, userID string, from, to time.Time) ([]*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var habits []*domain.Habit
	query := r.db.Rebind(`
		SELECT id, user_id, title, color, icon, is_active, sort_order
		FROM habits
		WHERE user_id = ? AND is_active = TRUE
		ORDER BY sort_order ASC, created_at ASC, id ASC`)

	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list habits failed: %w", err)
	}
	if len(habits) == 0 {
		return habits, nil
	}

	var logs []domain.HabitLog
	logQuery := r.db.Rebind(`
		SELECT l.habit_id, l.log_date, l.done
		FROM habit_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE h.user_id = ? AND h.is_active = TRUE AND l.log_date BETWEEN ? AND ?
		ORDER BY l.log_date ASC`)

	if err := r.db.SelectContext(ctx, &logs, logQuery, userID, domain.DateKey(from), domain.DateKey(to)); err != nil {
		return nil, fmt.Errorf("repository: list habit logs failed: %w", err)
	}

	byID := make(map[string]*domain.Habit, len(habits))
	for _, h := range habits {
		h.Logs = []domain.HabitLog{}
		byID[h.ID] = h
	}
	for _, l := range logs {
		if h, ok := byID[l.HabitID]; ok {
			h.Logs = append(h.Logs, l)
		}
	}

	return habits, nil
}
