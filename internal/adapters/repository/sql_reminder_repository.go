package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

var _ domain.ReminderRepository = (*SQLReminderRepository)(nil)

type SQLReminderRepository struct {
	db *sqlx.DB
}

func NewSQLReminderRepository(db *sqlx.DB) *SQLReminderRepository {
	return &SQLReminderRepository{db: db}
}

// ListActive pre-filters on the start date in SQL; the exact intersection is
// decided by Reminder.Span, which also copes with open or reversed ranges.
func (r *SQLReminderRepository) ListActive(ctx context.Context, userID string, from, to time.Time) ([]*domain.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []*domain.Reminder
	query := r.db.Rebind(`
		SELECT id, user_id, title, start_date, end_date, icon, color, priority, is_important, is_full_day
		FROM reminders
		WHERE user_id = ? AND (start_date <= ? OR end_date <= ?)
		ORDER BY start_date ASC, id ASC`)

	toKey := domain.DateKey(to)
	if err := r.db.SelectContext(ctx, &rows, query, userID, toKey, toKey); err != nil {
		return nil, fmt.Errorf("repository: list reminders failed: %w", err)
	}

	return filterReminders(rows, from, to), nil
}

func filterReminders(rows []*domain.Reminder, from, to time.Time) []*domain.Reminder {
	out := make([]*domain.Reminder, 0, len(rows))
	for _, rem := range rows {
		start, end, ok := rem.Span()
		if !ok || start.After(to) || end.Before(from) {
			continue
		}
		out = append(out, rem)
	}
	return out
}
