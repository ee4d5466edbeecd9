package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

var _ domain.GoalRepository = (*SQLGoalRepository)(nil)

type SQLGoalRepository struct {
	db *sqlx.DB
}

func NewSQLGoalRepository(db *sqlx.DB) *SQLGoalRepository {
	return &SQLGoalRepository{db: db}
}

func (r *SQLGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var goals []*domain.Goal
	query := r.db.Rebind(`
		SELECT id, user_id, title, category, is_pinned
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`)

	if err := r.db.SelectContext(ctx, &goals, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list goals failed: %w", err)
	}
	if len(goals) == 0 {
		return goals, nil
	}

	ids := make([]string, len(goals))
	byID := make(map[string]*domain.Goal, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
		g.SubGoals = []domain.SubGoal{}
		byID[g.ID] = g
	}

	subQuery, args, err := sqlx.In(`
		SELECT id, goal_id, title, completed
		FROM sub_goals
		WHERE goal_id IN (?)
		ORDER BY position ASC, id ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: build sub-goal query: %w", err)
	}

	var subs []domain.SubGoal
	if err := r.db.SelectContext(ctx, &subs, r.db.Rebind(subQuery), args...); err != nil {
		return nil, fmt.Errorf("repository: list sub-goals failed: %w", err)
	}
	for _, sg := range subs {
		if g, ok := byID[sg.GoalID]; ok {
			g.SubGoals = append(g.SubGoals, sg)
		}
	}

	return goals, nil
}
