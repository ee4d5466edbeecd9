package repository

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

var _ domain.GoalRepository = (*CachedGoalRepository)(nil)

type CachedGoalRepository struct {
	next   domain.GoalRepository
	cache  cache.Store
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

func NewCachedGoalRepository(next domain.GoalRepository, store cache.Store, ttl time.Duration, logger *slog.Logger) *CachedGoalRepository {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedGoalRepository{
		next:   next,
		cache:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	key := "goals:" + userID

	var goals []*domain.Goal
	if readThrough(ctx, r.cache, r.logger, key, &goals) {
		return goals, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		fresh, err := r.next.ListByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		writeThrough(ctx, r.cache, r.logger, key, fresh, r.ttl)
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Goal), nil
}
