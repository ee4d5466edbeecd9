package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

// CachedHabitRepository keeps habit lists in a Store for a short TTL. The
// cache is advisory: a miss or a cache failure only falls through to next.
type CachedHabitRepository struct {
	next   domain.HabitRepository
	cache  cache.Store
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

func NewCachedHabitRepository(next domain.HabitRepository, store cache.Store, ttl time.Duration, logger *slog.Logger) *CachedHabitRepository {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedHabitRepository{
		next:   next,
		cache:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedHabitRepository) cacheKey(userID string, from, to time.Time) string {
	return fmt.Sprintf("habits:%s:%s:%s", userID, domain.DateKey(from), domain.DateKey(to))
}

func (r *CachedHabitRepository) ListActiveWithLogs(ctx context.Context, userID string, from, to time.Time) ([]*domain.Habit, error) {
	key := r.cacheKey(userID, from, to)

	var habits []*domain.Habit
	if readThrough(ctx, r.cache, r.logger, key, &habits) {
		return habits, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		fresh, err := r.next.ListActiveWithLogs(ctx, userID, from, to)
		if err != nil {
			return nil, err
		}
		writeThrough(ctx, r.cache, r.logger, key, fresh, r.ttl)
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Habit), nil
}

// readThrough decodes key into dst. Corrupted entries are dropped.
func readThrough(ctx context.Context, store cache.Store, logger *slog.Logger, key string, dst any) bool {
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("corrupted cache entry, dropping", "key", key, "error", err)
		if err := store.Delete(ctx, key); err != nil {
			logger.Warn("cache delete failed", "key", key, "error", err)
		}
		return false
	}
	return true
}

func writeThrough(ctx context.Context, store cache.Store, logger *slog.Logger, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := store.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
}
