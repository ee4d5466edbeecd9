package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

// InMemoryStore keeps every record a render needs in process memory. It
// implements all repository ports and backs the offline renderer and tests.
type InMemoryStore struct {
	mu        sync.RWMutex
	settings  map[string]*domain.WallpaperSettings
	digests   map[string]string
	habits    map[string]*domain.Habit
	goals     []*domain.Goal
	reminders []*domain.Reminder
	users     map[string]*domain.User
}

var (
	_ domain.SettingsRepository = (*InMemoryStore)(nil)
	_ domain.HabitRepository    = (*InMemoryStore)(nil)
	_ domain.GoalRepository     = (*InMemoryStore)(nil)
	_ domain.ReminderRepository = (*InMemoryStore)(nil)
	_ domain.UserRepository     = (*InMemoryStore)(nil)
)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		settings: make(map[string]*domain.WallpaperSettings),
		digests:  make(map[string]string),
		habits:   make(map[string]*domain.Habit),
		users:    make(map[string]*domain.User),
	}
}

// Load replaces the contents with a bundle. Goals keep their order, which is
// taken as newest first.
func (r *InMemoryStore) Load(b *domain.WallpaperBundle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID := b.Settings.UserID
	s := b.Settings
	r.settings[userID] = &s
	r.users[userID] = &domain.User{ID: userID}

	for _, h := range b.Habits {
		cp := *h
		cp.UserID = userID
		r.habits[cp.ID] = &cp
	}
	for _, g := range b.Goals {
		cp := *g
		cp.UserID = userID
		r.goals = append(r.goals, &cp)
	}
	for _, rem := range b.Reminders {
		cp := *rem
		cp.UserID = userID
		r.reminders = append(r.reminders, &cp)
	}
}

func (r *InMemoryStore) GetByTokenDigest(ctx context.Context, digest string) (*domain.WallpaperSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.digests[digest]
	if !ok || digest == "" {
		return nil, domain.ErrSettingsNotFound
	}
	s, ok := r.settings[userID]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *InMemoryStore) GetByUserID(ctx context.Context, userID string) (*domain.WallpaperSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[userID]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *InMemoryStore) Save(ctx context.Context, s *domain.WallpaperSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	r.settings[s.UserID] = &cp
	return nil
}

func (r *InMemoryStore) SetTokenDigest(ctx context.Context, userID, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.settings[userID]; !ok {
		return domain.ErrSettingsNotFound
	}
	if owner, ok := r.digests[digest]; ok && owner != userID {
		return domain.ErrTokenConflict
	}
	for d, owner := range r.digests {
		if owner == userID {
			delete(r.digests, d)
		}
	}
	r.digests[digest] = userID
	return nil
}

func (r *InMemoryStore) ListActiveWithLogs(ctx context.Context, userID string, from, to time.Time) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fromKey, toKey := domain.DateKey(from), domain.DateKey(to)

	habits := []*domain.Habit{}
	for _, h := range r.habits {
		if h.UserID != userID || !h.IsActive {
			continue
		}
		cp := *h
		cp.Logs = []domain.HabitLog{}
		for _, l := range h.Logs {
			if l.Date >= fromKey && l.Date <= toKey {
				cp.Logs = append(cp.Logs, l)
			}
		}
		habits = append(habits, &cp)
	}

	sort.Slice(habits, func(i, j int) bool {
		if habits[i].SortOrder != habits[j].SortOrder {
			return habits[i].SortOrder < habits[j].SortOrder
		}
		return habits[i].ID < habits[j].ID
	})

	return habits, nil
}

func (r *InMemoryStore) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := []*domain.Goal{}
	for _, g := range r.goals {
		if g.UserID == userID {
			cp := *g
			goals = append(goals, &cp)
		}
	}
	return goals, nil
}

func (r *InMemoryStore) ListActive(ctx context.Context, userID string, from, to time.Time) ([]*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var mine []*domain.Reminder
	for _, rem := range r.reminders {
		if rem.UserID == userID {
			cp := *rem
			mine = append(mine, &cp)
		}
	}
	return filterReminders(mine, from, to), nil
}

func (r *InMemoryStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
