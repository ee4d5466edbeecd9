package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	settings, _ := domain.NewDefaultSettings("u1")
	store.Load(&domain.WallpaperBundle{
		Settings: *settings,
		Habits: []*domain.Habit{
			{ID: "h2", Title: "Run", IsActive: true, SortOrder: 1, Logs: []domain.HabitLog{{HabitID: "h2", Date: "2024-06-15", Done: true}}},
			{ID: "h1", Title: "Read", IsActive: true, Logs: []domain.HabitLog{{HabitID: "h1", Date: "2023-01-01", Done: true}}},
			{ID: "h3", Title: "Old", IsActive: false},
		},
		Goals:     []*domain.Goal{{ID: "g1", Title: "Marathon"}},
		Reminders: []*domain.Reminder{{ID: "r1", Title: "Trip", StartDate: "2024-08-01", EndDate: "2024-08-10"}},
	})

	t.Run("Habits", func(t *testing.T) {
		habits, err := store.ListActiveWithLogs(ctx, "u1", day("2024-06-01"), day("2024-06-15"))
		require.NoError(t, err)
		require.Len(t, habits, 2)
		assert.Equal(t, "h1", habits[0].ID)
		assert.Empty(t, habits[0].Logs)
		assert.Len(t, habits[1].Logs, 1)
		assert.Equal(t, "u1", habits[1].UserID)
	})

	t.Run("Goals and reminders", func(t *testing.T) {
		goals, err := store.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, goals, 1)

		rem, err := store.ListActive(ctx, "u1", day("2024-08-05"), day("2024-12-31"))
		require.NoError(t, err)
		assert.Len(t, rem, 1)

		rem, err = store.ListActive(ctx, "u1", day("2024-09-01"), day("2024-12-31"))
		require.NoError(t, err)
		assert.Empty(t, rem)
	})

	t.Run("Token digests", func(t *testing.T) {
		_, err := store.GetByTokenDigest(ctx, "d1")
		assert.ErrorIs(t, err, domain.ErrSettingsNotFound)

		require.NoError(t, store.SetTokenDigest(ctx, "u1", "d1"))
		got, err := store.GetByTokenDigest(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)

		require.NoError(t, store.SetTokenDigest(ctx, "u1", "d2"))
		_, err = store.GetByTokenDigest(ctx, "d1")
		assert.ErrorIs(t, err, domain.ErrSettingsNotFound)

		assert.ErrorIs(t, store.SetTokenDigest(ctx, "nobody", "d3"), domain.ErrSettingsNotFound)
	})

	t.Run("Returned settings are copies", func(t *testing.T) {
		got, err := store.GetByUserID(ctx, "u1")
		require.NoError(t, err)
		got.Theme = "mutated"

		again, _ := store.GetByUserID(ctx, "u1")
		assert.Equal(t, domain.DefaultTheme, again.Theme)
	})

	t.Run("Users", func(t *testing.T) {
		_, err := store.GetByID(ctx, "u1")
		assert.NoError(t, err)
		_, err = store.GetByID(ctx, "u9")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
