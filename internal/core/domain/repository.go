package domain

import (
	"context"
	"time"
)

type SettingsRepository interface {
	// GetByTokenDigest resolves a public wallpaper token digest to its owner's settings.
	GetByTokenDigest(ctx context.Context, digest string) (*WallpaperSettings, error)

	// GetByUserID retrieves the settings of a user.
	GetByUserID(ctx context.Context, userID string) (*WallpaperSettings, error)

	// Save inserts or replaces the settings of a user. The token digest is left untouched.
	Save(ctx context.Context, settings *WallpaperSettings) error

	// SetTokenDigest replaces the public token digest of a user.
	SetTokenDigest(ctx context.Context, userID, digest string) error
}

type HabitRepository interface {
	// ListActiveWithLogs returns the active habits of a user, each carrying its
	// logs dated within [from, to] (inclusive, calendar dates).
	ListActiveWithLogs(ctx context.Context, userID string, from, to time.Time) ([]*Habit, error)
}

type GoalRepository interface {
	// ListByUserID returns the goals of a user newest first, sub-goals in display order.
	ListByUserID(ctx context.Context, userID string) ([]*Goal, error)
}

type ReminderRepository interface {
	// ListActive returns the reminders of a user whose date range intersects [from, to].
	ListActive(ctx context.Context, userID string, from, to time.Time) ([]*Reminder, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
