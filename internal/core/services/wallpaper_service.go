package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
)

// Canvas turns scenes into pixels. The canvas adapter implements it.
type Canvas interface {
	Render(sc wallpaper.Scene) *image.RGBA
	WithClock(base *image.RGBA, sc wallpaper.Scene) *image.RGBA
	Record(sc wallpaper.Scene) wallpaper.Ops
	EncodePNG(img image.Image) ([]byte, error)
}

// PreviewFrame is a rendered draft: the wallpaper without clock plus the
// scene it came from, so the clock can be redrawn on it cheaply.
type PreviewFrame struct {
	Base  *image.RGBA
	Scene wallpaper.Scene
}

type WallpaperService struct {
	settings  domain.SettingsRepository
	habits    domain.HabitRepository
	goals     domain.GoalRepository
	reminders domain.ReminderRepository
	themes    *wallpaper.ThemeResolver
	canvas    Canvas
	now       func() time.Time
}

func NewWallpaperService(
	settings domain.SettingsRepository,
	habits domain.HabitRepository,
	goals domain.GoalRepository,
	reminders domain.ReminderRepository,
	themes *wallpaper.ThemeResolver,
	canvas Canvas,
) *WallpaperService {
	return &WallpaperService{
		settings:  settings,
		habits:    habits,
		goals:     goals,
		reminders: reminders,
		themes:    themes,
		canvas:    canvas,
		now:       time.Now,
	}
}

// SetClock replaces the wall clock; tests freeze "now" with it.
func (s *WallpaperService) SetClock(now func() time.Time) {
	s.now = now
}

// snapshot is the data and derived state behind one render.
type snapshot struct {
	settings  domain.WallpaperSettings
	habits    []*domain.Habit
	goals     []*domain.Goal
	goal      *domain.Goal
	reminders []*domain.Reminder
	derived   wallpaper.Derived
	now       time.Time
}

func (s *WallpaperService) resolveToken(ctx context.Context, token string) (*domain.WallpaperSettings, error) {
	digest, err := domain.HashWallpaperToken(token)
	if err != nil {
		return nil, domain.ErrSettingsNotFound
	}

	settings, err := s.settings.GetByTokenDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("wallpaper service: resolve token: %w", err)
	}
	return settings, nil
}

func (s *WallpaperService) settingsForUser(ctx context.Context, userID string) (*domain.WallpaperSettings, error) {
	settings, err := s.settings.GetByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if errors.Is(err, domain.ErrSettingsNotFound) {
		return domain.NewDefaultSettings(userID)
	}
	return nil, fmt.Errorf("wallpaper service: load settings: %w", err)
}

// load fetches everything a render needs in one pass and derives the stats.
// Any fetch error fails the whole render.
func (s *WallpaperService) load(ctx context.Context, settings domain.WallpaperSettings) (*snapshot, error) {
	settings.Normalize()
	now := s.now()
	today := domain.DateOf(now, settings.Location())

	habits, err := s.habits.ListActiveWithLogs(ctx, settings.UserID, domain.AddDays(today, -(wallpaper.ActivityWindowDays-1)), today)
	if err != nil {
		return nil, fmt.Errorf("wallpaper service: load habits: %w", err)
	}

	goals, err := s.goals.ListByUserID(ctx, settings.UserID)
	if err != nil {
		return nil, fmt.Errorf("wallpaper service: load goals: %w", err)
	}

	from, to := reminderWindow(settings, today)
	reminders, err := s.reminders.ListActive(ctx, settings.UserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("wallpaper service: load reminders: %w", err)
	}

	derived := wallpaper.Derive(wallpaper.DeriveInput{
		Settings:  settings,
		Habits:    habits,
		Reminders: reminders,
		Now:       now,
	})

	return &snapshot{
		settings:  settings,
		habits:    habits,
		goals:     goals,
		goal:      domain.SelectGoal(goals, settings.PinnedGoalTitle),
		reminders: reminders,
		derived:   derived,
		now:       now,
	}, nil
}

// reminderWindow covers every date any grid can show: the whole life when a
// birth date is set, and the current year.
func reminderWindow(settings domain.WallpaperSettings, today time.Time) (time.Time, time.Time) {
	from := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)

	if dob, ok := settings.BirthDate(); ok {
		if dob.Before(from) {
			from = dob
		}
		if end := dob.AddDate(settings.LifeExpectancy, 0, 0); end.After(to) {
			to = end
		}
	}
	return from, to
}

func (s *WallpaperService) scene(snap *snapshot) wallpaper.Scene {
	palette := s.themes.Resolve(snap.settings.Theme)
	return wallpaper.NewScene(snap.settings, snap.derived, snap.goal, palette, snap.now)
}

func (snap *snapshot) bundle() *domain.WallpaperBundle {
	return &domain.WallpaperBundle{
		Settings:    snap.settings,
		Habits:      nonNil(snap.habits),
		Goals:       nonNil(snap.goals),
		Goal:        snap.goal,
		Reminders:   nonNil(snap.reminders),
		Stats:       snap.derived.Stats,
		GeneratedAt: snap.now.UTC(),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// RenderSnapshot renders the public wallpaper of a token as PNG.
func (s *WallpaperService) RenderSnapshot(ctx context.Context, token string) ([]byte, error) {
	settings, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	snap, err := s.load(ctx, *settings)
	if err != nil {
		return nil, err
	}

	return s.canvas.EncodePNG(s.canvas.Render(s.scene(snap)))
}

// DrawOps returns the draw-call sequence of the public wallpaper, for clients
// that rasterize themselves.
func (s *WallpaperService) DrawOps(ctx context.Context, token string) (*wallpaper.Ops, error) {
	settings, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	snap, err := s.load(ctx, *settings)
	if err != nil {
		return nil, err
	}

	ops := s.canvas.Record(s.scene(snap))
	return &ops, nil
}

func (s *WallpaperService) BundleByToken(ctx context.Context, token string) (*domain.WallpaperBundle, error) {
	settings, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	snap, err := s.load(ctx, *settings)
	if err != nil {
		return nil, err
	}
	return snap.bundle(), nil
}

func (s *WallpaperService) BundleForUser(ctx context.Context, userID string) (*domain.WallpaperBundle, error) {
	settings, err := s.settingsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap, err := s.load(ctx, *settings)
	if err != nil {
		return nil, err
	}
	return snap.bundle(), nil
}

// RenderPreview renders an unsaved settings draft of userID. The result is
// what the public image will look like once the draft is saved.
func (s *WallpaperService) RenderPreview(ctx context.Context, userID string, draft domain.WallpaperSettings) (*PreviewFrame, error) {
	draft.UserID = userID

	snap, err := s.load(ctx, draft)
	if err != nil {
		return nil, err
	}

	sc := s.scene(snap)
	return &PreviewFrame{Base: s.canvas.Render(sc), Scene: sc}, nil
}

// PreviewPNG validates a draft the way a save would and renders it as PNG.
// Without the clock the bytes equal the snapshot image of the saved draft.
func (s *WallpaperService) PreviewPNG(ctx context.Context, userID string, draft domain.WallpaperSettings, withClock bool) ([]byte, error) {
	draft.UserID = userID
	draft.FillDefaults()
	if err := draft.Validate(s.now()); err != nil {
		return nil, err
	}

	frame, err := s.RenderPreview(ctx, userID, draft)
	if err != nil {
		return nil, err
	}

	img := frame.Base
	if withClock {
		img = s.ClockOverlay(frame, s.now())
	}
	return s.canvas.EncodePNG(img)
}

// ClockOverlay draws the clock for now over a copy of the frame.
func (s *WallpaperService) ClockOverlay(frame *PreviewFrame, now time.Time) *image.RGBA {
	sc := frame.Scene
	sc.Now = now.In(sc.Now.Location())
	return s.canvas.WithClock(frame.Base, sc)
}

// SettingsForUser returns the stored settings of userID, or the defaults.
func (s *WallpaperService) SettingsForUser(ctx context.Context, userID string) (*domain.WallpaperSettings, error) {
	return s.settingsForUser(ctx, userID)
}
