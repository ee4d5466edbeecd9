package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

const maxTokenAttempts = 3

// SettingsListener is told when a user's saved settings change, so open
// previews can re-render.
type SettingsListener interface {
	SettingsSaved(userID string)
}

type SettingsService struct {
	repo     domain.SettingsRepository
	listener SettingsListener
	now      func() time.Time
}

func NewSettingsService(repo domain.SettingsRepository, listener SettingsListener) *SettingsService {
	return &SettingsService{
		repo:     repo,
		listener: listener,
		now:      time.Now,
	}
}

// UpdateSettingsInput is a partial update: nil fields keep their stored value.
type UpdateSettingsInput struct {
	Theme           *string `json:"theme"`
	Width           *int    `json:"width"`
	Height          *int    `json:"height"`
	DateOfBirth     *string `json:"date_of_birth"`
	LifeExpectancy  *int    `json:"life_expectancy"`
	YearGridMode    *string `json:"year_grid_mode"`
	WallpaperType   *string `json:"wallpaper_type"`
	ShowLifeGrid    *bool   `json:"show_life_grid"`
	ShowYearGrid    *bool   `json:"show_year_grid"`
	ShowAgeStats    *bool   `json:"show_age_stats"`
	ShowQuote       *bool   `json:"show_quote"`
	ShowHabitLayer  *bool   `json:"show_habit_layer"`
	Quote           *string `json:"quote"`
	PinnedGoalTitle *string `json:"pinned_goal_title"`
	ShowPinnedGoal  *bool   `json:"show_pinned_goal"`
	Timezone        *string `json:"timezone"`
}

func mergeString(newVal *string, oldVal string) string {
	if newVal == nil {
		return oldVal
	}
	return *newVal
}

func mergeInt(newVal *int, oldVal int) int {
	if newVal == nil {
		return oldVal
	}
	return *newVal
}

func mergeBool(newVal *bool, oldVal bool) bool {
	if newVal == nil {
		return oldVal
	}
	return *newVal
}

// Apply merges the input into s.
func (in UpdateSettingsInput) Apply(s *domain.WallpaperSettings) {
	s.Theme = mergeString(in.Theme, s.Theme)
	s.Width = mergeInt(in.Width, s.Width)
	s.Height = mergeInt(in.Height, s.Height)
	s.DateOfBirth = mergeString(in.DateOfBirth, s.DateOfBirth)
	s.LifeExpectancy = mergeInt(in.LifeExpectancy, s.LifeExpectancy)
	s.YearGridMode = mergeString(in.YearGridMode, s.YearGridMode)
	s.WallpaperType = mergeString(in.WallpaperType, s.WallpaperType)
	s.ShowLifeGrid = mergeBool(in.ShowLifeGrid, s.ShowLifeGrid)
	s.ShowYearGrid = mergeBool(in.ShowYearGrid, s.ShowYearGrid)
	s.ShowAgeStats = mergeBool(in.ShowAgeStats, s.ShowAgeStats)
	s.ShowQuote = mergeBool(in.ShowQuote, s.ShowQuote)
	s.ShowHabitLayer = mergeBool(in.ShowHabitLayer, s.ShowHabitLayer)
	s.Quote = mergeString(in.Quote, s.Quote)
	s.PinnedGoalTitle = mergeString(in.PinnedGoalTitle, s.PinnedGoalTitle)
	s.ShowPinnedGoal = mergeBool(in.ShowPinnedGoal, s.ShowPinnedGoal)
	s.Timezone = mergeString(in.Timezone, s.Timezone)
}

// Get returns the stored settings, or unsaved defaults for a new user.
func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.WallpaperSettings, error) {
	settings, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if errors.Is(err, domain.ErrSettingsNotFound) {
		return domain.NewDefaultSettings(userID)
	}
	return nil, fmt.Errorf("settings service: get: %w", err)
}

func (s *SettingsService) Update(ctx context.Context, userID string, in UpdateSettingsInput) (*domain.WallpaperSettings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Rows written before a field existed may hold zero values.
	settings.Normalize()
	in.Apply(settings)
	settings.UserID = userID

	if err := settings.Validate(s.now()); err != nil {
		return nil, err
	}
	settings.Normalize()

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("settings service: save: %w", err)
	}

	if s.listener != nil {
		s.listener.SettingsSaved(userID)
	}
	return settings, nil
}

// RotateToken issues a new public wallpaper token for userID. The previous
// token stops resolving immediately. Only the digest is stored; the returned
// token cannot be recovered later.
func (s *SettingsService) RotateToken(ctx context.Context, userID string) (string, error) {
	if _, err := s.repo.GetByUserID(ctx, userID); err != nil {
		if !errors.Is(err, domain.ErrSettingsNotFound) {
			return "", fmt.Errorf("settings service: rotate token: %w", err)
		}
		defaults, err := domain.NewDefaultSettings(userID)
		if err != nil {
			return "", err
		}
		if err := s.repo.Save(ctx, defaults); err != nil {
			return "", fmt.Errorf("settings service: save defaults: %w", err)
		}
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := domain.NewWallpaperToken()
		if err != nil {
			return "", fmt.Errorf("settings service: generate token: %w", err)
		}
		digest, err := domain.HashWallpaperToken(token)
		if err != nil {
			return "", err
		}

		err = s.repo.SetTokenDigest(ctx, userID, digest)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, domain.ErrTokenConflict) {
			return "", fmt.Errorf("settings service: store token: %w", err)
		}
	}

	return "", domain.ErrTokenConflict
}
