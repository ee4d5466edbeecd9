package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrSettingsNotFound       = errors.New("wallpaper settings not found")
	ErrInvalidLifeExpectancy  = errors.New("life expectancy must be between 1 and 150 years")
	ErrInvalidCanvasSize      = errors.New("canvas size must be between 240 and 4096 pixels per side")
	ErrInvalidGridMode        = errors.New("invalid grid mode (must be weeks or days)")
	ErrInvalidWallpaperType   = errors.New("invalid wallpaper type (must be lockscreen or home)")
	ErrDateOfBirthInFuture    = errors.New("date of birth cannot be in the future")
	ErrQuoteTooLong           = errors.New("quote is too long (max 280 chars)")
	ErrInvalidTimezone        = errors.New("invalid timezone")
	ErrSettingsInvalidUserID  = errors.New("invalid user id")
	ErrPinnedGoalTitleTooLong = errors.New("pinned goal title is too long (max 100 chars)")
)

const (
	GridModeWeeks = "weeks"
	GridModeDays  = "days"

	WallpaperTypeLockscreen = "lockscreen"
	WallpaperTypeHome       = "home"

	DefaultTheme          = "dark-minimal"
	DefaultWidth          = 1080
	DefaultHeight         = 2340
	DefaultLifeExpectancy = 80

	MinCanvasSide     = 240
	MaxCanvasSide     = 4096
	MaxLifeExpectancy = 150
	MaxQuoteLen       = 280
)

type WallpaperSettings struct {
	UserID          string `json:"user_id" db:"user_id"`
	Theme           string `json:"theme" db:"theme"`
	Width           int    `json:"width" db:"width"`
	Height          int    `json:"height" db:"height"`
	DateOfBirth     string `json:"date_of_birth" db:"date_of_birth"`
	LifeExpectancy  int    `json:"life_expectancy" db:"life_expectancy"`
	YearGridMode    string `json:"year_grid_mode" db:"year_grid_mode"`
	WallpaperType   string `json:"wallpaper_type" db:"wallpaper_type"`
	ShowLifeGrid    bool   `json:"show_life_grid" db:"show_life_grid"`
	ShowYearGrid    bool   `json:"show_year_grid" db:"show_year_grid"`
	ShowAgeStats    bool   `json:"show_age_stats" db:"show_age_stats"`
	ShowQuote       bool   `json:"show_quote" db:"show_quote"`
	ShowHabitLayer  bool   `json:"show_habit_layer" db:"show_habit_layer"`
	Quote           string `json:"quote" db:"quote"`
	PinnedGoalTitle string `json:"pinned_goal_title,omitempty" db:"pinned_goal_title"`
	ShowPinnedGoal  bool   `json:"show_pinned_goal" db:"show_pinned_goal"`
	Timezone        string `json:"timezone" db:"timezone"`
}

func NewDefaultSettings(userID string) (*WallpaperSettings, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrSettingsInvalidUserID
	}

	return &WallpaperSettings{
		UserID:         userID,
		Theme:          DefaultTheme,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		LifeExpectancy: DefaultLifeExpectancy,
		YearGridMode:   GridModeWeeks,
		WallpaperType:  WallpaperTypeLockscreen,
		ShowLifeGrid:   true,
		ShowAgeStats:   true,
		ShowHabitLayer: true,
		Timezone:       "UTC",
	}, nil
}

// Normalize fills zero values with defaults. It never rejects input; use
// Validate for that. Rendering always works on normalized settings.
func (s *WallpaperSettings) Normalize() {
	s.FillDefaults()
	s.Width = clamp(s.Width, MinCanvasSide, MaxCanvasSide)
	s.Height = clamp(s.Height, MinCanvasSide, MaxCanvasSide)
	if s.LifeExpectancy > MaxLifeExpectancy {
		s.LifeExpectancy = MaxLifeExpectancy
	}

	if s.YearGridMode != GridModeDays {
		s.YearGridMode = GridModeWeeks
	}
	if s.WallpaperType != WallpaperTypeHome {
		s.WallpaperType = WallpaperTypeLockscreen
	}
}

// FillDefaults replaces unset fields with their defaults and trims text. Unlike
// Normalize it leaves out-of-range values alone, so Validate can still reject them.
func (s *WallpaperSettings) FillDefaults() {
	s.Theme = strings.TrimSpace(s.Theme)
	if s.Theme == "" {
		s.Theme = DefaultTheme
	}
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	if s.LifeExpectancy <= 0 {
		s.LifeExpectancy = DefaultLifeExpectancy
	}
	if s.YearGridMode == "" {
		s.YearGridMode = GridModeWeeks
	}
	if s.WallpaperType == "" {
		s.WallpaperType = WallpaperTypeLockscreen
	}

	s.DateOfBirth = strings.TrimSpace(s.DateOfBirth)
	s.Quote = strings.TrimSpace(s.Quote)
	s.PinnedGoalTitle = strings.TrimSpace(s.PinnedGoalTitle)
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}
}

func (s *WallpaperSettings) Validate(now time.Time) error {
	if strings.TrimSpace(s.UserID) == "" {
		return ErrSettingsInvalidUserID
	}
	if s.LifeExpectancy < 1 || s.LifeExpectancy > MaxLifeExpectancy {
		return ErrInvalidLifeExpectancy
	}
	if s.Width < MinCanvasSide || s.Width > MaxCanvasSide || s.Height < MinCanvasSide || s.Height > MaxCanvasSide {
		return ErrInvalidCanvasSize
	}

	switch s.YearGridMode {
	case GridModeWeeks, GridModeDays:
	default:
		return ErrInvalidGridMode
	}

	switch s.WallpaperType {
	case WallpaperTypeLockscreen, WallpaperTypeHome:
	default:
		return ErrInvalidWallpaperType
	}

	if s.DateOfBirth != "" {
		dob, err := ParseDate(s.DateOfBirth)
		if err != nil {
			return err
		}
		if dob.After(DateOf(now, s.Location())) {
			return ErrDateOfBirthInFuture
		}
	}

	if utf8.RuneCountInString(s.Quote) > MaxQuoteLen {
		return ErrQuoteTooLong
	}
	if utf8.RuneCountInString(s.PinnedGoalTitle) > MaxTitleLen {
		return ErrPinnedGoalTitleTooLong
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return ErrInvalidTimezone
	}

	return nil
}

// Location resolves the settings timezone, falling back to UTC.
func (s *WallpaperSettings) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BirthDate returns the parsed date of birth, or false when unset or malformed.
func (s *WallpaperSettings) BirthDate() (time.Time, bool) {
	if s.DateOfBirth == "" {
		return time.Time{}, false
	}
	dob, err := ParseDate(s.DateOfBirth)
	if err != nil {
		return time.Time{}, false
	}
	return dob, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
