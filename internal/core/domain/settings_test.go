package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultSettings(t *testing.T) {
	t.Run("Success: Defaults", func(t *testing.T) {
		s, err := domain.NewDefaultSettings("u1")

		require.NoError(t, err)
		assert.Equal(t, "u1", s.UserID)
		assert.Equal(t, domain.DefaultTheme, s.Theme)
		assert.Equal(t, 1080, s.Width)
		assert.Equal(t, 2340, s.Height)
		assert.Equal(t, 80, s.LifeExpectancy)
		assert.Equal(t, domain.GridModeWeeks, s.YearGridMode)
		assert.Equal(t, domain.WallpaperTypeLockscreen, s.WallpaperType)
		assert.True(t, s.ShowLifeGrid)
		assert.False(t, s.ShowQuote)
		assert.NoError(t, s.Validate(time.Now()))
	})

	t.Run("Error: Empty user", func(t *testing.T) {
		_, err := domain.NewDefaultSettings("  ")
		assert.Equal(t, domain.ErrSettingsInvalidUserID, err)
	})
}

func TestWallpaperSettings_Normalize(t *testing.T) {
	s := &domain.WallpaperSettings{
		UserID:         "u1",
		Width:          10000,
		Height:         0,
		LifeExpectancy: 500,
		YearGridMode:   "months",
		WallpaperType:  "desktop",
		Quote:          "  stay hungry  ",
	}

	s.Normalize()

	assert.Equal(t, domain.DefaultTheme, s.Theme)
	assert.Equal(t, domain.MaxCanvasSide, s.Width)
	assert.Equal(t, domain.DefaultHeight, s.Height)
	assert.Equal(t, domain.MaxLifeExpectancy, s.LifeExpectancy)
	assert.Equal(t, domain.GridModeWeeks, s.YearGridMode)
	assert.Equal(t, domain.WallpaperTypeLockscreen, s.WallpaperType)
	assert.Equal(t, "stay hungry", s.Quote)
	assert.Equal(t, "UTC", s.Timezone)
	assert.NoError(t, s.Validate(time.Now()))
}

func TestWallpaperSettings_Validate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(s *domain.WallpaperSettings)
		wantErr error
	}{
		{"Success: Valid", func(s *domain.WallpaperSettings) { s.DateOfBirth = "1990-05-01" }, nil},
		{"Success: Born today", func(s *domain.WallpaperSettings) { s.DateOfBirth = "2024-06-15" }, nil},
		{"Error: Future dob", func(s *domain.WallpaperSettings) { s.DateOfBirth = "2024-06-16" }, domain.ErrDateOfBirthInFuture},
		{"Error: Bad dob", func(s *domain.WallpaperSettings) { s.DateOfBirth = "15/06/1990" }, domain.ErrInvalidDate},
		{"Error: Life expectancy", func(s *domain.WallpaperSettings) { s.LifeExpectancy = 0 }, domain.ErrInvalidLifeExpectancy},
		{"Error: Canvas", func(s *domain.WallpaperSettings) { s.Width = 100 }, domain.ErrInvalidCanvasSize},
		{"Error: Grid mode", func(s *domain.WallpaperSettings) { s.YearGridMode = "months" }, domain.ErrInvalidGridMode},
		{"Error: Wallpaper type", func(s *domain.WallpaperSettings) { s.WallpaperType = "desktop" }, domain.ErrInvalidWallpaperType},
		{"Error: Quote", func(s *domain.WallpaperSettings) { s.Quote = strings.Repeat("a", 281) }, domain.ErrQuoteTooLong},
		{"Error: Pinned goal title", func(s *domain.WallpaperSettings) { s.PinnedGoalTitle = strings.Repeat("g", 101) }, domain.ErrPinnedGoalTitleTooLong},
		{"Error: Timezone", func(s *domain.WallpaperSettings) { s.Timezone = "Mars/Olympus" }, domain.ErrInvalidTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := domain.NewDefaultSettings("u1")
			tt.mutate(s)

			err := s.Validate(now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWallpaperSettings_Location(t *testing.T) {
	s, _ := domain.NewDefaultSettings("u1")
	assert.Equal(t, time.UTC, s.Location())

	s.Timezone = "Europe/Rome"
	assert.Equal(t, "Europe/Rome", s.Location().String())

	s.Timezone = "nowhere"
	assert.Equal(t, time.UTC, s.Location())
}

func TestDates(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	// 23:30 UTC on the 14th is already the 15th in Rome.
	instant := time.Date(2024, 6, 14, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-15", domain.DateKey(domain.DateOf(instant, rome)))
	assert.Equal(t, "2024-06-14", domain.DateKey(domain.DateOf(instant, nil)))

	a, _ := domain.ParseDate("2024-03-30")
	b, _ := domain.ParseDate("2024-04-02")
	assert.Equal(t, 3, domain.DaysBetween(a, b))
	assert.Equal(t, -3, domain.DaysBetween(b, a))

	_, err = domain.ParseDate("2024-13-01")
	assert.Equal(t, domain.ErrInvalidDate, err)
}

func TestSettings_FillDefaultsKeepsOutOfRange(t *testing.T) {
	s := domain.WallpaperSettings{UserID: "u1", Width: 10000, YearGridMode: "months"}

	s.FillDefaults()

	assert.Equal(t, 10000, s.Width, "left for Validate to reject")
	assert.Equal(t, domain.DefaultHeight, s.Height)
	assert.Equal(t, "months", s.YearGridMode)
	assert.Equal(t, domain.DefaultTheme, s.Theme)
	assert.ErrorIs(t, s.Validate(time.Now()), domain.ErrInvalidCanvasSize)

	s.Normalize()
	assert.Equal(t, domain.MaxCanvasSide, s.Width)
	assert.Equal(t, domain.GridModeWeeks, s.YearGridMode)
}
