package services_test

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
)

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) GetByTokenDigest(ctx context.Context, digest string) (*domain.WallpaperSettings, error) {
	args := m.Called(ctx, digest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WallpaperSettings), args.Error(1)
}

func (m *MockSettingsRepo) GetByUserID(ctx context.Context, userID string) (*domain.WallpaperSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WallpaperSettings), args.Error(1)
}

func (m *MockSettingsRepo) Save(ctx context.Context, settings *domain.WallpaperSettings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *MockSettingsRepo) SetTokenDigest(ctx context.Context, userID, digest string) error {
	return m.Called(ctx, userID, digest).Error(0)
}

type MockHabitRepo struct {
	mock.Mock
}

func (m *MockHabitRepo) ListActiveWithLogs(ctx context.Context, userID string, from, to time.Time) ([]*domain.Habit, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

type MockGoalRepo struct {
	mock.Mock
}

func (m *MockGoalRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

type MockReminderRepo struct {
	mock.Mock
}

func (m *MockReminderRepo) ListActive(ctx context.Context, userID string, from, to time.Time) ([]*domain.Reminder, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reminder), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// fakeCanvas keeps the scenes it was asked to draw.
type fakeCanvas struct {
	mu     sync.Mutex
	scenes []wallpaper.Scene
	clocks []time.Time
}

func (c *fakeCanvas) Render(sc wallpaper.Scene) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenes = append(c.scenes, sc)
	return image.NewRGBA(image.Rect(0, 0, sc.Width, sc.Height))
}

func (c *fakeCanvas) WithClock(base *image.RGBA, sc wallpaper.Scene) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clocks = append(c.clocks, sc.Now)
	return base
}

func (c *fakeCanvas) Record(sc wallpaper.Scene) wallpaper.Ops {
	return wallpaper.Ops{Width: sc.Width, Height: sc.Height, Ops: []wallpaper.Op{{Kind: "gradient"}}}
}

func (c *fakeCanvas) EncodePNG(img image.Image) ([]byte, error) {
	return []byte("png"), nil
}

func (c *fakeCanvas) lastScene() wallpaper.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scenes[len(c.scenes)-1]
}

type recordingListener struct {
	mu    sync.Mutex
	users []string
}

func (l *recordingListener) SettingsSaved(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users = append(l.users, userID)
}
