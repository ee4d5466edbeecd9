package workers

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/services"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
)

// fakeRenderer renders instantly unless a gate is registered for the draft
// theme, in which case it blocks until the gate is closed. overlayGates do
// the same for the clock overlay.
type fakeRenderer struct {
	mu           sync.Mutex
	themes       []string
	overlaid     []string
	gates        map[string]chan struct{}
	overlayGates map[string]chan struct{}
	fail         error
}

func (r *fakeRenderer) RenderPreview(ctx context.Context, userID string, draft domain.WallpaperSettings) (*services.PreviewFrame, error) {
	r.mu.Lock()
	r.themes = append(r.themes, draft.Theme)
	gate := r.gates[draft.Theme]
	fail := r.fail
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail != nil {
		return nil, fail
	}
	return &services.PreviewFrame{
		Base:  image.NewRGBA(image.Rect(0, 0, 4, 4)),
		Scene: wallpaper.Scene{Palette: wallpaper.Palette{ID: draft.Theme}},
	}, nil
}

func (r *fakeRenderer) ClockOverlay(frame *services.PreviewFrame, now time.Time) *image.RGBA {
	r.mu.Lock()
	r.overlaid = append(r.overlaid, frame.Scene.Palette.ID)
	gate := r.overlayGates[frame.Scene.Palette.ID]
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return frame.Base
}

func (r *fakeRenderer) overlays() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.overlaid...)
}

func (r *fakeRenderer) rendered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.themes...)
}

type frameSink struct {
	mu     sync.Mutex
	frames []Frame
}

func (s *frameSink) publish(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
}

func (s *frameSink) all() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...)
}

func (s *frameSink) count(kind FrameKind) int {
	n := 0
	for _, f := range s.all() {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

func newTestSession(t *testing.T, r *fakeRenderer, cfg PreviewConfig) (*PreviewSession, *frameSink) {
	t.Helper()
	sink := &frameSink{}
	s := NewPreviewSession("user-1", r, sink.publish, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})
	return s, sink
}

func TestPreviewSession_Debounce(t *testing.T) {
	r := &fakeRenderer{}
	s, sink := newTestSession(t, r, PreviewConfig{Debounce: 30 * time.Millisecond, ClockInterval: time.Hour})

	s.Submit(domain.WallpaperSettings{Theme: "forest"})
	s.Submit(domain.WallpaperSettings{Theme: "ocean"})
	last := s.Submit(domain.WallpaperSettings{Theme: "sunset"})

	require.Eventually(t, func() bool { return sink.count(FrameFull) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, []string{"sunset"}, r.rendered(), "rapid edits coalesce into one render of the last draft")
	frames := sink.all()
	require.Len(t, frames, 1)
	assert.Equal(t, last, frames[0].Version)
}

func TestPreviewSession_LastCompletedWins(t *testing.T) {
	slow := make(chan struct{})
	r := &fakeRenderer{gates: map[string]chan struct{}{"slow": slow}}
	s, sink := newTestSession(t, r, PreviewConfig{Debounce: time.Millisecond, ClockInterval: time.Hour})

	s.Submit(domain.WallpaperSettings{Theme: "slow"})
	require.Eventually(t, func() bool { return len(r.rendered()) == 1 }, time.Second, time.Millisecond)

	s.Submit(domain.WallpaperSettings{Theme: "fast"})
	require.Eventually(t, func() bool { return sink.count(FrameFull) == 1 }, time.Second, time.Millisecond)

	close(slow)
	require.Eventually(t, func() bool { return len(r.rendered()) == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	frames := sink.all()
	require.Len(t, frames, 1, "the slow, older render is dropped")
	assert.Equal(t, uint64(2), frames[0].Version)
}

func TestPreviewSession_SlowPublishIsSuperseded(t *testing.T) {
	slow := make(chan struct{})
	r := &fakeRenderer{overlayGates: map[string]chan struct{}{"slow": slow}}
	s, sink := newTestSession(t, r, PreviewConfig{Debounce: time.Hour, ClockInterval: time.Hour})

	s.Replace(domain.WallpaperSettings{Theme: "slow"})
	require.Eventually(t, func() bool { return len(r.overlays()) == 1 }, time.Second, time.Millisecond)

	newer := s.Replace(domain.WallpaperSettings{Theme: "fast"})
	require.Eventually(t, func() bool { return sink.count(FrameFull) == 1 }, time.Second, time.Millisecond)

	close(slow)
	time.Sleep(30 * time.Millisecond)

	frames := sink.all()
	require.Len(t, frames, 1, "the older frame finishing late is not shown")
	assert.Equal(t, newer, frames[0].Version)

	s.tick()
	frames = sink.all()
	require.Len(t, frames, 2)
	assert.Equal(t, FrameClock, frames[1].Kind)
	assert.Equal(t, newer, frames[1].Version)
}

func TestPreviewSession_ClockTicks(t *testing.T) {
	r := &fakeRenderer{}
	s, sink := newTestSession(t, r, PreviewConfig{Debounce: time.Millisecond, ClockInterval: 10 * time.Millisecond})

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, sink.count(FrameClock), "no clock before the first full frame")

	v := s.Refresh()
	require.Eventually(t, func() bool { return sink.count(FrameClock) >= 2 }, time.Second, 5*time.Millisecond)

	assert.Len(t, r.rendered(), 1, "ticks never re-render the wallpaper")
	for _, f := range sink.all() {
		assert.Equal(t, v, f.Version)
		assert.NotNil(t, f.Image)
	}
}

func TestPreviewSession_Visibility(t *testing.T) {
	r := &fakeRenderer{}
	s, sink := newTestSession(t, r, PreviewConfig{Debounce: time.Millisecond, ClockInterval: 10 * time.Millisecond})

	s.Refresh()
	require.Eventually(t, func() bool { return sink.count(FrameFull) == 1 }, time.Second, time.Millisecond)

	s.SetVisible(false)
	time.Sleep(5 * time.Millisecond)
	before := sink.count(FrameClock)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, sink.count(FrameClock), "hidden viewers get no clock frames")

	s.SetVisible(true)
	require.Eventually(t, func() bool { return sink.count(FrameFull) == 2 }, time.Second, time.Millisecond)
}

func TestPreviewSession_Replace(t *testing.T) {
	r := &fakeRenderer{}
	s, sink := newTestSession(t, r, PreviewConfig{Debounce: time.Hour, ClockInterval: time.Hour})

	s.Submit(domain.WallpaperSettings{Theme: "forest"})
	v := s.Replace(domain.WallpaperSettings{Theme: "ocean"})

	require.Eventually(t, func() bool { return sink.count(FrameFull) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"ocean"}, r.rendered(), "the pending debounced draft is dropped")
	assert.Equal(t, v, sink.all()[0].Version)
}

func TestPreviewSession_RenderError(t *testing.T) {
	r := &fakeRenderer{fail: errors.New("db down")}
	s, sink := newTestSession(t, r, PreviewConfig{Debounce: time.Millisecond, ClockInterval: 10 * time.Millisecond})

	s.Refresh()
	require.Eventually(t, func() bool { return sink.count(FrameError) == 1 }, time.Second, time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, sink.count(FrameFull))
	assert.Zero(t, sink.count(FrameClock), "a failed render leaves nothing to redraw")
	assert.EqualError(t, sink.all()[0].Err, "db down")
}

func TestPreviewSession_Stop(t *testing.T) {
	r := &fakeRenderer{}
	sink := &frameSink{}
	s := NewPreviewSession("user-1", r, sink.publish, PreviewConfig{Debounce: 20 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	s.Submit(domain.WallpaperSettings{Theme: "forest"})
	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not stop")
	}

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, r.rendered(), "pending debounced render is dropped on stop")
	assert.Equal(t, DefaultClockInterval, s.cfg.ClockInterval)
}
