package workers

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/services"
)

const (
	DefaultDebounce      = 600 * time.Millisecond
	DefaultClockInterval = 10 * time.Second
)

type PreviewRenderer interface {
	RenderPreview(ctx context.Context, userID string, draft domain.WallpaperSettings) (*services.PreviewFrame, error)
	ClockOverlay(frame *services.PreviewFrame, now time.Time) *image.RGBA
}

type FrameKind string

const (
	FrameFull  FrameKind = "full"
	FrameClock FrameKind = "clock"
	FrameError FrameKind = "error"
)

// Frame is one update pushed to the viewer. Version is the draft version the
// pixels belong to; clock frames repeat the version of the frame they redraw.
type Frame struct {
	Kind    FrameKind
	Version uint64
	Image   *image.RGBA
	Err     error
	At      time.Time
}

type PreviewConfig struct {
	Debounce      time.Duration
	ClockInterval time.Duration
}

// PreviewSession drives the live preview of one viewer. Draft edits are
// debounced into full renders; a ticker redraws only the clock on the last
// full frame. Renders are never cancelled: a result older than the one already
// shown is dropped.
//
// publish may be called from several goroutines.
type PreviewSession struct {
	userID   string
	renderer PreviewRenderer
	publish  func(Frame)
	logger   *slog.Logger
	cfg      PreviewConfig
	now      func() time.Time

	// pubMu orders publishing: a frame goes out only if its version is still
	// the applied one when the lock is held.
	pubMu sync.Mutex

	mu      sync.Mutex
	ctx     context.Context
	draft   domain.WallpaperSettings
	version uint64
	applied uint64
	current *services.PreviewFrame
	visible bool
	stopped bool
	timer   *time.Timer
	wg      sync.WaitGroup
	done    chan struct{}
}

func NewPreviewSession(userID string, renderer PreviewRenderer, publish func(Frame), cfg PreviewConfig, logger *slog.Logger) *PreviewSession {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.ClockInterval <= 0 {
		cfg.ClockInterval = DefaultClockInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PreviewSession{
		userID:   userID,
		renderer: renderer,
		publish:  publish,
		logger:   logger.With("user_id", userID),
		cfg:      cfg,
		now:      time.Now,
		ctx:      context.Background(),
		visible:  true,
		done:     make(chan struct{}),
	}
}

// Start runs the clock ticker until ctx is done. Renders started by the
// session use ctx too.
func (s *PreviewSession) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.cfg.ClockInterval)
		defer ticker.Stop()

		s.logger.Debug("preview session started")
		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-ctx.Done():
				s.mu.Lock()
				s.stopped = true
				if s.timer != nil {
					s.timer.Stop()
				}
				s.mu.Unlock()
				s.wg.Wait()
				s.logger.Debug("preview session stopped")
				return
			}
		}
	}()
}

// Done is closed once the session has stopped and no render is in flight.
func (s *PreviewSession) Done() <-chan struct{} {
	return s.done
}

// Submit records a new draft. The full render runs once no other draft has
// arrived for the debounce period.
func (s *PreviewSession) Submit(draft domain.WallpaperSettings) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	s.draft = draft
	v := s.version

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.Debounce, func() { s.fire(v) })
	return v
}

// Refresh renders the current draft right away, dropping any pending
// debounced render.
func (s *PreviewSession) Refresh() uint64 {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.version++
	v, draft, ctx := s.version, s.draft, s.ctx
	if s.stopped {
		s.mu.Unlock()
		return v
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go s.render(ctx, v, draft)
	return v
}

// Replace swaps the draft and renders it right away, e.g. when a viewer
// connects or the stored settings changed underneath it.
func (s *PreviewSession) Replace(draft domain.WallpaperSettings) uint64 {
	s.mu.Lock()
	s.draft = draft
	s.mu.Unlock()
	return s.Refresh()
}

// SetVisible(false) pauses the clock while the viewer is hidden.
// SetVisible(true) is a visibility change: the clock resumes and the draft is
// re-rendered at once so the viewer never sees a stale frame.
func (s *PreviewSession) SetVisible(visible bool) {
	s.mu.Lock()
	s.visible = visible
	s.mu.Unlock()

	if visible {
		s.Refresh()
	}
}

func (s *PreviewSession) fire(v uint64) {
	s.mu.Lock()
	if v != s.version || s.stopped {
		s.mu.Unlock()
		return
	}
	draft, ctx := s.draft, s.ctx
	s.wg.Add(1)
	s.mu.Unlock()

	s.render(ctx, v, draft)
}

func (s *PreviewSession) render(ctx context.Context, v uint64, draft domain.WallpaperSettings) {
	defer s.wg.Done()

	if ctx.Err() != nil {
		return
	}

	frame, err := s.renderer.RenderPreview(ctx, s.userID, draft)

	s.mu.Lock()
	if v <= s.applied {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded preview", "version", v)
		return
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("preview render failed", "version", v, "error", err)
		s.publishIf(func() bool { return v > s.applied }, Frame{Kind: FrameError, Version: v, Err: err, At: s.now()})
		return
	}
	s.applied = v
	s.current = frame
	s.mu.Unlock()

	now := s.now()
	img := s.renderer.ClockOverlay(frame, now)
	if !s.publishIf(func() bool { return v == s.applied }, Frame{Kind: FrameFull, Version: v, Image: img, At: now}) {
		s.logger.Debug("discarding superseded preview", "version", v)
	}
}

func (s *PreviewSession) tick() {
	s.mu.Lock()
	frame, v, visible := s.current, s.applied, s.visible
	s.mu.Unlock()

	if frame == nil || !visible {
		return
	}

	now := s.now()
	img := s.renderer.ClockOverlay(frame, now)
	s.publishIf(func() bool { return v == s.applied && s.visible }, Frame{Kind: FrameClock, Version: v, Image: img, At: now})
}

// publishIf sends f when current, checked under mu, still holds once the
// publish lock is taken.
func (s *PreviewSession) publishIf(current func() bool, f Frame) bool {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	ok := current()
	s.mu.Unlock()

	if ok {
		s.publish(f)
	}
	return ok
}
