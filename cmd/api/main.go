package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/canvas"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/database"
	adapterHTTP "github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/handler/live"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/config"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/services"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/workers"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/logging"
)

const (
	sessionTokenDuration = 24 * time.Hour
	cacheSweepInterval   = time.Minute
)

// @title        Kanso Wallpaper API
// @version      1.0
// @description  Life-calendar wallpaper rendering: public snapshot images, data bundles and live previews.
// @securityDefinitions.apikey  BearerAuth
// @in    header
// @name  Authorization
func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical: invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Warnings {
		logger.Warn("config: " + w)
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("connecting to database", "driver", cfg.Database.Driver)
	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Error("Critical: failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected, schema up to date")

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("Critical: failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		logger.Info("redis connected", "host", cfg.Redis.Host)
	} else {
		logger.Warn("REDIS_HOST not set: in-process cache, rate limiting disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, db, rdb, startTime, logger)
	if err != nil {
		logger.Error("Critical: failed to build server", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     a.router,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: live preview connections stay open.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		logger.Info("kanso wallpaper running", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Critical server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped gracefully")
}

type app struct {
	router *gin.Engine
	hub    *live.Hub
}

// newApp wires repositories, caches, services and handlers. Background tasks
// run until ctx is done.
func newApp(ctx context.Context, cfg *config.Config, db *sqlx.DB, rdb *redis.Client, startTime time.Time, logger *slog.Logger) (*app, error) {
	themes := wallpaper.NewThemeResolver()
	if cfg.ThemesFile != "" {
		skipped, err := config.LoadThemes(cfg.ThemesFile, themes)
		if err != nil {
			return nil, err
		}
		for _, s := range skipped {
			logger.Warn("theme skipped", "reason", s)
		}
		logger.Info("themes loaded", "themes", themes.IDs())
	}

	var store cache.Store
	if rdb != nil {
		store = cache.NewRedisStore(rdb, "kanso:")
	} else {
		mem := cache.NewMemoryStore()
		go sweepCache(ctx, mem, logger)
		store = mem
	}

	settingsRepo := repository.NewSQLSettingsRepository(db)
	habitRepo := repository.NewCachedHabitRepository(repository.NewSQLHabitRepository(db), store, cfg.CacheTTL, logger)
	goalRepo := repository.NewCachedGoalRepository(repository.NewSQLGoalRepository(db), store, cfg.CacheTTL, logger)
	reminderRepo := repository.NewSQLReminderRepository(db)
	userRepo := repository.NewSQLUserRepository(db)

	renderer := canvas.NewRenderer()
	wallpaperService := services.NewWallpaperService(settingsRepo, habitRepo, goalRepo, reminderRepo, themes, renderer)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, sessionTokenDuration, userRepo)

	hub := live.NewHub(wallpaperService, renderer, live.Config{
		Preview: workers.PreviewConfig{
			Debounce:      cfg.PreviewDebounce,
			ClockInterval: cfg.PreviewClockInterval,
		},
		Scale:          cfg.PreviewScale,
		OriginPatterns: cfg.PreviewOrigins,
	}, logger)
	settingsService := services.NewSettingsService(settingsRepo, hub)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		WallpaperHandler: adapterHTTP.NewWallpaperHandler(wallpaperService, logger),
		SettingsHandler:  adapterHTTP.NewSettingsHandler(settingsService, cfg.PublicBaseURL, logger),
		LiveHub:          hub,
		TokenValidator:   tokenService,
		DB:               db,
		Redis:            rdb,
		RateLimit:        cfg.RateLimit,
		StartTime:        startTime,
		Logger:           logger,
	})

	return &app{router: router, hub: hub}, nil
}

func sweepCache(ctx context.Context, mem *cache.MemoryStore, logger *slog.Logger) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := mem.Sweep(); n > 0 {
				logger.Debug("cache sweep", "expired", n, "remaining", mem.Len())
			}
		case <-ctx.Done():
			return
		}
	}
}
