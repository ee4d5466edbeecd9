package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/kanso-wallpaper/docs"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/handler/live"
)

const requestIDHeader = "X-Request-ID"

type RouterDependencies struct {
	WallpaperHandler *WallpaperHandler
	SettingsHandler  *SettingsHandler
	LiveHub          *live.Hub
	TokenValidator   middleware.TokenValidator
	DB               *sqlx.DB
	Redis            *redis.Client
	// RateLimit is requests per minute per user or IP; 0 disables limiting.
	RateLimit int
	StartTime time.Time
	Logger    *slog.Logger
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, "+requestIDHeader)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.GET("/health", health(deps))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var limiter gin.HandlerFunc
	if deps.Redis != nil && deps.RateLimit > 0 {
		limiter = middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, time.Minute, logger)
	}

	public := router.Group("")
	if limiter != nil {
		public.Use(limiter)
	}
	deps.WallpaperHandler.RegisterPublicRoutes(public)

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(deps.TokenValidator))
	if limiter != nil {
		protected.Use(limiter)
	}
	{
		deps.WallpaperHandler.RegisterRoutes(protected)
		deps.SettingsHandler.RegisterRoutes(protected)
		if deps.LiveHub != nil {
			deps.LiveHub.RegisterRoutes(protected)
		}
	}

	return router
}

// requestLogger tags every request with an id, echoed in X-Request-ID.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func health(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "connected"
		if deps.DB == nil || deps.DB.PingContext(c.Request.Context()) != nil {
			dbStatus = "unreachable"
		}

		// Redis is optional; without it the cache is in-process.
		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(c.Request.Context()).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		sessions := 0
		if deps.LiveHub != nil {
			sessions = deps.LiveHub.ClientCount()
		}

		status, statusCode := "ok", http.StatusOK
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			status, statusCode = "degraded", http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":        status,
			"database":      dbStatus,
			"redis":         redisStatus,
			"live_sessions": sessions,
			"uptime":        time.Since(deps.StartTime).String(),
		})
	}
}
