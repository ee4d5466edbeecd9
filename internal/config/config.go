// Package config loads the service configuration from the environment.
// A .env file, when present, seeds variables that are not already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/database"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

const (
	DefaultPort                 = "8080"
	DefaultCacheTTL             = 60 * time.Second
	DefaultPreviewDebounce      = 600 * time.Millisecond
	DefaultPreviewClockInterval = 10 * time.Second
	DefaultPreviewScale         = 0.5
	DefaultRateLimit            = 100
	DefaultJWTIssuer            = "kanso"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host is configured. Without one the read
// cache stays in process and rate limiting is off.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type Config struct {
	Port     string
	Database database.Config
	Redis    RedisConfig

	JWTSecret string
	JWTIssuer string

	LogLevel  string
	LogFormat string

	// PublicBaseURL prefixes the wallpaper URLs handed out with a new token.
	PublicBaseURL string

	CacheTTL             time.Duration
	PreviewDebounce      time.Duration
	PreviewClockInterval time.Duration
	PreviewScale         float64
	// PreviewOrigins are the extra websocket origins allowed for live previews.
	PreviewOrigins []string

	// RateLimit is requests per minute; 0 disables it.
	RateLimit int

	ThemesFile string

	// Warnings lists values that were invalid and replaced by their default.
	// They are logged once logging is set up.
	Warnings []string
}

// Load reads the configuration. envFiles default to ".env"; missing files are
// ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	cfg.Port = getEnv("PORT", DefaultPort)
	cfg.Database = database.Config{
		Driver:   getEnv("DB_DRIVER", database.DriverPgx),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Path:     getEnv("DB_PATH", "kanso.db"),
	}
	cfg.Redis = RedisConfig{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       cfg.intEnv("REDIS_DB", 0),
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", DefaultJWTIssuer)
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port)

	cfg.CacheTTL = cfg.durationEnv("CACHE_TTL", DefaultCacheTTL)
	cfg.PreviewDebounce = cfg.durationEnv("PREVIEW_DEBOUNCE", DefaultPreviewDebounce)
	cfg.PreviewClockInterval = cfg.durationEnv("PREVIEW_CLOCK_INTERVAL", DefaultPreviewClockInterval)
	cfg.PreviewScale = cfg.scaleEnv("PREVIEW_SCALE", DefaultPreviewScale)
	cfg.PreviewOrigins = splitList(os.Getenv("PREVIEW_ORIGINS"))
	cfg.RateLimit = cfg.intEnv("RATE_LIMIT", DefaultRateLimit)
	cfg.ThemesFile = os.Getenv("THEMES_FILE")

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) warn(key, value string, fallback any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q is invalid, using %v", key, value, fallback))
}

func (c *Config) durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		c.warn(key, raw, fallback)
		return fallback
	}
	return d
}

func (c *Config) intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.warn(key, raw, fallback)
		return fallback
	}
	return n
}

// scaleEnv accepts factors in (0, 1].
func (c *Config) scaleEnv(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 || f > 1 {
		c.warn(key, raw, fallback)
		return fallback
	}
	return f
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ThemeDocument is the YAML document of extra palettes:
//
//	themes:
//	  paper:
//	    bg: "#FAF7F0"
//	    card: "#EFE9DC"
//	    ...
type ThemeDocument struct {
	Themes map[string]wallpaper.ThemeSpec `yaml:"themes"`
}

// LoadThemes reads path and registers every palette in it. A theme with a bad
// color is skipped and reported; the others are still registered.
func LoadThemes(path string, resolver *wallpaper.ThemeResolver) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read themes: %w", err)
	}

	var file ThemeDocument
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse themes: %w", err)
	}

	var skipped []string
	for id, spec := range file.Themes {
		if err := resolver.Register(id, spec); err != nil {
			skipped = append(skipped, err.Error())
		}
	}
	return skipped, nil
}
