package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port              int           `envconfig:"PORT" default:"8080"`
	DatabaseURL       string        `envconfig:"DATABASE_URL" default:""`
	AssetDir          string        `envconfig:"ASSET_DIR" default:"./data/assets"`
	AllowedOrigins    string        `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	WorkspaceWidth    float64       `envconfig:"WORKSPACE_WIDTH" default:"900"`
	WorkspaceHeight   float64       `envconfig:"WORKSPACE_HEIGHT" default:"1200"`
	ImageFetchTimeout time.Duration `envconfig:"IMAGE_FETCH_TIMEOUT" default:"15s"`
	MaxImageBytes     int64         `envconfig:"MAX_IMAGE_BYTES" default:"10485760"`
	AutosaveInterval  time.Duration `envconfig:"AUTOSAVE_INTERVAL" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level maps LogLevel onto a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
