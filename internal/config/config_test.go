package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 900.0, cfg.WorkspaceWidth)
	assert.Equal(t, 1200.0, cfg.WorkspaceHeight)
	assert.Equal(t, 15*time.Second, cfg.ImageFetchTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "example.com, localhost:5173 ,")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"example.com", "localhost:5173"}, cfg.Origins())
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}
