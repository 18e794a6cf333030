package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"CONFIG_FILE", "PORT", "LOG_LEVEL", "TOTAL_ROUNDS", "DRAW_SECONDS", "GUESS_INTERVAL_MS", "CORS_ORIGINS", "EXPORT_ENABLED", "METRICS_ENABLED"} {
		t.Setenv(k, "")
	}
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 3, c.TotalRounds)
	assert.Equal(t, 60, c.DrawSeconds)
	assert.Equal(t, 500*time.Millisecond, c.GuessInterval)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.False(t, c.ExportEnabled)
	assert.True(t, c.MetricsEnabled)

	s := c.Settings()
	assert.Equal(t, []int{30, 15}, s.HintAt)
	assert.Equal(t, 3, s.TotalRounds)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("TOTAL_ROUNDS", "5")
	t.Setenv("DRAW_SECONDS", "80")
	t.Setenv("GUESS_INTERVAL_MS", "250")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://scribble.example")
	t.Setenv("EXPORT_ENABLED", "true")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 5, c.TotalRounds)
	assert.Equal(t, 250*time.Millisecond, c.GuessInterval)
	assert.Equal(t, []string{"http://localhost:3000", "https://scribble.example"}, c.CORSOrigins)
	assert.True(t, c.ExportEnabled)

	s := c.Settings()
	assert.Equal(t, 80, s.DrawSeconds)
	assert.Equal(t, []int{40, 20}, s.HintAt)
	assert.Equal(t, 250*time.Millisecond, s.GuessInterval)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scribbledash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("total_rounds: 4\nexport_file: /tmp/results.txt\n"), 0644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9999")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4, c.TotalRounds)
	assert.Equal(t, "/tmp/results.txt", c.ExportFile)
	assert.Equal(t, "9999", c.Port)
}

func TestInvalidValues(t *testing.T) {
	t.Setenv("TOTAL_ROUNDS", "0")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("TOTAL_ROUNDS", "2")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = FromEnv()
	assert.Error(t, err)
}
