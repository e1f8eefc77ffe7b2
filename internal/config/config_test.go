package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdrpinto/gridastar/internal/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	config := Default()

	assert.Equal(t, 50, config.Grid.Rows)
	assert.Equal(t, 50, config.Grid.Cols)
	assert.Equal(t, 0.35, config.Grid.Density)
	assert.Equal(t, "uniform", config.Grid.Layout)
	assert.Equal(t, "manhattan", config.Search.Heuristic)
	assert.Equal(t, "decrease-key", config.Search.Frontier)
	assert.Equal(t, 60, config.Animation.FPS)
	assert.False(t, config.Animation.Sound)
	assert.Equal(t, ":8080", config.Server.Addr)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
grid:
  rows: 20
  cols: 30
  density: 0.2
  layout: clusters
  seed: 99
search:
  frontier: lazy
animation:
  fps: 15
  sound: true
server:
  stream_interval: 100ms
  session_ttl: 2m
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0600))

	config, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, 20, config.Grid.Rows)
	assert.Equal(t, 30, config.Grid.Cols)
	assert.Equal(t, 0.2, config.Grid.Density)
	assert.Equal(t, "clusters", config.Grid.Layout)
	assert.Equal(t, int64(99), config.Grid.Seed)
	assert.Equal(t, 8, config.Grid.Clusters, "unset keys keep defaults")
	assert.Equal(t, "manhattan", config.Search.Heuristic)
	assert.Equal(t, "lazy", config.Search.Frontier)
	assert.Equal(t, 15, config.Animation.FPS)
	assert.True(t, config.Animation.Sound)
	assert.Equal(t, 100*time.Millisecond, config.Server.StreamInterval)
	assert.Equal(t, 2*time.Minute, config.Server.SessionTTL)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("grid: [unclosed"), 0600))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GRIDASTAR_ROWS", "12")
	t.Setenv("GRIDASTAR_DENSITY", "0.5")
	t.Setenv("GRIDASTAR_SEED", "7")
	t.Setenv("GRIDASTAR_FRONTIER", "lazy")
	t.Setenv("GRIDASTAR_SOUND", "1")
	t.Setenv("GRIDASTAR_LOG_LEVEL", "trace")

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 12, config.Grid.Rows)
	assert.Equal(t, 0.5, config.Grid.Density)
	assert.Equal(t, int64(7), config.Grid.Seed)
	assert.Equal(t, "lazy", config.Search.Frontier)
	assert.True(t, config.Animation.Sound)
	assert.Equal(t, "trace", config.Logging.Level)
}

func TestLoad_ExplicitPathOverridesThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid:\n  rows: 9\n  cols: 9\n"), 0600))
	t.Setenv("GRIDASTAR_COLS", "11")

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, config.Grid.Rows)
	assert.Equal(t, 11, config.Grid.Cols)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"density", func(c *Config) { c.Grid.Density = 2 }},
		{"rows", func(c *Config) { c.Grid.Rows = 0 }},
		{"layout", func(c *Config) { c.Grid.Layout = "spiral" }},
		{"heuristic", func(c *Config) { c.Search.Heuristic = "euclid" }},
		{"frontier", func(c *Config) { c.Search.Frontier = "eager" }},
		{"fps", func(c *Config) { c.Animation.FPS = 0 }},
		{"stream interval", func(c *Config) { c.Server.StreamInterval = -time.Second }},
		{"max sessions", func(c *Config) { c.Server.MaxSessions = 0 }},
		{"session ttl", func(c *Config) { c.Server.SessionTTL = -time.Second }},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestMazeConfigAndSearchOptions(t *testing.T) {
	c := Default()
	c.Grid.Layout = "clusters"
	c.Grid.Seed = 5

	mc := c.MazeConfig()
	assert.Equal(t, maze.Clusters, mc.Kind)
	assert.Equal(t, int64(5), mc.Seed)
	assert.Equal(t, 200, mc.WalkSteps)

	assert.Len(t, c.SearchOptions(), 2)
}
