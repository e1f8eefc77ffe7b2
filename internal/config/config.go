// Package config provides configuration loading for gridastar.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/internal/logging"
	"github.com/pdrpinto/gridastar/internal/maze"
	"gopkg.in/yaml.v3"
)

// Config contains all gridastar settings.
type Config struct {
	// Grid controls random grid generation.
	Grid GridConfig `yaml:"grid"`

	// Search selects the heuristic and frontier strategy.
	Search SearchConfig `yaml:"search"`

	// Animation controls terminal playback.
	Animation AnimationConfig `yaml:"animation"`

	// Server configures the web visualizer.
	Server ServerConfig `yaml:"server"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `yaml:"logging"`
}

type GridConfig struct {
	Rows    int     `yaml:"rows"`
	Cols    int     `yaml:"cols"`
	Density float64 `yaml:"density"`
	// Layout is "uniform" or "clusters".
	Layout    string `yaml:"layout"`
	Clusters  int    `yaml:"clusters"`
	WalkSteps int    `yaml:"walk_steps"`
	// Seed of 0 picks a fresh layout each run.
	Seed int64 `yaml:"seed"`
}

type SearchConfig struct {
	// Heuristic is "manhattan" (default) or "zero".
	Heuristic string `yaml:"heuristic"`
	// Frontier is "decrease-key" (default) or "lazy".
	Frontier string `yaml:"frontier"`
}

type AnimationConfig struct {
	// FPS is how many search steps are taken per second.
	FPS int `yaml:"fps"`
	// Sound plays a tone when the search finishes.
	Sound bool `yaml:"sound"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// StreamInterval is the default delay between streamed steps.
	StreamInterval time.Duration `yaml:"stream_interval"`
	// MaxSessions caps concurrently held searches.
	MaxSessions int `yaml:"max_sessions"`
	// SessionTTL is how long an idle session survives once the server is full.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Rows:      50,
			Cols:      50,
			Density:   0.35,
			Layout:    string(maze.Uniform),
			Clusters:  8,
			WalkSteps: 200,
		},
		Search: SearchConfig{
			Heuristic: "manhattan",
			Frontier:  "decrease-key",
		},
		Animation: AnimationConfig{
			FPS: 60,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			StreamInterval: 30 * time.Millisecond,
			MaxSessions:    64,
			SessionTTL:     10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from path, or from ~/.gridastar/config.yaml when
// path is empty and that file exists, then applies environment overrides.
// Order: defaults -> file -> environment variables
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(homeDir, ".gridastar", "config.yaml")
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Keys absent
// from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.MazeConfig().Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	if _, ok := gridastar.HeuristicByName(c.Search.Heuristic); !ok {
		return fmt.Errorf("invalid heuristic: %s (valid: manhattan, zero)", c.Search.Heuristic)
	}
	if _, err := gridastar.ParseFrontierStrategy(c.Search.Frontier); err != nil {
		return err
	}

	if c.Animation.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Animation.FPS)
	}

	if c.Server.StreamInterval < 0 {
		return fmt.Errorf("stream_interval must be non-negative, got %v", c.Server.StreamInterval)
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive, got %d", c.Server.MaxSessions)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %v", c.Server.SessionTTL)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: error, warn, info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// MazeConfig converts the grid section into a generator config.
func (c *Config) MazeConfig() maze.Config {
	return maze.Config{
		Rows:      c.Grid.Rows,
		Cols:      c.Grid.Cols,
		Density:   c.Grid.Density,
		Kind:      maze.Kind(c.Grid.Layout),
		Clusters:  c.Grid.Clusters,
		WalkSteps: c.Grid.WalkSteps,
		Seed:      c.Grid.Seed,
	}
}

// SearchOptions converts the search section into engine options. Call
// Validate first; unknown names fall back to the defaults here.
func (c *Config) SearchOptions() []gridastar.Option {
	h, ok := gridastar.HeuristicByName(c.Search.Heuristic)
	if !ok {
		h = gridastar.Manhattan
	}
	strategy, err := gridastar.ParseFrontierStrategy(c.Search.Frontier)
	if err != nil {
		strategy = gridastar.FrontierDecreaseKey
	}
	return []gridastar.Option{gridastar.WithHeuristic(h), gridastar.WithFrontier(strategy)}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("GRIDASTAR_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Grid.Rows = n
		}
	}
	if v := os.Getenv("GRIDASTAR_COLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Grid.Cols = n
		}
	}
	if v := os.Getenv("GRIDASTAR_DENSITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Grid.Density = f
		}
	}
	if v := os.Getenv("GRIDASTAR_LAYOUT"); v != "" {
		config.Grid.Layout = v
	}
	if v := os.Getenv("GRIDASTAR_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Grid.Seed = n
		}
	}

	if v := os.Getenv("GRIDASTAR_HEURISTIC"); v != "" {
		config.Search.Heuristic = v
	}
	if v := os.Getenv("GRIDASTAR_FRONTIER"); v != "" {
		config.Search.Frontier = v
	}

	if v := os.Getenv("GRIDASTAR_FPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Animation.FPS = n
		}
	}
	if v := os.Getenv("GRIDASTAR_SOUND"); v != "" {
		config.Animation.Sound = v == "true" || v == "1"
	}

	if v := os.Getenv("GRIDASTAR_ADDR"); v != "" {
		config.Server.Addr = v
	}

	if v := os.Getenv("GRIDASTAR_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
