// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env overrides on top.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SourceURL locates the upstream duel record source.
	SourceURL string `koanf:"source_url"`

	// SourceTimeoutMS bounds a single upstream fetch in milliseconds.
	SourceTimeoutMS int `koanf:"source_timeout_ms"`

	// QueueSize bounds the in-memory refresh queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of refresh workers.
	WorkerCount int `koanf:"worker_count"`

	// RecentSize bounds the recent-lookup history.
	RecentSize int `koanf:"recent_size"`

	// RefreshIntervalMS re-refreshes known participants periodically when
	// set above zero. Zero disables the background refresh.
	RefreshIntervalMS int `koanf:"refresh_interval_ms"`

	// DefaultLeaderboardLimit applies when GET /leaderboard has no limit.
	DefaultLeaderboardLimit int `koanf:"default_leaderboard_limit"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9080",
		SourceURL:               "http://localhost:9090",
		SourceTimeoutMS:         10_000,
		QueueSize:               1024,
		WorkerCount:             runtime.NumCPU() * 4,
		RecentSize:              100,
		RefreshIntervalMS:       0,
		DefaultLeaderboardLimit: 10,
		MaxLeaderboardLimit:     100,
	}
}

// Validate checks invariants that hold across every load path. Size knobs
// stay permissive; zero or negative values fall back to component defaults
// at construction time.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.SourceURL == "" {
		return fmt.Errorf("%w: source_url must not be empty", ErrInvalidConfig)
	}
	if c.DefaultLeaderboardLimit < 1 {
		return fmt.Errorf("%w: default_leaderboard_limit must be at least 1", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit < c.DefaultLeaderboardLimit {
		return fmt.Errorf("%w: max_leaderboard_limit must not be below default_leaderboard_limit", ErrInvalidConfig)
	}
	return nil
}

// SourceTimeout returns the upstream fetch timeout as a duration.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutMS) * time.Millisecond
}

// RefreshInterval returns the periodic refresh interval; zero disables it.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}
