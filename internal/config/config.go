// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Catalog formats understood by the catalog sources.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the moment catalog snapshot.
	CatalogPath string `koanf:"catalog_path"`

	// CatalogFormat is json or sqlite.
	CatalogFormat string `koanf:"catalog_format"`

	// WatchCatalog reloads the catalog when CatalogPath changes on disk.
	WatchCatalog bool `koanf:"watch_catalog"`

	// SecondaryRoster lists the team names of the secondary league.
	// Empty means the built-in roster.
	SecondaryRoster []string `koanf:"secondary_roster"`

	// SearchAttempts bounds the number of candidates tried per grid.
	SearchAttempts int `koanf:"search_attempts"`

	// SearchWorkers bounds how many attempts are evaluated concurrently.
	SearchWorkers int `koanf:"search_workers"`

	// Answer count targets per cell.
	MinAnswers   int `koanf:"min_answers"`
	IdealAnswers int `koanf:"ideal_answers"`
	MaxAnswers   int `koanf:"max_answers"`

	// Scoring weights. Their relative order is validated.
	PenaltyEmpty      int `koanf:"penalty_empty"`
	PenaltyUnderMin   int `koanf:"penalty_under_min"`
	PenaltyOverMax    int `koanf:"penalty_over_max"`
	PenaltyInfeasible int `koanf:"penalty_infeasible"`

	// Fallback construction bounds.
	FallbackTopTeams  int `koanf:"fallback_top_teams"`
	FallbackRotations int `koanf:"fallback_rotations"`

	// Cache lifetimes.
	GridCacheTTL       time.Duration `koanf:"grid_cache_ttl"`
	HintCacheTTL       time.Duration `koanf:"hint_cache_ttl"`
	CacheSweepInterval time.Duration `koanf:"cache_sweep_interval"`

	// PrewarmEnabled schedules daily grid generation at PrewarmAt (HH:MM) in Timezone.
	PrewarmEnabled bool   `koanf:"prewarm_enabled"`
	PrewarmAt      string `koanf:"prewarm_at"`
	Timezone       string `koanf:"timezone"`

	// MetricsEnabled gates every Prometheus observation.
	MetricsEnabled bool `koanf:"metrics_enabled"`
	// MetricsRefreshInterval is how often sampled gauges are refreshed.
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		CatalogPath:        "",
		CatalogFormat:      FormatJSON,
		WatchCatalog:       false,
		SearchAttempts:     200,
		SearchWorkers:      runtime.NumCPU(),
		MinAnswers:         1,
		IdealAnswers:       6,
		MaxAnswers:         15,
		PenaltyEmpty:       1000,
		PenaltyUnderMin:    20,
		PenaltyOverMax:     2,
		PenaltyInfeasible:  10000,
		FallbackTopTeams:   10,
		FallbackRotations:  50,
		GridCacheTTL:       24 * time.Hour,
		HintCacheTTL:       time.Hour,
		CacheSweepInterval: 2 * time.Minute,
		PrewarmEnabled:     false,
		PrewarmAt:          "00:05",
		Timezone:           "UTC",

		MetricsEnabled:         true,
		MetricsRefreshInterval: 10 * time.Second,
	}
}

// Location resolves Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PrewarmClock parses PrewarmAt into hour and minute.
func (c *Config) PrewarmClock() (hour, minute uint, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(c.PrewarmAt))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: prewarm_at %q: %w", ErrInvalidConfig, c.PrewarmAt, err)
	}
	return uint(t.Hour()), uint(t.Minute()), nil //nolint:gosec // bounded by time.Parse
}

// Validate checks field ranges and the relative order of the scoring weights.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.CatalogFormat {
	case FormatJSON, FormatSQLite:
	default:
		return fmt.Errorf("%w: unknown catalog_format %q", ErrInvalidConfig, c.CatalogFormat)
	}
	if c.SearchAttempts < 1 {
		return fmt.Errorf("%w: search_attempts must be at least 1", ErrInvalidConfig)
	}
	if c.SearchWorkers < 1 {
		return fmt.Errorf("%w: search_workers must be at least 1", ErrInvalidConfig)
	}
	if c.MinAnswers < 1 || c.MinAnswers > c.IdealAnswers || c.IdealAnswers > c.MaxAnswers {
		return fmt.Errorf("%w: answer targets must satisfy 1 <= min <= ideal <= max (got %d, %d, %d)",
			ErrInvalidConfig, c.MinAnswers, c.IdealAnswers, c.MaxAnswers)
	}
	if c.PenaltyOverMax < 1 ||
		c.PenaltyUnderMin <= c.PenaltyOverMax ||
		c.PenaltyEmpty <= c.PenaltyUnderMin ||
		c.PenaltyInfeasible <= c.PenaltyEmpty {
		return fmt.Errorf("%w: penalties must satisfy infeasible > empty > under_min > over_max >= 1",
			ErrInvalidConfig)
	}
	if c.FallbackTopTeams < 1 || c.FallbackRotations < 1 {
		return fmt.Errorf("%w: fallback bounds must be positive", ErrInvalidConfig)
	}
	if c.MetricsRefreshInterval <= 0 {
		return fmt.Errorf("%w: metrics_refresh_interval must be positive", ErrInvalidConfig)
	}
	if c.GridCacheTTL < 0 || c.HintCacheTTL < 0 {
		return fmt.Errorf("%w: cache ttl must not be negative", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	if c.PrewarmEnabled {
		if _, _, err := c.PrewarmClock(); err != nil {
			return err
		}
	}
	return nil
}
