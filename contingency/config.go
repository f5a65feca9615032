// SPDX-License-Identifier: MIT

package contingency

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/spf13/viper"
)

// Defaults applied by DefaultConfig and LoadConfig.
const (
	DefaultThresholdFraction  = 0.9
	DefaultMaxOrder           = 2
	DefaultFallbackToRefactor = true
	DefaultLogLevel           = "info"

	// EnvPrefix prefixes environment overrides: GRIDSENS_THRESHOLD_FRACTION etc.
	EnvPrefix = "GRIDSENS"
)

// Config tunes a Screener.
type Config struct {
	// Workers bounds concurrent evaluations. 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers"`

	// ThresholdFraction flags a branch whose loading exceeds this fraction
	// of its limit.
	ThresholdFraction float64 `mapstructure:"threshold_fraction"`

	// DefaultLimitMW applies to branches with no explicit limit. 0 = unlimited.
	DefaultLimitMW float64 `mapstructure:"default_limit_mw"`

	// BranchLimits overrides limits per branch ID. Matching falls back to the
	// lower-cased ID, since viper lower-cases map keys read from files.
	BranchLimits map[string]float64 `mapstructure:"branch_limits"`

	// MaxOrder is the deepest contingency Evaluate accepts.
	MaxOrder int `mapstructure:"max_order"`

	// FallbackToRefactor refactors the reduced topology when a Woodbury
	// update is singular.
	FallbackToRefactor bool `mapstructure:"fallback_to_refactor"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ThresholdFraction:  DefaultThresholdFraction,
		MaxOrder:           DefaultMaxOrder,
		FallbackToRefactor: DefaultFallbackToRefactor,
		LogLevel:           DefaultLogLevel,
	}
}

// LoadConfig reads path (YAML, TOML or JSON by extension) over the defaults
// and applies GRIDSENS_* environment overrides. An empty path yields the
// defaults plus environment. The result is validated.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("workers", def.Workers)
	v.SetDefault("threshold_fraction", def.ThresholdFraction)
	v.SetDefault("default_limit_mw", def.DefaultLimitMW)
	v.SetDefault("max_order", def.MaxOrder)
	v.SetDefault("fallback_to_refactor", def.FallbackToRefactor)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("contingency: read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("contingency: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid field as a *ConfigError.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return &ConfigError{Field: "workers", Message: "must be >= 0"}
	case !(c.ThresholdFraction > 0) || math.IsInf(c.ThresholdFraction, 0):
		return &ConfigError{Field: "threshold_fraction", Message: "must be a positive finite number"}
	case !(c.DefaultLimitMW >= 0) || math.IsInf(c.DefaultLimitMW, 0):
		return &ConfigError{Field: "default_limit_mw", Message: "must be a finite number >= 0"}
	case c.MaxOrder < 1:
		return &ConfigError{Field: "max_order", Message: "must be >= 1"}
	}
	for id, lim := range c.BranchLimits {
		if !(lim >= 0) || math.IsInf(lim, 0) {
			return &ConfigError{Field: "branch_limits." + id, Message: "must be a finite number >= 0"}
		}
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return &ConfigError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}

	return nil
}

// limit returns the rating for branch id: explicit BranchLimits entry, then
// the branch's own rating, then DefaultLimitMW. 0 means unlimited.
func (c Config) limit(id string, ratingMW float64) float64 {
	if lim, ok := c.BranchLimits[id]; ok {
		return lim
	}
	if lim, ok := c.BranchLimits[strings.ToLower(id)]; ok {
		return lim
	}
	if ratingMW > 0 {
		return ratingMW
	}

	return c.DefaultLimitMW
}

// NewLogger returns a JSON slog logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	lvl, _ := parseLevel(cfg.LogLevel)

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// parseLevel maps a level name to slog.Level. Empty means info.
func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
