// Package config loads kala settings through viper from .kala.yaml, KALA_*
// environment variables and command-line flags.
package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"
)

// DepthConfig holds the number of generated levels per dasha system.
type DepthConfig struct {
	Vimshottari int `mapstructure:"vimshottari"`
	Yogini      int `mapstructure:"yogini"`
	Tribhagi    int `mapstructure:"tribhagi"`
}

// Map returns the depths keyed by system name.
func (d DepthConfig) Map() map[string]int {
	return map[string]int{
		"vimshottari": d.Vimshottari,
		"yogini":      d.Yogini,
		"tribhagi":    d.Tribhagi,
	}
}

// Config holds all runtime configuration for a kala invocation.
// Values are populated from .kala.yaml, KALA_* env vars, and CLI flags.
type Config struct {
	Systems      []string    `mapstructure:"systems"`
	Depth        DepthConfig `mapstructure:"depth"`
	HorizonYears float64     `mapstructure:"horizon_years"`
	YearDays     float64     `mapstructure:"year_days"`
	Format       string      `mapstructure:"format"`
	TelemetryDir string      `mapstructure:"telemetry_dir"`
	LogLevel     string      `mapstructure:"log_level"`
	LogJSON      bool        `mapstructure:"log_json"`
	Verbose      bool        `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("systems", []string{"vimshottari", "yogini", "tribhagi"})
	viper.SetDefault("depth.vimshottari", 3)
	viper.SetDefault("depth.yogini", 2)
	viper.SetDefault("depth.tribhagi", 2)
	viper.SetDefault("horizon_years", 100.0)
	viper.SetDefault("year_days", 365.2422)
	viper.SetDefault("format", "text")
	viper.SetDefault("telemetry_dir", "")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_json", false)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if !positive(cfg.HorizonYears) {
		return Config{}, fmt.Errorf("horizon_years must be a positive number, got %g", cfg.HorizonYears)
	}
	if !positive(cfg.YearDays) {
		return Config{}, fmt.Errorf("year_days must be a positive number, got %g", cfg.YearDays)
	}
	return cfg, nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
