package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Depth.Vimshottari", cfg.Depth.Vimshottari, 3},
		{"Depth.Yogini", cfg.Depth.Yogini, 2},
		{"Depth.Tribhagi", cfg.Depth.Tribhagi, 2},
		{"HorizonYears", cfg.HorizonYears, 100.0},
		{"YearDays", cfg.YearDays, 365.2422},
		{"Format", cfg.Format, "text"},
		{"TelemetryDir", cfg.TelemetryDir, ""},
		{"LogLevel", cfg.LogLevel, "warn"},
		{"LogJSON", cfg.LogJSON, false},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if want := []string{"vimshottari", "yogini", "tribhagi"}; !reflect.DeepEqual(cfg.Systems, want) {
		t.Errorf("Systems = %v, want %v", cfg.Systems, want)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "horizon_years",
			envKey: "KALA_HORIZON_YEARS",
			envVal: "120",
			field:  func(c Config) any { return c.HorizonYears },
			want:   120.0,
		},
		{
			name:   "year_days",
			envKey: "KALA_YEAR_DAYS",
			envVal: "360",
			field:  func(c Config) any { return c.YearDays },
			want:   360.0,
		},
		{
			name:   "format",
			envKey: "KALA_FORMAT",
			envVal: "json",
			field:  func(c Config) any { return c.Format },
			want:   "json",
		},
		{
			name:   "log_level",
			envKey: "KALA_LOG_LEVEL",
			envVal: "debug",
			field:  func(c Config) any { return c.LogLevel },
			want:   "debug",
		},
		{
			name:   "verbose",
			envKey: "KALA_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Set env prefix so KALA_* env vars map to config keys.
			viper.SetEnvPrefix("KALA")
			viper.AutomaticEnv()

			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()

	path := filepath.Join(t.TempDir(), ".kala.yaml")
	content := "systems: [vimshottari]\ndepth:\n  vimshottari: 5\nformat: yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Systems, []string{"vimshottari"}) {
		t.Errorf("Systems = %v", cfg.Systems)
	}
	if cfg.Depth.Vimshottari != 5 || cfg.Depth.Yogini != 2 {
		t.Errorf("Depth = %+v, want vimshottari 5 and yogini default 2", cfg.Depth)
	}
	if cfg.Format != "yaml" {
		t.Errorf("Format = %q, want yaml", cfg.Format)
	}
	if got := cfg.Depth.Map()["vimshottari"]; got != 5 {
		t.Errorf("Depth.Map()[vimshottari] = %d, want 5", got)
	}
}

func TestLoad_RejectsNonPositiveHorizon(t *testing.T) {
	resetViper()
	viper.Set("horizon_years", 0)

	if _, err := Load(); err == nil {
		t.Error("expected error for zero horizon_years")
	}
}

func TestLoad_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
	}{
		{"nan year_days", "KALA_YEAR_DAYS", "NaN"},
		{"inf year_days", "KALA_YEAR_DAYS", "+Inf"},
		{"nan horizon_years", "KALA_HORIZON_YEARS", "NaN"},
		{"negative horizon_years", "KALA_HORIZON_YEARS", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.SetEnvPrefix("KALA")
			viper.AutomaticEnv()
			t.Setenv(tt.envKey, tt.envVal)

			if cfg, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%s: %+v", tt.envKey, tt.envVal, cfg)
			}
		})
	}
}
