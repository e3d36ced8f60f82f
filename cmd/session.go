package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kala/internal/chart"
	"github.com/papapumpkin/kala/internal/config"
	"github.com/papapumpkin/kala/internal/dasha"
	"github.com/papapumpkin/kala/internal/logging"
	"github.com/papapumpkin/kala/internal/nakshatra"
	"github.com/papapumpkin/kala/internal/period"
	"github.com/papapumpkin/kala/internal/telemetry"
	"github.com/papapumpkin/kala/internal/ui"
)

// errAllFailed is returned when no requested system produced a tree.
var errAllFailed = errors.New("no dasha system could be computed")

// session bundles what every command needs: configuration, a logger, the
// status printer and the optional telemetry stream.
type session struct {
	cfg config.Config
	log *slog.Logger
	ui  *ui.Printer
	tel *telemetry.Emitter
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, JSON: cfg.LogJSON, Writer: cmd.ErrOrStderr()})
	if err != nil {
		logger.Warn("falling back to warn level", "error", err)
	}

	s := &session{cfg: cfg, log: logger, ui: ui.New()}
	if cfg.TelemetryDir != "" {
		s.tel, err = telemetry.NewRun(cfg.TelemetryDir)
		if err != nil {
			return nil, err
		}
		s.log = s.log.With("run", s.tel.RunID())
	}
	s.record(telemetry.KindRunStart, "", map[string]any{"command": cmd.Name()})
	return s, nil
}

// Close flushes telemetry.
func (s *session) Close() {
	if err := s.tel.Close(); err != nil {
		s.log.Warn("closing telemetry", "error", err)
	}
}

// record writes a telemetry event; failures are logged, never returned.
func (s *session) record(kind, system string, data map[string]any) {
	if err := s.tel.Record(kind, system, data); err != nil {
		s.log.Warn("recording telemetry", "kind", kind, "error", err)
	}
}

// systems resolves the requested system list: explicit flags win over
// configuration.
func (s *session) systems(requested []string) []string {
	if len(requested) > 0 {
		return requested
	}
	if len(s.cfg.Systems) > 0 {
		return s.cfg.Systems
	}
	return dasha.Names()
}

// options builds engine options from configuration. A positive depth
// overrides the configured depth for every listed system.
func (s *session) options(systems []string, depth int) dasha.Options {
	depths := s.cfg.Depth.Map()
	if depth > 0 {
		for _, sys := range systems {
			depths[strings.ToLower(strings.TrimSpace(sys))] = depth
		}
	}
	return dasha.Options{
		Depths:       depths,
		HorizonYears: s.cfg.HorizonYears,
		YearDays:     s.cfg.YearDays,
	}
}

// loadChart reads the chart file and selects one chart from it.
func (s *session) loadChart(path, name string) (chart.Chart, error) {
	charts, err := chart.Load(path)
	if err != nil {
		return chart.Chart{}, err
	}
	return chart.Select(charts, name)
}

// compute builds every requested system for c, logging and recording each
// outcome. The returned error covers only Moon resolution; per-system
// failures travel in the results.
func (s *session) compute(ctx context.Context, c chart.Chart, systems []string, depth int) (nakshatra.Point, []dasha.Result, error) {
	provider, err := c.Provider()
	if err != nil {
		return nakshatra.Point{}, nil, err
	}
	point, err := nakshatra.FromProvider(ctx, provider, c.Instant(), c.Location())
	if err != nil {
		return nakshatra.Point{}, nil, fmt.Errorf("chart %q: resolving moon: %w", c.Name, err)
	}
	s.log.Debug("moon resolved", "chart", c.Name, "nakshatra", point.Name(), "elapsed", point.Elapsed)

	in := dasha.Input{Birth: c.Instant(), MoonLongitude: point.Longitude}
	results := dasha.ComputeAll(systems, in, s.options(systems, depth))
	for _, r := range results {
		if r.Err != nil {
			s.log.Warn("system unavailable", "chart", c.Name, "system", r.System, "error", r.Err)
			s.record(telemetry.KindTreeFailed, r.System, map[string]any{"chart": c.Name, "error": r.Err.Error()})
			continue
		}
		s.log.Info("tree built", "chart", c.Name, "system", r.System, "lord", r.Lord, "nodes", r.Tree.Len())
		s.record(telemetry.KindTreeBuilt, r.System, map[string]any{
			"chart":         c.Name,
			"starting_lord": string(r.Lord),
			"nodes":         r.Tree.Len(),
			"depth":         r.Tree.Depth,
			"balance_years": period.YearLength(s.cfg.YearDays).Years(r.Tree.Balance()),
		})
	}
	return point, results, nil
}

// allFailed returns errAllFailed when no result carries a tree.
func allFailed(results []dasha.Result) error {
	for _, r := range results {
		if r.Err == nil && r.Tree != nil {
			return nil
		}
	}
	return errAllFailed
}
