package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kala/internal/chart"
	"github.com/papapumpkin/kala/internal/dasha"
	"github.com/papapumpkin/kala/internal/report"
	"github.com/papapumpkin/kala/internal/telemetry"
)

var activeCmd = &cobra.Command{
	Use:   "active CHART",
	Short: "Show the periods running at an instant",
	Long: `Builds each requested system's tree and lists the running period at every
generated level. Without --at the current time is used.

Instants before birth or past the generated horizon resolve to the nearest
boundary periods and are flagged as a fallback.`,
	Args: cobra.ExactArgs(1),
	RunE: runActive,
}

func init() {
	activeCmd.Flags().String("chart", "", "chart name within the file (default: the only chart)")
	activeCmd.Flags().String("at", "", "instant to query, RFC 3339 (default: now)")
	activeCmd.Flags().StringSlice("system", nil, "dasha system(s): vimshottari, yogini, tribhagi")
	activeCmd.Flags().Int("depth", 0, "levels to generate for every system (default from config)")
	activeCmd.Flags().String("format", "", "output format: text, json, yaml, toml")
	rootCmd.AddCommand(activeCmd)
}

// activeRequest is the parsed form of the active command's arguments.
type activeRequest struct {
	path    string
	chart   string
	at      time.Time
	systems []string
	depth   int
	format  string
}

func runActive(cmd *cobra.Command, args []string) error {
	req := activeRequest{path: args[0]}
	req.chart, _ = cmd.Flags().GetString("chart")
	req.systems, _ = cmd.Flags().GetStringSlice("system")
	req.depth, _ = cmd.Flags().GetInt("depth")
	req.format, _ = cmd.Flags().GetString("format")

	at, _ := cmd.Flags().GetString("at")
	var err error
	if req.at, err = parseInstant(at, time.Now); err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.active(cmd.Context(), cmd.OutOrStdout(), req)
}

// parseInstant parses an RFC 3339 instant; an empty value reads the clock.
func parseInstant(v string, now func() time.Time) (time.Time, error) {
	if v == "" {
		return now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t.UTC(), nil
}

func (s *session) active(ctx context.Context, w io.Writer, req activeRequest) error {
	format, err := s.format(req.format)
	if err != nil {
		return err
	}
	c, err := s.loadChart(req.path, req.chart)
	if err != nil {
		return err
	}
	return s.renderActive(ctx, w, c, req.at, s.systems(req.systems), req.depth, format)
}

// renderActive computes the chart's trees, reports fallbacks and renders
// the running periods at the given instant.
func (s *session) renderActive(ctx context.Context, w io.Writer, c chart.Chart, at time.Time, systems []string, depth int, format report.Format) error {
	_, results, err := s.compute(ctx, c, systems, depth)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			if format != report.FormatText {
				s.ui.Unavailable(r.System, r.Err)
			}
			continue
		}
		a := dasha.Active(r.Tree, at)
		data := map[string]any{"chart": c.Name, "at": at.Format(time.RFC3339), "fallback": a.Fallback}
		if m, ok := a.Mahadasha(); ok {
			data["mahadasha"] = string(m.Lord)
		}
		s.record(telemetry.KindActiveQuery, r.System, data)
		if a.Warning != nil {
			s.ui.RangeWarning(r.System, a.Warning)
			s.log.Warn("active period fallback", "system", r.System, "warning", a.Warning)
			s.record(telemetry.KindRangeFallback, r.System, map[string]any{"chart": c.Name, "warning": a.Warning.Error()})
		}
	}

	if err := report.RenderActive(w, format, report.NewActive(c.Name, at, results)); err != nil {
		return err
	}
	return allFailed(results)
}
