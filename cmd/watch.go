package cmd

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kala/internal/chart"
	"github.com/papapumpkin/kala/internal/telemetry"
)

var watchCmd = &cobra.Command{
	Use:   "watch CHART",
	Short: "Recompute active periods whenever the chart file changes",
	Long: `Prints the currently running periods, then watches the chart file and
prints them again after every change until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("chart", "", "chart name within the file (default: the only chart)")
	watchCmd.Flags().StringSlice("system", nil, "dasha system(s): vimshottari, yogini, tribhagi")
	watchCmd.Flags().Int("depth", 0, "levels to generate for every system (default from config)")
	watchCmd.Flags().String("format", "", "output format: text, json, yaml, toml")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	req := activeRequest{path: args[0]}
	req.chart, _ = cmd.Flags().GetString("chart")
	req.systems, _ = cmd.Flags().GetStringSlice("system")
	req.depth, _ = cmd.Flags().GetInt("depth")
	req.format, _ = cmd.Flags().GetString("format")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := chart.NewWatcher(req.path)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	return s.watch(cmd.Context(), cmd.OutOrStdout(), w.Reloads, req, time.Now)
}

// watch renders the active periods once from disk and again for every
// reload until ctx is done or reloads closes. A reload that fails to parse
// is reported and the previous output stands.
func (s *session) watch(ctx context.Context, out io.Writer, reloads <-chan chart.Reload, req activeRequest, now func() time.Time) error {
	format, err := s.format(req.format)
	if err != nil {
		return err
	}
	systems := s.systems(req.systems)

	render := func(charts []chart.Chart) {
		c, err := chart.Select(charts, req.chart)
		if err != nil {
			s.ui.Error(err.Error())
			return
		}
		if err := s.renderActive(ctx, out, c, now().UTC(), systems, req.depth, format); err != nil {
			s.ui.Error(err.Error())
		}
	}

	charts, err := chart.Load(req.path)
	if err != nil {
		return err
	}
	render(charts)
	s.ui.Info("watching " + req.path + " (ctrl-c to stop)")

	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-reloads:
			if !ok {
				return nil
			}
			data := map[string]any{"path": r.Path, "charts": len(r.Charts)}
			if r.Err != nil {
				data["error"] = r.Err.Error()
				s.record(telemetry.KindChartReload, "", data)
				s.log.Warn("chart reload failed", "path", r.Path, "error", r.Err)
				s.ui.Error(r.Err.Error())
				continue
			}
			s.record(telemetry.KindChartReload, "", data)
			s.ui.Reloaded(r.Path, len(r.Charts))
			render(r.Charts)
		}
	}
}

