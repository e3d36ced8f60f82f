package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kala/internal/period"
	"github.com/papapumpkin/kala/internal/report"
)

var dashaCmd = &cobra.Command{
	Use:   "dasha CHART",
	Short: "Compute dasha period trees for a birth chart",
	Long: `Reads a TOML chart file, resolves the natal Moon's nakshatra and prints the
period tree of every requested system.

A system that cannot be computed is reported as unavailable while the others
still render; the command fails only when every system fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runDasha,
}

func init() {
	dashaCmd.Flags().String("chart", "", "chart name within the file (default: the only chart)")
	dashaCmd.Flags().StringSlice("system", nil, "dasha system(s): vimshottari, yogini, tribhagi")
	dashaCmd.Flags().Int("depth", 0, "levels to generate for every system (default from config)")
	dashaCmd.Flags().String("format", "", "output format: text, json, yaml, toml")
	dashaCmd.Flags().Bool("flat", false, "emit the flat arena form instead of nested periods")
	rootCmd.AddCommand(dashaCmd)
}

// dashaRequest is the parsed form of the dasha command's arguments.
type dashaRequest struct {
	path    string
	chart   string
	systems []string
	depth   int
	format  string
	flat    bool
}

func runDasha(cmd *cobra.Command, args []string) error {
	req := dashaRequest{path: args[0]}
	req.chart, _ = cmd.Flags().GetString("chart")
	req.systems, _ = cmd.Flags().GetStringSlice("system")
	req.depth, _ = cmd.Flags().GetInt("depth")
	req.format, _ = cmd.Flags().GetString("format")
	req.flat, _ = cmd.Flags().GetBool("flat")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.dasha(cmd.Context(), cmd.OutOrStdout(), req)
}

func (s *session) dasha(ctx context.Context, w io.Writer, req dashaRequest) error {
	format, err := s.format(req.format)
	if err != nil {
		return err
	}
	c, err := s.loadChart(req.path, req.chart)
	if err != nil {
		return err
	}
	systems := s.systems(req.systems)
	point, results, err := s.compute(ctx, c, systems, req.depth)
	if err != nil {
		return err
	}
	if format != report.FormatText {
		for _, r := range results {
			if r.Err != nil {
				s.ui.Unavailable(r.System, r.Err)
			}
		}
	}

	doc := report.New(c.Name, c.Instant(), point, results, report.Options{
		Flat:     req.flat,
		YearDays: period.YearLength(s.cfg.YearDays),
	})
	if err := report.Render(w, format, doc); err != nil {
		return err
	}
	return allFailed(results)
}

// format resolves the output format: an explicit flag wins over configuration.
func (s *session) format(flag string) (report.Format, error) {
	if flag == "" {
		flag = s.cfg.Format
	}
	return report.ParseFormat(flag)
}
