package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kala/internal/chart"
	"github.com/papapumpkin/kala/internal/dasha"
	"github.com/papapumpkin/kala/internal/period"
)

var errValidation = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate [CHART...]",
	Short: "Check period tables and chart files",
	Long: `Checks that every builtin period table sums to its cycle length, then loads
and validates each chart file given. With --deep every system's tree is built
for every chart and all structural invariants are re-verified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deep, _ := cmd.Flags().GetBool("deep")

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return s.validate(cmd.Context(), args, deep)
	},
}

func init() {
	validateCmd.Flags().Bool("deep", false, "build every tree and verify its invariants")
	rootCmd.AddCommand(validateCmd)
}

func (s *session) validate(ctx context.Context, paths []string, deep bool) error {
	ok := true
	check := func(subject string, err error) {
		s.ui.Check(subject, err)
		if err != nil {
			ok = false
		}
	}

	for _, name := range dasha.Names() {
		tbl, err := dasha.Table(name)
		subject := "table " + name
		if err == nil {
			subject = fmt.Sprintf("table %s (%d lords, %.6g years)", name, tbl.Len(), tbl.TotalYears())
		}
		check(subject, err)
	}

	for _, path := range paths {
		charts, err := chart.Load(path)
		check("chart file "+path, err)
		if err != nil || !deep {
			continue
		}
		for _, c := range charts {
			_, results, err := s.compute(ctx, c, dasha.Names(), 0)
			if err != nil {
				check("chart "+c.Name, err)
				continue
			}
			for _, r := range results {
				err := r.Err
				if err == nil {
					err = period.Verify(r.Tree)
				}
				check(fmt.Sprintf("chart %s %s (%d periods)", c.Name, r.System, treeLen(r.Tree)), err)
			}
		}
	}

	if !ok {
		return errValidation
	}
	return nil
}

func treeLen(t *period.Tree) int {
	if t == nil {
		return 0
	}
	return t.Len()
}
