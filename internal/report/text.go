package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/kala/internal/dasha"
	"github.com/papapumpkin/kala/internal/period"
)

// lordWidth pads lord labels so period bounds line up; "Bhadrika (Mercury)"
// is the widest label any system produces.
const lordWidth = 18

type textStyles struct {
	title  lipgloss.Style
	system lipgloss.Style
	lord   lipgloss.Style
	dim    lipgloss.Style
	fail   lipgloss.Style
	warn   lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		system: r.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		lord:   r.NewStyle().Width(lordWidth),
		dim:    r.NewStyle().Faint(true),
		fail:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

func renderText(w io.Writer, doc Document) error {
	st := newTextStyles(w)
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", st.title.Render(doc.Chart), doc.Birth)
	n := doc.Nakshatra
	fmt.Fprintf(&b, "%s %s pada %d (%.4f°, %.2f%% elapsed)\n",
		st.dim.Render("moon:"), n.Name, n.Pada, n.Longitude, n.Elapsed*100)

	for _, sd := range doc.Systems {
		b.WriteByte('\n')
		if sd.Error != "" {
			fmt.Fprintf(&b, "%s %s\n", st.fail.Render(sd.System+": unavailable"), st.dim.Render("("+sd.Error+")"))
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", st.system.Render(sd.System),
			st.dim.Render(fmt.Sprintf("starting lord %s, balance %.4f years", sd.StartingLord, sd.BalanceYears)))
		if len(sd.Flat) > 0 {
			for _, f := range sd.Flat {
				depth := 0
				for p := f.Parent; p >= 0; p = sd.Flat[p].Parent {
					depth++
				}
				writePeriod(&b, st, sd.System, depth, f.Lord, f.Start, f.End)
			}
			continue
		}
		var walk func(ps []PeriodDoc, depth int)
		walk = func(ps []PeriodDoc, depth int) {
			for _, p := range ps {
				writePeriod(&b, st, sd.System, depth, p.Lord, p.Start, p.End)
				walk(p.Children, depth+1)
			}
		}
		walk(sd.Periods, 0)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writePeriod(b *strings.Builder, st textStyles, system string, depth int, lord, start, end string) {
	fmt.Fprintf(b, "%s%s %s → %s\n",
		strings.Repeat("  ", depth+1),
		st.lord.Render(dasha.Label(system, period.Lord(lord))),
		start, end)
}

func renderActiveText(w io.Writer, doc ActiveDoc) error {
	st := newTextStyles(w)
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", st.title.Render(doc.Chart), st.dim.Render("at "+doc.At))
	for _, e := range doc.Systems {
		b.WriteByte('\n')
		if e.Error != "" {
			fmt.Fprintf(&b, "%s %s\n", st.fail.Render(e.System+": unavailable"), st.dim.Render("("+e.Error+")"))
			continue
		}
		fmt.Fprintln(&b, st.system.Render(e.System))
		if e.Warning != "" {
			fmt.Fprintf(&b, "  %s\n", st.warn.Render("fallback: "+e.Warning))
		}
		levels := []struct {
			name string
			r    *Running
		}{
			{period.Maha.DashaName(), e.Mahadasha},
			{period.Antar.DashaName(), e.Antardasha},
			{period.Pratyantar.DashaName(), e.Pratyantardasha},
			{period.Sookshma.DashaName(), e.Sookshma},
			{period.Prana.DashaName(), e.Prana},
			{period.Deha.DashaName(), e.Deha},
		}
		for _, l := range levels {
			if l.r == nil {
				continue
			}
			fmt.Fprintf(&b, "  %-16s %s %s → %s\n", l.name, st.lord.Render(l.r.Lord), l.r.Start, l.r.End)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
