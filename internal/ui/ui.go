// Package ui prints human-facing status lines (banners, failures, range
// warnings, validation results) to stderr. Reports themselves are rendered
// by the report package and go to stdout.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/papapumpkin/kala/internal/ansi"
	"github.com/papapumpkin/kala/internal/nakshatra"
	"github.com/papapumpkin/kala/internal/period"
)

// Printer writes colored status output.
type Printer struct {
	w     io.Writer
	color bool
}

// New returns a Printer on stderr, colored when stderr is a terminal.
func New() *Printer {
	return &Printer{w: os.Stderr, color: ansi.Enabled(os.Stderr)}
}

// NewWriter returns a Printer on w. Color is applied only when color is true.
func NewWriter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) paint(s string, codes ...string) string {
	if !p.color {
		return s
	}
	return ansi.Wrap(s, codes...)
}

// Banner prints the chart header: name, birth instant and Moon placement.
func (p *Printer) Banner(chart string, birth time.Time, pt nakshatra.Point) {
	fmt.Fprintln(p.w, p.paint("◆ "+chart, ansi.Bold, ansi.Cyan))
	fmt.Fprintf(p.w, "  %s %s\n", p.paint("birth:", ansi.Dim), birth.UTC().Format(time.RFC3339))
	fmt.Fprintf(p.w, "  %s %s\n", p.paint("moon: ", ansi.Dim), pt)
}

// Error prints msg as a failure line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.paint("error: ", ansi.Red, ansi.Bold), msg)
}

// Info prints msg dimmed.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.paint(msg, ansi.Dim))
}

// Unavailable reports a system whose tree could not be built.
func (p *Printer) Unavailable(system string, err error) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint("✗ "+system+": unavailable", ansi.Red, ansi.Bold), p.paint("("+err.Error()+")", ansi.Dim))
}

// RangeWarning reports that an active-period query fell outside the tree.
func (p *Printer) RangeWarning(system string, w *period.RangeWarning) {
	if w == nil {
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.paint("⚠ "+system+":", ansi.Yellow, ansi.Bold), w.Error())
}

// Check prints one validation line, green when err is nil.
func (p *Printer) Check(subject string, err error) {
	if err == nil {
		fmt.Fprintf(p.w, "%s\n", p.paint("✓ "+subject, ansi.Green))
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.paint("✗ "+subject, ansi.Red, ansi.Bold), err)
}

// Reloaded reports a chart file reload observed by the watcher.
func (p *Printer) Reloaded(path string, charts int) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.paint("↻ reloaded", ansi.Magenta), path, p.paint(fmt.Sprintf("(%d chart(s))", charts), ansi.Dim))
}
