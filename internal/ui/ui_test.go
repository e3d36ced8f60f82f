package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/papapumpkin/kala/internal/ansi"
	"github.com/papapumpkin/kala/internal/nakshatra"
	"github.com/papapumpkin/kala/internal/period"
)

func TestBanner(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWriter(&buf, false)
	birth := time.Date(1990, 1, 1, 1, 0, 0, 0, time.UTC)
	p.Banner("delhi-1990", birth, nakshatra.Resolve(303.394))

	checks := []struct {
		name   string
		substr string
	}{
		{"chart name", "delhi-1990"},
		{"birth", "1990-01-01T01:00:00Z"},
		{"nakshatra", "Dhanishta"},
	}
	out := buf.String()
	for _, c := range checks {
		if !strings.Contains(out, c.substr) {
			t.Errorf("expected output to contain %s (%q), got:\n%s", c.name, c.substr, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("uncolored printer emitted escape codes: %q", out)
	}
}

func TestUnavailable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWriter(&buf, true).Unavailable("yogini", errors.New("boom"))

	got := ansi.Strip(buf.String())
	if want := "✗ yogini: unavailable (boom)\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !strings.Contains(buf.String(), ansi.Red) {
		t.Error("colored printer should use red")
	}
}

func TestRangeWarning(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWriter(&buf, false)
	p.RangeWarning("vimshottari", nil)
	if buf.Len() != 0 {
		t.Fatalf("nil warning printed %q", buf.String())
	}

	birth := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	p.RangeWarning("vimshottari", &period.RangeWarning{
		Target:   birth.AddDate(-1, 0, 0),
		Boundary: period.BeforeBirth,
		Nearest:  birth,
	})
	out := buf.String()
	if !strings.Contains(out, "vimshottari:") || !strings.Contains(out, "before birth") {
		t.Errorf("unexpected warning output: %q", out)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWriter(&buf, false)
	p.Check("table vimshottari", nil)
	p.Check("chart a", errors.New("missing birth"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "✓ table vimshottari" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "✗ chart a missing birth" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestReloadedAndInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWriter(&buf, false)
	p.Reloaded("charts.toml", 2)
	p.Info("watching")
	p.Error("bad")

	out := buf.String()
	for _, want := range []string{"↻ reloaded charts.toml (2 chart(s))", "watching", "error: bad"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}
