package ansi

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		s     string
		codes []string
		want  string
	}{
		{"no codes", "plain", nil, "plain"},
		{"single", "ok", []string{Green}, Green + "ok" + Reset},
		{"stacked", "fail", []string{Bold, Red}, Bold + Red + "fail" + Reset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Wrap(tt.s, tt.codes...); got != tt.want {
				t.Errorf("Wrap(%q) = %q, want %q", tt.s, got, tt.want)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()
	in := Bold + Cyan + "Mars" + Reset + " " + Dim + "(mahadasha)" + Reset
	if got := Strip(in); got != "Mars (mahadasha)" {
		t.Errorf("Strip = %q", got)
	}
}

func TestEnabled_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if Enabled(f) {
		t.Error("regular file should not enable color")
	}
	if Enabled(nil) {
		t.Error("nil file should not enable color")
	}
}

func TestEnabled_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if Enabled(os.Stderr) {
		t.Error("NO_COLOR should disable color")
	}
}
