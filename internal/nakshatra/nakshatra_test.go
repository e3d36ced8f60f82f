package nakshatra

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/papapumpkin/kala/internal/ephemeris"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		longitude   float64
		wantIndex   int
		wantElapsed float64
	}{
		{"start of zodiac", 0, 0, 0},
		{"middle of Ashwini", Span / 2, 0, 0.5},
		{"exact boundary belongs to next", Span, 1, 0},
		{"Dhanishta third quarter", 303.394, 22, 0.75455},
		{"last degree", 359.999, 26, 0.99993},
		{"full turn", 360, 0, 0},
		{"negative wraps", -Span / 4, 26, 0.75},
		{"several turns", 720 + 3*Span + Span/10, 3, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Resolve(tt.longitude)
			if p.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", p.Index, tt.wantIndex)
			}
			if math.Abs(p.Elapsed-tt.wantElapsed) > 1e-4 {
				t.Errorf("Elapsed = %v, want %v", p.Elapsed, tt.wantElapsed)
			}
			if math.Abs(p.Elapsed+p.Remaining-1) > 1e-15 {
				t.Errorf("Elapsed + Remaining = %v, want 1", p.Elapsed+p.Remaining)
			}
			if p.Longitude < 0 || p.Longitude >= 360 {
				t.Errorf("Longitude = %v not normalized", p.Longitude)
			}
		})
	}
}

func TestPoint_NameAndPada(t *testing.T) {
	t.Parallel()

	p := Resolve(303.394)
	if p.Name() != "Dhanishta" {
		t.Errorf("Name() = %q, want Dhanishta", p.Name())
	}
	if p.Pada() != 4 {
		t.Errorf("Pada() = %d, want 4", p.Pada())
	}
	if got := Resolve(0).Pada(); got != 1 {
		t.Errorf("Pada() at 0° = %d, want 1", got)
	}
	if Name(-1) != "Revati" || Name(27) != "Ashwini" {
		t.Errorf("Name should wrap modulo 27")
	}
}

func TestFromProvider(t *testing.T) {
	t.Parallel()

	at := time.Date(1990, 1, 1, 1, 0, 0, 0, time.UTC)
	p, err := FromProvider(context.Background(), ephemeris.Fixed(303.394), at, ephemeris.Location{})
	if err != nil {
		t.Fatalf("FromProvider: %v", err)
	}
	if p.Index != 22 {
		t.Errorf("Index = %d, want 22", p.Index)
	}

	boom := errors.New("no data")
	failing := ephemeris.Func(func(context.Context, time.Time, ephemeris.Location) (float64, error) {
		return 0, boom
	})
	if _, err := FromProvider(context.Background(), failing, at, ephemeris.Location{}); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped provider error", err)
	}

	nan := ephemeris.Func(func(context.Context, time.Time, ephemeris.Location) (float64, error) {
		return math.NaN(), nil
	})
	if _, err := FromProvider(context.Background(), nan, at, ephemeris.Location{}); err == nil {
		t.Error("expected error for NaN longitude")
	}
}
