package ephemeris

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Sample is one tabulated Moon position.
type Sample struct {
	Time      time.Time `toml:"time"`
	Longitude float64   `toml:"longitude"`
}

// Tabulated interpolates the Moon's longitude linearly between almanac
// samples. The Moon never moves more than 180 degrees between adjacent
// samples, so the shorter arc is always the right one across the 360/0 seam.
// Location is ignored: tabulated values are geocentric.
type Tabulated struct {
	samples []Sample
}

// tableFile is the on-disk layout of a tabulated ephemeris.
type tableFile struct {
	Samples []Sample `toml:"sample"`
}

// NewTabulated sorts a copy of the samples and returns a provider over them.
func NewTabulated(samples []Sample) (*Tabulated, error) {
	if len(samples) < 2 {
		return nil, ErrInsufficientSamples
	}
	s := make([]Sample, len(samples))
	copy(s, samples)
	sort.Slice(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return &Tabulated{samples: s}, nil
}

// LoadTabulated reads [[sample]] entries from a TOML file.
func LoadTabulated(path string) (*Tabulated, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ephemeris table: %w", err)
	}
	var tf tableFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing ephemeris table %s: %w", path, err)
	}
	return NewTabulated(tf.Samples)
}

// Span returns the first and last tabulated instants.
func (p *Tabulated) Span() (time.Time, time.Time) {
	return p.samples[0].Time, p.samples[len(p.samples)-1].Time
}

// SiderealMoonLongitude interpolates between the samples around t.
func (p *Tabulated) SiderealMoonLongitude(ctx context.Context, t time.Time, _ Location) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	first, last := p.Span()
	if t.Before(first) || t.After(last) {
		return 0, fmt.Errorf("%w: %s not in [%s, %s]", ErrOutOfRange,
			t.UTC().Format(time.RFC3339), first.UTC().Format(time.RFC3339), last.UTC().Format(time.RFC3339))
	}
	i := sort.Search(len(p.samples), func(i int) bool { return !p.samples[i].Time.Before(t) })
	if p.samples[i].Time.Equal(t) {
		return Normalize(p.samples[i].Longitude), nil
	}
	a, b := p.samples[i-1], p.samples[i]
	delta := Normalize(b.Longitude-a.Longitude+180) - 180
	frac := float64(t.Sub(a.Time)) / float64(b.Time.Sub(a.Time))
	return Normalize(a.Longitude + delta*frac), nil
}
