// Package nakshatra resolves a Moon longitude into its lunar mansion and the
// fraction of that mansion already traversed, the point from which every
// dasha sequence is seeded.
package nakshatra

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/papapumpkin/kala/internal/ephemeris"
)

// Count is the number of nakshatras in the zodiac.
const Count = 27

// Span is the width of one nakshatra in degrees (13°20′).
const Span = 360.0 / Count

var names = [Count]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishta", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati",
}

// Point is the position of the Moon within its nakshatra.
type Point struct {
	Longitude float64 // normalized to [0, 360)
	Index     int     // 0 (Ashwini) .. 26 (Revati)
	Elapsed   float64 // fraction of the nakshatra already traversed
	Remaining float64 // 1 - Elapsed
}

// Name returns the nakshatra's name.
func (p Point) Name() string {
	return Name(p.Index)
}

// Pada returns the quarter (1..4) of the nakshatra the point falls in.
func (p Point) Pada() int {
	return int(p.Elapsed*4) + 1
}

// String formats the point for display.
func (p Point) String() string {
	return fmt.Sprintf("%s pada %d (%.4f°, %.2f%% elapsed)", p.Name(), p.Pada(), p.Longitude, p.Elapsed*100)
}

// Resolve converts any longitude in degrees into a Point. Values are
// normalized modulo 360, so every real input is valid.
func Resolve(longitude float64) Point {
	lon := ephemeris.Normalize(longitude)
	idx := int(math.Floor(lon / Span))
	if idx >= Count {
		idx = Count - 1
	}
	elapsed := (lon - float64(idx)*Span) / Span
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= 1 {
		elapsed = math.Nextafter(1, 0)
	}
	return Point{
		Longitude: lon,
		Index:     idx,
		Elapsed:   elapsed,
		Remaining: 1 - elapsed,
	}
}

// FromProvider asks the provider for the Moon's longitude at t and resolves it.
func FromProvider(ctx context.Context, p ephemeris.Provider, t time.Time, loc ephemeris.Location) (Point, error) {
	if p == nil {
		return Point{}, fmt.Errorf("moon longitude at %s: %w", t.UTC().Format(time.RFC3339), ephemeris.ErrNoProvider)
	}
	lon, err := p.SiderealMoonLongitude(ctx, t, loc)
	if err != nil {
		return Point{}, fmt.Errorf("moon longitude at %s: %w", t.UTC().Format(time.RFC3339), err)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Point{}, fmt.Errorf("moon longitude at %s: provider returned %v", t.UTC().Format(time.RFC3339), lon)
	}
	return Resolve(lon), nil
}

// Name returns the name of the nakshatra at index i, wrapping modulo 27.
func Name(i int) string {
	return names[((i%Count)+Count)%Count]
}
