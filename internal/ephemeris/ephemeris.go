// Package ephemeris defines the seam through which the Moon's sidereal
// longitude enters the dasha engine. Real astronomical computation lives
// outside this repository; the implementations here serve a known value or
// interpolate tabulated almanac data.
package ephemeris

import (
	"context"
	"errors"
	"math"
	"time"
)

// Sentinel errors returned by providers.
var (
	// ErrOutOfRange indicates an instant outside the provider's coverage.
	ErrOutOfRange = errors.New("instant outside ephemeris coverage")
	// ErrInsufficientSamples indicates a tabulated provider with fewer than two samples.
	ErrInsufficientSamples = errors.New("ephemeris table needs at least two samples")
	// ErrNoProvider indicates a nil Provider was supplied.
	ErrNoProvider = errors.New("no ephemeris provider")
)

// Location is a geographic observer position in degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Provider supplies the Moon's sidereal ecliptic longitude in degrees for an
// instant and observer location.
type Provider interface {
	SiderealMoonLongitude(ctx context.Context, t time.Time, loc Location) (float64, error)
}

// Fixed is a Provider that always returns the same longitude. It is used
// when the caller already knows the birth Moon position.
type Fixed float64

// SiderealMoonLongitude returns the fixed value.
func (f Fixed) SiderealMoonLongitude(ctx context.Context, _ time.Time, _ Location) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return float64(f), nil
}

// Func adapts an ordinary function to the Provider interface.
type Func func(ctx context.Context, t time.Time, loc Location) (float64, error)

// SiderealMoonLongitude calls f.
func (f Func) SiderealMoonLongitude(ctx context.Context, t time.Time, loc Location) (float64, error) {
	return f(ctx, t, loc)
}

// Normalize maps any angle into [0, 360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}
