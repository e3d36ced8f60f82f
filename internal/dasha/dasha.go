// Package dasha wires the Vimshottari, Yogini and Tribhagi systems onto the
// generic period engine: it maps a birth Moon position to each system's
// starting lord and balance, builds the period tree, and answers
// "which periods are running at this instant" queries.
//
// Tribhagi is computed independently from the Moon longitude with its own
// 80-year table (every Vimshottari weight scaled by 2/3). Because it shares
// the Vimshottari order and offset, its tree is exactly the Vimshottari tree
// with every offset from birth compressed by 2/3; the package tests assert
// that equivalence.
package dasha

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/papapumpkin/kala/internal/ephemeris"
	"github.com/papapumpkin/kala/internal/nakshatra"
	"github.com/papapumpkin/kala/internal/period"
)

// DefaultHorizonYears is how far past birth top-level periods are generated.
const DefaultHorizonYears = 100

var (
	// ErrInvalidDepth indicates a requested depth outside the system's range.
	ErrInvalidDepth = errors.New("invalid depth")
	// ErrInvalidInput indicates birth data no tree can be built from, such
	// as a NaN or infinite Moon longitude.
	ErrInvalidInput = errors.New("invalid birth input")
)

// Input is the birth data a tree is computed from.
type Input struct {
	Birth         time.Time
	MoonLongitude float64 // sidereal, degrees; any real value
}

// Options tunes tree construction. Zero values select the defaults.
type Options struct {
	Depths       map[string]int // levels per system name
	HorizonYears float64
	YearDays     float64
}

func (o Options) depthFor(system string) int {
	if d, ok := o.Depths[normalizeName(system)]; ok && d != 0 {
		return d
	}
	return DefaultDepth(system)
}

func (o Options) build(system string) (period.BuildOptions, error) {
	depth := o.depthFor(system)
	if depth < 1 || depth > MaxDepth(system) {
		return period.BuildOptions{}, fmt.Errorf("%s: %w: %d not in [1, %d]", system, ErrInvalidDepth, depth, MaxDepth(system))
	}
	horizon := o.HorizonYears
	if horizon == 0 {
		horizon = DefaultHorizonYears
	}
	return period.BuildOptions{
		Depth:        depth,
		HorizonYears: horizon,
		YearDays:     period.YearLength(o.YearDays),
	}, nil
}

// Result is one system's outcome in ComputeAll.
type Result struct {
	System string
	Point  nakshatra.Point
	Lord   period.Lord // starting lord
	Tree   *period.Tree
	Err    error
}

// Compute builds the named system's tree for the given birth.
func Compute(system string, in Input, opts Options) (*period.Tree, error) {
	r := compute(system, in, opts)
	return r.Tree, r.Err
}

// ComputeAll builds every requested system independently. A failure in one
// system is recorded in its Result and never prevents the others.
func ComputeAll(systems []string, in Input, opts Options) []Result {
	out := make([]Result, 0, len(systems))
	for _, s := range systems {
		out = append(out, compute(s, in, opts))
	}
	return out
}

// ComputeWith resolves the Moon longitude through the provider and then
// behaves like ComputeAll.
func ComputeWith(ctx context.Context, p ephemeris.Provider, loc ephemeris.Location, birth time.Time, systems []string, opts Options) ([]Result, error) {
	point, err := nakshatra.FromProvider(ctx, p, birth, loc)
	if err != nil {
		return nil, err
	}
	return ComputeAll(systems, Input{Birth: birth, MoonLongitude: point.Longitude}, opts), nil
}

func compute(system string, in Input, opts Options) Result {
	name := normalizeName(system)
	if math.IsNaN(in.MoonLongitude) || math.IsInf(in.MoonLongitude, 0) {
		return Result{System: name, Err: fmt.Errorf("%s: %w: moon longitude %v", name, ErrInvalidInput, in.MoonLongitude)}
	}
	r := Result{System: name, Point: nakshatra.Resolve(in.MoonLongitude)}

	tbl, err := Table(name)
	if err != nil {
		r.Err = err
		return r
	}
	bo, err := opts.build(name)
	if err != nil {
		r.Err = err
		return r
	}
	r.Lord = tbl.StartingLord(r.Point.Index)
	r.Tree, r.Err = period.Build(tbl, in.Birth, r.Lord, r.Point.Elapsed, bo)
	return r
}
