package period

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxHorizonYears bounds BuildOptions.HorizonYears so that every boundary
// offset from the root start fits in a time.Duration.
const MaxHorizonYears = 200

// ErrInvalidOptions indicates BuildOptions outside their supported range.
var ErrInvalidOptions = errors.New("invalid build options")

// BuildOptions controls tree construction.
type BuildOptions struct {
	Depth        int        // number of levels to generate, 1..MaxDepth
	HorizonYears float64    // top-level periods are generated until birth + HorizonYears
	YearDays     YearLength // days per year; zero means DefaultYearDays
}

func (o BuildOptions) validate() error {
	if o.Depth < 1 || o.Depth > MaxDepth {
		return fmt.Errorf("%w: depth %d not in [1, %d]", ErrInvalidOptions, o.Depth, MaxDepth)
	}
	if !finite(o.HorizonYears) || o.HorizonYears <= 0 || o.HorizonYears > MaxHorizonYears {
		return fmt.Errorf("%w: horizon %g years not in (0, %d]", ErrInvalidOptions, o.HorizonYears, MaxHorizonYears)
	}
	if !finite(float64(o.YearDays)) || o.YearDays < 0 {
		return fmt.Errorf("%w: year length %g days", ErrInvalidOptions, float64(o.YearDays))
	}
	return nil
}

// fits reports whether years of calendar time, at the configured year
// length, can be represented as a time.Duration.
func (o BuildOptions) fits(years float64) bool {
	days := float64(o.YearDays)
	if days == 0 {
		days = DefaultYearDays
	}
	return years*days*float64(24*time.Hour) < math.MaxInt64
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Subdivide produces the contiguous sibling periods that fill [start, end),
// a span worth years of the table's cycle, with first leading the rotated
// order. Each sibling receives years*weight/total. Boundaries are computed
// from the cumulative year offset relative to start, so rounding never
// accumulates across siblings, and the last sibling ends exactly at end.
// While depth > 1 every sibling is subdivided again with its own lord
// leading.
func Subdivide(t *Table, first Lord, start, end time.Time, years float64, level Level, depth int, year YearLength) ([]*Node, error) {
	if depth <= 0 {
		return nil, nil
	}
	lords, err := t.rotation(first)
	if err != nil {
		return nil, err
	}

	nodes := make([]*Node, len(lords))
	cursor := start
	var cum float64
	for i, l := range lords {
		share := years * t.weights[l] / t.total
		cum += share
		stop := end
		if i < len(lords)-1 {
			stop = start.Add(year.Duration(cum))
		}
		n := &Node{Lord: l, Level: level, Start: cursor, End: stop}
		if depth > 1 {
			n.Children, err = Subdivide(t, l, n.Start, n.End, share, level+1, depth-1, year)
			if err != nil {
				return nil, err
			}
		}
		nodes[i] = n
		cursor = stop
	}
	return nodes, nil
}

// Build constructs the tree for a birth instant. first is the lord of the
// birth-straddling Mahadasha and elapsed the fraction of it (0..1) already
// spent at birth.
//
// The first Mahadasha is placed at its true start, weight(first)*elapsed
// years before birth, and subdivided in full. Descendants of that period
// which end at or before birth are then dropped, and the first retained
// descendant at each level starts at birth. Subsequent Mahadashas follow the
// cyclic order until the horizon is covered.
//
// The pre-birth offset is capped one nanosecond short of the full period
// so the balance is never empty. A root that still does not satisfy
// start <= birth < end yields a *ConsistencyError and no tree.
func Build(t *Table, birth time.Time, first Lord, elapsed float64, opts BuildOptions) (*Tree, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !finite(elapsed) || elapsed < 0 || elapsed > 1 {
		return nil, fmt.Errorf("%w: elapsed fraction %g not in [0, 1]", ErrInvalidOptions, elapsed)
	}
	full := t.Weight(first)
	if full == 0 {
		return nil, fmt.Errorf("%s: %w: %s", t.system, ErrUnknownLord, first)
	}
	if !opts.fits(full + opts.HorizonYears + t.maxWeight()) {
		return nil, fmt.Errorf("%w: %g years of %g days overflow the time range", ErrInvalidOptions,
			full+opts.HorizonYears+t.maxWeight(), float64(opts.YearDays))
	}

	year := opts.YearDays
	birth = birth.UTC()
	pre := year.Duration(full * elapsed)
	if whole := year.Duration(full); pre >= whole {
		pre = max(whole-1, 0)
	}
	rootStart := birth.Add(-pre)
	horizon := birth.Add(year.Duration(opts.HorizonYears))

	var nodes []*Node
	lord := first
	cursor := rootStart
	var cum float64
	for len(nodes) == 0 || cursor.Before(horizon) {
		share := t.weights[lord]
		cum += share
		stop := rootStart.Add(year.Duration(cum))
		n := &Node{Lord: lord, Level: Maha, Start: cursor, End: stop}
		children, err := Subdivide(t, lord, n.Start, n.End, share, Antar, opts.Depth-1, year)
		if err != nil {
			return nil, err
		}
		n.Children = children
		nodes = append(nodes, n)
		cursor = stop
		lord = t.next(lord)
	}

	root := nodes[0]
	if !root.Contains(birth) {
		return nil, &ConsistencyError{
			System: t.system, Birth: birth, Start: root.Start, End: root.End,
			Reason: "first mahadasha does not bound birth",
		}
	}
	root.Children = clampToBirth(root.Children, birth)

	return &Tree{
		System:  t.system,
		Birth:   birth,
		Horizon: horizon,
		Depth:   opts.Depth,
		Nodes:   nodes,
	}, nil
}

// clampToBirth drops periods that end at or before birth and moves the start
// of the first survivor forward to birth, recursively. It runs only during
// construction, before the tree is handed out.
func clampToBirth(nodes []*Node, birth time.Time) []*Node {
	i := 0
	for i < len(nodes) && !nodes[i].End.After(birth) {
		i++
	}
	if i == len(nodes) {
		return nil
	}
	kept := make([]*Node, len(nodes)-i)
	copy(kept, nodes[i:])
	first := kept[0]
	if first.Start.Before(birth) {
		first.Start = birth
	}
	first.Children = clampToBirth(first.Children, birth)
	return kept
}
