package period

import (
	"fmt"
	"math"
)

// weightTolerance is the allowed gap between the summed weights and the
// declared cycle length, in years.
const weightTolerance = 1e-9

// Table is the static description of one dasha system: the cyclic lord
// order, each lord's weight in years, and the starting-lord offset applied
// to a nakshatra index. Tables are only obtainable through NewTable, so a
// *Table always satisfies sum(weights) == TotalYears.
type Table struct {
	system  string
	order   []Lord
	weights map[Lord]float64
	total   float64
	offset  int
}

// Weight pairs a lord with its period length in years.
type Weight struct {
	Lord  Lord
	Years float64
}

// NewTable validates and builds a table. The weights slice fixes the
// cyclic lord order. It returns a *ConfigurationError when the weights are
// empty, non-positive, duplicated, or do not sum to totalYears.
func NewTable(system string, weights []Weight, totalYears float64, offset int) (*Table, error) {
	if len(weights) == 0 {
		return nil, &ConfigurationError{System: system, Total: totalYears, Reason: "no lords"}
	}
	t := &Table{
		system:  system,
		order:   make([]Lord, 0, len(weights)),
		weights: make(map[Lord]float64, len(weights)),
		total:   totalYears,
		offset:  offset,
	}
	var sum float64
	for _, w := range weights {
		if !finite(w.Years) || w.Years <= 0 {
			return nil, &ConfigurationError{System: system, Total: totalYears,
				Reason: fmt.Sprintf("lord %s has weight %g, want a positive finite value", w.Lord, w.Years)}
		}
		if _, dup := t.weights[w.Lord]; dup {
			return nil, &ConfigurationError{System: system, Total: totalYears,
				Reason: fmt.Sprintf("lord %s listed twice", w.Lord)}
		}
		t.order = append(t.order, w.Lord)
		t.weights[w.Lord] = w.Years
		sum += w.Years
	}
	if !finite(totalYears) || math.Abs(sum-totalYears) > weightTolerance {
		return nil, &ConfigurationError{System: system, Sum: sum, Total: totalYears}
	}
	return t, nil
}

// System returns the table's system name.
func (t *Table) System() string { return t.system }

// TotalYears returns the full cycle length.
func (t *Table) TotalYears() float64 { return t.total }

// Offset returns the starting-lord offset added to a nakshatra index.
func (t *Table) Offset() int { return t.offset }

// Len returns the number of lords in the cycle.
func (t *Table) Len() int { return len(t.order) }

// Order returns a copy of the cyclic lord order.
func (t *Table) Order() []Lord {
	out := make([]Lord, len(t.order))
	copy(out, t.order)
	return out
}

// Weight returns the lord's full period in years, or 0 for an unknown lord.
func (t *Table) Weight(l Lord) float64 {
	return t.weights[l]
}

// Scaled returns a new table with every weight multiplied by factor. The
// order and offset are kept.
func (t *Table) Scaled(system string, factor float64) (*Table, error) {
	ws := make([]Weight, len(t.order))
	for i, l := range t.order {
		ws[i] = Weight{Lord: l, Years: t.weights[l] * factor}
	}
	return NewTable(system, ws, t.total*factor, t.offset)
}

// StartingLord maps a nakshatra index to the lord that rules the
// birth-straddling Mahadasha: order[(index + offset) mod N].
func (t *Table) StartingLord(nakshatraIndex int) Lord {
	n := len(t.order)
	i := ((nakshatraIndex+t.offset)%n + n) % n
	return t.order[i]
}

// rotation returns the order rotated so that first leads.
func (t *Table) rotation(first Lord) ([]Lord, error) {
	for i, l := range t.order {
		if l == first {
			out := make([]Lord, 0, len(t.order))
			out = append(out, t.order[i:]...)
			out = append(out, t.order[:i]...)
			return out, nil
		}
	}
	return nil, fmt.Errorf("%s: %w: %s", t.system, ErrUnknownLord, first)
}

func (t *Table) maxWeight() float64 {
	var m float64
	for _, w := range t.weights {
		m = max(m, w)
	}
	return m
}

// next returns the lord that follows l in the cycle.
func (t *Table) next(l Lord) Lord {
	for i, o := range t.order {
		if o == l {
			return t.order[(i+1)%len(t.order)]
		}
	}
	return t.order[0]
}
