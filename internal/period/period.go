// Package period implements the generic machinery behind every dasha
// system: weighted lord tables, recursive proportional subdivision of time
// intervals, birth-balance construction, invariant verification and the
// active-period locator. It knows nothing about specific systems; those are
// wired in internal/dasha.
package period

import (
	"math"
	"time"
)

// DefaultYearDays is the solar year length used to convert period years
// into calendar time.
const DefaultYearDays = 365.2422

// MaxDepth is the deepest nesting level any system may request.
const MaxDepth = 6

// Lord identifies the ruler of a period (a planet or a yogini).
type Lord string

// Level is the nesting depth of a node, starting at Maha for top-level periods.
type Level int

// Levels from the top-level Mahadasha down to the sixth subdivision.
const (
	Maha       Level = iota // Mahadasha
	Antar                   // Antardasha
	Pratyantar              // Pratyantardasha
	Sookshma                // Sookshma dasha
	Prana                   // Prana dasha
	Deha                    // Deha dasha
)

var levelNames = [...]string{"maha", "antar", "pratyantar", "sookshma", "prana", "deha"}

// String returns the short lowercase level name.
func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "level?"
	}
	return levelNames[l]
}

// DashaName returns the conventional period name for the level
// (mahadasha, antardasha, ...).
func (l Level) DashaName() string {
	switch l {
	case Sookshma, Prana, Deha:
		return l.String()
	default:
		return l.String() + "dasha"
	}
}

// YearLength converts fractional years into time.Duration.
type YearLength float64

// Duration returns years as a duration, rounded to the nearest nanosecond.
func (y YearLength) Duration(years float64) time.Duration {
	days := float64(y)
	if days <= 0 {
		days = DefaultYearDays
	}
	return time.Duration(math.Round(years * days * float64(24*time.Hour)))
}

// Years converts a duration back into fractional years.
func (y YearLength) Years(d time.Duration) float64 {
	days := float64(y)
	if days <= 0 {
		days = DefaultYearDays
	}
	return float64(d) / (days * float64(24*time.Hour))
}

// Node is one period in a tree. Nodes are built once and never mutated.
// Intervals are half-open: [Start, End).
type Node struct {
	Lord     Lord
	Level    Level
	Start    time.Time
	End      time.Time
	Children []*Node
}

// Duration returns End - Start.
func (n *Node) Duration() time.Duration {
	return n.End.Sub(n.Start)
}

// Contains reports whether t falls in [Start, End).
func (n *Node) Contains(t time.Time) bool {
	return !t.Before(n.Start) && t.Before(n.End)
}

// Tree is the ordered list of top-level periods for one system and birth.
type Tree struct {
	System  string
	Birth   time.Time
	Horizon time.Time // birth + horizon years; the last node ends at or after it
	Depth   int
	Nodes   []*Node
}

// Root returns the birth-straddling top-level node, or nil for an empty tree.
func (t *Tree) Root() *Node {
	if t == nil || len(t.Nodes) == 0 {
		return nil
	}
	return t.Nodes[0]
}

// Balance returns the part of the first period that remains after birth.
func (t *Tree) Balance() time.Duration {
	root := t.Root()
	if root == nil {
		return 0
	}
	return root.End.Sub(t.Birth)
}

// End returns the end of the last generated top-level period.
func (t *Tree) End() time.Time {
	if t == nil || len(t.Nodes) == 0 {
		return time.Time{}
	}
	return t.Nodes[len(t.Nodes)-1].End
}

// Len returns the total number of nodes at every level.
func (t *Tree) Len() int {
	n := 0
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		n += len(nodes)
		for _, c := range nodes {
			walk(c.Children)
		}
	}
	walk(t.Nodes)
	return n
}
