package dasha

import (
	"time"

	"github.com/papapumpkin/kala/internal/period"
)

// Period is a single running period reported by Active.
type Period struct {
	Lord  period.Lord
	Level period.Level
	Start time.Time
	End   time.Time
}

// ActivePeriod lists the periods running at an instant, one per generated
// level, outermost first.
type ActivePeriod struct {
	System   string
	At       time.Time
	Periods  []Period
	Fallback bool                 // a boundary period stood in for the target
	Warning  *period.RangeWarning // non-nil when At is outside the tree
}

// Active locates target in the tree. It never fails: out-of-range targets
// resolve to the nearest boundary periods with Fallback set, so callers can
// always show something as the current period.
func Active(tree *period.Tree, target time.Time) ActivePeriod {
	a := ActivePeriod{At: target.UTC()}
	if tree == nil {
		return a
	}
	a.System = tree.System
	m := tree.Locate(target)
	a.Fallback = m.Fallback
	a.Warning = m.Warning
	a.Periods = make([]Period, len(m.Path))
	for i, n := range m.Path {
		a.Periods[i] = Period{Lord: n.Lord, Level: n.Level, Start: n.Start, End: n.End}
	}
	return a
}

// Level returns the period at level l, if that level was generated.
func (a ActivePeriod) Level(l period.Level) (Period, bool) {
	if int(l) < 0 || int(l) >= len(a.Periods) {
		return Period{}, false
	}
	return a.Periods[l], true
}

// Mahadasha returns the top-level running period.
func (a ActivePeriod) Mahadasha() (Period, bool) { return a.Level(period.Maha) }

// Antardasha returns the second-level running period.
func (a ActivePeriod) Antardasha() (Period, bool) { return a.Level(period.Antar) }

// Pratyantardasha returns the third-level running period.
func (a ActivePeriod) Pratyantardasha() (Period, bool) { return a.Level(period.Pratyantar) }
