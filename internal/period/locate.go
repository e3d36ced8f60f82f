package period

import (
	"sort"
	"time"
)

// Match is the result of locating an instant in a tree: one node per
// generated level, outermost first.
type Match struct {
	Path     []*Node
	Fallback bool          // a boundary node was substituted at some level
	Warning  *RangeWarning // set when the target is outside the generated range
}

// Locate finds the periods active at target. Instants before birth resolve
// to the birth path and instants at or after the last generated end resolve
// to the final path; both cases set Fallback and Warning instead of
// failing. Intervals are half-open, so a target equal to a boundary belongs
// to the later period at every level.
func (t *Tree) Locate(target time.Time) Match {
	if t == nil || len(t.Nodes) == 0 {
		return Match{}
	}
	if target.Before(t.Birth) {
		m := descend(t.Nodes, t.Birth)
		m.Fallback = true
		m.Warning = &RangeWarning{Target: target, Boundary: BeforeBirth, Nearest: t.Birth}
		return m
	}
	return descend(t.Nodes, target)
}

// LocateIn runs the same descent over an arbitrary sibling list, such as
// the children of a single node.
func LocateIn(nodes []*Node, target time.Time) Match {
	if len(nodes) == 0 {
		return Match{}
	}
	if target.Before(nodes[0].Start) {
		m := descend(nodes, nodes[0].Start)
		m.Fallback = true
		m.Warning = &RangeWarning{Target: target, Boundary: BeforeBirth, Nearest: nodes[0].Start}
		return m
	}
	return descend(nodes, target)
}

func descend(nodes []*Node, target time.Time) Match {
	var m Match
	for len(nodes) > 0 {
		// Siblings are contiguous, so the first one ending after target
		// contains it unless target precedes the list entirely.
		i := sort.Search(len(nodes), func(i int) bool { return target.Before(nodes[i].End) })
		var n *Node
		switch {
		case i == len(nodes):
			n = nodes[len(nodes)-1]
			m.Fallback = true
			if m.Warning == nil && len(m.Path) == 0 {
				m.Warning = &RangeWarning{Target: target, Boundary: AfterHorizon, Nearest: n.End}
			}
		case target.Before(nodes[i].Start):
			n = nodes[i]
			m.Fallback = true
		default:
			n = nodes[i]
		}
		m.Path = append(m.Path, n)
		nodes = n.Children
	}
	return m
}
