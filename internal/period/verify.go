package period

import (
	"math"
	"time"
)

// SumTolerance is the largest accepted gap between a node's duration and
// the summed durations of its children.
const SumTolerance = time.Duration(1e-4 * float64(24*time.Hour))

// Verify checks every structural invariant of a tree and returns the first
// violation as a *ConsistencyError:
//   - the root bounds birth and every first-retained descendant does too
//   - siblings are contiguous at every level
//   - children start at their parent's start (birth for the root) and end at its end
//   - children durations sum to the parent duration within SumTolerance
//   - the last top-level period reaches the horizon
func Verify(t *Tree) error {
	if t == nil || len(t.Nodes) == 0 {
		return &ConsistencyError{Reason: "empty tree"}
	}
	fail := func(n *Node, reason string) error {
		return &ConsistencyError{System: t.System, Birth: t.Birth, Start: n.Start, End: n.End, Reason: reason}
	}

	for n := t.Root(); n != nil; {
		if !n.Contains(t.Birth) {
			return fail(n, n.Level.DashaName()+" on the birth path does not bound birth")
		}
		if len(n.Children) == 0 {
			break
		}
		n = n.Children[0]
	}

	if err := verifySiblings(t.Nodes, fail); err != nil {
		return err
	}
	if t.End().Before(t.Horizon) {
		return fail(t.Nodes[len(t.Nodes)-1], "generated periods stop before the horizon")
	}

	for i, n := range t.Nodes {
		from := n.Start
		if i == 0 {
			from = t.Birth
		}
		if err := verifyNode(n, from, fail); err != nil {
			return err
		}
	}
	return nil
}

func verifySiblings(nodes []*Node, fail func(*Node, string) error) error {
	for i, n := range nodes {
		if !n.Start.Before(n.End) {
			return fail(n, "empty or inverted interval")
		}
		if i > 0 && !nodes[i-1].End.Equal(n.Start) {
			return fail(n, "gap or overlap with previous sibling")
		}
	}
	return nil
}

// verifyNode checks n's children against the span [from, n.End). from is
// n.Start except for the birth-straddling root, whose children cover only
// the balance.
func verifyNode(n *Node, from time.Time, fail func(*Node, string) error) error {
	if len(n.Children) == 0 {
		return nil
	}
	if err := verifySiblings(n.Children, fail); err != nil {
		return err
	}
	first, last := n.Children[0], n.Children[len(n.Children)-1]
	if !first.Start.Equal(from) {
		return fail(first, "first child does not start with its parent")
	}
	if !last.End.Equal(n.End) {
		return fail(last, "last child does not end with its parent")
	}
	var sum time.Duration
	for _, c := range n.Children {
		sum += c.Duration()
		if err := verifyNode(c, c.Start, fail); err != nil {
			return err
		}
	}
	if want := n.End.Sub(from); math.Abs(float64(sum-want)) > float64(SumTolerance) {
		return fail(n, "children do not sum to parent duration")
	}
	return nil
}
