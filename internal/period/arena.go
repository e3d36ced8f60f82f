package period

import "time"

// FlatNode is a node in an Arena. Parent is -1 for top-level periods.
type FlatNode struct {
	Lord     Lord
	Level    Level
	Start    time.Time
	End      time.Time
	Parent   int
	Children []int
}

// Arena is a tree flattened into a single slice in depth-first order, with
// parent and child links expressed as indices. It is the serialization
// form; the nested Tree stays the working form.
type Arena struct {
	System  string
	Birth   time.Time
	Horizon time.Time
	Depth   int
	Roots   []int
	Nodes   []FlatNode
}

// Flatten converts the tree to an Arena.
func (t *Tree) Flatten() Arena {
	a := Arena{
		System:  t.System,
		Birth:   t.Birth,
		Horizon: t.Horizon,
		Depth:   t.Depth,
		Nodes:   make([]FlatNode, 0, t.Len()),
	}
	var add func(n *Node, parent int) int
	add = func(n *Node, parent int) int {
		idx := len(a.Nodes)
		a.Nodes = append(a.Nodes, FlatNode{
			Lord: n.Lord, Level: n.Level, Start: n.Start, End: n.End, Parent: parent,
		})
		for _, c := range n.Children {
			ci := add(c, idx)
			a.Nodes[idx].Children = append(a.Nodes[idx].Children, ci)
		}
		return idx
	}
	for _, n := range t.Nodes {
		a.Roots = append(a.Roots, add(n, -1))
	}
	return a
}

// Tree rebuilds the nested form from the arena.
func (a Arena) Tree() *Tree {
	nodes := make([]*Node, len(a.Nodes))
	for i, f := range a.Nodes {
		nodes[i] = &Node{Lord: f.Lord, Level: f.Level, Start: f.Start, End: f.End}
	}
	for i, f := range a.Nodes {
		for _, c := range f.Children {
			nodes[i].Children = append(nodes[i].Children, nodes[c])
		}
	}
	t := &Tree{System: a.System, Birth: a.Birth, Horizon: a.Horizon, Depth: a.Depth}
	for _, r := range a.Roots {
		t.Nodes = append(t.Nodes, nodes[r])
	}
	return t
}
