package graph

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrEmptyGraph is returned by [Graph.Validate] when the graph has no
	// root node.
	ErrEmptyGraph = errors.New("graph has no root node")

	// ErrDuplicateNode is returned by [Graph.Validate] when two nodes are
	// value-equal.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// key or target is not an index into Nodes.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)

// Graph is the result of a traversal. Nodes are in discovery order and
// Nodes[0] is the root. Edges maps a node index to the indices of the nodes
// first discovered while expanding it.
//
// A Graph returned by [Build] must not be modified.
type Graph struct {
	Nodes []Node
	Edges map[int][]int
}

// Root returns the root node. It panics on an empty graph.
func (g *Graph) Root() Node { return g.Nodes[0] }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, children := range g.Edges {
		n += len(children)
	}
	return n
}

// Children returns the indices of the nodes discovered from node i.
// The returned slice must not be modified.
func (g *Graph) Children(i int) []int { return g.Edges[i] }

// Parent returns the index of the node that discovered node i, or -1 for the
// root and for indices that have no incoming edge.
func (g *Graph) Parent(i int) int {
	for from, children := range g.Edges {
		if slices.Contains(children, i) {
			return from
		}
	}
	return -1
}

// Depth returns the number of edges between the root and node i, or -1 if
// node i is not reachable from the root.
func (g *Graph) Depth(i int) int {
	parents := g.parents()
	d := 0
	for i != 0 {
		p, ok := parents[i]
		if !ok {
			return -1
		}
		i = p
		d++
	}
	return d
}

// Index returns the index of the node equal to n, or -1.
func (g *Graph) Index(n Node) int {
	return slices.IndexFunc(g.Nodes, n.Equal)
}

// SortedEdgeKeys returns the parent indices that have edges, ascending.
func (g *Graph) SortedEdgeKeys() []int {
	return slices.Sorted(maps.Keys(g.Edges))
}

func (g *Graph) parents() map[int]int {
	parents := make(map[int]int, len(g.Nodes))
	for from, children := range g.Edges {
		for _, c := range children {
			parents[c] = from
		}
	}
	return parents
}

// Validate checks the structural invariants of a graph and returns nil if
// they hold:
//
//  1. There is a root node
//  2. No two nodes are value-equal
//  3. Every edge key and target is an index into Nodes
//
// Graphs produced by [Build] always validate; Validate exists for graphs
// read back from external sources.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return ErrEmptyGraph
	}
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		k := n.Key()
		if _, dup := seen[k]; dup {
			return ErrDuplicateNode
		}
		seen[k] = struct{}{}
	}
	valid := func(i int) bool { return i >= 0 && i < len(g.Nodes) }
	for from, children := range g.Edges {
		if !valid(from) {
			return ErrInvalidEdgeEndpoint
		}
		for _, c := range children {
			if !valid(c) {
				return ErrInvalidEdgeEndpoint
			}
		}
	}
	return nil
}

// Equal reports whether g and o hold value-equal nodes in the same order and
// identical edges.
func (g *Graph) Equal(o *Graph) bool {
	if len(g.Nodes) != len(o.Nodes) || len(g.Edges) != len(o.Edges) {
		return false
	}
	for i := range g.Nodes {
		if !g.Nodes[i].Equal(o.Nodes[i]) {
			return false
		}
	}
	for k, v := range g.Edges {
		if !slices.Equal(v, o.Edges[k]) {
			return false
		}
	}
	return true
}
