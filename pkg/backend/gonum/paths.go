package gonum

import (
	stderrors "errors"
	"math"
	"slices"

	gg "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/framegraph/pkg/errors"
)

var (
	// ErrNoPath is returned when the target is unreachable from the source.
	ErrNoPath = stderrors.New("no path between nodes")

	// ErrNegativeCycle is returned by path searches over a graph with a
	// negative-weight cycle reachable from the source.
	ErrNegativeCycle = stderrors.New("negative weight cycle")

	// ErrCycle is returned by [Graph.TopologicalSort] on cyclic graphs.
	ErrCycle = stderrors.New("graph contains a cycle")
)

func (g *Graph) shortest(source any, weight string) (path.Shortest, error) {
	s, err := g.id(source)
	if err != nil {
		return path.Shortest{}, err
	}
	w, err := g.weighted(weight)
	if err != nil {
		return path.Shortest{}, err
	}
	if w.negLoop {
		return path.Shortest{}, ErrNegativeCycle
	}
	if !w.negative {
		return path.DijkstraFrom(simple.Node(s), w.g), nil
	}
	sh, ok := path.BellmanFordFrom(simple.Node(s), w.g)
	if !ok {
		return path.Shortest{}, ErrNegativeCycle
	}
	return sh, nil
}

func (g *Graph) ids2nodes(ns []gg.Node) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = g.node(n.ID())
	}
	return out
}

// ShortestPath returns the lightest path from source to target and its
// total weight. With an empty weight attribute every edge weighs 1.
// Negative weights switch the search from Dijkstra to Bellman-Ford.
func (g *Graph) ShortestPath(source, target any, weight string) ([]any, float64, error) {
	sh, err := g.shortest(source, weight)
	if err != nil {
		return nil, 0, err
	}
	t, err := g.id(target)
	if err != nil {
		return nil, 0, err
	}
	ns, cost := sh.To(t)
	if len(ns) == 0 || math.IsInf(cost, 1) {
		return nil, 0, ErrNoPath
	}
	return g.ids2nodes(ns), cost, nil
}

// ShortestPaths returns the lightest path from source to every reachable
// node, keyed by node, with their weights.
func (g *Graph) ShortestPaths(source any, weight string) (map[any][]any, map[any]float64, error) {
	sh, err := g.shortest(source, weight)
	if err != nil {
		return nil, nil, err
	}
	paths := make(map[any][]any)
	costs := make(map[any]float64)
	for i, n := range g.nodes {
		ns, cost := sh.To(int64(i))
		if len(ns) == 0 || math.IsInf(cost, 1) {
			continue
		}
		paths[n] = g.ids2nodes(ns)
		costs[n] = cost
	}
	return paths, costs, nil
}

// TopologicalSort orders the nodes of a directed acyclic graph so that every
// edge points forward. Ties are broken by node order.
func (g *Graph) TopologicalSort() ([]any, error) {
	if !g.IsDirected() {
		return nil, errors.New(errors.ErrCodeWrongGraphKind, "topological sort not defined on undirected graphs")
	}
	w, err := g.weighted("")
	if err != nil {
		return nil, err
	}
	if w.selfLoops {
		return nil, ErrCycle
	}
	sorted, err := topo.SortStabilized(w.dg, byID)
	if err != nil {
		var u topo.Unorderable
		if stderrors.As(err, &u) {
			return nil, ErrCycle
		}
		return nil, err
	}
	return g.ids2nodes(sorted), nil
}

// ConnectedComponents returns the components of an undirected graph. Each
// component lists its nodes in node order, and components are ordered by
// their first node.
func (g *Graph) ConnectedComponents() ([][]any, error) {
	if g.IsDirected() {
		return nil, errors.New(errors.ErrCodeWrongGraphKind, "connected components not defined on directed graphs")
	}
	w, err := g.weighted("")
	if err != nil {
		return nil, err
	}
	comps := topo.ConnectedComponents(w.ug)
	for _, c := range comps {
		byID(c)
	}
	slices.SortFunc(comps, func(a, b []gg.Node) int {
		return compareID(a[0], b[0])
	})
	out := make([][]any, len(comps))
	for i, c := range comps {
		out[i] = g.ids2nodes(c)
	}
	return out, nil
}

func compareID(a, b gg.Node) int {
	switch {
	case a.ID() < b.ID():
		return -1
	case a.ID() > b.ID():
		return 1
	}
	return 0
}

func byID(ns []gg.Node) { slices.SortFunc(ns, compareID) }
