package gonum

import (
	"fmt"
	"math"

	gg "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/table"
)

// Graph is the gonum engine's representation of a canonical graph.
//
// Node identifiers are mapped to dense int64 IDs in node order. Weighted
// gonum graphs are built on demand, one per weight attribute, and reused.
// Parallel edges of a multigraph collapse to the lightest one.
type Graph struct {
	src   *graph.Graph
	ids   map[any]int64
	nodes []any
	built map[string]*weighted
}

type weighted struct {
	g         gg.Graph
	dg        *simple.WeightedDirectedGraph
	ug        *simple.WeightedUndirectedGraph
	negative  bool
	selfLoops bool
	negLoop   bool
}

// New wraps a canonical graph. The graph must not be modified afterwards.
func New(src *graph.Graph) *Graph {
	nodes := src.Nodes()
	ids := make(map[any]int64, len(nodes))
	for i, n := range nodes {
		ids[n] = int64(i)
	}
	return &Graph{src: src, ids: ids, nodes: nodes, built: make(map[string]*weighted)}
}

// Canonical returns the wrapped canonical graph.
func (g *Graph) Canonical() *graph.Graph { return g.src }

// IsDirected reports whether the graph is directed.
func (g *Graph) IsDirected() bool { return g.src.IsDirected() }

// IsMultigraph reports whether the wrapped graph is a multigraph.
func (g *Graph) IsMultigraph() bool { return g.src.IsMultigraph() }

func (g *Graph) id(n any) (int64, error) {
	if !table.IsComparable(n) {
		return 0, fmt.Errorf("node %v: %w", n, graph.ErrNonComparableNode)
	}
	id, ok := g.ids[n]
	if !ok {
		return 0, fmt.Errorf("node %v: %w", n, graph.ErrUnknownNode)
	}
	return id, nil
}

func (g *Graph) node(id int64) any { return g.nodes[id] }

// weighted returns the gonum graph with edge weights read from attr. An
// empty attr gives every edge weight 1, as does an edge lacking attr.
func (g *Graph) weighted(attr string) (*weighted, error) {
	if w, ok := g.built[attr]; ok {
		return w, nil
	}
	w := &weighted{}
	if g.src.IsDirected() {
		w.dg = simple.NewWeightedDirectedGraph(0, math.Inf(1))
		w.g = w.dg
	} else {
		w.ug = simple.NewWeightedUndirectedGraph(0, math.Inf(1))
		w.g = w.ug
	}
	for i := range g.nodes {
		if w.dg != nil {
			w.dg.AddNode(simple.Node(i))
		} else {
			w.ug.AddNode(simple.Node(i))
		}
	}

	for _, e := range g.src.Edges() {
		wt := 1.0
		if attr != "" {
			var err error
			if wt, err = weightOf(e.Attrs[attr]); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge (%v, %v) attribute %q", e.Source, e.Target, attr)
			}
		}
		u, v := g.ids[e.Source], g.ids[e.Target]
		if wt < 0 {
			w.negative = true
		}
		if u == v {
			w.selfLoops = true
			w.negLoop = w.negLoop || wt < 0
			continue
		}
		if w.dg != nil {
			if old, ok := w.dg.Weight(u, v); ok && old <= wt {
				continue
			}
			w.dg.SetWeightedEdge(w.dg.NewWeightedEdge(simple.Node(u), simple.Node(v), wt))
		} else {
			if old, ok := w.ug.Weight(u, v); ok && old <= wt {
				continue
			}
			w.ug.SetWeightedEdge(w.ug.NewWeightedEdge(simple.Node(u), simple.Node(v), wt))
		}
	}
	g.built[attr] = w
	return w, nil
}

func weightOf(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 1, nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("weight %v (%T) is not numeric", v, v)
	}
}
