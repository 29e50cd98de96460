// Package algorithms registers the standard algorithm set with the
// dispatcher.
//
// Each entry records where its graph arguments sit and whether it returns a
// graph, together with a canonical implementation over *graph.Graph values.
// Path and topology queries delegate to the gonum engine's code, which also
// handles multigraphs and negative weights; structural operations use the
// canonical graph model directly.
package algorithms

import (
	"context"
	"fmt"
	"maps"

	"github.com/matzehuels/framegraph/pkg/backend/gonum"
	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/dispatch"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

// Standard returns a registry holding the standard algorithm set.
func Standard() *dispatch.Registry {
	r := dispatch.NewRegistry()
	for _, alg := range standard() {
		r.MustRegister(alg)
	}
	return r
}

func standard() []dispatch.Algorithm {
	g0 := map[string]int{"G": 0}
	return []dispatch.Algorithm{
		{Name: "shortest_path", Graphs: g0, Func: viaGonum("shortest_path")},
		{Name: "shortest_path_length", Graphs: g0, Func: viaGonum("shortest_path_length")},
		{Name: "topological_sort", Graphs: g0, Func: viaGonum("topological_sort")},
		{Name: "connected_components", Graphs: g0, Func: viaGonum("connected_components")},
		{Name: "number_of_nodes", Graphs: g0, Func: numberOfNodes},
		{Name: "number_of_edges", Graphs: g0, Func: numberOfEdges},
		{Name: "reverse", Graphs: g0, ReturnsGraph: true, Func: reverse},
		{
			Name:         "compose_all",
			Graphs:       map[string]int{"graphs": 0},
			ListGraphs:   map[string]bool{"graphs": true},
			ReturnsGraph: true,
			Func:         composeAll,
		},
		{Name: "empty_graph", ReturnsGraph: true, Func: emptyGraph},
		{Name: "from_pandas_edgelist", ReturnsGraph: true, Func: fromEdgeList},
	}
}

// graphArg returns the canonical graph passed as G.
func graphArg(args dispatch.Args) (*graph.Graph, error) {
	v, ok := args.Get("G", 0)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing graph argument G")
	}
	return convert.Graph(v)
}

func viaGonum(name string) dispatch.Func {
	return func(_ context.Context, args dispatch.Args) (any, error) {
		g, err := graphArg(args)
		if err != nil {
			return nil, err
		}
		return gonum.Call(gonum.New(g), name, args)
	}
}

func numberOfNodes(_ context.Context, args dispatch.Args) (any, error) {
	g, err := graphArg(args)
	if err != nil {
		return nil, err
	}
	return g.NodeCount(), nil
}

func numberOfEdges(_ context.Context, args dispatch.Args) (any, error) {
	g, err := graphArg(args)
	if err != nil {
		return nil, err
	}
	return g.EdgeCount(), nil
}

// reverse returns a copy of a directed graph with every edge flipped. Edge
// keys and all attributes are kept.
func reverse(_ context.Context, args dispatch.Args) (any, error) {
	g, err := graphArg(args)
	if err != nil {
		return nil, err
	}
	if !g.IsDirected() {
		return nil, errors.New(errors.ErrCodeWrongGraphKind, "cannot reverse an undirected graph")
	}
	out := graph.New(true, g.IsMultigraph())
	maps.Copy(out.Attrs(), g.Attrs())
	for _, n := range g.NodeSet() {
		if err := out.AddNode(n.ID, n.Attrs); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges() {
		if err := out.AddEdgeWithKey(e.Target, e.Source, e.Key, e.Attrs); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// composeAll returns the union of a non-empty list of graphs of one kind.
// Attributes from later graphs take precedence.
func composeAll(_ context.Context, args dispatch.Args) (any, error) {
	v, ok := args.Get("graphs", 0)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing argument graphs")
	}
	list, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graphs must be a list, got %T", v)
	}
	if len(list) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot apply compose_all to an empty list")
	}
	var out *graph.Graph
	for i, item := range list {
		g, err := convert.Graph(item)
		if err != nil {
			return nil, fmt.Errorf("graphs[%d]: %w", i, err)
		}
		if out == nil {
			out = graph.New(g.IsDirected(), g.IsMultigraph())
		} else if g.IsDirected() != out.IsDirected() || g.IsMultigraph() != out.IsMultigraph() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "all graphs must be of one kind: graphs[%d] is a %s, want %s",
				i, g.KindName(), out.KindName())
		}
		maps.Copy(out.Attrs(), g.Attrs())
		for _, n := range g.NodeSet() {
			if err := out.AddNode(n.ID, n.Attrs); err != nil {
				return nil, err
			}
		}
		for _, e := range g.Edges() {
			if err := out.AddEdgeWithKey(e.Source, e.Target, e.Key, e.Attrs); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func boolArg(args dispatch.Args, name string) (bool, error) {
	v, ok := args.Keyword[name]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidInput, "%s must be a bool, got %T", name, v)
	}
	return b, nil
}

func kindArgs(args dispatch.Args) (directed, multi bool, err error) {
	if directed, err = boolArg(args, "directed"); err != nil {
		return false, false, err
	}
	multi, err = boolArg(args, "multigraph")
	return directed, multi, err
}

// emptyGraph returns a graph with nodes 0..n-1 and no edges. The kind comes
// from the directed and multigraph keyword arguments.
func emptyGraph(_ context.Context, args dispatch.Args) (any, error) {
	n := 0
	if v, ok := args.Get("n", 0); ok {
		i, ok := v.(int)
		if !ok || i < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "n must be a non-negative int, got %v", v)
		}
		n = i
	}
	directed, multi, err := kindArgs(args)
	if err != nil {
		return nil, err
	}
	g := graph.New(directed, multi)
	for i := range n {
		_ = g.AddNode(i, nil)
	}
	return g, nil
}

func stringArg(args dispatch.Args, name string, pos int, def string) (string, error) {
	v, ok := args.Get(name, pos)
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s must be a column name, got %T", name, v)
	}
	return s, nil
}

// fromEdgeList builds a graph from a plain table, one edge per row. Its
// arguments follow the edge-list constructor: df (0), source (1),
// target (2), edge_attr (3) and edge_key (5). edge_attr is true for every
// other column, a column name, or a list of names.
func fromEdgeList(_ context.Context, args dispatch.Args) (any, error) {
	v, ok := args.Get("df", 0)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing argument df")
	}
	var tbl *table.Table
	switch t := v.(type) {
	case *table.Table:
		tbl = t
	case *tablegraph.TableGraph:
		tbl = t.Table()
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "df must be a table, got %T", v)
	}

	src, err := stringArg(args, "source", 1, tablegraph.DefaultSource)
	if err != nil {
		return nil, err
	}
	dst, err := stringArg(args, "target", 2, tablegraph.DefaultTarget)
	if err != nil {
		return nil, err
	}
	key, err := stringArg(args, "edge_key", 5, "")
	if err != nil {
		return nil, err
	}
	directed, multi, err := kindArgs(args)
	if err != nil {
		return nil, err
	}
	for _, c := range []string{src, dst, key} {
		if c != "" && !tbl.HasColumn(c) {
			return nil, errors.New(errors.ErrCodeMissingColumn, "table does not have column %q", c)
		}
	}

	var attrCols []string
	if ea, ok := args.Get("edge_attr", 3); ok {
		switch x := ea.(type) {
		case bool:
			if x {
				for _, c := range tbl.Columns() {
					if c != src && c != dst && c != key {
						attrCols = append(attrCols, c)
					}
				}
			}
		case string:
			attrCols = []string{x}
		case []string:
			attrCols = x
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge_attr must be a bool, a column name or a list of names, got %T", ea)
		}
	}
	for _, c := range attrCols {
		if !tbl.HasColumn(c) {
			return nil, errors.New(errors.ErrCodeMissingColumn, "table does not have column %q", c)
		}
	}

	g := graph.New(directed, multi)
	for i := range tbl.Len() {
		attrs := graph.Attrs{}
		for _, c := range attrCols {
			if val := tbl.Value(c, i); val != nil {
				attrs[c] = val
			}
		}
		u, w := tbl.Value(src, i), tbl.Value(dst, i)
		switch {
		case multi && key != "":
			err = g.AddEdgeWithKey(u, w, tbl.Value(key, i), attrs)
		default:
			_, err = g.AddEdge(u, w, attrs)
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return g, nil
}
