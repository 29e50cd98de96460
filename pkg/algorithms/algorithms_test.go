package algorithms

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/framegraph/pkg/dispatch"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

func call(t *testing.T, name string, args dispatch.Args) (any, error) {
	t.Helper()
	alg, ok := Standard().Lookup(name)
	if !ok {
		t.Fatalf("%s not registered", name)
	}
	return alg.Func(context.Background(), args)
}

func pos(vals ...any) dispatch.Args { return dispatch.Args{Positional: vals} }

func TestStandardNames(t *testing.T) {
	want := []string{
		"compose_all",
		"connected_components",
		"empty_graph",
		"from_pandas_edgelist",
		"number_of_edges",
		"number_of_nodes",
		"reverse",
		"shortest_path",
		"shortest_path_length",
		"topological_sort",
	}
	if diff := cmp.Diff(want, Standard().Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	alg, _ := Standard().Lookup("compose_all")
	if !alg.ReturnsGraph || !alg.ListGraphs["graphs"] || alg.Graphs["graphs"] != 0 {
		t.Errorf("compose_all = %+v", alg)
	}
}

func TestPathQueriesOnMultigraph(t *testing.T) {
	g := graph.New(true, true)
	_, _ = g.AddEdge("a", "b", graph.Attrs{"cost": 4})
	_, _ = g.AddEdge("a", "b", graph.Attrs{"cost": 1})
	_, _ = g.AddEdge("b", "c", graph.Attrs{"cost": 2})

	got, err := call(t, "shortest_path_length", dispatch.Args{
		Positional: []any{g, "a", "c"},
		Keyword:    map[string]any{"weight": "cost"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.0 {
		t.Errorf("length = %v, want 3", got)
	}

	order, err := call(t, "topological_sort", pos(g))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCounts(t *testing.T) {
	g := graph.New(false, false)
	_ = g.AddNode("x", nil)
	_, _ = g.AddEdge(1, 2, nil)
	n, err := call(t, "number_of_nodes", pos(g))
	if err != nil || n != 3 {
		t.Errorf("number_of_nodes = %v, %v", n, err)
	}
	m, err := call(t, "number_of_edges", dispatch.Args{Keyword: map[string]any{"G": g}})
	if err != nil || m != 1 {
		t.Errorf("number_of_edges = %v, %v", m, err)
	}
	if _, err := call(t, "number_of_nodes", pos()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing G: err = %v", err)
	}
}

func TestReverse(t *testing.T) {
	g := graph.New(true, true)
	g.Attrs()["name"] = "r"
	_ = g.AddNode("a", graph.Attrs{"color": "red"})
	_ = g.AddEdgeWithKey("a", "b", "k1", graph.Attrs{"w": 1})
	_ = g.AddEdgeWithKey("a", "b", "k2", graph.Attrs{"w": 2})

	out, err := call(t, "reverse", pos(g))
	if err != nil {
		t.Fatal(err)
	}
	want := graph.New(true, true)
	want.Attrs()["name"] = "r"
	_ = want.AddNode("a", graph.Attrs{"color": "red"})
	_ = want.AddEdgeWithKey("b", "a", "k1", graph.Attrs{"w": 1})
	_ = want.AddEdgeWithKey("b", "a", "k2", graph.Attrs{"w": 2})
	if !want.Equal(out.(*graph.Graph)) {
		t.Error("reverse mismatch")
	}
	if g.HasEdge("b", "a") {
		t.Error("input was modified")
	}

	if _, err := call(t, "reverse", pos(graph.New(false, false))); !errors.Is(err, errors.ErrCodeWrongGraphKind) {
		t.Errorf("undirected: err = %v, want WRONG_GRAPH_KIND", err)
	}
}

func TestComposeAll(t *testing.T) {
	g1 := graph.New(false, false)
	g1.Attrs()["name"] = "first"
	_, _ = g1.AddEdge(1, 2, graph.Attrs{"w": 1})
	g2 := graph.New(false, false)
	g2.Attrs()["name"] = "second"
	_ = g2.AddNode(3, nil)
	_, _ = g2.AddEdge(2, 1, graph.Attrs{"w": 5})

	out, err := call(t, "compose_all", pos([]any{g1, g2}))
	if err != nil {
		t.Fatal(err)
	}
	g := out.(*graph.Graph)
	if g.NodeCount() != 3 || g.EdgeCount() != 1 {
		t.Errorf("nodes = %d, edges = %d", g.NodeCount(), g.EdgeCount())
	}
	if attrs, _ := g.EdgeAttrs(1, 2, nil); attrs["w"] != 5 {
		t.Errorf("edge attrs = %v, want later graph to win", attrs)
	}
	if g.Attrs()["name"] != "second" {
		t.Errorf("name = %v", g.Attrs()["name"])
	}

	tests := []struct {
		name string
		args dispatch.Args
	}{
		{"empty list", pos([]any{})},
		{"not a list", pos(g1)},
		{"mixed kinds", pos([]any{g1, graph.New(true, false)})},
		{"missing", pos()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := call(t, "compose_all", tt.args); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestEmptyGraph(t *testing.T) {
	out, err := call(t, "empty_graph", dispatch.Args{
		Positional: []any{3},
		Keyword:    map[string]any{"directed": true},
	})
	if err != nil {
		t.Fatal(err)
	}
	g := out.(*graph.Graph)
	if !g.IsDirected() || g.IsMultigraph() {
		t.Errorf("kind = %s", g.KindName())
	}
	if diff := cmp.Diff([]any{0, 1, 2}, g.Nodes()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}

	if _, err := call(t, "empty_graph", pos(-1)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative n: err = %v", err)
	}
	if _, err := call(t, "empty_graph", dispatch.Args{Keyword: map[string]any{"multigraph": "yes"}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad flag: err = %v", err)
	}
}

func TestFromEdgeList(t *testing.T) {
	tbl, err := table.FromRows([]string{"from", "to", "w", "label", "k"}, [][]any{
		{"a", "b", 1.0, "ab", "x"},
		{"a", "b", 2.0, nil, "y"},
		{"b", "c", 3.0, "bc", "x"},
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("all attributes", func(t *testing.T) {
		out, err := call(t, "from_pandas_edgelist", dispatch.Args{
			Positional: []any{tbl, "from", "to", true},
			Keyword:    map[string]any{"directed": true, "multigraph": true, "edge_key": "k"},
		})
		if err != nil {
			t.Fatal(err)
		}
		g := out.(*graph.Graph)
		if g.EdgeCount() != 3 {
			t.Fatalf("EdgeCount() = %d", g.EdgeCount())
		}
		attrs, ok := g.EdgeAttrs("a", "b", "y")
		if !ok {
			t.Fatal("edge a-b/y missing")
		}
		if diff := cmp.Diff(graph.Attrs{"w": 2.0}, attrs); diff != "" {
			t.Errorf("attrs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("selected attribute simple graph", func(t *testing.T) {
		out, err := call(t, "from_pandas_edgelist", dispatch.Args{
			Positional: []any{tablegraph.New(tbl)},
			Keyword:    map[string]any{"source": "from", "target": "to", "edge_attr": []string{"label"}},
		})
		if err != nil {
			t.Fatal(err)
		}
		g := out.(*graph.Graph)
		if g.IsDirected() || g.EdgeCount() != 2 {
			t.Errorf("kind = %s, edges = %d", g.KindName(), g.EdgeCount())
		}
		attrs, _ := g.EdgeAttrs("b", "a", nil)
		if diff := cmp.Diff(graph.Attrs{"label": "ab"}, attrs); diff != "" {
			t.Errorf("attrs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			args dispatch.Args
			code errors.Code
		}{
			{"missing df", pos(), errors.ErrCodeInvalidInput},
			{"not a table", pos("edges"), errors.ErrCodeInvalidInput},
			{"default columns absent", pos(tbl), errors.ErrCodeMissingColumn},
			{"bad attr column", pos(tbl, "from", "to", "nope"), errors.ErrCodeMissingColumn},
			{"bad edge_attr type", pos(tbl, "from", "to", 3), errors.ErrCodeInvalidInput},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := call(t, "from_pandas_edgelist", tt.args); !errors.Is(err, tt.code) {
					t.Errorf("err = %v, want %s", err, tt.code)
				}
			})
		}
	})
}
