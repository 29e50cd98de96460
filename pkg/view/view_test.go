package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

var allKinds = []Kind{Graph, DiGraph, MultiGraph, MultiDiGraph}

func sampleTable(t *testing.T, directed, multi bool) *tablegraph.TableGraph {
	t.Helper()
	tbl, err := table.FromRows([]string{"source", "target", "w"}, [][]any{
		{"a", "b", 1.0},
		{"b", "c", 2.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	tg := tablegraph.New(tbl)
	if err := tg.Accessor().SetProperties(tablegraph.Directed(directed), tablegraph.Multigraph(multi)); err != nil {
		t.Fatal(err)
	}
	return tg
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Graph, "Graph"},
		{DiGraph, "DiGraph"},
		{MultiGraph, "MultiGraph"},
		{MultiDiGraph, "MultiDiGraph"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindCounterparts(t *testing.T) {
	tests := []struct {
		kind             Kind
		directed, undirs Kind
	}{
		{Graph, DiGraph, Graph},
		{DiGraph, DiGraph, Graph},
		{MultiGraph, MultiDiGraph, MultiGraph},
		{MultiDiGraph, MultiDiGraph, MultiGraph},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			v, err := New(tt.kind, nil, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := v.ToDirectedKind(); got != tt.directed {
				t.Errorf("ToDirectedKind() = %v, want %v", got, tt.directed)
			}
			if got := v.ToUndirectedKind(); got != tt.undirs {
				t.Errorf("ToUndirectedKind() = %v, want %v", got, tt.undirs)
			}
		})
	}
}

func TestNewEmpty(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {
			v, err := New(kind, nil, graph.Attrs{"name": "empty"})
			if err != nil {
				t.Fatal(err)
			}
			if v.IsDirected() != kind.Directed || v.IsMultigraph() != kind.Multi {
				t.Errorf("flags = %v/%v", v.IsDirected(), v.IsMultigraph())
			}
			tg := v.Table()
			if err := tg.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if d, _ := tg.IsDirected(); d != kind.Directed {
				t.Errorf("table directed = %v", d)
			}
			if m, _ := tg.IsMultigraph(); m != kind.Multi {
				t.Errorf("table multigraph = %v", m)
			}
			if v.Name() != "empty" {
				t.Errorf("Name() = %q", v.Name())
			}
			if v.BackendName() != "table_graph" {
				t.Errorf("BackendName() = %q", v.BackendName())
			}
			g, err := v.Canonical()
			if err != nil {
				t.Fatal(err)
			}
			if g.NodeCount() != 0 || g.EdgeCount() != 0 {
				t.Errorf("canonical has %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			}
		})
	}
}

func TestNewFromCanonical(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {
			g := graph.New(kind.Directed, kind.Multi)
			g.Attrs()["name"] = "orig"
			if err := g.AddNode("x", graph.Attrs{"color": "red"}); err != nil {
				t.Fatal(err)
			}
			if _, err := g.AddEdge("x", "y", graph.Attrs{"weight": 3.0}); err != nil {
				t.Fatal(err)
			}

			v, err := New(kind, g, graph.Attrs{"extra": 1})
			if err != nil {
				t.Fatal(err)
			}
			if v.Name() != "orig" {
				t.Errorf("Name() = %q, want orig", v.Name())
			}
			back, err := v.Canonical()
			if err != nil {
				t.Fatal(err)
			}
			want := g.Copy()
			want.Attrs()["extra"] = 1
			if !back.Equal(want) {
				t.Errorf("round trip differs: attrs %v", back.Attrs())
			}
			if _, ok := g.Attrs()["extra"]; ok {
				t.Error("attrs leaked into the incoming graph")
			}
		})
	}
}

func TestNewUnsupported(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		incoming any
	}{
		{"kind mismatch", DiGraph, graph.New(false, false)},
		{"multi mismatch", MultiGraph, graph.New(false, false)},
		{"view kind mismatch", Graph, mustNew(t, DiGraph)},
		{"foreign type", Graph, "edges"},
		{"raw table graph", DiGraph, sampleTable(t, true, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.kind, tt.incoming, nil)
			if !errors.Is(err, errors.ErrCodeUnsupported) {
				t.Errorf("New() = %v, want UNSUPPORTED", err)
			}
		})
	}
}

func mustNew(t *testing.T, kind Kind) *View {
	t.Helper()
	v, err := New(kind, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestNewFromView(t *testing.T) {
	src, err := FromTable(DiGraph, sampleTable(t, true, false), CopyIfNeeded)
	if err != nil {
		t.Fatal(err)
	}
	src.SetName("src")

	v, err := New(DiGraph, src, graph.Attrs{"name": "copy"})
	if err != nil {
		t.Fatal(err)
	}
	if v.Table() == src.Table() {
		t.Error("New from view shares the table graph")
	}
	if src.Name() != "src" || v.Name() != "copy" {
		t.Errorf("names = %q, %q", src.Name(), v.Name())
	}
	if !v.Table().Table().Equal(src.Table().Table()) {
		t.Error("copied table differs")
	}
}

func TestFromTable(t *testing.T) {
	tests := []struct {
		name       string
		directed   bool
		multi      bool
		kind       Kind
		policy     CopyPolicy
		wantShared bool
		wantCode   errors.Code
	}{
		{"match if needed", true, false, DiGraph, CopyIfNeeded, true, ""},
		{"match always", true, false, DiGraph, CopyAlways, false, ""},
		{"match never", true, false, DiGraph, CopyNever, true, ""},
		{"mismatch if needed", true, false, Graph, CopyIfNeeded, false, ""},
		{"mismatch always", false, false, MultiDiGraph, CopyAlways, false, ""},
		{"mismatch never", true, false, MultiGraph, CopyNever, false, errors.ErrCodeCopyRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := sampleTable(t, tt.directed, tt.multi)
			v, err := FromTable(tt.kind, tg, tt.policy)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("FromTable() = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if shared := v.Table() == tg; shared != tt.wantShared {
				t.Errorf("shared = %v, want %v", shared, tt.wantShared)
			}
			if d, _ := v.Table().IsDirected(); d != tt.kind.Directed {
				t.Errorf("directed = %v, want %v", d, tt.kind.Directed)
			}
			if m, _ := v.Table().IsMultigraph(); m != tt.kind.Multi {
				t.Errorf("multigraph = %v, want %v", m, tt.kind.Multi)
			}
			if d, _ := tg.IsDirected(); d != tt.directed {
				t.Error("source table graph flags were modified")
			}
		})
	}
}

func TestFromTableInvalid(t *testing.T) {
	tbl, _ := table.FromRows([]string{"u", "v"}, [][]any{{1, 2}})
	_, err := FromTable(DiGraph, tablegraph.New(tbl), CopyIfNeeded)
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("FromTable() = %v, want INVALID_GRAPH", err)
	}
	if _, err := FromTable(DiGraph, nil, CopyIfNeeded); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("FromTable(nil) = %v, want INVALID_INPUT", err)
	}
}

func TestCopy(t *testing.T) {
	v, err := FromTable(DiGraph, sampleTable(t, true, false), CopyIfNeeded)
	if err != nil {
		t.Fatal(err)
	}
	v.SetGraph(graph.Attrs{"name": "g", "tags": "x"})
	if err := v.Table().Accessor().SetProperties(tablegraph.CacheEnabled(true)); err != nil {
		t.Fatal(err)
	}
	cache, _ := v.Table().Cache()
	cache["k"] = 1

	shared := v.Copy(true)
	if shared.Table() != v.Table() {
		t.Error("Copy(true) did not share the table graph")
	}

	deep := v.Copy(false)
	if deep.Table() == v.Table() {
		t.Fatal("Copy(false) shared the table graph")
	}
	if diff := cmp.Diff(v.Graph(), deep.Graph()); diff != "" {
		t.Errorf("graph attrs mismatch (-want +got):\n%s", diff)
	}
	deep.SetName("other")
	if v.Name() != "g" {
		t.Errorf("deep copy mutation leaked: %q", v.Name())
	}
	deepCache, err := deep.Table().Cache()
	if err != nil || deepCache["k"] != 1 {
		t.Errorf("cache = %v, %v", deepCache, err)
	}
	src, _ := deep.Table().Accessor().Source()
	if src != "source" {
		t.Errorf("Source() = %q", src)
	}
	if deep.Kind() != DiGraph {
		t.Errorf("Kind() = %v", deep.Kind())
	}
}

func TestNameUnset(t *testing.T) {
	v := mustNew(t, Graph)
	if v.Name() != "" {
		t.Errorf("Name() = %q, want empty", v.Name())
	}
	v.SetName("n")
	if got := v.Table().Accessor().Graph()["name"]; got != "n" {
		t.Errorf("graph[name] = %v", got)
	}
}
