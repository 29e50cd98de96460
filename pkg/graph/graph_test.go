package graph

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestAddNodeMergesAttrs(t *testing.T) {
	g := New(true, false)
	if err := g.AddNode("a", Attrs{"color": "red"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode("a", Attrs{"size": 2}); err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount() = %d, want 1", g.NodeCount())
	}
	a, _ := g.NodeAttrs("a")
	if a["color"] != "red" || a["size"] != 2 {
		t.Errorf("attrs = %v", a)
	}
}

func TestAddNodeRejectsNonComparable(t *testing.T) {
	g := New(true, false)
	tests := []struct {
		name string
		id   any
	}{
		{"nil", nil},
		{"slice", []int{1}},
		{"map", map[string]int{}},
		{"array holding slice", [1]any{[]int{1}}},
		{"struct holding map", struct{ V any }{map[string]int{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddNode(tt.id, nil); !errors.Is(err, ErrNonComparableNode) {
				t.Errorf("AddNode(%v) error = %v, want ErrNonComparableNode", tt.id, err)
			}
			if _, err := g.AddEdge("x", tt.id, nil); !errors.Is(err, ErrNonComparableNode) {
				t.Errorf("AddEdge(x, %v) error = %v, want ErrNonComparableNode", tt.id, err)
			}
		})
	}
}

func TestAddNodeCompositeIDs(t *testing.T) {
	g := New(true, false)
	for _, id := range []any{[2]any{1, "a"}, struct{ V any }{2}} {
		if err := g.AddNode(id, nil); err != nil {
			t.Errorf("AddNode(%v) error = %v", id, err)
		}
		if !g.HasNode(id) {
			t.Errorf("HasNode(%v) = false", id)
		}
	}
}

func TestNodeOrderIsInsertionOrder(t *testing.T) {
	g := New(false, false)
	_, _ = g.AddEdge(3, 1, nil)
	_ = g.AddNode(2, nil)
	_, _ = g.AddEdge(1, 0, nil)
	if got := g.Nodes(); !slices.Equal(got, []any{3, 1, 2, 0}) {
		t.Errorf("Nodes() = %v, want [3 1 2 0]", got)
	}
}

func TestSimpleEdgesMerge(t *testing.T) {
	tests := []struct {
		name      string
		directed  bool
		wantEdges int
	}{
		{"undirected collapses reverse", false, 1},
		{"directed keeps reverse", true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.directed, false)
			_, _ = g.AddEdge("a", "b", Attrs{"w": 1})
			_, _ = g.AddEdge("b", "a", Attrs{"w": 2})
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
			a, ok := g.EdgeAttrs("a", "b", nil)
			if !ok {
				t.Fatal("a-b edge missing")
			}
			want := 1
			if !tt.directed {
				want = 2
			}
			if a["w"] != want {
				t.Errorf("w = %v, want %d", a["w"], want)
			}
		})
	}
}

func TestMultigraphKeys(t *testing.T) {
	g := New(true, true)
	k0, _ := g.AddEdge("a", "b", nil)
	k1, _ := g.AddEdge("a", "b", Attrs{"w": 3})
	if k0 != 0 || k1 != 1 {
		t.Errorf("keys = %v, %v, want 0, 1", k0, k1)
	}
	if err := g.AddEdgeWithKey("a", "b", "x", nil); err != nil {
		t.Fatal(err)
	}
	// keys {0, 1, "x"}: count is 3 and 3 is unused
	k3, _ := g.AddEdge("a", "b", nil)
	if k3 != 3 {
		t.Errorf("auto key = %v, want 3", k3)
	}
	if err := g.AddEdgeWithKey("a", "b", 1, Attrs{"v": true}); err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount() = %d, want 4", g.EdgeCount())
	}
	a, _ := g.EdgeAttrs("a", "b", 1)
	if a["w"] != 3 || a["v"] != true {
		t.Errorf("edge 1 attrs = %v", a)
	}
	if err := g.AddEdgeWithKey("a", "b", []int{}, nil); !errors.Is(err, ErrNonComparableKey) {
		t.Errorf("slice key error = %v", err)
	}
}

func TestSuccessors(t *testing.T) {
	g := New(true, false)
	_, _ = g.AddEdge("a", "b", nil)
	_, _ = g.AddEdge("c", "a", nil)
	got, err := g.Successors("a")
	if err != nil || !slices.Equal(got, []any{"b"}) {
		t.Errorf("directed Successors(a) = %v, %v", got, err)
	}

	u := New(false, false)
	_, _ = u.AddEdge("a", "b", nil)
	_, _ = u.AddEdge("c", "a", nil)
	got, _ = u.Successors("a")
	if !slices.Equal(got, []any{"b", "c"}) {
		t.Errorf("undirected Successors(a) = %v", got)
	}

	if _, err := g.Successors("zzz"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown node error = %v", err)
	}
}

func TestCopyAndEqual(t *testing.T) {
	g := New(false, true)
	g.Attrs()["name"] = "g"
	_ = g.AddNode(1, Attrs{"c": "red"})
	_, _ = g.AddEdge(1, 2, Attrs{"w": 1.5})
	_, _ = g.AddEdge(2, 1, nil)

	cp := g.Copy()
	if !g.Equal(cp) {
		t.Fatal("copy not equal")
	}

	cp.Attrs()["name"] = "other"
	if g.Equal(cp) || g.Attrs()["name"] != "g" {
		t.Error("graph attrs shared between copies")
	}

	cp = g.Copy()
	a, _ := cp.NodeAttrs(1)
	a["c"] = "blue"
	if g.Equal(cp) {
		t.Error("node attr change not detected")
	}

	cp = g.Copy()
	_, _ = cp.AddEdge(1, 2, nil)
	if g.Equal(cp) {
		t.Error("extra parallel edge not detected")
	}

	if g.Equal(New(true, true)) {
		t.Error("different kinds compare equal")
	}
}

func TestNodeSetGraph(t *testing.T) {
	ns := NodeSet{{ID: "a", Attrs: Attrs{"x": 1}}, {ID: "b"}}
	g, err := ns.Graph()
	if err != nil {
		t.Fatal(err)
	}
	if g.IsDirected() || g.IsMultigraph() || g.EdgeCount() != 0 || g.NodeCount() != 2 {
		t.Errorf("unexpected graph %s with %d nodes, %d edges", g.KindName(), g.NodeCount(), g.EdgeCount())
	}
}

func TestKindName(t *testing.T) {
	tests := []struct {
		directed, multi bool
		want            string
	}{
		{false, false, "Graph"},
		{true, false, "DiGraph"},
		{false, true, "MultiGraph"},
		{true, true, "MultiDiGraph"},
	}
	for _, tt := range tests {
		if got := KindName(tt.directed, tt.multi); got != tt.want {
			t.Errorf("KindName(%v, %v) = %q, want %q", tt.directed, tt.multi, got, tt.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g := New(true, true)
	g.Attrs()["name"] = "deps"
	_ = g.AddNode(1, Attrs{"label": "one", "tags": []any{"x", 2}})
	_ = g.AddNode(4, nil)
	_, _ = g.AddEdge(1, 2, Attrs{"weight": 0.5})
	_ = g.AddEdgeWithKey(1, 2, "alt", Attrs{"weight": 3})

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !g.Equal(got) {
		t.Error("graph changed across JSON round trip")
	}
	if !slices.Equal(got.Nodes(), g.Nodes()) {
		t.Errorf("node order = %v, want %v", got.Nodes(), g.Nodes())
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, g *Graph)
	}{
		{
			name:  "implicit nodes",
			input: `{"directed": false, "nodes": [], "edges": [{"source": "a", "target": "b"}]}`,
			check: func(t *testing.T, g *Graph) {
				if g.NodeCount() != 2 || g.IsDirected() {
					t.Errorf("got %s with %d nodes", g.KindName(), g.NodeCount())
				}
			},
		},
		{
			name:  "integral numbers become int",
			input: `{"directed": true, "nodes": [{"id": 7, "attrs": {"w": 1, "f": 1.25}}], "edges": []}`,
			check: func(t *testing.T, g *Graph) {
				a, ok := g.NodeAttrs(7)
				if !ok {
					t.Fatal("node 7 (int) missing")
				}
				if a["w"] != 1 || a["f"] != 1.25 {
					t.Errorf("attrs = %#v", a)
				}
			},
		},
		{
			name:    "null node id",
			input:   `{"nodes": [{"id": null}], "edges": []}`,
			wantErr: true,
		},
		{
			name:    "malformed",
			input:   `{"nodes": [`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadJSON(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestImportExportJSON(t *testing.T) {
	g := New(false, false)
	_, _ = g.AddEdge("a", "b", Attrs{"w": 2})
	path := filepath.Join(t.TempDir(), "g.json")
	if err := ExportJSON(g, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !g.Equal(got) {
		t.Error("graph changed across file round trip")
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("ImportJSON of missing file succeeded")
	}
}
