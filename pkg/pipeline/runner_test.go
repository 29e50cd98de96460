package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/framegraph/pkg/algorithms"
	"github.com/matzehuels/framegraph/pkg/backend"
	"github.com/matzehuels/framegraph/pkg/cache"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	logger := log.New(io.Discard)
	d, err := backend.NewDispatcher(algorithms.Standard(), nil, backend.TableName,
		[]string{backend.GonumName}, logger)
	if err != nil {
		t.Fatal(err)
	}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(d, c, nil, logger)
}

func diamond(t *testing.T) *tablegraph.TableGraph {
	t.Helper()
	tbl, err := table.FromRows([]string{"source", "target", "weight"}, [][]any{
		{"a", "b", 5.0},
		{"b", "d", 5.0},
		{"a", "c", 1.0},
		{"c", "d", 1.5},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tablegraph.New(tbl)
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner() left nil dependencies: %+v", r)
	}
	if _, err := r.Run(context.Background(), RunOptions{Algorithm: "reverse"}); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Run() without dispatcher: err = %v", err)
	}
}

func TestRunCachesResult(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	opts := RunOptions{
		Algorithm: "shortest_path",
		Inputs:    []*tablegraph.TableGraph{diamond(t)},
		Args:      map[string]string{"source": "a", "target": "d", "weight": "weight"},
	}

	first, err := r.Run(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run should miss the cache")
	}
	if diff := cmp.Diff([]string{"a", "c", "d"}, decode[[]string](t, first.JSON)); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	// A fresh instance with equal content hits the same entry.
	opts.Inputs = []*tablegraph.TableGraph{diamond(t)}
	second, err := r.Run(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if diff := cmp.Diff(string(first.JSON), string(second.JSON)); diff != "" {
		t.Errorf("cached JSON differs (-first +second):\n%s", diff)
	}

	opts.Refresh = true
	third, err := r.Run(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	opts.Refresh = false
	opts.Args = map[string]string{"source": "a", "target": "d"}
	unweighted, err := r.Run(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if unweighted.CacheHit {
		t.Error("different arguments should not share a cache entry")
	}
}

func TestRunMapResultKeys(t *testing.T) {
	r := newRunner(t)
	tbl, _ := table.FromRows([]string{"source", "target"}, [][]any{{1, 2}, {2, 3}})
	res, err := r.Run(context.Background(), RunOptions{
		Algorithm: "shortest_path_length",
		Inputs:    []*tablegraph.TableGraph{tablegraph.New(tbl)},
		Args:      map[string]string{"source": "1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"1": 0, "2": 1, "3": 2}
	if diff := cmp.Diff(want, decode[map[string]int](t, res.JSON)); diff != "" {
		t.Errorf("lengths mismatch (-want +got):\n%s", diff)
	}
}

func TestRunGraphResult(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	opts := RunOptions{Algorithm: "reverse", Inputs: []*tablegraph.TableGraph{diamond(t)}}

	for _, wantHit := range []bool{false, true} {
		res, err := r.Run(ctx, opts)
		if err != nil {
			t.Fatal(err)
		}
		if res.CacheHit != wantHit {
			t.Errorf("CacheHit = %v, want %v", res.CacheHit, wantHit)
		}
		if res.Graph == nil {
			t.Fatal("Graph is nil")
		}
		if !res.Graph.HasEdge("d", "c") || res.Graph.HasEdge("c", "d") {
			t.Error("edges were not reversed")
		}
		if !strings.Contains(string(res.JSON), `"directed": true`) {
			t.Errorf("JSON is not a graph document:\n%s", res.JSON)
		}
	}
}

func TestRunListGraphs(t *testing.T) {
	r := newRunner(t)
	other, _ := table.FromRows([]string{"source", "target"}, [][]any{{"d", "e"}})
	res, err := r.Run(context.Background(), RunOptions{
		Algorithm: "compose_all",
		Inputs:    []*tablegraph.TableGraph{diamond(t), tablegraph.New(other)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Graph.NodeCount() != 5 || res.Graph.EdgeCount() != 5 {
		t.Errorf("nodes = %d, edges = %d", res.Graph.NodeCount(), res.Graph.EdgeCount())
	}
}

func TestRunTableAlgorithm(t *testing.T) {
	r := newRunner(t)
	tbl, _ := table.FromRows([]string{"from", "to", "cost"}, [][]any{{"x", "y", 2}, {"y", "z", 3}})
	res, err := r.Run(context.Background(), RunOptions{
		Algorithm: "from_pandas_edgelist",
		Inputs:    []*tablegraph.TableGraph{tablegraph.New(tbl)},
		Args:      map[string]string{"source": "from", "target": "to", "edge_attr": "cost", "directed": "true"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Graph.IsDirected() || res.Graph.EdgeCount() != 2 {
		t.Errorf("kind = %s, edges = %d", res.Graph.KindName(), res.Graph.EdgeCount())
	}
	attrs, _ := res.Graph.EdgeAttrs("y", "z", nil)
	if attrs["cost"] != 3 {
		t.Errorf("cost = %v, want 3", attrs["cost"])
	}
}

func TestRunErrors(t *testing.T) {
	r := newRunner(t)
	tests := []struct {
		name string
		opts RunOptions
		code errors.Code
	}{
		{"unknown algorithm", RunOptions{Algorithm: "pagerank"}, errors.ErrCodeUnknownAlgorithm},
		{"missing input", RunOptions{Algorithm: "number_of_nodes"}, errors.ErrCodeInvalidInput},
		{"too many inputs", RunOptions{
			Algorithm: "number_of_nodes",
			Inputs:    []*tablegraph.TableGraph{diamond(t), diamond(t)},
		}, errors.ErrCodeInvalidInput},
		{"nil input", RunOptions{Algorithm: "number_of_nodes", Inputs: []*tablegraph.TableGraph{nil}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Run(context.Background(), tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseArg(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"a", "a"},
		{"3", 3},
		{"2.5", 2.5},
		{"true", true},
		{"", nil},
		{"w, label,", []string{"w", "label"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseArg(tt.in)); diff != "" {
			t.Errorf("parseArg(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestTableHash(t *testing.T) {
	a, err := TableHash(diamond(t))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := TableHash(diamond(t))
	if a != b {
		t.Error("equal content should hash equally")
	}

	undirected := diamond(t)
	undirected.Accessor().SetDirected(false)
	if c, _ := TableHash(undirected); c == a {
		t.Error("graph flags should change the hash")
	}

	named := diamond(t)
	named.Accessor().Graph()["name"] = "deps"
	if c, _ := TableHash(named); c == a {
		t.Error("graph attributes should change the hash")
	}
}

func TestTableHashCellTypes(t *testing.T) {
	hashOf := func(u, v any) string {
		t.Helper()
		tbl, err := table.FromRows([]string{"source", "target"}, [][]any{{u, v}})
		if err != nil {
			t.Fatal(err)
		}
		h, err := TableHash(tablegraph.New(tbl))
		if err != nil {
			t.Fatal(err)
		}
		return h
	}

	ints := hashOf(1, 2)
	if ints != hashOf(1, 2) {
		t.Fatal("equal tables should hash equally")
	}
	for name, h := range map[string]string{
		"strings": hashOf("1", "2"),
		"floats":  hashOf(1.0, 2.0),
		"nil":     hashOf(nil, 2),
	} {
		if h == ints {
			t.Errorf("%s hash equals the int hash", name)
		}
	}
	if hashOf("a\nb", "c") == hashOf("a", "b\nc") {
		t.Error("cell boundaries should be unambiguous")
	}
}

func TestRunKeysByCellType(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	load := func(u, v any) *tablegraph.TableGraph {
		tbl, err := table.FromRows([]string{"source", "target"}, [][]any{{u, v}})
		if err != nil {
			t.Fatal(err)
		}
		return tablegraph.New(tbl)
	}

	first, err := r.Run(ctx, RunOptions{Algorithm: "reverse", Inputs: []*tablegraph.TableGraph{load(1, 2)}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Run(ctx, RunOptions{Algorithm: "reverse", Inputs: []*tablegraph.TableGraph{load("1", "2")}})
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheHit {
		t.Error("string IDs should not reuse the int ID result")
	}
	if string(first.JSON) == string(second.JSON) {
		t.Errorf("results should keep their ID types:\n%s", second.JSON)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}

	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestRenderCachesArtifacts(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	tg := diamond(t)
	opts := RenderOptions{Formats: []string{FormatDOT}, EdgeLabel: "weight"}

	out, hit, err := r.Render(ctx, tg, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}
	src := string(out[FormatDOT])
	if !strings.HasPrefix(src, "digraph G {") || !strings.Contains(src, `"c" -> "d" [label="1.5"]`) {
		t.Errorf("unexpected DOT:\n%s", src)
	}

	again, hit, err := r.Render(ctx, tg, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second render should hit the cache")
	}
	if diff := cmp.Diff(out, again); diff != "" {
		t.Errorf("cached artifacts differ (-first +second):\n%s", diff)
	}

	if _, _, err := r.Render(ctx, tg, RenderOptions{Formats: []string{"gif"}}); err == nil {
		t.Error("invalid format should fail")
	}
	if _, _, err := r.Render(ctx, tablegraph.New(nil), opts); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("invalid graph: err = %v, want INVALID_GRAPH", err)
	}
}

func TestRunLogsTableIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	d, err := backend.NewDispatcher(algorithms.Standard(), nil, backend.TableName, []string{backend.GonumName}, logger)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(d, nil, nil, logger)

	tg := diamond(t)
	if _, err := r.Run(context.Background(), RunOptions{Algorithm: "number_of_nodes", Inputs: []*tablegraph.TableGraph{tg}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), tg.ID.String()) {
		t.Errorf("debug log should name the input table %s:\n%s", tg.ID, buf.String())
	}

	buf.Reset()
	if _, _, err := r.Render(context.Background(), tg, RenderOptions{Formats: []string{FormatDOT}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), tg.ID.String()) {
		t.Errorf("render log should name the table %s:\n%s", tg.ID, buf.String())
	}
}
