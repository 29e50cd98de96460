// Package convert translates between table graphs and the canonical graph
// model.
//
// [FromCanonical] lays a canonical graph out as an edge table plus node table
// and graph attributes; [ToCanonical] rebuilds the canonical graph from a
// valid table graph. With [FullPreservation] the two are inverses: node set,
// edge set (with keys for multigraphs), every attribute tier and the graph
// kind survive a round trip.
//
// Missing cells (nil) become attribute defaults only on the way to a table,
// and only when a non-nil default is requested. They are never turned into
// attributes on the way back. Since nil marks a missing cell, an attribute
// explicitly set to nil does not survive a round trip: it comes back absent.
//
// Edge attributes named like a role column (source, target, or the edge key
// of a multigraph) cannot be laid out and make [FromCanonical] fail.
package convert

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/observability"
	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

// Options controls which attributes [FromCanonical] carries into the table
// and how the role columns are named.
type Options struct {
	// EdgeAttrs selects edge attribute columns, mapping each name to the
	// default used for edges lacking it (nil for no default). It takes
	// precedence over PreserveEdgeAttrs. Endpoint and key columns are kept.
	EdgeAttrs map[string]any

	// NodeAttrs selects node table columns the same way. PreserveNodeAttrs
	// takes precedence over it.
	NodeAttrs map[string]any

	PreserveEdgeAttrs  bool
	PreserveNodeAttrs  bool
	PreserveGraphAttrs bool

	// Name labels the conversion (usually the algorithm it serves). It is
	// informational only.
	Name string

	// Column names; empty means "source", "target" and "edge_key".
	Source  string
	Target  string
	EdgeKey string
}

// FullPreservation returns options that keep every attribute on all tiers.
func FullPreservation() Options {
	return Options{PreserveEdgeAttrs: true, PreserveNodeAttrs: true, PreserveGraphAttrs: true}
}

func (o Options) columns() (src, dst, key string) {
	src, dst, key = o.Source, o.Target, o.EdgeKey
	if src == "" {
		src = tablegraph.DefaultSource
	}
	if dst == "" {
		dst = tablegraph.DefaultTarget
	}
	if key == "" {
		key = tablegraph.DefaultEdgeKey
	}
	return src, dst, key
}

// FromCanonical lays g out as a table graph. obj is a *graph.Graph or a
// graph.NodeSet; a node set becomes an edgeless undirected simple graph.
//
// The table holds one row per edge with the source and target columns, the
// key column for multigraphs and the attribute columns selected by opts
// (sorted by name). A node table is always attached so that isolated nodes
// and node order survive; it carries attribute columns only when opts
// selects them.
func FromCanonical(obj any, opts Options) (tg *tablegraph.TableGraph, err error) {
	g, err := canonical(obj)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		observability.Convert().OnConvert(observability.DirectionFromCanonical, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	}()

	src, dst, key := opts.columns()
	for _, name := range []string{src, dst} {
		if name == key && g.IsMultigraph() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "column name %q used for two roles", name)
		}
	}
	if src == dst {
		return nil, errors.New(errors.ErrCodeInvalidInput, "column name %q used for two roles", src)
	}

	edges := g.Edges()
	roles := []string{src, dst}
	if g.IsMultigraph() {
		roles = append(roles, key)
	}
	cols, err := edgeColumns(edges, roles, opts)
	if err != nil {
		return nil, err
	}
	tbl := table.New(roles...)
	for _, name := range cols {
		_ = tbl.AddColumn(name, nil)
	}
	for _, e := range edges {
		row := map[string]any{src: e.Source, dst: e.Target}
		if g.IsMultigraph() {
			row[key] = e.Key
		}
		for k, v := range e.Attrs {
			if tbl.HasColumn(k) && !slices.Contains(roles, k) {
				row[k] = v
			}
		}
		tbl.AppendRow(row)
	}
	for name, def := range opts.EdgeAttrs {
		if def != nil && !slices.Contains(roles, name) {
			tbl.FillMissing(name, def)
		}
	}

	nodes, err := nodeTable(g, opts)
	if err != nil {
		return nil, err
	}

	tg = tablegraph.New(tbl)
	acc := tg.Accessor()
	props := []tablegraph.Property{
		tablegraph.Source(src),
		tablegraph.Target(dst),
		tablegraph.Directed(g.IsDirected()),
		tablegraph.Multigraph(g.IsMultigraph()),
	}
	if g.IsMultigraph() {
		props = append(props, tablegraph.EdgeKey(key))
	}
	if err := acc.SetProperties(props...); err != nil {
		return nil, err
	}
	acc.SetNodeTable(nodes)
	if opts.PreserveGraphAttrs {
		for k, v := range g.Attrs() {
			acc.Graph()[k] = v
		}
	}
	return tg, nil
}

// edgeColumns returns the sorted attribute column names kept for edges. A
// kept attribute named like a role column is an error: its values would
// have no column to go to.
func edgeColumns(edges []graph.Edge, roles []string, opts Options) ([]string, error) {
	seen := make(map[string]bool)
	for _, e := range edges {
		for k := range e.Attrs {
			seen[k] = true
		}
	}
	var cols []string
	for k := range seen {
		if opts.EdgeAttrs != nil {
			if _, ok := opts.EdgeAttrs[k]; !ok {
				continue
			}
		} else if !opts.PreserveEdgeAttrs {
			continue
		}
		cols = append(cols, k)
	}
	slices.Sort(cols)
	for _, k := range cols {
		if slices.Contains(roles, k) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge attribute %q clashes with the role column of the same name", k)
		}
	}
	return cols, nil
}

// nodeTable builds the node table following the full node sequence of g.
func nodeTable(g *graph.Graph, opts Options) (*table.NodeTable, error) {
	keep := func(string) bool { return false }
	switch {
	case opts.PreserveNodeAttrs:
		keep = func(string) bool { return true }
	case opts.NodeAttrs != nil:
		keep = func(k string) bool {
			_, ok := opts.NodeAttrs[k]
			return ok
		}
	}

	nt, err := table.NewNodeTable(nil)
	if err != nil {
		return nil, err
	}
	for _, n := range g.NodeSet() {
		attrs := make(map[string]any)
		for k, v := range n.Attrs {
			if keep(k) {
				attrs[k] = v
			}
		}
		if err := nt.Append(n.ID, attrs); err != nil {
			return nil, err
		}
	}
	if !opts.PreserveNodeAttrs {
		for name, def := range opts.NodeAttrs {
			if def != nil {
				nt.Attributes().FillMissing(name, def)
			}
		}
	}
	return nt, nil
}

// ToCanonical rebuilds the canonical graph of a valid table graph.
//
// Anything else, including a *graph.Graph, a table graph that is not
// currently valid or an unrelated value, is returned unchanged.
//
// Every column other than source, target and (for multigraphs) the edge key
// is an edge attribute; missing cells are skipped. When a node table is
// attached its rows are added first, so node order follows the node table
// and isolated nodes are kept. Graph attributes are merged last.
func ToCanonical(obj any) (any, error) {
	tg, ok := obj.(*tablegraph.TableGraph)
	if !ok || tg == nil || tg.Validate() != nil {
		return obj, nil
	}
	start := time.Now()
	g, err := toCanonical(tg)
	nodes, edges := 0, 0
	if g != nil {
		nodes, edges = g.NodeCount(), g.EdgeCount()
	}
	observability.Convert().OnConvert(observability.DirectionToCanonical, nodes, edges, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Graph is [ToCanonical] for callers that need a canonical graph: a
// *graph.Graph is returned as is, a graph.NodeSet is expanded and a table
// graph is converted. Anything else is an error.
func Graph(obj any) (*graph.Graph, error) {
	if tg, ok := obj.(*tablegraph.TableGraph); ok {
		if err := tg.Validate(); err != nil {
			return nil, err
		}
		out, err := ToCanonical(tg)
		if err != nil {
			return nil, err
		}
		return out.(*graph.Graph), nil
	}
	return canonical(obj)
}

func canonical(obj any) (*graph.Graph, error) {
	switch g := obj.(type) {
	case *graph.Graph:
		if g == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "nil graph")
		}
		return g, nil
	case graph.NodeSet:
		return g.Graph()
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot convert %T to a graph", obj)
	}
}

func toCanonical(tg *tablegraph.TableGraph) (*graph.Graph, error) {
	acc := tg.Accessor()
	tbl := tg.Table()
	src, _ := acc.Source()
	dst, _ := acc.Target()
	key := ""
	if acc.Multigraph() {
		key, _ = acc.EdgeKey()
	}

	g := graph.New(acc.Directed(), acc.Multigraph())
	if nt := acc.NodeTable(); nt != nil {
		for i, id := range nt.Index() {
			if err := g.AddNode(id, nt.Attrs(i)); err != nil {
				return nil, fmt.Errorf("node table row %d: %w", i, err)
			}
		}
	}

	var attrCols []string
	for _, c := range tbl.Columns() {
		if c != src && c != dst && c != key {
			attrCols = append(attrCols, c)
		}
	}
	us, _ := tbl.Column(src)
	vs, _ := tbl.Column(dst)
	var ks []any
	if key != "" {
		ks, _ = tbl.Column(key)
	}
	for i := 0; i < tbl.Len(); i++ {
		attrs := make(graph.Attrs, len(attrCols))
		for _, c := range attrCols {
			if v := tbl.Value(c, i); v != nil {
				attrs[c] = v
			}
		}
		var err error
		if ks != nil && ks[i] != nil {
			err = g.AddEdgeWithKey(us[i], vs[i], ks[i], attrs)
		} else {
			_, err = g.AddEdge(us[i], vs[i], attrs)
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	for k, v := range acc.Graph() {
		g.Attrs()[k] = v
	}
	return g, nil
}
