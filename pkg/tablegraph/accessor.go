package tablegraph

import (
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/table"
)

// Accessor holds the graph metadata of a TableGraph: which columns hold the
// endpoints and edge keys, the graph kind, an optional node table, graph
// level attributes and an opaque result cache.
//
// An empty column name means the role is unset.
type Accessor struct {
	tg *TableGraph

	source     string
	target     string
	edgeKey    string
	directed   bool
	multigraph bool

	nodes *table.NodeTable
	graph graph.Attrs
	cache map[string]any
}

func newAccessor(tg *TableGraph) *Accessor {
	a := &Accessor{tg: tg, directed: true, graph: graph.Attrs{}}
	if tg.tbl.HasColumn(DefaultSource) {
		a.source = DefaultSource
	}
	if tg.tbl.HasColumn(DefaultTarget) {
		a.target = DefaultTarget
	}
	if tg.tbl.HasColumn(DefaultEdgeKey) {
		a.edgeKey = DefaultEdgeKey
	}
	return a
}

func (a *Accessor) missing(col string) error {
	return errors.New(errors.ErrCodeMissingColumn, "table does not have column %q", col)
}

// resolve checks that a stored or proposed column name exists.
func (a *Accessor) resolve(col string) error {
	if col != "" && !a.tg.tbl.HasColumn(col) {
		return a.missing(col)
	}
	return nil
}

func (a *Accessor) wrongKind() error {
	return errors.New(errors.ErrCodeWrongGraphKind, "edge_key is only available on multigraphs")
}

// Source returns the source column name, or "" if unset. It fails with
// MISSING_COLUMN when the stored name no longer exists in the table.
func (a *Accessor) Source() (string, error) {
	if err := a.resolve(a.source); err != nil {
		return "", err
	}
	return a.source, nil
}

// SetSource sets the source column. An empty name unsets it.
func (a *Accessor) SetSource(col string) error {
	if err := a.resolve(col); err != nil {
		return err
	}
	a.source = col
	return nil
}

// Target returns the target column name, or "" if unset.
func (a *Accessor) Target() (string, error) {
	if err := a.resolve(a.target); err != nil {
		return "", err
	}
	return a.target, nil
}

// SetTarget sets the target column. An empty name unsets it.
func (a *Accessor) SetTarget(col string) error {
	if err := a.resolve(col); err != nil {
		return err
	}
	a.target = col
	return nil
}

// EdgeKey returns the edge key column name, or "" if unset. It fails with
// WRONG_GRAPH_KIND unless the graph is a multigraph.
func (a *Accessor) EdgeKey() (string, error) {
	if !a.multigraph {
		return "", a.wrongKind()
	}
	if err := a.resolve(a.edgeKey); err != nil {
		return "", err
	}
	return a.edgeKey, nil
}

// SetEdgeKey sets the edge key column. An empty name unsets it.
func (a *Accessor) SetEdgeKey(col string) error {
	if !a.multigraph {
		return a.wrongKind()
	}
	if err := a.resolve(col); err != nil {
		return err
	}
	a.edgeKey = col
	return nil
}

// Directed reports whether rows are read as ordered pairs.
func (a *Accessor) Directed() bool { return a.directed }

// SetDirected sets the directed flag.
func (a *Accessor) SetDirected(v bool) { a.directed = v }

// Multigraph reports whether parallel edges are kept apart.
func (a *Accessor) Multigraph() bool { return a.multigraph }

// SetMultigraph sets the multigraph flag. A stored edge key is kept but is
// only reachable while the flag is true.
func (a *Accessor) SetMultigraph(v bool) { a.multigraph = v }

// CacheEnabled reports whether the result cache is present.
func (a *Accessor) CacheEnabled() bool { return a.cache != nil }

// SetCacheEnabled creates an empty cache when enabling (existing entries are
// kept) and discards the cache when disabling.
func (a *Accessor) SetCacheEnabled(v bool) {
	switch {
	case !v:
		a.cache = nil
	case a.cache == nil:
		a.cache = make(map[string]any)
	}
}

// NodeTable returns the attached node table, or nil.
func (a *Accessor) NodeTable() *table.NodeTable { return a.nodes }

// SetNodeTable attaches (or with nil, detaches) a node table.
func (a *Accessor) SetNodeTable(nt *table.NodeTable) { a.nodes = nt }

// Graph returns the graph attribute map. It is never nil and may be modified.
func (a *Accessor) Graph() graph.Attrs { return a.graph }

// SetGraph replaces the graph attribute map. nil resets it to empty.
func (a *Accessor) SetGraph(attrs graph.Attrs) {
	if attrs == nil {
		attrs = graph.Attrs{}
	}
	a.graph = attrs
}

// Properties lists the accessor's property names. edge_key is listed only
// for multigraphs.
func (a *Accessor) Properties() []string {
	props := []string{"source", "target"}
	if a.multigraph {
		props = append(props, "edge_key")
	}
	return append(props, "is_directed", "is_multigraph", "cache_enabled", "node_table", "graph")
}

// Property is one assignment for [Accessor.SetProperties].
type Property func(*update)

type update struct {
	source, target, edgeKey       *string
	directed, multigraph, cacheOn *bool
}

// Source assigns the source column.
func Source(col string) Property { return func(u *update) { u.source = &col } }

// Target assigns the target column.
func Target(col string) Property { return func(u *update) { u.target = &col } }

// EdgeKey assigns the edge key column.
func EdgeKey(col string) Property { return func(u *update) { u.edgeKey = &col } }

// Directed assigns the directed flag.
func Directed(v bool) Property { return func(u *update) { u.directed = &v } }

// Multigraph assigns the multigraph flag.
func Multigraph(v bool) Property { return func(u *update) { u.multigraph = &v } }

// CacheEnabled enables or disables the result cache.
func CacheEnabled(v bool) Property { return func(u *update) { u.cacheOn = &v } }

// SetProperties applies several assignments at once. Every value is checked
// against the final graph kind before anything is written, so on error no
// field has changed.
func (a *Accessor) SetProperties(props ...Property) error {
	var u update
	for _, p := range props {
		p(&u)
	}

	multi := a.multigraph
	if u.multigraph != nil {
		multi = *u.multigraph
	}
	if u.source != nil {
		if err := a.resolve(*u.source); err != nil {
			return err
		}
	}
	if u.target != nil {
		if err := a.resolve(*u.target); err != nil {
			return err
		}
	}
	if u.edgeKey != nil {
		if !multi {
			return a.wrongKind()
		}
		if err := a.resolve(*u.edgeKey); err != nil {
			return err
		}
	}

	if u.source != nil {
		a.source = *u.source
	}
	if u.target != nil {
		a.target = *u.target
	}
	if u.directed != nil {
		a.directed = *u.directed
	}
	if u.multigraph != nil {
		a.multigraph = *u.multigraph
	}
	if u.edgeKey != nil {
		a.edgeKey = *u.edgeKey
	}
	if u.cacheOn != nil {
		a.SetCacheEnabled(*u.cacheOn)
	}
	return nil
}
