package tablegraph

import (
	"maps"

	"github.com/google/uuid"

	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/table"
)

// BackendName is the engine identifier reported by valid table graphs.
const BackendName = "table"

// Default column names picked up when a table is first treated as a graph.
const (
	DefaultSource  = "source"
	DefaultTarget  = "target"
	DefaultEdgeKey = "edge_key"
)

// TableGraph is a table read as an edge list. It owns the table and the
// [Accessor] describing how rows map to edges.
//
// The table may be modified at any time, including removing columns that the
// accessor refers to. Such stale references surface as errors on access
// rather than being silently repaired.
type TableGraph struct {
	// ID identifies this instance in logs. Content hashes ignore it, so two
	// instances with equal content share cache entries. Clones get a new ID.
	ID uuid.UUID

	tbl *table.Table
	acc *Accessor
}

// New wraps t as a table graph. The accessor is created on first use.
// A nil t is replaced by an empty table.
func New(t *table.Table) *TableGraph {
	if t == nil {
		t = table.New()
	}
	return &TableGraph{ID: uuid.New(), tbl: t}
}

// Table returns the underlying table. Mutations are visible to the graph.
func (tg *TableGraph) Table() *table.Table { return tg.tbl }

// Accessor returns the graph metadata, creating it with default column roles
// on first call.
func (tg *TableGraph) Accessor() *Accessor {
	if tg.acc == nil {
		tg.acc = newAccessor(tg)
	}
	return tg.acc
}

// Validate reports whether the table currently qualifies as a graph: source
// and target must be set and name existing columns, and for multigraphs the
// edge key must be unset or name an existing column.
//
// The returned error has code INVALID_GRAPH. When a stored column name has
// gone stale, its MISSING_COLUMN error is the cause; when a role was never
// set there is no cause.
func (tg *TableGraph) Validate() error {
	a := tg.Accessor()
	for _, role := range []struct {
		name string
		get  func() (string, error)
	}{
		{"source", a.Source},
		{"target", a.Target},
	} {
		col, err := role.get()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "table is not a valid graph")
		}
		if col == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "table is not a valid graph: %s column is not set", role.name)
		}
	}
	if a.multigraph {
		if _, err := a.EdgeKey(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "table is not a valid graph")
		}
	}
	return nil
}

// BackendName returns the engine identifier of a valid table graph.
func (tg *TableGraph) BackendName() (string, error) {
	if err := tg.Validate(); err != nil {
		return "", err
	}
	return BackendName, nil
}

// Cache returns the result cache of a valid table graph. The map is nil when
// caching is disabled. Algorithms may read and write it freely.
func (tg *TableGraph) Cache() (map[string]any, error) {
	if err := tg.Validate(); err != nil {
		return nil, err
	}
	return tg.acc.cache, nil
}

// IsDirected reports whether a valid table graph is directed.
func (tg *TableGraph) IsDirected() (bool, error) {
	if err := tg.Validate(); err != nil {
		return false, err
	}
	return tg.acc.directed, nil
}

// IsMultigraph reports whether a valid table graph is a multigraph.
func (tg *TableGraph) IsMultigraph() (bool, error) {
	if err := tg.Validate(); err != nil {
		return false, err
	}
	return tg.acc.multigraph, nil
}

// Clone returns an independent deep copy: the table, node table, graph
// attributes and result cache are all copied. The clone gets a fresh ID.
func (tg *TableGraph) Clone() *TableGraph {
	out := &TableGraph{ID: uuid.New(), tbl: tg.tbl.Clone()}
	if tg.acc == nil {
		return out
	}
	a := *tg.acc
	a.tg = out
	a.graph = maps.Clone(tg.acc.graph)
	if tg.acc.cache != nil {
		a.cache = maps.Clone(tg.acc.cache)
	}
	if tg.acc.nodes != nil {
		a.nodes = tg.acc.nodes.Clone()
	}
	out.acc = &a
	return out
}
