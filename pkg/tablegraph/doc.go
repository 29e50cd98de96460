// Package tablegraph lets an ordinary table stand in for a graph.
//
// Each row of the table is one edge. The [Accessor] records which columns hold
// the endpoints (and, for multigraphs, the key telling parallel edges apart),
// whether the graph is directed or a multigraph, an optional node table with
// per-node attributes, graph level attributes and a result cache that
// algorithms may use to memoize work between calls.
//
// # Defaults
//
// The accessor is created the first time [TableGraph.Accessor] is called.
// Columns named "source", "target" and "edge_key" are picked up as the
// corresponding roles when present. Graphs start directed, simple and with
// caching disabled.
//
//	tg := tablegraph.New(tbl)
//	acc := tg.Accessor()
//	src, _ := acc.Source() // "source" if tbl has such a column
//
// # Validity
//
// A table graph is valid when source and target are set and name existing
// columns and, for multigraphs, the edge key is unset or names an existing
// column. [TableGraph.BackendName], [TableGraph.Cache], [TableGraph.IsDirected]
// and [TableGraph.IsMultigraph] fail with an INVALID_GRAPH error otherwise.
// If a column was removed after being assigned, the error's cause is the
// MISSING_COLUMN error naming it:
//
//	if _, err := tg.IsDirected(); errors.Is(err, errors.ErrCodeInvalidGraph) {
//	    cause := errors.Cause(err) // nil if a role was never set
//	}
//
// # Bulk Updates
//
// [Accessor.SetProperties] validates every assignment against the resulting
// graph kind before writing any of them:
//
//	err := acc.SetProperties(
//	    tablegraph.Multigraph(true),
//	    tablegraph.EdgeKey("key"),
//	    tablegraph.CacheEnabled(true),
//	)
package tablegraph
