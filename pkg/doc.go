// Package pkg provides the core libraries of framegraph, graph analytics on
// edge tables.
//
// # Overview
//
// framegraph treats a column-oriented edge table as a graph: two columns name
// the endpoints of each edge, an optional third column keys parallel edges,
// and every other column is an edge attribute. Algorithms run on whichever
// registered engine implements them, with the canonical in-memory graph as
// the fallback. The pkg directory is organized into four areas:
//
//  1. Data model: [table], [tablegraph], [graph]
//  2. Conversion and presentation: [convert], [view]
//  3. Execution: [dispatch], [backend], [algorithms]
//  4. Infrastructure: [cache], [observability], [pipeline], [render/dot]
//
// # Architecture
//
// The typical data flow through framegraph:
//
//	CSV edge table (+ node table)
//	         ↓
//	    [tablegraph] package (endpoint roles, direction, multigraph flag)
//	         ↓
//	    [dispatch] package (pick an engine, convert arguments)
//	         ↓
//	    [backend] engines or the [graph] canonical implementation
//	         ↓
//	    JSON result, table graph, or DOT/SVG/PNG/PDF drawing
//
// # Quick Start
//
//	t, _ := table.ImportCSV("edges.csv")
//	tg := tablegraph.New(t)
//
//	d, _ := backend.NewDispatcher(algorithms.Standard(), backend.All(),
//	    backend.TableName, []string{backend.GonumName}, nil)
//	path, _ := d.Call(ctx, "shortest_path", dispatch.Args{
//	    Positional: []any{tg},
//	    Keyword:    map[string]any{"source": "a", "target": "d", "weight": "cost"},
//	})
//
// # Main Packages
//
// [table] - Column-oriented tables with typed cells and node tables indexed
// by node ID. CSV import and export.
//
// [tablegraph] - An edge table plus an [tablegraph.Accessor] holding the
// endpoint roles and graph-level attributes.
//
// [graph] - The canonical graph model in all four kinds (Graph, DiGraph,
// MultiGraph, MultiDiGraph) and its JSON node-link format.
//
// [convert] - Lossless conversion between table graphs and canonical graphs.
//
// [view] - A table graph presented as a fixed graph kind.
//
// [dispatch] - The algorithm registry and the cross-engine dispatcher.
//
// [backend] - The table and view engines, and the gonum-backed engine in
// [backend/gonum].
//
// [cache] - File, Redis and null stores for results and rendered artifacts.
//
// [observability] - Hooks for dispatch, conversion and cache events, with a
// Prometheus implementation in [observability/prom].
//
// [pipeline] - Cached algorithm runs and rendering, shared by the CLI.
//
// [render/dot] - DOT generation and Graphviz rendering.
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/...
//
// [table]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/table
// [tablegraph]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/tablegraph
// [tablegraph.Accessor]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/tablegraph#Accessor
// [graph]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/graph
// [convert]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/convert
// [view]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/view
// [dispatch]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/dispatch
// [backend]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/backend
// [backend/gonum]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/backend/gonum
// [algorithms]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/algorithms
// [cache]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/observability/prom
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/pipeline
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/render/dot
package pkg
