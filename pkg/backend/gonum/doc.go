// Package gonum is a cooperating graph engine backed by gonum.org/v1/gonum.
//
// Its native representation, [Graph], wraps a canonical graph and builds
// weighted gonum graphs from it on demand. The engine implements a handful
// of path and topology queries:
//
//	shortest_path(G, source, target=None, weight=None)
//	shortest_path_length(G, source, target=None, weight=None)
//	topological_sort(G)
//	connected_components(G)
//
// Without a target the path queries return a map keyed by every reachable
// node. Lengths are hop counts (int) when no weight attribute is named and
// summed weights (float64) otherwise.
//
// The same code serves as the canonical implementation of these algorithms
// through [Call], which also accepts multigraphs by collapsing parallel edges
// to the lightest one. As a dispatch target the engine declines multigraphs.
package gonum
