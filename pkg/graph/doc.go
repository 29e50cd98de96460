// Package graph provides the canonical in-memory graph model.
//
// The canonical model is the lingua franca between table graphs and every
// cooperating engine: conversions always pass through it.
//
// # Core Types
//
//   - [Graph]: directed or undirected, simple or multi graph with ordered nodes
//   - [Edge]: one edge, keyed for multigraphs
//   - [Attrs]: attribute map used on all three tiers (node, edge, graph)
//   - [NodeSet]: bare node collection without edges
//
// # Attribute Tiers
//
// Every node, every edge and the graph itself carry an [Attrs] map:
//
//	g := graph.New(true, false)
//	_ = g.AddNode("a", graph.Attrs{"color": "red"})
//	_, _ = g.AddEdge("a", "b", graph.Attrs{"weight": 2.5})
//	g.Attrs()["name"] = "example"
//
// # Multigraph Keys
//
// Parallel edges in multigraphs are told apart by a key. [Graph.AddEdge]
// assigns the lowest unused non-negative integer for the endpoint pair;
// [Graph.AddEdgeWithKey] uses a caller-supplied key.
//
// # Serialization
//
// Graphs use a node-link JSON format that round-trips all three tiers:
//
//	{
//	  "directed": true,
//	  "multigraph": false,
//	  "graph": {"name": "example"},
//	  "nodes": [{"id": "a", "attrs": {"color": "red"}}, {"id": "b"}],
//	  "edges": [{"source": "a", "target": "b", "attrs": {"weight": 2.5}}]
//	}
//
// Use [ReadJSON], [WriteJSON], [ImportJSON] and [ExportJSON].
package graph
