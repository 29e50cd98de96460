// Package dot renders graphs as Graphviz node-link diagrams.
//
// # Usage
//
// Convert a canonical graph (or a table graph, through [TableToDOT]) to DOT
// source, then render it:
//
//	src := dot.ToDOT(g, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(src)
//
// Directed graphs produce a digraph with "->" edges and undirected graphs a
// graph with "--" edges. With Detailed set, node labels list the node
// attributes and multigraph edge labels start with the edge key.
//
// # Dependencies
//
// SVG rendering runs in process through [github.com/goccy/go-graphviz]. PDF
// and PNG output shell out to rsvg-convert from librsvg.
package dot
