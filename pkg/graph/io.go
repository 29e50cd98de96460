package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type document struct {
	Directed   bool      `json:"directed"`
	Multigraph bool      `json:"multigraph"`
	Graph      Attrs     `json:"graph,omitempty"`
	Nodes      []nodeDoc `json:"nodes"`
	Edges      []edgeDoc `json:"edges"`
}

type nodeDoc struct {
	ID    any   `json:"id"`
	Attrs Attrs `json:"attrs,omitempty"`
}

type edgeDoc struct {
	Source any   `json:"source"`
	Target any   `json:"target"`
	Key    any   `json:"key,omitempty"`
	Attrs  Attrs `json:"attrs,omitempty"`
}

// ReadJSON decodes a node-link JSON document from r into a Graph.
//
// Numbers are decoded as int when integral and float64 otherwise, so node
// identifiers such as 1 stay ints across a round trip. Edges may reference
// nodes that are not listed; those nodes are created in edge order after
// the listed ones. Multigraph edges without a key get one assigned.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Graph, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := New(doc.Directed, doc.Multigraph)
	for k, v := range doc.Graph {
		g.attrs[k] = normalize(v)
	}
	for _, n := range doc.Nodes {
		id := normalize(n.ID)
		if err := g.AddNode(id, normalizeAttrs(n.Attrs)); err != nil {
			return nil, fmt.Errorf("node %v: %w", id, err)
		}
	}
	for _, e := range doc.Edges {
		u, v := normalize(e.Source), normalize(e.Target)
		var err error
		if e.Key != nil && g.multi {
			err = g.AddEdgeWithKey(u, v, normalize(e.Key), normalizeAttrs(e.Attrs))
		} else {
			_, err = g.AddEdge(u, v, normalizeAttrs(e.Attrs))
		}
		if err != nil {
			return nil, fmt.Errorf("edge %v->%v: %w", u, v, err)
		}
	}
	return g, nil
}

// WriteJSON encodes g as indented node-link JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *Graph, w io.Writer) error {
	doc := document{
		Directed:   g.directed,
		Multigraph: g.multi,
		Graph:      g.attrs,
		Nodes:      make([]nodeDoc, len(g.nodes)),
		Edges:      make([]edgeDoc, len(g.edges)),
	}
	for i, id := range g.nodes {
		doc.Nodes[i] = nodeDoc{ID: id, Attrs: g.nodeAttrs[id]}
	}
	for i, e := range g.edges {
		doc.Edges[i] = edgeDoc{Source: e.Source, Target: e.Target, Key: e.Key, Attrs: e.Attrs}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportJSON reads a JSON file at path and returns the decoded Graph.
func ImportJSON(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

func normalizeAttrs(a Attrs) Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = normalize(v)
	}
	return out
}

// normalize converts json.Number values (recursively) to int or float64.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
