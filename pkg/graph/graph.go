package graph

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

var (
	// ErrNonComparableNode is returned by [Graph.AddNode] and [Graph.AddEdge]
	// when a node identifier cannot be used as a map key (slices, maps, nil).
	ErrNonComparableNode = errors.New("node identifier must be comparable")

	// ErrNonComparableKey is returned by [Graph.AddEdgeWithKey] when an edge
	// key cannot be used as a map key.
	ErrNonComparableKey = errors.New("edge key must be comparable")

	// ErrUnknownNode is returned by lookups that name a node not in the graph.
	ErrUnknownNode = errors.New("unknown node")
)

// Attrs stores arbitrary key-value pairs attached to a node, an edge or the
// graph itself. Attribute maps returned by Graph are never nil.
type Attrs map[string]any

// Clone returns a shallow copy of a. A nil map clones to an empty one.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	maps.Copy(out, a)
	return out
}

// Edge is one edge of a Graph. Key is nil for simple graphs.
type Edge struct {
	Source any
	Target any
	Key    any
	Attrs  Attrs
}

// pair is the lookup key for edges between two endpoints.
type pair struct{ u, v any }

// Graph is the canonical in-memory graph model used as the lingua franca
// between table graphs and cooperating engines.
//
// A Graph is directed or undirected and simple or multi. Nodes and edges are
// kept in insertion order, which is also iteration order. Every node, every
// edge and the graph itself carry an [Attrs] map.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	directed bool
	multi    bool
	attrs    Attrs

	nodes     []any
	nodeAttrs map[any]Attrs

	edges []*Edge
	pairs map[pair][]*Edge
}

// New creates an empty graph of the given kind.
func New(directed, multigraph bool) *Graph {
	return &Graph{
		directed:  directed,
		multi:     multigraph,
		attrs:     Attrs{},
		nodeAttrs: make(map[any]Attrs),
		pairs:     make(map[pair][]*Edge),
	}
}

// IsDirected reports whether edges are ordered pairs.
func (g *Graph) IsDirected() bool { return g.directed }

// IsMultigraph reports whether parallel edges are kept apart by key.
func (g *Graph) IsMultigraph() bool { return g.multi }

// Attrs returns the graph-level attribute map. It can be safely modified.
func (g *Graph) Attrs() Attrs { return g.attrs }

// KindName returns the conventional class name for the graph's kind:
// "Graph", "DiGraph", "MultiGraph" or "MultiDiGraph".
func (g *Graph) KindName() string { return KindName(g.directed, g.multi) }

// KindName returns the conventional class name for a graph kind.
func KindName(directed, multigraph bool) string {
	switch {
	case directed && multigraph:
		return "MultiDiGraph"
	case multigraph:
		return "MultiGraph"
	case directed:
		return "DiGraph"
	default:
		return "Graph"
	}
}

// AddNode adds id to the graph, or merges attrs into the attributes of an
// existing node. Returns ErrNonComparableNode for unusable identifiers.
func (g *Graph) AddNode(id any, attrs Attrs) error {
	if !isComparable(id) {
		return fmt.Errorf("%w: %v (%T)", ErrNonComparableNode, id, id)
	}
	a, ok := g.nodeAttrs[id]
	if !ok {
		a = Attrs{}
		g.nodeAttrs[id] = a
		g.nodes = append(g.nodes, id)
	}
	maps.Copy(a, attrs)
	return nil
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id any) bool {
	if !isComparable(id) {
		return false
	}
	_, ok := g.nodeAttrs[id]
	return ok
}

// NodeAttrs returns the attribute map of id, which can be safely modified.
func (g *Graph) NodeAttrs(id any) (Attrs, bool) {
	if !isComparable(id) {
		return nil, false
	}
	a, ok := g.nodeAttrs[id]
	return a, ok
}

// Nodes returns the node identifiers in insertion order.
func (g *Graph) Nodes() []any { return slices.Clone(g.nodes) }

// NodeSet returns the nodes with their attributes, in insertion order.
// Attribute maps are shared with the graph.
func (g *Graph) NodeSet() NodeSet {
	out := make(NodeSet, len(g.nodes))
	for i, id := range g.nodes {
		out[i] = NodeData{ID: id, Attrs: g.nodeAttrs[id]}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, counting parallel edges separately.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns a copy of all edges in insertion order. Attribute maps are
// shared with the graph.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = *e
	}
	return out
}

// AddEdge adds an edge u-v, creating missing endpoints.
//
// For simple graphs an existing u-v edge has attrs merged into it. For
// multigraphs a new parallel edge is always created and its key is the
// lowest unused non-negative integer for that endpoint pair, counting up
// from the number of edges already between them. The key is returned.
func (g *Graph) AddEdge(u, v any, attrs Attrs) (any, error) {
	if !g.multi {
		return nil, g.addEdge(u, v, nil, attrs)
	}
	if err := g.ensureNodes(u, v); err != nil {
		return nil, err
	}
	key := g.newKey(u, v)
	return key, g.addEdge(u, v, key, attrs)
}

// AddEdgeWithKey adds or updates the edge u-v with the given key. For simple
// graphs the key is ignored; for multigraphs an existing edge with the same
// key between u and v has attrs merged into it.
func (g *Graph) AddEdgeWithKey(u, v, key any, attrs Attrs) error {
	if !g.multi {
		key = nil
	} else if !isComparable(key) {
		return fmt.Errorf("%w: %v (%T)", ErrNonComparableKey, key, key)
	}
	return g.addEdge(u, v, key, attrs)
}

func (g *Graph) ensureNodes(u, v any) error {
	if err := g.AddNode(u, nil); err != nil {
		return err
	}
	return g.AddNode(v, nil)
}

func (g *Graph) addEdge(u, v, key any, attrs Attrs) error {
	if err := g.ensureNodes(u, v); err != nil {
		return err
	}
	for _, e := range g.between(u, v) {
		if !g.multi || e.Key == key {
			maps.Copy(e.Attrs, attrs)
			return nil
		}
	}
	e := &Edge{Source: u, Target: v, Key: key, Attrs: attrs.Clone()}
	g.edges = append(g.edges, e)
	p := g.pairOf(u, v)
	g.pairs[p] = append(g.pairs[p], e)
	return nil
}

// newKey mirrors the conventional multigraph key assignment.
func (g *Graph) newKey(u, v any) int {
	used := make(map[any]bool)
	for _, e := range g.between(u, v) {
		used[e.Key] = true
	}
	key := len(used)
	for used[key] {
		key++
	}
	return key
}

// pairOf returns the lookup key under which u-v edges are stored. For
// undirected graphs an existing reversed pair is reused.
func (g *Graph) pairOf(u, v any) pair {
	if !g.directed {
		if _, ok := g.pairs[pair{v, u}]; ok {
			return pair{v, u}
		}
	}
	return pair{u, v}
}

// between returns the edges joining u and v, respecting direction.
func (g *Graph) between(u, v any) []*Edge {
	if !isComparable(u) || !isComparable(v) {
		return nil
	}
	if es, ok := g.pairs[pair{u, v}]; ok {
		return es
	}
	if !g.directed {
		return g.pairs[pair{v, u}]
	}
	return nil
}

// HasEdge reports whether at least one edge joins u and v.
func (g *Graph) HasEdge(u, v any) bool { return len(g.between(u, v)) > 0 }

// EdgeAttrs returns the attributes of the u-v edge with the given key
// (ignored for simple graphs).
func (g *Graph) EdgeAttrs(u, v, key any) (Attrs, bool) {
	for _, e := range g.between(u, v) {
		if !g.multi || e.Key == key {
			return e.Attrs, true
		}
	}
	return nil, false
}

// Successors returns the distinct nodes reachable over one edge from id, in
// edge insertion order. For undirected graphs these are all neighbours.
func (g *Graph) Successors(id any) ([]any, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownNode, id)
	}
	seen := make(map[any]bool)
	var out []any
	for _, e := range g.edges {
		var next any
		switch {
		case e.Source == id:
			next = e.Target
		case !g.directed && e.Target == id:
			next = e.Source
		default:
			continue
		}
		if !seen[next] {
			seen[next] = true
			out = append(out, next)
		}
	}
	return out, nil
}

// Copy returns a deep copy of the graph structure. Attribute maps are copied
// one level deep; attribute values are shared.
func (g *Graph) Copy() *Graph {
	out := New(g.directed, g.multi)
	maps.Copy(out.attrs, g.attrs)
	for _, id := range g.nodes {
		_ = out.AddNode(id, g.nodeAttrs[id])
	}
	for _, e := range g.edges {
		_ = out.addEdge(e.Source, e.Target, e.Key, e.Attrs)
	}
	return out
}

// Equal reports whether g and o have the same kind, node set, edge set (with
// multiplicity and keys for multigraphs) and equal attributes on every tier.
// Node and edge order are not compared.
func (g *Graph) Equal(o *Graph) bool {
	if g.directed != o.directed || g.multi != o.multi {
		return false
	}
	if !reflect.DeepEqual(g.attrs, o.attrs) {
		return false
	}
	if len(g.nodes) != len(o.nodes) || len(g.edges) != len(o.edges) {
		return false
	}
	for id, a := range g.nodeAttrs {
		b, ok := o.nodeAttrs[id]
		if !ok || !reflect.DeepEqual(a, b) {
			return false
		}
	}
	for _, e := range g.edges {
		b, ok := o.EdgeAttrs(e.Source, e.Target, e.Key)
		if !ok || !reflect.DeepEqual(e.Attrs, b) {
			return false
		}
	}
	return true
}

// NodeData is one entry of a NodeSet.
type NodeData struct {
	ID    any
	Attrs Attrs
}

// NodeSet is a bare node collection without edges. Converters treat it as an
// undirected simple graph holding exactly these nodes.
type NodeSet []NodeData

// Graph builds the edgeless undirected simple graph holding the node set.
func (ns NodeSet) Graph() (*Graph, error) {
	g := New(false, false)
	for _, n := range ns {
		if err := g.AddNode(n.ID, n.Attrs); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// isComparable checks the value, not just its type: an array or struct of
// interfaces is only usable as a map key when none of them holds a slice,
// map or func.
func isComparable(v any) bool {
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Comparable()
}
