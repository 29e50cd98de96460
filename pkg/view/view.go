// Package view presents a table graph as one of the four conventional graph
// kinds.
//
// A [View] owns one table graph. Its kind is fixed at construction and the
// table graph's directed and multigraph flags always agree with it.
package view

import (
	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

// BackendName is the engine identifier of views.
const BackendName = "table_graph"

// Kind selects one of the four graph kinds.
type Kind struct {
	Directed bool
	Multi    bool
}

// The four graph kinds.
var (
	Graph        = Kind{}
	DiGraph      = Kind{Directed: true}
	MultiGraph   = Kind{Multi: true}
	MultiDiGraph = Kind{Directed: true, Multi: true}
)

// String returns the conventional name of the kind, e.g. "MultiDiGraph".
func (k Kind) String() string { return graph.KindName(k.Directed, k.Multi) }

// ToDirected returns the directed kind with the same multiplicity.
func (k Kind) ToDirected() Kind { return Kind{Directed: true, Multi: k.Multi} }

// ToUndirected returns the undirected kind with the same multiplicity.
func (k Kind) ToUndirected() Kind { return Kind{Multi: k.Multi} }

// CopyPolicy controls whether [FromTable] may copy the table graph.
type CopyPolicy int

const (
	// CopyIfNeeded wraps the table graph directly when its flags match the
	// view kind and copies it otherwise.
	CopyIfNeeded CopyPolicy = iota
	// CopyAlways always copies.
	CopyAlways
	// CopyNever never copies and fails when the flags do not match.
	CopyNever
)

// View is a table graph seen as a graph of a fixed kind.
type View struct {
	kind Kind
	tg   *tablegraph.TableGraph
}

// New builds a view of the given kind from incoming:
//   - nil yields an empty graph
//   - a *graph.Graph of the same kind is converted with every attribute kept
//   - a *View of the same kind is copied
//
// Anything else fails with an UNSUPPORTED error. attrs are merged into the
// graph attributes of the result.
func New(kind Kind, incoming any, attrs graph.Attrs) (*View, error) {
	var v *View
	switch in := incoming.(type) {
	case nil:
		v = empty(kind)
	case *View:
		if in == nil || in.kind != kind {
			return nil, unsupported(kind, incoming)
		}
		v = in.Copy(false)
	case *graph.Graph:
		if in == nil || in.IsDirected() != kind.Directed || in.IsMultigraph() != kind.Multi {
			return nil, unsupported(kind, incoming)
		}
		tg, err := convert.FromCanonical(in, convert.FullPreservation())
		if err != nil {
			return nil, err
		}
		v = &View{kind: kind, tg: tg}
	default:
		return nil, unsupported(kind, incoming)
	}
	for k, val := range attrs {
		v.Graph()[k] = val
	}
	return v, nil
}

func unsupported(kind Kind, incoming any) error {
	if g, ok := incoming.(*graph.Graph); ok && g != nil {
		return errors.New(errors.ErrCodeUnsupported, "cannot create %s from %s", kind, g.KindName())
	}
	if v, ok := incoming.(*View); ok && v != nil {
		return errors.New(errors.ErrCodeUnsupported, "cannot create %s from %s view", kind, v.kind)
	}
	return errors.New(errors.ErrCodeUnsupported, "cannot create %s from %T", kind, incoming)
}

func empty(kind Kind) *View {
	cols := []string{tablegraph.DefaultSource, tablegraph.DefaultTarget}
	if kind.Multi {
		cols = append(cols, tablegraph.DefaultEdgeKey)
	}
	tg := tablegraph.New(table.New(cols...))
	stamp(tg, kind)
	nt, _ := table.NewNodeTable(nil)
	tg.Accessor().SetNodeTable(nt)
	return &View{kind: kind, tg: tg}
}

func stamp(tg *tablegraph.TableGraph, kind Kind) {
	acc := tg.Accessor()
	acc.SetDirected(kind.Directed)
	acc.SetMultigraph(kind.Multi)
}

// FromTable wraps a valid table graph as a view of the given kind.
//
// Under CopyIfNeeded the table graph is shared when its flags match kind and
// copied otherwise; under CopyAlways it is always copied. A copy is stamped
// with the kind's flags. Under CopyNever a flag mismatch fails with a
// COPY_REQUIRED error.
func FromTable(kind Kind, tg *tablegraph.TableGraph, policy CopyPolicy) (*View, error) {
	if tg == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil table graph")
	}
	if err := tg.Validate(); err != nil {
		return nil, err
	}
	acc := tg.Accessor()
	matches := acc.Directed() == kind.Directed && acc.Multigraph() == kind.Multi
	if matches && policy != CopyAlways {
		return &View{kind: kind, tg: tg}, nil
	}
	if policy == CopyNever {
		return nil, errors.New(errors.ErrCodeCopyRequired,
			"unable to avoid copy while creating a %s as requested; use CopyIfNeeded to allow a copy when needed", kind)
	}
	cp := tg.Clone()
	stamp(cp, kind)
	return &View{kind: kind, tg: cp}, nil
}

// Copy returns a view of the same kind. With asView the new view shares the
// table graph; otherwise the table, node table, graph attributes and result
// cache are all copied.
func (v *View) Copy(asView bool) *View {
	if asView {
		return &View{kind: v.kind, tg: v.tg}
	}
	return &View{kind: v.kind, tg: v.tg.Clone()}
}

// Table returns the underlying table graph.
func (v *View) Table() *tablegraph.TableGraph { return v.tg }

// Kind returns the view's kind.
func (v *View) Kind() Kind { return v.kind }

// IsDirected reports whether the view is directed.
func (v *View) IsDirected() bool { return v.kind.Directed }

// IsMultigraph reports whether the view is a multigraph.
func (v *View) IsMultigraph() bool { return v.kind.Multi }

// ToDirectedKind returns the kind of the directed counterpart.
func (v *View) ToDirectedKind() Kind { return v.kind.ToDirected() }

// ToUndirectedKind returns the kind of the undirected counterpart.
func (v *View) ToUndirectedKind() Kind { return v.kind.ToUndirected() }

// BackendName returns the engine identifier of views.
func (v *View) BackendName() string { return BackendName }

// Graph returns the graph attributes, shared with the table graph.
func (v *View) Graph() graph.Attrs { return v.tg.Accessor().Graph() }

// SetGraph replaces the graph attributes.
func (v *View) SetGraph(attrs graph.Attrs) { v.tg.Accessor().SetGraph(attrs) }

// Name returns the "name" graph attribute, or "" if unset.
func (v *View) Name() string {
	s, _ := v.Graph()["name"].(string)
	return s
}

// SetName sets the "name" graph attribute.
func (v *View) SetName(name string) { v.Graph()["name"] = name }

// Canonical converts the view to a canonical graph.
func (v *View) Canonical() (*graph.Graph, error) {
	return convert.Graph(v.tg)
}
