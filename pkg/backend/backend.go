// Package backend provides the engines that take part in dispatch.
//
// [Table] serves *tablegraph.TableGraph values and [View] serves *view.View
// values. Both are self engines: they convert but never run algorithms, so
// a dispatcher serving one of them hands every call to a cooperating engine
// such as the gonum engine, or to the canonical implementation.
package backend

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framegraph/pkg/backend/gonum"
	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/dispatch"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
	"github.com/matzehuels/framegraph/pkg/view"
)

// Engine names.
const (
	TableName = tablegraph.BackendName
	ViewName  = view.BackendName
	GonumName = gonum.Name
)

// Table is the engine for table graphs.
type Table struct{}

// Name implements dispatch.Backend.
func (Table) Name() string { return TableName }

// ConvertFromCanonical implements dispatch.Backend.
func (Table) ConvertFromCanonical(g any, opts convert.Options) (any, error) {
	return convert.FromCanonical(g, opts)
}

// ConvertToCanonical implements dispatch.Backend. Views are unwrapped to
// their table graph first.
func (Table) ConvertToCanonical(g any) (any, error) {
	if v, ok := g.(*view.View); ok {
		return convert.ToCanonical(v.Table())
	}
	return convert.ToCanonical(g)
}

// ShouldRun implements dispatch.Backend. Table graphs run nothing natively.
func (Table) ShouldRun(string, dispatch.Args) bool { return false }

// Run implements dispatch.Backend.
func (Table) Run(context.Context, string, dispatch.Args) (any, error) {
	return nil, dispatch.ErrNotImplemented
}

// View is the engine for graph views.
type View struct{}

// Name implements dispatch.Backend.
func (View) Name() string { return ViewName }

// ConvertFromCanonical converts g into a table graph and wraps it in a view
// of the matching kind.
func (View) ConvertFromCanonical(g any, opts convert.Options) (any, error) {
	tg, err := convert.FromCanonical(g, opts)
	if err != nil {
		return nil, err
	}
	acc := tg.Accessor()
	kind := view.Kind{Directed: acc.Directed(), Multi: acc.Multigraph()}
	return view.FromTable(kind, tg, view.CopyIfNeeded)
}

// ConvertToCanonical implements dispatch.Backend.
func (View) ConvertToCanonical(g any) (any, error) {
	return Table{}.ConvertToCanonical(g)
}

// ShouldRun implements dispatch.Backend. Views run nothing natively.
func (View) ShouldRun(string, dispatch.Args) bool { return false }

// Run implements dispatch.Backend.
func (View) Run(context.Context, string, dispatch.Args) (any, error) {
	return nil, dispatch.ErrNotImplemented
}

// All returns the table, view and gonum engines plus any extra ones.
func All(extra ...dispatch.Backend) *dispatch.Backends {
	bs := append([]dispatch.Backend{Table{}, View{}, gonum.Engine{}}, extra...)
	return dispatch.NewBackends(bs...)
}

// NewDispatcher returns a dispatcher serving self, which must be TableName
// or ViewName. The other table engine is registered as its sibling.
func NewDispatcher(reg *dispatch.Registry, backends *dispatch.Backends, self string, priority []string, logger *log.Logger) (*dispatch.Dispatcher, error) {
	var sibling string
	switch self {
	case TableName:
		sibling = ViewName
	case ViewName:
		sibling = TableName
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not a table engine", self)
	}
	if backends == nil {
		backends = All()
	}
	if _, ok := backends.Get(self); !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "backend %q is not registered", self)
	}
	d := dispatch.New(reg, backends, self, priority, logger)
	d.Siblings = []string{sibling}
	return d, nil
}
