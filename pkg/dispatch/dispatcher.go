package dispatch

import (
	"context"
	"reflect"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/observability"
)

// Canonical names the fallback engine: the registry's own implementations
// running on canonical graphs.
const Canonical = "canonical"

// testingExclusions are algorithms that would recurse into the dispatcher
// while the test suite runs with a table engine as the default backend.
var testingExclusions = []string{"empty_graph", "from_pandas_edgelist"}

// TestingExclusions returns the algorithm names to exclude when testBackend
// (the engine under test) is one of the table engines, and nil otherwise.
func TestingExclusions(testBackend string, tableEngines ...string) map[string]bool {
	if !slices.Contains(tableEngines, testBackend) {
		return nil
	}
	out := make(map[string]bool, len(testingExclusions))
	for _, name := range testingExclusions {
		out[name] = true
	}
	return out
}

// Dispatcher runs registered algorithms on the best available engine.
//
// For each call the engines in Priority are tried in order. The self engine
// and its Siblings are skipped, as is any engine whose ShouldRun declines.
// Graph arguments are converted from the self engine's representation to the
// candidate's through the canonical model. An engine returning
// ErrNotImplemented passes the call on to the next; any other error is
// returned at once. When no engine takes the call, the registry's canonical
// implementation runs. Graph results are converted back into the self
// engine's representation with every attribute preserved.
//
// A Dispatcher is read-only after construction and safe for concurrent use
// as long as its engines are.
type Dispatcher struct {
	Registry *Registry
	Backends *Backends

	// Self is the engine whose representation callers use. It must be
	// registered in Backends.
	Self string

	// Siblings are engines sharing Self's representation family. They are
	// never dispatched to, since they would dispatch right back.
	Siblings []string

	// Priority is the externally configured engine preference. It is read
	// but never modified.
	Priority []string

	// Exclude hides algorithm names from this dispatcher.
	Exclude map[string]bool

	Logger *log.Logger
}

// New creates a dispatcher. A nil logger is replaced by log.Default().
func New(reg *Registry, backends *Backends, self string, priority []string, logger *log.Logger) *Dispatcher {
	if reg == nil {
		reg = NewRegistry()
	}
	if backends == nil {
		backends = NewBackends()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		Registry: reg,
		Backends: backends,
		Self:     self,
		Priority: priority,
		Logger:   logger,
	}
}

func (d *Dispatcher) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}

// Lookup returns the algorithm for name, or an UNKNOWN_ALGORITHM error when
// it is not registered or is excluded.
func (d *Dispatcher) Lookup(name string) (*Algorithm, error) {
	alg, ok := d.Registry.Lookup(name)
	if !ok || d.Exclude[name] {
		return nil, errors.New(errors.ErrCodeUnknownAlgorithm, "backend %q has no attribute %q", d.Self, name)
	}
	return alg, nil
}

// Func returns a callable bound to name.
func (d *Dispatcher) Func(name string) (Func, error) {
	if _, err := d.Lookup(name); err != nil {
		return nil, err
	}
	return func(ctx context.Context, args Args) (any, error) {
		return d.Call(ctx, name, args)
	}, nil
}

// Info returns engine level configuration. It is currently always empty.
func (d *Dispatcher) Info() map[string]any {
	return map[string]any{}
}

// Call runs the named algorithm once and returns its result.
func (d *Dispatcher) Call(ctx context.Context, name string, args Args) (any, error) {
	alg, err := d.Lookup(name)
	if err != nil {
		return nil, err
	}
	hooks := observability.Dispatch()
	hooks.OnDispatchStart(ctx, name)
	start := time.Now()

	result, ran, err := d.call(ctx, alg, args)

	hooks.OnDispatchComplete(ctx, name, ran, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	d.logger().Debug("dispatched", "algorithm", name, "backend", ran, "duration", time.Since(start))
	return result, nil
}

func (d *Dispatcher) call(ctx context.Context, alg *Algorithm, args Args) (any, string, error) {
	hooks := observability.Dispatch()
	for _, name := range d.Priority {
		if name == d.Self || slices.Contains(d.Siblings, name) {
			hooks.OnBackendSkip(ctx, alg.Name, name, "self")
			continue
		}
		if name == Canonical {
			continue
		}
		be, ok := d.Backends.Get(name)
		if !ok {
			d.logger().Debug("unknown backend in priority list", "backend", name)
			continue
		}
		if !be.ShouldRun(alg.Name, args) {
			d.logger().Debug("backend declined", "algorithm", alg.Name, "backend", name)
			hooks.OnBackendSkip(ctx, alg.Name, name, "declined")
			continue
		}
		result, err := d.runWith(ctx, alg, be, args)
		if IsNotImplemented(err) {
			d.logger().Debug("backend does not implement algorithm", "algorithm", alg.Name, "backend", name)
			hooks.OnBackendSkip(ctx, alg.Name, name, "not_implemented")
			continue
		}
		return result, name, err
	}
	result, err := d.runWith(ctx, alg, nil, args)
	return result, Canonical, err
}

// runWith converts graph arguments for the target engine (nil means the
// canonical implementation), runs the algorithm and converts a graph result
// back.
func (d *Dispatcher) runWith(ctx context.Context, alg *Algorithm, to Backend, args Args) (any, error) {
	from, ok := d.Backends.Get(d.Self)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "self backend %q is not registered", d.Self)
	}
	opts := convert.FullPreservation()
	opts.Name = alg.Name

	conv := func(g any) (any, error) {
		gc, err := from.ConvertToCanonical(g)
		if err != nil || to == nil {
			return gc, err
		}
		return to.ConvertFromCanonical(gc, opts)
	}

	converted := args.Clone()
	for gname, pos := range alg.Graphs {
		val, ok := args.Get(gname, pos)
		if !ok {
			continue
		}
		var err error
		if alg.ListGraphs[gname] {
			val, err = convertList(val, conv)
		} else {
			val, err = conv(val)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "convert argument %q", gname)
		}
		if _, kw := args.Keyword[gname]; kw {
			converted.Keyword[gname] = val
		} else {
			converted.Positional[pos] = val
		}
	}

	var (
		result any
		err    error
	)
	if to == nil {
		if alg.Func == nil {
			return nil, errors.New(errors.ErrCodeNotImplemented, "algorithm %q has no canonical implementation", alg.Name)
		}
		result, err = alg.Func(ctx, converted)
	} else {
		result, err = to.Run(ctx, alg.Name, converted)
	}
	if err != nil || !alg.ReturnsGraph {
		return result, err
	}

	if to != nil {
		if result, err = to.ConvertToCanonical(result); err != nil {
			return nil, err
		}
	}
	return from.ConvertFromCanonical(result, opts)
}

// convertList converts every element of a slice-valued graph argument.
func convertList(val any, conv func(any) (any, error)) (any, error) {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.New(errors.ErrCodeInvalidInput, "expected a list of graphs, got %T", val)
	}
	out := make([]any, rv.Len())
	for i := range out {
		g, err := conv(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}
