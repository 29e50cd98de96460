package dispatch

import (
	"context"
	stderrors "errors"
	"maps"
	"slices"

	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/errors"
)

// ErrNotImplemented is returned by [Backend.Run] when an engine does not
// implement an algorithm for the given arguments. The dispatcher recovers
// from it by trying the next engine.
var ErrNotImplemented = stderrors.New("algorithm not implemented by backend")

// IsNotImplemented reports whether err means "try another engine": either
// [ErrNotImplemented] or an error carrying the NOT_IMPLEMENTED code.
func IsNotImplemented(err error) bool {
	return stderrors.Is(err, ErrNotImplemented) || errors.Is(err, errors.ErrCodeNotImplemented)
}

// Backend is a cooperating graph engine with its own graph representation.
type Backend interface {
	// Name returns the engine identifier used in priority lists.
	Name() string

	// ConvertFromCanonical turns a canonical graph (or node set) into the
	// engine's representation.
	ConvertFromCanonical(g any, opts convert.Options) (any, error)

	// ConvertToCanonical turns a value in the engine's representation into a
	// canonical graph. Values it does not recognise are returned unchanged.
	ConvertToCanonical(g any) (any, error)

	// ShouldRun reports whether the engine can and wants to run the named
	// algorithm for these arguments. It is consulted before any conversion.
	ShouldRun(name string, args Args) bool

	// Run executes the algorithm. Graph arguments are already in the
	// engine's representation. Return ErrNotImplemented to decline.
	Run(ctx context.Context, name string, args Args) (any, error)
}

// Backends is the registration table of engines keyed by name.
type Backends struct {
	m map[string]Backend
}

// NewBackends creates a table holding bs. It panics on invalid or
// duplicate names, since backends are wired once at startup.
func NewBackends(bs ...Backend) *Backends {
	t := &Backends{m: make(map[string]Backend, len(bs))}
	for _, b := range bs {
		if err := t.Register(b); err != nil {
			panic(err)
		}
	}
	return t
}

// Register adds b under its name.
func (t *Backends) Register(b Backend) error {
	name := b.Name()
	if err := errors.ValidateBackendName(name); err != nil {
		return err
	}
	if _, ok := t.m[name]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "backend %q already registered", name)
	}
	t.m[name] = b
	return nil
}

// Get returns the engine registered under name.
func (t *Backends) Get(name string) (Backend, bool) {
	b, ok := t.m[name]
	return b, ok
}

// Names returns the registered engine names in sorted order.
func (t *Backends) Names() []string {
	return slices.Sorted(maps.Keys(t.m))
}
