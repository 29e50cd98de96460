package dispatch

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/framegraph/pkg/errors"
)

// Args holds the arguments of one algorithm call.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Clone returns a copy whose slices and maps can be modified independently.
// Argument values themselves are shared.
func (a Args) Clone() Args {
	out := Args{Positional: slices.Clone(a.Positional)}
	if a.Keyword != nil {
		out.Keyword = maps.Clone(a.Keyword)
	}
	return out
}

// Get returns the argument at position pos if present, else the keyword
// argument name. Nil values count as absent.
func (a Args) Get(name string, pos int) (any, bool) {
	if pos >= 0 && pos < len(a.Positional) {
		v := a.Positional[pos]
		return v, v != nil
	}
	v, ok := a.Keyword[name]
	return v, ok && v != nil
}

// Func is the signature shared by canonical implementations and bound
// dispatch callables.
type Func func(ctx context.Context, args Args) (any, error)

// Algorithm describes how to call one algorithm: where its graph arguments
// are, which of those hold lists of graphs and whether it returns a graph.
type Algorithm struct {
	Name string

	// Graphs maps each graph parameter to its position.
	Graphs map[string]int

	// ListGraphs marks graph parameters whose value is a list of graphs.
	ListGraphs map[string]bool

	// ReturnsGraph is set when the result is a graph that must be converted
	// back into the caller's representation.
	ReturnsGraph bool

	// Func is the canonical implementation. Its graph arguments are
	// *graph.Graph values.
	Func Func
}

// Registry maps algorithm names to their descriptions. It is populated once
// at startup and only read afterwards.
type Registry struct {
	algs map[string]*Algorithm
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{algs: make(map[string]*Algorithm)}
}

// Register adds an algorithm. Names must be lower snake case and unique.
func (r *Registry) Register(alg Algorithm) error {
	if err := errors.ValidateAlgorithmName(alg.Name); err != nil {
		return err
	}
	if _, ok := r.algs[alg.Name]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "algorithm %q already registered", alg.Name)
	}
	for gname := range alg.ListGraphs {
		if _, ok := alg.Graphs[gname]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "algorithm %q: list parameter %q is not a graph parameter", alg.Name, gname)
		}
	}
	r.algs[alg.Name] = &alg
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(alg Algorithm) {
	if err := r.Register(alg); err != nil {
		panic(err)
	}
}

// Lookup returns the algorithm registered under name.
func (r *Registry) Lookup(name string) (*Algorithm, bool) {
	a, ok := r.algs[name]
	return a, ok
}

// Names returns the registered algorithm names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.algs))
}
