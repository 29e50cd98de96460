package gonum

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/dispatch"
	"github.com/matzehuels/framegraph/pkg/errors"
)

// Name is the engine identifier.
const Name = "gonum"

// Algorithms lists what the engine implements.
var Algorithms = []string{
	"connected_components",
	"shortest_path",
	"shortest_path_length",
	"topological_sort",
}

// Engine is the gonum cooperating engine. It runs on simple graphs only and
// declines multigraphs and algorithms outside [Algorithms].
type Engine struct{}

// Name implements dispatch.Backend.
func (Engine) Name() string { return Name }

// ConvertFromCanonical wraps a canonical graph or node set.
func (Engine) ConvertFromCanonical(g any, _ convert.Options) (any, error) {
	cg, err := convert.Graph(g)
	if err != nil {
		return nil, err
	}
	return New(cg), nil
}

// ConvertToCanonical unwraps a *Graph; anything else passes through.
func (Engine) ConvertToCanonical(g any) (any, error) {
	if gr, ok := g.(*Graph); ok {
		return gr.Canonical(), nil
	}
	return g, nil
}

type multigraphReporter interface{ IsMultigraph() bool }

type validatedMultigraphReporter interface{ IsMultigraph() (bool, error) }

// ShouldRun implements dispatch.Backend.
func (Engine) ShouldRun(name string, args dispatch.Args) bool {
	if !implements(name) {
		return false
	}
	g, ok := args.Get("G", 0)
	if !ok {
		return false
	}
	switch r := g.(type) {
	case multigraphReporter:
		return !r.IsMultigraph()
	case validatedMultigraphReporter:
		multi, err := r.IsMultigraph()
		return err == nil && !multi
	}
	return true
}

func implements(name string) bool { return slices.Contains(Algorithms, name) }

// Run implements dispatch.Backend. The graph argument must already be a
// *Graph.
func (Engine) Run(_ context.Context, name string, args dispatch.Args) (any, error) {
	if !implements(name) {
		return nil, dispatch.ErrNotImplemented
	}
	v, _ := args.Get("G", 0)
	g, ok := v.(*Graph)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "gonum engine expects *gonum.Graph, got %T", v)
	}
	return Call(g, name, args)
}

// Call runs the named algorithm on g with the remaining arguments taken from
// args: source (1), target (2) and weight (3) for the path queries.
func Call(g *Graph, name string, args dispatch.Args) (any, error) {
	switch name {
	case "shortest_path", "shortest_path_length":
		return shortestPath(g, name == "shortest_path_length", args)
	case "topological_sort":
		return g.TopologicalSort()
	case "connected_components":
		return g.ConnectedComponents()
	}
	return nil, dispatch.ErrNotImplemented
}

func shortestPath(g *Graph, length bool, args dispatch.Args) (any, error) {
	source, ok := args.Get("source", 1)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "source node is required")
	}
	weight := ""
	if w, ok := args.Get("weight", 3); ok {
		s, isString := w.(string)
		if !isString {
			return nil, errors.New(errors.ErrCodeInvalidInput, "weight must be an attribute name, got %T", w)
		}
		weight = s
	}
	cost := func(c float64) any {
		if weight == "" {
			return int(c)
		}
		return c
	}

	target, ok := args.Get("target", 2)
	if !ok {
		paths, costs, err := g.ShortestPaths(source, weight)
		if err != nil {
			return nil, err
		}
		if !length {
			return paths, nil
		}
		out := make(map[any]any, len(costs))
		for n, c := range costs {
			out[n] = cost(c)
		}
		return out, nil
	}

	p, c, err := g.ShortestPath(source, target, weight)
	if err != nil {
		return nil, fmt.Errorf("%v to %v: %w", source, target, err)
	}
	if length {
		return cost(c), nil
	}
	return p, nil
}
