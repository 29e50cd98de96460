// Package dispatch routes algorithm calls across cooperating graph engines.
//
// # Overview
//
// An algorithm is described once in a [Registry]: where its graph arguments
// sit, which of them are lists of graphs, whether it returns a graph, and a
// canonical implementation working on *graph.Graph values. Engines implement
// [Backend] and are registered by name in a [Backends] table.
//
// A [Dispatcher] serves one engine (its Self). Calling an algorithm walks the
// configured priority list:
//
//  1. skip the self engine and its siblings
//  2. skip engines whose ShouldRun declines
//  3. convert graph arguments to the candidate's representation and run
//  4. on ErrNotImplemented move on; on any other error stop
//  5. when nobody took the call, run the canonical implementation
//  6. convert a graph result back into the self representation
//
// # Usage
//
//	reg := dispatch.NewRegistry()
//	reg.MustRegister(dispatch.Algorithm{
//	    Name:   "number_of_nodes",
//	    Graphs: map[string]int{"G": 0},
//	    Func:   numberOfNodes,
//	})
//	d := dispatch.New(reg, dispatch.NewBackends(tableEngine, gonumEngine), "table",
//	    []string{"gonum"}, logger)
//	n, err := d.Call(ctx, "number_of_nodes", dispatch.Args{Positional: []any{tg}})
//
// Unknown and excluded names fail with an UNKNOWN_ALGORITHM error.
package dispatch
