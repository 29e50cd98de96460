package dot_test

import (
	"fmt"

	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/render/dot"
)

func ExampleToDOT() {
	g := graph.New(true, false)
	_, _ = g.AddEdge("app", "db", nil)

	fmt.Print(dot.ToDOT(g, dot.Options{}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=24, margin="0.2,0.1"];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   "app" [label="app"];
	//   "db" [label="db"];
	//
	//   "app" -> "db";
	// }
}
