package view_test

import (
	"fmt"

	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
	"github.com/matzehuels/framegraph/pkg/view"
)

func ExampleFromTable() {
	tbl, _ := table.FromRows([]string{"source", "target"}, [][]any{
		{"a", "b"},
		{"b", "c"},
	})
	tg := tablegraph.New(tbl)

	v, err := view.FromTable(view.Graph, tg, view.CopyIfNeeded)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(v.Kind(), v.Table() == tg)

	_, err = view.FromTable(view.MultiGraph, tg, view.CopyNever)
	fmt.Println(err != nil)
	// Output:
	// Graph false
	// true
}
