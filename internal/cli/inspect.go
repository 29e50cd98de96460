package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/pipeline"
)

// inspectCommand creates the inspect command, which prints the graph
// metadata of a table and whether it currently qualifies as a graph.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inputOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the graph metadata of an edge table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], c.withDefaults(opts))
		},
	}

	c.addInputFlags(cmd, &opts)
	return cmd
}

func runInspect(cmd *cobra.Command, path string, opts inputOpts) error {
	tg, err := loadInput(path, opts)
	if err != nil {
		return err
	}
	acc := tg.Accessor()
	p := printer{cmd.OutOrStdout()}

	p.title(path)
	p.keyValue("kind", graph.KindName(acc.Directed(), acc.Multigraph()))
	for _, role := range []struct {
		name string
		get  func() (string, error)
	}{
		{"source", acc.Source},
		{"target", acc.Target},
	} {
		col, err := role.get()
		if err != nil || col == "" {
			col = "(unset)"
		}
		p.keyValue(role.name, col)
	}
	if acc.Multigraph() {
		key, _ := acc.EdgeKey()
		if key == "" {
			key = "(generated)"
		}
		p.keyValue("edge_key", key)
	}
	p.keyValue("rows", fmt.Sprint(tg.Table().Len()))
	p.keyValue("columns", strings.Join(tg.Table().Columns(), ", "))
	if nt := acc.NodeTable(); nt != nil {
		p.keyValue("node table", fmt.Sprintf("%d nodes, %d attributes", nt.Len(), len(nt.Columns())))
	}
	if hash, err := pipeline.TableHash(tg); err == nil {
		p.keyValue("hash", hash[:12])
	}

	if err := tg.Validate(); err != nil {
		p.warning("Not a valid graph: %v", err)
		p.nextStep("Set the endpoint columns", "framegraph inspect "+path+" --source COL --target COL")
		return nil
	}
	g, err := convert.Graph(tg)
	if err != nil {
		return err
	}
	p.success("Valid %s", g.KindName())
	p.stats(g.NodeCount(), g.EdgeCount(), false)
	return nil
}
