package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/table"
)

type convertOpts struct {
	input     inputOpts
	output    string
	nodesOut  string
	indexName string
}

// convertCommand creates the convert command. A JSON graph becomes an edge
// table CSV (plus an optional node table); a CSV edge table becomes a JSON
// graph document.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert between JSON graphs and CSV edge tables",
		Long: `Convert between canonical JSON graph documents and CSV edge tables.

A .json input is laid out as an edge table with one row per edge; use
--nodes-out to also write the node table, which keeps isolated nodes and
node attributes. Any other input is read as a CSV edge table and written as
a JSON graph document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = c.withDefaults(opts.input)
			if opts.indexName == "" {
				opts.indexName = c.cfg.Columns.Index
			}
			return runConvert(cmd, args[0], opts)
		},
	}

	c.addInputFlags(cmd, &opts.input)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.nodesOut, "nodes-out", "", "write the node table CSV here (JSON input only)")
	cmd.Flags().StringVar(&opts.indexName, "index", "", "header of the node ID column in --nodes-out")

	return cmd
}

func runConvert(cmd *cobra.Command, path string, opts convertOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	tg, err := loadInput(path, opts.input)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if isJSON(path) {
		if err := table.WriteCSV(tg.Table(), &buf); err != nil {
			return err
		}
		if opts.nodesOut != "" {
			var nodes bytes.Buffer
			if err := table.WriteNodeCSV(tg.Accessor().NodeTable(), opts.indexName, &nodes); err != nil {
				return err
			}
			if err := writeOutput(cmd, opts.nodesOut, nodes.Bytes()); err != nil {
				return err
			}
		}
	} else {
		g, err := convert.Graph(tg)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := graph.WriteJSON(g, &buf); err != nil {
			return err
		}
	}
	if err := writeOutput(cmd, opts.output, buf.Bytes()); err != nil {
		return err
	}

	prog.done("converted", "input", path, "rows", tg.Table().Len())
	if opts.output != "" {
		p := printer{cmd.OutOrStdout()}
		p.success("Converted %s", path)
		p.file(opts.output)
		if opts.nodesOut != "" {
			p.file(opts.nodesOut)
		}
	}
	return nil
}
