package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

// inputOpts describes how an input file becomes a table graph.
type inputOpts struct {
	source     string
	target     string
	edgeKey    string
	undirected bool
	multi      bool
	nodes      string // node table CSV
	name       string // graph name attribute
}

// addInputFlags registers the shared input flags with defaults from the
// configuration.
func (c *CLI) addInputFlags(cmd *cobra.Command, opts *inputOpts) {
	cmd.Flags().StringVar(&opts.source, "source", "", "source column (default from config, else \"source\")")
	cmd.Flags().StringVar(&opts.target, "target", "", "target column (default from config, else \"target\")")
	cmd.Flags().StringVar(&opts.edgeKey, "edge-key", "", "edge key column for multigraphs")
	cmd.Flags().BoolVar(&opts.undirected, "undirected", false, "treat the table as an undirected graph")
	cmd.Flags().BoolVar(&opts.multi, "multi", false, "treat the table as a multigraph")
	cmd.Flags().StringVar(&opts.nodes, "nodes", "", "node table CSV (first column is the node ID)")
	cmd.Flags().StringVar(&opts.name, "name", "", "graph name")
}

// withDefaults fills unset column roles from the configuration.
func (c *CLI) withDefaults(opts inputOpts) inputOpts {
	if opts.source == "" {
		opts.source = c.cfg.Columns.Source
	}
	if opts.target == "" {
		opts.target = c.cfg.Columns.Target
	}
	if opts.edgeKey == "" && opts.multi {
		opts.edgeKey = c.cfg.Columns.EdgeKey
	}
	return opts
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// loadInput reads a CSV edge table or a JSON graph document as a table
// graph. For CSV input, role columns that the table lacks are left unset so
// that plain tables can still be passed to table algorithms; the graph is
// validated where it is used.
func loadInput(path string, opts inputOpts) (*tablegraph.TableGraph, error) {
	if isJSON(path) {
		g, err := graph.ImportJSON(path)
		if err != nil {
			return nil, err
		}
		co := convert.FullPreservation()
		co.Source, co.Target, co.EdgeKey = opts.source, opts.target, opts.edgeKey
		tg, err := convert.FromCanonical(g, co)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", path, err)
		}
		if opts.name != "" {
			tg.Accessor().Graph()["name"] = opts.name
		}
		return tg, nil
	}

	tbl, err := table.ImportCSV(path)
	if err != nil {
		return nil, err
	}
	tg := tablegraph.New(tbl)
	props := []tablegraph.Property{
		tablegraph.Directed(!opts.undirected),
		tablegraph.Multigraph(opts.multi),
	}
	for _, role := range []struct {
		col string
		set func(string) tablegraph.Property
	}{
		{opts.source, tablegraph.Source},
		{opts.target, tablegraph.Target},
	} {
		if tbl.HasColumn(role.col) {
			props = append(props, role.set(role.col))
		}
	}
	if opts.multi && tbl.HasColumn(opts.edgeKey) {
		props = append(props, tablegraph.EdgeKey(opts.edgeKey))
	}
	acc := tg.Accessor()
	if err := acc.SetProperties(props...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if opts.nodes != "" {
		f, err := os.Open(opts.nodes)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", opts.nodes, err)
		}
		defer f.Close()
		nt, err := table.ReadNodeCSV(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", opts.nodes, err)
		}
		acc.SetNodeTable(nt)
	}
	if opts.name != "" {
		acc.Graph()["name"] = opts.name
	}
	return tg, nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
