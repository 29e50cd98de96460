// Package pipeline runs dispatched algorithms and renderings on table graphs
// with result caching.
//
// It sits between the CLI and the library packages: input table graphs are
// hashed together with every setting that can change a result, the hash is
// looked up in a [cache.Cache], and only on a miss is the algorithm handed
// to the dispatcher or the graph rendered.
//
// # Usage
//
//	runner := pipeline.NewRunner(dispatcher, cache, nil, logger)
//	res, err := runner.Run(ctx, pipeline.RunOptions{
//	    Algorithm: "shortest_path",
//	    Inputs:    []*tablegraph.TableGraph{tg},
//	    Args:      map[string]string{"source": "a", "target": "d"},
//	})
//	fmt.Println(string(res.JSON))
//
// Render a table graph:
//
//	artifacts, hit, err := runner.Render(ctx, tg, pipeline.RenderOptions{
//	    Formats: []string{"dot", "svg"},
//	})
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

// Format constants for rendered outputs.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// RunOptions describes one algorithm call.
type RunOptions struct {
	Algorithm string

	// Inputs are the graph arguments. Algorithms taking a list of graphs
	// receive all of them; other graph algorithms receive the first one.
	// Algorithms without graph parameters receive the tables of the inputs
	// as leading positional arguments.
	Inputs []*tablegraph.TableGraph

	// Args are keyword arguments in their textual form. Values are typed
	// with table.ParseCell; a value containing a comma becomes a list of
	// strings.
	Args map[string]string

	// Refresh skips the cache lookup. The fresh result is still stored.
	Refresh bool
}

// Result is the outcome of [Runner.Run].
type Result struct {
	// JSON is the indented JSON encoding of the result. Graph results use
	// the canonical graph document format.
	JSON []byte

	// Graph is set when the algorithm returned a graph.
	Graph *graph.Graph

	// CacheHit reports whether JSON came from the cache.
	CacheHit bool

	Duration time.Duration
}

// RenderOptions configures [Runner.Render].
type RenderOptions struct {
	// Formats to produce. Defaults to svg.
	Formats []string

	Detailed  bool
	EdgeLabel string

	// Scale is the PNG scale factor. Defaults to 2.
	Scale float64

	Refresh bool
}

func (o *RenderOptions) validateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = 2
	}
	return ValidateFormats(o.Formats)
}

// parseArg types a textual argument value.
func parseArg(s string) any {
	if strings.Contains(s, ",") {
		var out []string
		for p := range strings.SplitSeq(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return table.ParseCell(s)
}
