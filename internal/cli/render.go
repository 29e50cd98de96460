package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input     inputOpts
	output    string   // output file path (or base path for multiple outputs)
	formats   []string // output formats: "dot", "svg", "png", "pdf"
	detailed  bool     // show node and edge attributes
	edgeLabel string   // edge attribute used as edge label
	scale     float64  // PNG scale factor
	noCache   bool
	refresh   bool
}

// renderCommand creates the render command for drawing a table graph.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an edge table as DOT, SVG, PNG or PDF",
		Long: `Render an edge table (or JSON graph) as a node-link diagram.

The format defaults to the extension of --output, else svg. With several
formats, --output is used as the base path and each file gets its format
as extension. PNG and PDF need rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = c.withDefaults(opts.input)
			opts.formats = parseFormats(formatsStr, opts.output)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	c.addInputFlags(cmd, &opts.input)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot, svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node attributes and edge keys/attributes")
	cmd.Flags().StringVar(&opts.edgeLabel, "edge-label", "", "edge attribute to use as edge label")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached artifacts exist")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, the extension of output decides, falling back to svg.
func parseFormats(s, output string) []string {
	if s == "" {
		ext := strings.TrimPrefix(filepath.Ext(output), ".")
		if pipeline.ValidFormats[ext] {
			return []string{ext}
		}
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .dot, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file. A single format with an explicit
// output is written there as is.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	tg, err := loadInput(input, opts.input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, nil, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	artifacts, cached, err := runner.Render(ctx, tg, pipeline.RenderOptions{
		Formats:   opts.formats,
		Detailed:  opts.detailed,
		EdgeLabel: opts.edgeLabel,
		Scale:     opts.scale,
		Refresh:   opts.refresh,
	})
	if err != nil {
		return err
	}

	p := printer{cmd.OutOrStdout()}
	paths := outputPaths(opts.output, input, opts.formats)
	for _, f := range opts.formats {
		if err := writeOutput(cmd, paths[f], artifacts[f]); err != nil {
			return err
		}
	}
	prog.done("rendered", "input", input, "formats", strings.Join(opts.formats, ","), "cached", cached)

	p.success("Rendered %s", input)
	for _, f := range opts.formats {
		p.file(paths[f])
	}
	if cached {
		p.detail("from cache")
	}
	return nil
}
