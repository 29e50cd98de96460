package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/internal/config"
	"github.com/matzehuels/framegraph/pkg/observability"
	"github.com/matzehuels/framegraph/pkg/pipeline"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

type runOpts struct {
	input    inputOpts
	args     []string
	priority string
	output   string
	metrics  string
	noCache  bool
	refresh  bool
}

// runCommand creates the run command, which dispatches one algorithm call
// on the given tables and prints the JSON result.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run [algorithm] [file...]",
		Short: "Run an algorithm on one or more edge tables",
		Long: `Run an algorithm on one or more edge tables.

Every file is a graph argument; algorithms taking a list of graphs (such as
compose_all) receive all of them. Other arguments are passed with --arg,
for example:

  framegraph run shortest_path edges.csv --arg source=a --arg target=d --arg weight=cost

Values are typed like CSV cells (int, float, bool, string) and a value
containing commas becomes a list. Results are cached by table content and
arguments; --refresh recomputes, --no-cache disables the cache.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = c.withDefaults(opts.input)
			return c.runRun(cmd, args[0], args[1:], opts)
		},
	}

	c.addInputFlags(cmd, &opts.input)
	cmd.Flags().StringArrayVarP(&opts.args, "arg", "a", nil, "algorithm argument as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.priority, "priority", "", "engine priority, comma-separated (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON result to this file")
	cmd.Flags().StringVar(&opts.metrics, "metrics", "", "write Prometheus metrics for this run to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

func (c *CLI) runRun(cmd *cobra.Command, algorithm string, files []string, opts runOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	kwargs, err := parseArgs(opts.args)
	if err != nil {
		return err
	}

	var writeMetrics func(string) error
	if opts.metrics != "" {
		writeMetrics = enableMetrics()
		defer observability.Reset()
	}

	inputs := make([]*tablegraph.TableGraph, 0, len(files))
	for _, f := range files {
		tg, err := loadInput(f, opts.input)
		if err != nil {
			return err
		}
		inputs = append(inputs, tg)
	}

	runner, err := c.newRunner(ctx, config.SplitList(opts.priority), opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Run(ctx, pipeline.RunOptions{
		Algorithm: algorithm,
		Inputs:    inputs,
		Args:      kwargs,
		Refresh:   opts.refresh,
	})
	if err != nil {
		return err
	}
	logger.Debug("result", "algorithm", algorithm, "cached", res.CacheHit, "duration", res.Duration)

	if err := writeOutput(cmd, opts.output, res.JSON); err != nil {
		return err
	}
	if writeMetrics != nil {
		if err := writeMetrics(opts.metrics); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if opts.output != "" {
		p := printer{cmd.OutOrStdout()}
		p.success("Ran %s", algorithm)
		if res.Graph != nil {
			p.stats(res.Graph.NodeCount(), res.Graph.EdgeCount(), res.CacheHit)
		}
		p.file(opts.output)
	}
	return nil
}

// parseArgs splits key=value pairs.
func parseArgs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid argument %q (want key=value)", p)
		}
		out[k] = v
	}
	return out, nil
}
