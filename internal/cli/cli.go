// Package cli implements the framegraph command-line interface.
//
// The commands work on edge tables stored as CSV (one edge per row, with an
// optional node table) and on canonical graph documents stored as JSON:
//
//   - convert: translate between the two formats
//   - inspect: show the graph metadata of a table
//   - run: dispatch an algorithm and print its result
//   - render: draw a table graph as DOT, SVG, PNG or PDF
//   - backends: list engines and algorithms
//   - cache: manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context so that helpers need no CLI state.
//
// # Configuration
//
// Settings come from internal/config: a TOML file selected with --config
// (or the default location) plus FRAMEGRAPH_* environment variables.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/internal/config"
	"github.com/matzehuels/framegraph/pkg/algorithms"
	"github.com/matzehuels/framegraph/pkg/backend"
	"github.com/matzehuels/framegraph/pkg/buildinfo"
	"github.com/matzehuels/framegraph/pkg/cache"
	"github.com/matzehuels/framegraph/pkg/dispatch"
	"github.com/matzehuels/framegraph/pkg/observability/prom"
	"github.com/matzehuels/framegraph/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Framegraph runs graph algorithms on edge tables",
		Long:         `Framegraph treats a table of edges as a graph: it validates the table's graph metadata, converts it to and from a canonical graph model and dispatches algorithms to the engine best able to run them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/framegraph/config.toml)")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.backendsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newDispatcher creates a dispatcher for the configured table engine. A
// non-empty priority replaces the configured one.
func (c *CLI) newDispatcher(priority []string) (*dispatch.Dispatcher, error) {
	if len(priority) == 0 {
		priority = c.cfg.Backend.Priority
	}
	d, err := backend.NewDispatcher(algorithms.Standard(), backend.All(), c.cfg.Backend.Self, priority, c.Logger)
	if err != nil {
		return nil, err
	}
	if c.cfg.Backend.Test != "" {
		d.Exclude = dispatch.TestingExclusions(c.cfg.Backend.Test, backend.TableName, backend.ViewName)
	}
	return d, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, priority []string, noCache bool) (*pipeline.Runner, error) {
	d, err := c.newDispatcher(priority)
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cfg.Backend.Self)
	return pipeline.NewRunner(d, store, keyer, c.Logger), nil
}

// newCache opens the configured store. A Redis URL takes precedence over
// the file cache. Failing to locate the cache directory disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if url := c.cfg.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(ctx, url, c.cfg.Cache.Prefix)
		if err != nil {
			return nil, err
		}
		return cache.Observed(rc), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.Observed(fc), nil
}

// cacheDir returns the configured cache directory, defaulting to the XDG
// location (~/.cache/framegraph/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return config.CacheDir()
}

// enableMetrics installs Prometheus hooks backed by a fresh registry. The
// returned function writes the collected metrics to path in the text
// exposition format.
func enableMetrics() func(path string) error {
	reg := prometheus.NewRegistry()
	prom.New(reg).Register()
	return func(path string) error {
		return prometheus.WriteToTextfile(path, reg)
	}
}
