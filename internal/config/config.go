// Package config loads framegraph settings from a TOML file and the
// environment.
//
// The file lives at $XDG_CONFIG_HOME/framegraph/config.toml (falling back to
// ~/.config/framegraph/config.toml) unless a path is given explicitly. A
// missing file is not an error; defaults apply. Environment variables
// override file values:
//
//	FRAMEGRAPH_BACKEND_PRIORITY  comma separated engine names
//	FRAMEGRAPH_TEST_BACKEND      engine under test; hides algorithms it cannot serve
//	FRAMEGRAPH_REDIS_URL         use a Redis result cache instead of files
//
// Example file:
//
//	[backend]
//	self = "table"
//	priority = ["gonum"]
//
//	[columns]
//	source = "from"
//	target = "to"
//
//	[cache]
//	dir = "/var/cache/framegraph"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/framegraph/pkg/backend"
	fgerrors "github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
)

// AppName names the configuration and cache directories.
const AppName = "framegraph"

// Environment variables read by [Load].
const (
	EnvBackendPriority = "FRAMEGRAPH_BACKEND_PRIORITY"
	EnvTestBackend     = "FRAMEGRAPH_TEST_BACKEND"
	EnvRedisURL        = "FRAMEGRAPH_REDIS_URL"
)

// Config is the merged configuration.
type Config struct {
	Backend Backend `toml:"backend"`
	Columns Columns `toml:"columns"`
	Cache   Cache   `toml:"cache"`
}

// Backend selects the engines used for dispatch.
type Backend struct {
	// Self is the table engine the CLI dispatches from: "table" or
	// "table_graph".
	Self string `toml:"self"`

	// Priority is the ordered engine preference.
	Priority []string `toml:"priority"`

	// Test names an engine under test. Algorithms the table engines cannot
	// round-trip are hidden while it is set.
	Test string `toml:"test"`
}

// Columns holds the default column roles for tables read from disk.
type Columns struct {
	Source  string `toml:"source"`
	Target  string `toml:"target"`
	EdgeKey string `toml:"edge_key"`
	Index   string `toml:"index"`
}

// Cache configures result and artifact caching.
type Cache struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend: Backend{
			Self:     backend.TableName,
			Priority: []string{backend.GonumName},
		},
		Columns: Columns{
			Source:  tablegraph.DefaultSource,
			Target:  tablegraph.DefaultTarget,
			EdgeKey: tablegraph.DefaultEdgeKey,
		},
		Cache: Cache{Prefix: AppName + ":"},
	}
}

// Dir returns the configuration directory using the XDG standard
// (~/.config/framegraph/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/framegraph/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path (or the default location when path is empty),
// layers it over [Default] and applies environment overrides. An explicit
// path that does not exist is an error; a missing default file is not.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvBackendPriority); v != "" {
		cfg.Backend.Priority = SplitList(v)
	}
	if v := os.Getenv(EnvTestBackend); v != "" {
		cfg.Backend.Test = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Cache.RedisURL = v
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Backend.Self {
	case backend.TableName, backend.ViewName:
	default:
		return fmt.Errorf("backend.self must be %q or %q, got %q", backend.TableName, backend.ViewName, c.Backend.Self)
	}
	if c.Columns.Source == "" || c.Columns.Target == "" {
		return fmt.Errorf("columns.source and columns.target must not be empty")
	}
	if c.Columns.Source == c.Columns.Target {
		return fmt.Errorf("columns.source and columns.target must differ, both are %q", c.Columns.Source)
	}
	for _, name := range []string{c.Columns.Source, c.Columns.Target, c.Columns.EdgeKey, c.Columns.Index} {
		if name == "" {
			continue
		}
		if err := fgerrors.ValidateColumnName(name); err != nil {
			return fmt.Errorf("columns: %w", err)
		}
	}
	return nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
