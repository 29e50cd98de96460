package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBackendPriority, EnvTestBackend, EnvRedisURL} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
[backend]
self = "table_graph"
priority = ["gonum", "table"]

[columns]
source = "from"
target = "to"

[cache]
disabled = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Backend.Self = "table_graph"
	want.Backend.Priority = []string{"gonum", "table"}
	want.Columns.Source, want.Columns.Target = "from", "to"
	want.Cache.Disabled = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[cache]\nprefix = \"x:\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Prefix != "x:" {
		t.Errorf("Cache.Prefix = %q, want x:", cfg.Cache.Prefix)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvBackendPriority, "table, gonum,,")
	t.Setenv(EnvTestBackend, "gonum")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"table", "gonum"}, cfg.Backend.Priority); diff != "" {
		t.Errorf("priority mismatch (-want +got):\n%s", diff)
	}
	if cfg.Backend.Test != "gonum" {
		t.Errorf("Backend.Test = %q", cfg.Backend.Test)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache.RedisURL = %q", cfg.Cache.RedisURL)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		path string
	}{
		{"explicit missing file", filepath.Join(t.TempDir(), "nope.toml")},
		{"malformed", writeFile(t, "[backend\n")},
		{"bad self", writeFile(t, "[backend]\nself = \"gonum\"\n")},
		{"same columns", writeFile(t, "[columns]\nsource = \"a\"\ntarget = \"a\"\n")},
		{"empty column", writeFile(t, "[columns]\nsource = \"\"\n")},
		{"control character", writeFile(t, "[columns]\nedge_key = \"k\\u0007\"\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", AppName); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
	dir, err = CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	dir, _ = CacheDir()
	if want := filepath.Join(home, ".cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}
