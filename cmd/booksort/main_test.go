package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"booksort/internal/config"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "incoming")
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.NameCache.Path = filepath.Join(base, "namecache.db")
	cfgVal.LLM.Enabled = false
	cfgVal.EbookMeta.Binary = "definitely-not-installed-ebook-meta"

	if err := os.MkdirAll(cfgVal.Paths.SourceDir, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, &cfgVal)

	return &cliTestEnv{cfg: &cfgVal, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}

func writeBook(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("ebook bytes"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSortCommandPlacesBooks(t *testing.T) {
	env := setupCLITestEnv(t)
	writeBook(t, filepath.Join(env.cfg.Paths.SourceDir, "Dune - Frank Herbert.epub"))

	out, _, err := runCLI(t, []string{"sort"}, env.configPath)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	requireContains(t, out, "created=1")

	dest := filepath.Join(env.cfg.Paths.LibraryDir, "Dune - Frank Herbert", "Dune - Frank Herbert.epub")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected %s: %v", dest, err)
	}
}

func TestSortCommandIdempotent(t *testing.T) {
	env := setupCLITestEnv(t)
	writeBook(t, filepath.Join(env.cfg.Paths.SourceDir, "Dune - Frank Herbert.epub"))

	if _, _, err := runCLI(t, []string{"sort"}, env.configPath); err != nil {
		t.Fatalf("first sort: %v", err)
	}
	out, _, err := runCLI(t, []string{"sort"}, env.configPath)
	if err != nil {
		t.Fatalf("second sort: %v", err)
	}
	requireContains(t, out, "skipped=1")
}

func TestSortCommandDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	writeBook(t, filepath.Join(env.cfg.Paths.SourceDir, "Dune - Frank Herbert.epub"))

	out, _, err := runCLI(t, []string{"sort", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("sort --dry-run: %v", err)
	}
	requireContains(t, out, "Dry run")

	entries, err := os.ReadDir(env.cfg.Paths.LibraryDir)
	if err == nil && len(entries) != 0 {
		t.Fatalf("dry run wrote into the library: %v", entries)
	}
}

func TestSortCommandRejectsBadMode(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"sort", "--mode", "teleport"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSortCommandFailsOnMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.cfg.Paths.SourceDir); err != nil {
		t.Fatalf("remove source: %v", err)
	}

	if _, _, err := runCLI(t, []string{"sort"}, env.configPath); err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// init refuses to clobber without --overwrite
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when target exists")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "paths.source_dir")
	requireContains(t, out, env.cfg.Paths.SourceDir)
}

func TestCacheCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	writeBook(t, filepath.Join(env.cfg.Paths.SourceDir, "Dune - Frank Herbert.epub"))

	out, _, err := runCLI(t, []string{"cache", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "Name cache is empty")

	out, _, err = runCLI(t, []string{"cache", "remove", "Dune - Frank Herbert"}, env.configPath)
	if err != nil {
		t.Fatalf("cache remove: %v", err)
	}
	requireContains(t, out, "No cache entry")

	if _, _, err := runCLI(t, []string{"cache", "clear"}, env.configPath); err == nil {
		t.Fatal("cache clear without --yes should fail")
	}

	out, _, err = runCLI(t, []string{"cache", "clear", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 0 cache entries")
}

func TestDepsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "ebook-meta")
	requireContains(t, out, "not found")
}
