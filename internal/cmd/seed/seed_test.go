package seed

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	want := Config{DBPath: "data/umsra.db"}
	if cfg != want {
		t.Fatalf("ParseConfig() = %+v, want %+v", cfg, want)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("UMSRA_SEED_FILE", "env.yaml")
	t.Setenv("UMSRA_ADMIN_DB_PATH", "env.db")

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db-path", "flag.db", "-v"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	want := Config{DBPath: "flag.db", File: "env.yaml", Verbose: true}
	if cfg != want {
		t.Fatalf("ParseConfig() = %+v, want %+v", cfg, want)
	}
}

func TestRunSeedsDatabase(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.yaml")
	if err := os.WriteFile(fixture, []byte("categories: [Greek]\nheroes:\n  - name: Achilles\n    category: Greek\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var out bytes.Buffer
	cfg := Config{DBPath: filepath.Join(dir, "data", "umsra.db"), File: fixture}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if want := "Seeded 1 categories, 0 origins, 1 heroes, 0 villains, 0 epics, 0 events"; !strings.Contains(out.String(), want) {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
	if _, err := os.Stat(cfg.DBPath); err != nil {
		t.Fatalf("database not created: %v", err)
	}
}

func TestRunMissingFixture(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{DBPath: filepath.Join(dir, "umsra.db"), File: filepath.Join(dir, "missing.yaml")}
	if err := Run(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}
