package admin

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	want := Config{HTTPAddr: ":8082", DBPath: "data/umsra.db", PageSize: 100}
	if cfg != want {
		t.Fatalf("ParseConfig() = %+v, want %+v", cfg, want)
	}
}

func TestParseConfigEnvThenFlags(t *testing.T) {
	t.Setenv("UMSRA_ADMIN_ADDR", "env-admin:1")
	t.Setenv("UMSRA_ADMIN_DB_PATH", "/tmp/env.db")
	t.Setenv("UMSRA_ADMIN_PAGE_SIZE", "25")

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "flag-admin:2"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	want := Config{HTTPAddr: "flag-admin:2", DBPath: "/tmp/env.db", PageSize: 25}
	if cfg != want {
		t.Fatalf("ParseConfig() = %+v, want %+v", cfg, want)
	}
}

func TestParseConfigRejectsNegativePageSize(t *testing.T) {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-page-size", "-1"}); err == nil {
		t.Fatal("expected error for negative page size")
	}
}

func TestParseConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("UMSRA_ADMIN_PAGE_SIZE", "many")
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error for non-numeric page size")
	}
}
