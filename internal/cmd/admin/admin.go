// Package admin parses admin portal flags and launches the HTTP server.
package admin

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/umsra/internal/platform/cmd"
	"github.com/louisbranch/umsra/internal/services/admin"
)

// Config holds the admin command configuration.
type Config struct {
	HTTPAddr string `env:"UMSRA_ADMIN_ADDR" envDefault:":8082"`
	DBPath   string `env:"UMSRA_ADMIN_DB_PATH" envDefault:"data/umsra.db"`
	PageSize int    `env:"UMSRA_ADMIN_PAGE_SIZE" envDefault:"100"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "rows per admin list page")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.PageSize < 0 {
		return Config{}, fmt.Errorf("page size must not be negative, got %d", cfg.PageSize)
	}
	return cfg, nil
}

// Run starts the admin server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAdmin, func(ctx context.Context) error {
		server, err := admin.OpenServer(cfg.HTTPAddr, cfg.DBPath, cfg.PageSize)
		if err != nil {
			return fmt.Errorf("init admin server: %w", err)
		}
		defer server.Close()
		return server.ListenAndServe(ctx)
	})
}
