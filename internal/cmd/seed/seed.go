// Package seed parses seed command flags and loads a fixture into the admin
// database.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"

	entrypoint "github.com/louisbranch/umsra/internal/platform/cmd"
	"github.com/louisbranch/umsra/internal/seed"
	"github.com/louisbranch/umsra/internal/services/admin"
)

// Config holds seed command configuration. An empty File loads the embedded
// default fixture.
type Config struct {
	DBPath  string `env:"UMSRA_ADMIN_DB_PATH" envDefault:"data/umsra.db"`
	File    string `env:"UMSRA_SEED_FILE"`
	Verbose bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.File, "file", cfg.File, "YAML fixture path (default: embedded mythology fixture)")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the seed command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		fixture, err := seed.LoadFile(cfg.File)
		if err != nil {
			return err
		}
		store, err := admin.OpenStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := seed.Run(ctx, store, fixture, seed.Options{Verbose: cfg.Verbose, Out: out})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Seeded %d categories, %d origins, %d heroes, %d villains, %d epics, %d events\n",
			result.Categories, result.Origins, result.Heroes, result.Villains, result.Epics, result.Events)
		return nil
	})
}
