// Package main loads a YAML fixture of heroes, villains and epics into the
// admin database.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	seedcmd "github.com/louisbranch/umsra/internal/cmd/seed"
	entrypoint "github.com/louisbranch/umsra/internal/platform/cmd"
	"github.com/louisbranch/umsra/internal/platform/config"
)

func main() {
	cfg, err := seedcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitIfErr(err, "parse flags")
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceSeed))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = seedcmd.Run(ctx, cfg, os.Stdout)
	stop()
	config.ExitIfErr(err, "seed")
}
