// Package cmd holds the startup plumbing shared by the admin commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/louisbranch/umsra/internal/platform/config"
	"github.com/louisbranch/umsra/internal/platform/otel"
	"github.com/louisbranch/umsra/internal/platform/timeouts"
)

// Service names used for trace resources and log prefixes.
const (
	ServiceAdmin = "admin"
	ServiceSeed  = "seed"
)

// ParseConfig fills cfg from the environment.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses flags over the environment defaults already bound to fs.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	return fs.Parse(append([]string{}, args...))
}

// LogPrefix returns "[SERVICE] ", or "" for a blank name.
func LogPrefix(service string) string {
	if service = strings.TrimSpace(service); service == "" {
		return ""
	}
	return "[" + strings.ToUpper(service) + "] "
}

// RunWithTelemetry installs tracing for service, runs run, and flushes
// spans before returning run's error.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	switch {
	case service == "":
		return errors.New("service name is required")
	case run == nil:
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	otelCfg, err := otel.LoadConfig()
	if err != nil {
		return err
	}
	shutdown, err := otel.Setup(ctx, "umsra-"+service, otelCfg)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.TraceFlush)
		defer cancel()
		if flushErr := shutdown(flushCtx); flushErr != nil {
			log.Printf("%s trace flush: %v", service, flushErr)
		}
	}()
	return run(ctx)
}
