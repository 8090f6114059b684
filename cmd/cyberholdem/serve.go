package main

import (
	"fmt"
	"os"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/cyberholdem/internal/randutil"
	"github.com/lox/cyberholdem/internal/server"
	"golang.org/x/sync/errgroup"
)

type ServeCmd struct {
	Config   string `short:"c" default:"cyberholdem.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     *int64 `help:"Deterministic RNG seed for deals and bots"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Server.LogLevel, err)
	}
	logger.SetLevel(level)

	var rng *rand.Rand
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		rng = randutil.New(*c.Seed)
	} else {
		rng = randutil.Entropy()
	}

	table, err := server.NewTable(cfg, server.WithRNG(rng), server.WithLogger(logger))
	if err != nil {
		return err
	}

	addr := cfg.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}
	logger.Info("Starting table",
		"addr", addr,
		"bots", len(cfg.Bots),
		"blinds", fmt.Sprintf("%d/%d", cfg.Table.SmallBlind, cfg.Table.BigBlind),
		"starting_chips", cfg.Table.StartingChips)

	g, ctx := errgroup.WithContext(signalContext(logger))
	g.Go(func() error {
		return server.NewServer(table, logger).ListenAndServe(ctx, addr)
	})
	g.Go(func() error {
		// Pending bot turns and timeouts must not fire into a closed server.
		<-ctx.Done()
		table.Close()
		return nil
	})
	return g.Wait()
}
