package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run a table against the built-in bots"`
	Client  ClientCmd        `cmd:"" help:"Connect to a table with the terminal UI"`
	Odds    OddsCmd          `cmd:"" help:"Estimate the equity of a starting hand"`
	Eval    EvalCmd          `cmd:"" help:"Evaluate the best five-card hand"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cyberholdem"),
		kong.Description("Single-table Texas Hold'em against rule-based bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// signalContext is cancelled on the first interrupt or SIGTERM
func signalContext(logger *log.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	return ctx
}
