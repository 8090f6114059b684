package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/cyberholdem/internal/client"
	"github.com/lox/cyberholdem/internal/tui"
)

type ClientCmd struct {
	URL     string `short:"u" default:"ws://localhost:8080/ws" help:"Server URL"`
	Player  string `short:"p" default:"human" help:"Seat to play"`
	NoColor bool   `help:"Disable colours"`
	LogFile string `help:"Write debug logs to this file"`
}

func (c *ClientCmd) Run() error {
	if c.NoColor {
		tui.DisableColor()
	}

	// The terminal belongs to the UI, so logs only go to a file.
	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{Level: log.DebugLevel, ReportTimestamp: true})

	ctx := signalContext(logger)
	cl := client.NewClient(strings.TrimSpace(c.URL), strings.TrimSpace(c.Player), logger)
	if err := cl.Connect(ctx); err != nil {
		return err
	}
	defer cl.Disconnect()

	model := tui.New(cl, cl.PlayerID(), cl.Messages(), logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
