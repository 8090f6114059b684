package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/cyberholdem/internal/game"
	"github.com/lox/cyberholdem/internal/server"
)

// CommandKind says what a line of input asks for
type CommandKind int

const (
	CommandAction CommandKind = iota
	CommandDeal
	CommandReset
	CommandHelp
	CommandQuit
)

// Command is a parsed line of input
type Command struct {
	Kind   CommandKind
	Action game.Action
	Amount int
}

const helpText = "fold | check | call | raise <total> | allin | deal | reset | quit"

// ParseCommand turns input into a command. state may be nil before the
// first game_state arrives. An empty line deals the next hand when none is
// in progress.
func ParseCommand(input string, state *server.GameStateData) (Command, error) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		if handInProgress(state) {
			return Command{}, fmt.Errorf("enter an action: %s", helpText)
		}
		return Command{Kind: CommandDeal}, nil
	}

	switch parts[0] {
	case "q", "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	case "n", "deal", "next":
		return Command{Kind: CommandDeal}, nil
	case "reset":
		return Command{Kind: CommandReset}, nil
	case "?", "h", "help":
		return Command{Kind: CommandHelp}, nil
	case "f":
		parts[0] = "fold"
	case "k":
		parts[0] = "check"
	case "c":
		parts[0] = "call"
	case "r":
		parts[0] = "raise"
	case "shove":
		parts[0] = "allin"
	}

	action, err := game.ParseAction(parts[0])
	if err != nil {
		return Command{}, fmt.Errorf("unknown command %q: %s", parts[0], helpText)
	}
	cmd := Command{Kind: CommandAction, Action: action}
	if action != game.Raise {
		return cmd, nil
	}

	// "raise 120" and "raise to 120" both mean a street total of 120.
	args := parts[1:]
	if len(args) > 0 && args[0] == "to" {
		args = args[1:]
	}
	if len(args) == 0 {
		va, ok := validAction(state, game.Raise)
		if !ok {
			return Command{}, fmt.Errorf("raise needs an amount")
		}
		cmd.Amount = va.MinAmount
		return cmd, nil
	}
	amount, err := strconv.Atoi(strings.TrimPrefix(args[0], "$"))
	if err != nil || amount <= 0 {
		return Command{}, fmt.Errorf("invalid raise amount %q", args[0])
	}
	cmd.Amount = amount
	return cmd, nil
}

func handInProgress(state *server.GameStateData) bool {
	return state != nil && state.HandNumber > 0 && state.Street != game.Showdown && state.Street != game.Finished
}

func validAction(state *server.GameStateData, action game.Action) (game.ValidAction, bool) {
	if state == nil {
		return game.ValidAction{}, false
	}
	for _, va := range state.ValidActions {
		if va.Action == action {
			return va, true
		}
	}
	return game.ValidAction{}, false
}
