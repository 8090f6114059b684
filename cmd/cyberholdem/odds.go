package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/cyberholdem/internal/deck"
	"github.com/lox/cyberholdem/internal/evaluator"
	"github.com/lox/cyberholdem/internal/randutil"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	percentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

type OddsCmd struct {
	Hand      []string `arg:"" help:"Hole cards, e.g. 'As Kd'"`
	Board     string   `short:"b" help:"Community cards, e.g. 'Td7s8h'"`
	Opponents int      `short:"o" default:"1" help:"Number of random opponents"`
	Samples   int      `short:"n" default:"100000" help:"Monte Carlo samples"`
	Seed      *int64   `help:"Random seed for reproducible results"`
}

func (c *OddsCmd) Run() error {
	hole, err := deck.ParseCards(strings.Join(c.Hand, " "))
	if err != nil {
		return fmt.Errorf("parsing hand: %w", err)
	}
	var board []deck.Card
	if c.Board != "" {
		if board, err = deck.ParseCards(c.Board); err != nil {
			return fmt.Errorf("parsing board: %w", err)
		}
	}

	var rng *rand.Rand
	if c.Seed != nil {
		rng = randutil.New(*c.Seed)
	} else {
		rng = randutil.Entropy()
	}

	start := time.Now()
	equity, err := evaluator.EstimateEquity(context.Background(), hole, board, c.Opponents, c.Samples, rng)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Equity"))
	fmt.Printf("%s vs %d opponent(s)", handStyle.Render(cardList(hole)), c.Opponents)
	if len(board) > 0 {
		fmt.Printf(" on %s", cardList(board))
	}
	fmt.Println()
	fmt.Printf("%s over %d samples in %s\n",
		percentStyle.Render(fmt.Sprintf("%.2f%%", equity*100)), c.Samples, time.Since(start).Round(time.Millisecond))
	return nil
}

type EvalCmd struct {
	Cards []string `arg:"" help:"Five to seven cards, e.g. 'As Ks Qs Js Ts'"`
}

func (c *EvalCmd) Run() error {
	cards, err := deck.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	result, err := evaluator.Evaluate(cards)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", handStyle.Render(cardList(cards)), headerStyle.Render(result.Category.String()))
	fmt.Printf("tiebreak %v\n", result.Tiebreak)
	return nil
}

func cardList(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.Pretty()
	}
	return strings.Join(parts, " ")
}
