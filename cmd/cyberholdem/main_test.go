package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lox/cyberholdem/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestParseOdds(t *testing.T) {
	t.Parallel()
	cli, ctx := parse(t, "odds", "As", "Kd", "--board", "Qh Jh Th", "-o", "3", "--seed", "7")

	assert.Equal(t, "odds", ctx.Selected().Name)
	assert.Equal(t, []string{"As", "Kd"}, cli.Odds.Hand)
	assert.Equal(t, "Qh Jh Th", cli.Odds.Board)
	assert.Equal(t, 3, cli.Odds.Opponents)
	assert.Equal(t, 100000, cli.Odds.Samples)
	require.NotNil(t, cli.Odds.Seed)
	assert.Equal(t, int64(7), *cli.Odds.Seed)
}

func TestParseServeDefaults(t *testing.T) {
	t.Parallel()
	cli, _ := parse(t, "serve")

	assert.Equal(t, "cyberholdem.hcl", cli.Serve.Config)
	assert.Empty(t, cli.Serve.Addr)
	assert.Nil(t, cli.Serve.Seed)
}

func TestParseClientDefaults(t *testing.T) {
	t.Parallel()
	cli, _ := parse(t, "client")

	assert.Equal(t, "ws://localhost:8080/ws", cli.Client.URL)
	assert.Equal(t, "human", cli.Client.Player)
	assert.False(t, cli.Client.NoColor)
}

func TestCardList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "A♠ T♥", cardList(deck.MustParseCards("As Th")))
	assert.Empty(t, cardList(nil))
}
