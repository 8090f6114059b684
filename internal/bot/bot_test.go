package bot

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/cyberholdem/internal/deck"
	"github.com/lox/cyberholdem/internal/game"
	"github.com/lox/cyberholdem/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

var (
	facingBet = []game.ValidAction{
		{Action: game.Fold},
		{Action: game.Call, MinAmount: 20, MaxAmount: 20},
		{Action: game.Raise, MinAmount: 40, MaxAmount: 1000},
		{Action: game.AllIn, MinAmount: 1000, MaxAmount: 1000},
	}
	checkedTo = []game.ValidAction{
		{Action: game.Fold},
		{Action: game.Check},
		{Action: game.AllIn, MinAmount: 30, MaxAmount: 30},
	}
)

func TestLegalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		in    Decision
		valid []game.ValidAction
		want  Decision
	}{
		{"raise clamped up", Decision{Action: game.Raise, Amount: 25}, facingBet, Decision{Action: game.Raise, Amount: 40}},
		{"raise clamped down", Decision{Action: game.Raise, Amount: 5000}, facingBet, Decision{Action: game.Raise, Amount: 1000}},
		{"call amount filled", Decision{Action: game.Call}, facingBet, Decision{Action: game.Call, Amount: 20}},
		{"check facing bet folds", Decision{Action: game.Check}, facingBet, Decision{Action: game.Fold}},
		{"raise without raise checks", Decision{Action: game.Raise, Amount: 90}, checkedTo, Decision{Action: game.Check}},
		{"call with nothing to call checks", Decision{Action: game.Call}, checkedTo, Decision{Action: game.Check}},
		{"no valid actions folds", Decision{Action: game.Raise, Amount: 90}, nil, Decision{Action: game.Fold}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Legalize(tt.in, tt.valid))
		})
	}
}

func TestFoldBot(t *testing.T) {
	t.Parallel()
	var b FoldBot
	assert.Equal(t, game.Check, b.Decide(context.Background(), game.PublicState{}, "a", checkedTo).Action)
	assert.Equal(t, game.Fold, b.Decide(context.Background(), game.PublicState{}, "a", facingBet).Action)
}

func TestRandBotPicksValidActions(t *testing.T) {
	t.Parallel()
	b := NewRandBot(randutil.New(3))
	for range 200 {
		d := b.Decide(context.Background(), game.PublicState{}, "a", facingBet)
		va, ok := find(facingBet, d.Action)
		require.True(t, ok)
		assert.GreaterOrEqual(t, d.Amount, va.MinAmount)
		assert.LessOrEqual(t, d.Amount, va.MaxAmount)
	}
}

func TestLookupPersonality(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"maniac", "rock", "shark", "station", "tag"}, PersonalityNames())

	p, err := LookupPersonality("Maniac")
	require.NoError(t, err)
	assert.Equal(t, "maniac", p.Name)

	_, err = LookupPersonality("fish")
	assert.ErrorContains(t, err, "unknown personality")
}

func TestPreflopStrengthOrdersHands(t *testing.T) {
	t.Parallel()
	aces := preflopStrength(deck.MustParseCards("AsAh"))
	suitedConnectors := preflopStrength(deck.MustParseCards("9h8h"))
	trash := preflopStrength(deck.MustParseCards("7c2d"))
	assert.InDelta(t, 0.92, aces, 1e-9)
	assert.InDelta(t, 0.22, trash, 1e-9)
	assert.Greater(t, suitedConnectors, trash)
	assert.Less(t, suitedConnectors, aces)
}

func TestRuleBasedNeverFoldsAces(t *testing.T) {
	t.Parallel()
	state := game.PublicState{
		Street:     game.Preflop,
		Pot:        130,
		CurrentBet: 100,
		MinRaise:   80,
		Players: []game.PublicPlayer{
			{ID: "me", IsActive: true, Chips: 990, CurrentBet: 10, Hand: handOf("AsAh")},
			{ID: "villain", IsActive: true, Chips: 900, CurrentBet: 100, Hand: []*deck.Card{nil, nil}},
		},
	}
	valid := []game.ValidAction{
		{Action: game.Fold},
		{Action: game.Call, MinAmount: 100, MaxAmount: 100},
		{Action: game.Raise, MinAmount: 180, MaxAmount: 1000},
		{Action: game.AllIn, MinAmount: 1000, MaxAmount: 1000},
	}

	for _, name := range PersonalityNames() {
		p, err := LookupPersonality(name)
		require.NoError(t, err)
		b := NewRuleBased(p, 100, randutil.New(11), quietLogger())
		for range 50 {
			d := b.Decide(context.Background(), state, "me", valid)
			assert.NotEqual(t, game.Fold, d.Action, name)
			assert.NotEmpty(t, d.Chat)
			assert.Contains(t, d.Thought, "["+name+"]")
		}
	}
}

func TestRuleBasedFoldsWhenNotSeated(t *testing.T) {
	t.Parallel()
	p, err := LookupPersonality("tag")
	require.NoError(t, err)
	b := NewRuleBased(p, 0, randutil.New(1), quietLogger())
	d := b.Decide(context.Background(), game.PublicState{}, "ghost", facingBet)
	assert.Equal(t, game.Fold, d.Action)
}

// Every decision a bot makes must be accepted by the engine.
func TestRuleBasedPlaysLegalHands(t *testing.T) {
	t.Parallel()
	e := game.NewEngine(game.WithRNG(randutil.New(99)), game.WithLogger(quietLogger()))
	bots := map[string]Strategy{}
	for i, name := range PersonalityNames() {
		id := fmt.Sprintf("bot_%d", i+1)
		require.NoError(t, e.AddPlayer(id, name, 1000))
		p, err := LookupPersonality(name)
		require.NoError(t, err)
		bots[id] = NewRuleBased(p, 60, randutil.New(int64(i)), quietLogger())
	}
	total := e.TotalChips()

	for hand := 0; hand < 15; hand++ {
		if err := e.StartHand(); err != nil {
			require.ErrorIs(t, err, game.ErrNotEnoughPlayers)
			break
		}
		for e.InProgress() {
			cur := e.CurrentPlayer()
			d := bots[cur.ID].Decide(context.Background(), e.PublicState(cur.ID), cur.ID, e.ValidActions(cur.ID))
			require.NoError(t, e.PlayerAction(cur.ID, d.Action, d.Amount), "%s: %+v", cur.Name, d)
		}
		require.NoError(t, e.ValidateChipConservation(total))
	}
}

func handOf(s string) []*deck.Card {
	var out []*deck.Card
	for _, c := range deck.MustParseCards(s) {
		out = append(out, &c)
	}
	return out
}
