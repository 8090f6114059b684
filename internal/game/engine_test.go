package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/cyberholdem/internal/deck"
	"github.com/lox/cyberholdem/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// stackedEngine returns an engine whose every hand is dealt from cards in
// order: hole cards round by round in seat order, then flop, turn and river.
func stackedEngine(t *testing.T, cards string, opts ...Option) *Engine {
	t.Helper()
	top := deck.MustParseCards(cards)
	opts = append([]Option{
		WithLogger(quietLogger()),
		WithDeckSource(func() *deck.Deck { return deck.NewStackedDeck(top...) }),
	}, opts...)
	return NewEngine(opts...)
}

func seat(t *testing.T, e *Engine, chips ...int) {
	t.Helper()
	for i, c := range chips {
		id := string(rune('a' + i))
		require.NoError(t, e.AddPlayer(id, "Player "+id, c))
	}
}

func act(t *testing.T, e *Engine, id string, action Action, amount int) {
	t.Helper()
	require.NoError(t, e.PlayerAction(id, action, amount), "%s %s %d", id, action, amount)
}

func chipsOf(e *Engine) []int {
	var out []int
	for _, p := range e.Players() {
		out = append(out, p.Chips)
	}
	return out
}

func TestPocketAcesBeatKingsAtShowdown(t *testing.T) {
	t.Parallel()
	// b sits first, so after the first rotation a is dealer and big blind.
	e := stackedEngine(t, "Kc As Kd Ah 2c 7d 9h Js 4s")
	require.NoError(t, e.AddPlayer("b", "B", 1000))
	require.NoError(t, e.AddPlayer("a", "A", 1000))
	require.NoError(t, e.StartHand())

	state := e.PublicState("a")
	require.Equal(t, 1, state.DealerIdx)
	require.Equal(t, 30, state.Pot)
	require.Equal(t, "b", e.CurrentPlayer().ID)

	act(t, e, "b", Call, 0)
	act(t, e, "a", Check, 0)
	for _, street := range []Street{Flop, Turn, River} {
		require.Equal(t, street, e.Street())
		act(t, e, "b", Check, 0)
		act(t, e, "a", Check, 0)
	}

	require.Equal(t, Finished, e.Street())
	assert.Equal(t, []string{"a"}, e.Winners())
	assert.Equal(t, "Pair", e.WinningHand())
	assert.Equal(t, []int{980, 1020}, chipsOf(e))
	assert.Equal(t, 2000, e.TotalChips())
	assert.Zero(t, e.Pot())
}

func TestStartHand(t *testing.T) {
	t.Parallel()

	t.Run("posts blinds and deals", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(WithRNG(randutil.New(1)), WithLogger(quietLogger()))
		seat(t, e, 1000, 1000, 1000)
		require.NoError(t, e.StartHand())

		s := e.PublicState("")
		assert.Equal(t, Preflop, s.Street)
		assert.Equal(t, 1, s.HandNumber)
		assert.Equal(t, 1, s.DealerIdx)
		assert.Equal(t, 20, s.Players[0].CurrentBet, "big blind")
		assert.Equal(t, 10, s.Players[2].CurrentBet, "small blind")
		assert.Equal(t, 30, s.Pot)
		assert.Equal(t, 20, s.CurrentBet)
		assert.Equal(t, 20, s.MinRaise)
		assert.Zero(t, s.RaiseCount)
		assert.Equal(t, 1, s.CurrentPlayerIdx, "first to act sits after the big blind")
		assert.True(t, s.Players[1].IsTurn)
		assert.True(t, s.Players[1].IsDealer)
		for _, p := range e.Players() {
			assert.Len(t, p.Hand, 2)
		}
	})

	t.Run("dealer rotates each hand", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(WithRNG(randutil.New(2)), WithLogger(quietLogger()))
		seat(t, e, 1000, 1000, 1000)
		for _, want := range []int{1, 2, 0, 1} {
			require.NoError(t, e.StartHand())
			assert.Equal(t, want, e.PublicState("").DealerIdx)
			cur := e.CurrentPlayer()
			act(t, e, cur.ID, Fold, 0)
			cur = e.CurrentPlayer()
			act(t, e, cur.ID, Fold, 0)
			require.Equal(t, Finished, e.Street())
		}
	})

	t.Run("needs two funded players", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(WithLogger(quietLogger()))
		seat(t, e, 1000, 0)
		before := e.PublicState("")

		err := e.StartHand()
		require.ErrorIs(t, err, ErrNotEnoughPlayers)
		assert.Equal(t, before, e.PublicState(""))
		assert.Zero(t, e.HandNumber())
	})

	t.Run("busted seats sit out", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(WithRNG(randutil.New(3)), WithLogger(quietLogger()))
		seat(t, e, 1000, 0, 1000)
		require.NoError(t, e.StartHand())

		players := e.Players()
		assert.False(t, players[1].IsActive)
		assert.Empty(t, players[1].Hand)
		assert.Zero(t, players[1].CurrentBet)
		assert.Equal(t, 30, e.Pot())
	})

	t.Run("cannot start twice", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(WithLogger(quietLogger()))
		seat(t, e, 1000, 1000)
		require.NoError(t, e.StartHand())
		assert.ErrorIs(t, e.StartHand(), ErrHandInProgress)
	})
}

func TestPlayerActionRejectsWithoutChangingState(t *testing.T) {
	t.Parallel()
	// a is big blind, b is dealer and first to act, c is small blind.
	e := NewEngine(WithRNG(randutil.New(5)), WithLogger(quietLogger()))
	seat(t, e, 1000, 1000, 55)
	require.NoError(t, e.StartHand())
	require.Equal(t, "b", e.CurrentPlayer().ID)

	tests := []struct {
		name   string
		id     string
		action Action
		amount int
		want   error
	}{
		{"unknown player", "zz", Call, 0, ErrPlayerNotFound},
		{"out of turn", "a", Call, 0, ErrNotYourTurn},
		{"check facing a bet", "b", Check, 0, ErrCannotCheck},
		{"raise below minimum", "b", Raise, 39, ErrRaiseTooSmall},
		{"raise beyond stack", "b", Raise, 1001, ErrNotEnoughChips},
		{"unknown action", "b", Action(42), 0, ErrInvalidAction},
	}
	for _, tt := range tests {
		before := e.PublicState("")
		err := e.PlayerAction(tt.id, tt.action, tt.amount)
		assert.ErrorIs(t, err, tt.want, tt.name)
		assert.Equal(t, before, e.PublicState(""), tt.name)
	}

	act(t, e, "b", Raise, 40)
	// c can shove 55 total even though the minimum raise is to 60.
	act(t, e, "c", Raise, 55)
	assert.Equal(t, 55, e.PublicState("").CurrentBet)
	assert.True(t, e.Players()[2].IsAllIn)
}

func TestActionsAfterHandFinished(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithLogger(quietLogger()))
	seat(t, e, 1000, 1000)
	assert.ErrorIs(t, e.PlayerAction("a", Check, 0), ErrHandNotInProgress)

	require.NoError(t, e.StartHand())
	act(t, e, e.CurrentPlayer().ID, Fold, 0)
	require.Equal(t, Finished, e.Street())
	assert.ErrorIs(t, e.PlayerAction("a", Check, 0), ErrHandNotInProgress)
	assert.Nil(t, e.CurrentPlayer())
	assert.Empty(t, e.ValidActions("a"))
}

func TestRaiseCap(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithRNG(randutil.New(8)), WithLogger(quietLogger()), WithMaxRaisesPerStreet(4))
	seat(t, e, 5000, 5000)
	require.NoError(t, e.StartHand())

	// Heads up the small blind (seat a) acts first preflop.
	ids := []string{"a", "b"}
	for i, total := range []int{40, 60, 80, 100} {
		act(t, e, ids[i%2], Raise, total)
	}
	require.Equal(t, 4, e.PublicState("").RaiseCount)
	assert.False(t, e.PublicState("").CanRaise)

	before := e.PublicState("")
	assert.ErrorIs(t, e.PlayerAction("a", Raise, 120), ErrRaiseCapReached)
	assert.ErrorIs(t, e.PlayerAction("a", AllIn, 0), ErrRaiseCapReached)
	assert.Equal(t, before, e.PublicState(""))

	for _, va := range e.ValidActions("a") {
		assert.NotEqual(t, Raise, va.Action)
		assert.NotEqual(t, AllIn, va.Action)
	}

	act(t, e, "a", Call, 0)
	assert.Equal(t, Flop, e.Street())
	assert.Zero(t, e.PublicState("").RaiseCount)
	assert.True(t, e.PublicState("").CanRaise)
}

func TestMinRaiseIsSticky(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithRNG(randutil.New(13)), WithLogger(quietLogger()))
	seat(t, e, 1000, 1000, 120)
	require.NoError(t, e.StartHand())

	act(t, e, "b", Raise, 100)
	assert.Equal(t, 80, e.PublicState("").MinRaise)

	// A short all-in over the bet does not shrink the minimum increment.
	act(t, e, "c", AllIn, 0)
	s := e.PublicState("")
	assert.Equal(t, 120, s.CurrentBet)
	assert.Equal(t, 80, s.MinRaise)
	assert.Equal(t, 2, s.RaiseCount)

	assert.ErrorIs(t, e.PlayerAction("a", Raise, 199), ErrRaiseTooSmall)
	act(t, e, "a", Raise, 200)
	assert.Equal(t, 80, e.PublicState("").MinRaise)
}

func TestTurnSkipsAllInPlayers(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithRNG(randutil.New(21)), WithLogger(quietLogger()))
	seat(t, e, 1000, 1000, 120)
	require.NoError(t, e.StartHand())

	act(t, e, "b", Call, 0)
	act(t, e, "c", AllIn, 0)
	act(t, e, "a", Call, 0)
	act(t, e, "b", Call, 0)
	require.Equal(t, Flop, e.Street())

	var order []string
	for e.Street() != Finished {
		cur := e.CurrentPlayer()
		require.NotNil(t, cur)
		require.True(t, cur.CanAct())
		order = append(order, cur.ID)
		act(t, e, cur.ID, Check, 0)
	}
	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, order)
	assert.Equal(t, 2120, e.TotalChips())
}

func TestShowdownRevealsActiveHands(t *testing.T) {
	t.Parallel()
	e := stackedEngine(t, "Kc As Kd Ah 2c 7d 9h Js 4s")
	seat(t, e, 1000, 1000)
	require.NoError(t, e.StartHand())

	// Hidden from everyone but the owner while the hand is live.
	live := e.PublicState("a")
	assert.NotNil(t, live.Players[0].Hand[0])
	assert.Nil(t, live.Players[1].Hand[0])
	assert.Nil(t, live.Players[1].HoleCards())
	spectator := e.PublicState("nobody")
	for _, p := range spectator.Players {
		assert.Equal(t, []*deck.Card{nil, nil}, p.Hand)
	}

	act(t, e, "a", Call, 0)
	for e.Street() != Finished {
		act(t, e, e.CurrentPlayer().ID, Check, 0)
	}

	for _, observer := range []string{"a", "b", "nobody"} {
		s := e.PublicState(observer)
		assert.Equal(t, deck.MustParseCards("Kc Kd"), s.Players[0].HoleCards(), observer)
		assert.Equal(t, deck.MustParseCards("As Ah"), s.Players[1].HoleCards(), observer)
	}
}

func TestFoldOutNeverRevealsWinner(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithRNG(randutil.New(34)), WithLogger(quietLogger()))
	seat(t, e, 1000, 1000)
	require.NoError(t, e.StartHand())

	act(t, e, "a", Fold, 0)
	require.Equal(t, Finished, e.Street())
	assert.Equal(t, []string{"b"}, e.Winners())
	assert.Equal(t, FoldWinDescription, e.WinningHand())
	assert.Equal(t, []int{990, 1010}, chipsOf(e))

	s := e.PublicState("a")
	assert.Nil(t, s.Players[1].HoleCards(), "winner by folds stays hidden")
	assert.NotNil(t, s.Players[0].HoleCards(), "observer still sees their own cards")
	assert.Empty(t, e.PublicState("nobody").Players[1].HoleCards())
}

func TestSplitPotGivesOddChipToFirstWinner(t *testing.T) {
	t.Parallel()
	// a: AsKd, b: AcKh, c: 2c3d. Board Qh Jd Tc 7s 4h makes Broadway for a and b.
	e := stackedEngine(t, "As Ac 2c Kd Kh 3d Qh Jd Tc 7s 4h", WithBlinds(5, 10))
	seat(t, e, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	act(t, e, "b", Call, 0)
	act(t, e, "c", Fold, 0)
	act(t, e, "a", Check, 0)
	for e.Street() != Finished {
		act(t, e, e.CurrentPlayer().ID, Check, 0)
	}

	assert.Equal(t, []string{"a", "b"}, e.Winners())
	assert.Equal(t, "Straight", e.WinningHand())
	assert.Equal(t, []int{1003, 1002, 995}, chipsOf(e))
	assert.Equal(t, 3000, e.TotalChips())
}

func TestAllInRunsOutBoard(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithRNG(randutil.New(55)), WithLogger(quietLogger()))
	seat(t, e, 300, 1000)
	require.NoError(t, e.StartHand())

	act(t, e, "a", AllIn, 0)
	act(t, e, "b", Call, 0)

	require.Equal(t, Finished, e.Street())
	assert.Len(t, e.Community(), 5)
	assert.NotEmpty(t, e.Winners())
	assert.Equal(t, 1300, e.TotalChips())
	assert.Zero(t, e.Pot())
}

func TestBlindsCanPutEveryoneAllIn(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithRNG(randutil.New(89)), WithLogger(quietLogger()))
	seat(t, e, 10, 15)
	require.NoError(t, e.StartHand())

	assert.Equal(t, Finished, e.Street())
	assert.Len(t, e.Community(), 5)
	assert.Equal(t, 25, e.TotalChips())
}

func TestRaiseResetsOthersHasActed(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithRNG(randutil.New(144)), WithLogger(quietLogger()))
	seat(t, e, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	act(t, e, "b", Call, 0)
	act(t, e, "c", Call, 0)
	act(t, e, "a", Raise, 60)

	players := e.Players()
	assert.True(t, players[0].HasActed)
	assert.False(t, players[1].HasActed)
	assert.False(t, players[2].HasActed)
	assert.Equal(t, "b", e.CurrentPlayer().ID)
	assert.Equal(t, Preflop, e.Street())

	history := e.History()
	require.Len(t, history, 3)
	assert.Equal(t, ActionRecord{PlayerID: "a", Name: "Player a", Street: Preflop, Action: Raise, Amount: 40}, history[2])
}

func TestValidActions(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithRNG(randutil.New(233)), WithLogger(quietLogger()))
	seat(t, e, 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	assert.Equal(t, []ValidAction{
		{Action: Fold},
		{Action: Call, MinAmount: 20, MaxAmount: 20},
		{Action: Raise, MinAmount: 40, MaxAmount: 1000},
		{Action: AllIn, MinAmount: 1000, MaxAmount: 1000},
	}, e.ValidActions("b"))
	assert.Empty(t, e.ValidActions("a"), "not on turn")

	act(t, e, "b", Call, 0)
	act(t, e, "c", Call, 0)
	assert.Equal(t, []ValidAction{
		{Action: Fold},
		{Action: Check},
		{Action: Raise, MinAmount: 40, MaxAmount: 1000},
		{Action: AllIn, MinAmount: 1000, MaxAmount: 1000},
	}, e.ValidActions("a"))
}

func TestSeatManagement(t *testing.T) {
	t.Parallel()
	e := NewEngine(WithLogger(quietLogger()))
	require.NoError(t, e.AddPlayer("a", "A", 1000))
	assert.ErrorIs(t, e.AddPlayer("a", "A again", 1000), ErrDuplicatePlayer)
	assert.ErrorIs(t, e.AddPlayer("n", "Negative", -1), ErrInvalidChips)
	for i := 1; i < MaxPlayers; i++ {
		require.NoError(t, e.AddPlayer(string(rune('b'+i)), "P", 100))
	}
	assert.ErrorIs(t, e.AddPlayer("full", "Full", 100), ErrTableFull)

	require.NoError(t, e.StartHand())
	assert.ErrorIs(t, e.AddPlayer("late", "Late", 100), ErrHandInProgress)
	assert.ErrorIs(t, e.RemovePlayer("a"), ErrHandInProgress)
	for e.InProgress() {
		act(t, e, e.CurrentPlayer().ID, Fold, 0)
	}

	require.NoError(t, e.RemovePlayer("a"))
	assert.ErrorIs(t, e.RemovePlayer("a"), ErrPlayerNotFound)
	assert.Equal(t, MaxPlayers-1, e.NumPlayers())

	require.NoError(t, e.Reset(500))
	assert.Equal(t, 500*(MaxPlayers-1), e.TotalChips())
	assert.Zero(t, e.HandNumber())
}

// Random legal play must never create or destroy chips.
func TestChipConservationUnderRandomPlay(t *testing.T) {
	t.Parallel()
	for seed := int64(1); seed <= 20; seed++ {
		rng := randutil.New(seed)
		e := NewEngine(WithRNG(randutil.New(seed*7919)), WithLogger(quietLogger()))
		seat(t, e, 500, 800, 1000, 250, 1200, 600)
		total := e.TotalChips()

		for hand := 0; hand < 30; hand++ {
			if err := e.StartHand(); err != nil {
				require.ErrorIs(t, err, ErrNotEnoughPlayers)
				break
			}
			for e.InProgress() {
				require.NoError(t, e.ValidateChipConservation(total))
				s := e.PublicState("")
				require.LessOrEqual(t, s.RaiseCount, s.MaxRaisesPerStreet)

				cur := e.CurrentPlayer()
				require.NotNil(t, cur)
				require.True(t, cur.CanAct(), "seed %d: %s on turn but cannot act", seed, cur.ID)

				valid := e.ValidActions(cur.ID)
				require.NotEmpty(t, valid)
				va := valid[rng.IntN(len(valid))]
				amount := va.MinAmount
				if va.MaxAmount > va.MinAmount {
					amount += rng.IntN(va.MaxAmount - va.MinAmount + 1)
				}
				require.NoError(t, e.PlayerAction(cur.ID, va.Action, amount), "seed %d: %+v", seed, va)
			}
			require.NoError(t, e.ValidateChipConservation(total))
			require.Zero(t, e.Pot())
		}
	}
}
