// Package game implements the betting state machine for one Texas Hold'em
// table.
//
// The main type is Engine. It owns the seated players, the deck, the board
// and the pot, and moves a hand from the deal through preflop, flop, turn
// and river to a resolution.
//
// # Basic Usage
//
//	e := game.NewEngine(game.WithBlinds(10, 20))
//	_ = e.AddPlayer("alice", "Alice", 1000)
//	_ = e.AddPlayer("bob", "Bob", 1000)
//	if err := e.StartHand(); err != nil {
//	    return err
//	}
//	cur := e.CurrentPlayer()
//	err := e.PlayerAction(cur.ID, game.Call, 0)
//
// Rejected actions return one of the sentinel errors (ErrNotYourTurn,
// ErrRaiseTooSmall, ...) wrapped with detail, and leave the engine
// untouched. Match them with errors.Is.
//
// # Deterministic Testing
//
// Inject the shuffle source, or replace the deck outright:
//
//	e := game.NewEngine(game.WithRNG(randutil.New(42)))
//	e := game.NewEngine(game.WithDeckSource(func() *deck.Deck {
//	    return deck.NewStackedDeck(cards...)
//	}))
//
// # Pot Rules
//
// All chips go into a single pot; there are no side pots. At showdown the pot
// is split evenly between the best hands and any odd chips go to the first
// winner in seat order.
//
// # Concurrency
//
// Engine does no locking. The owner (see internal/server.Table) serialises
// every call.
package game
