// Package bot holds the table's computer opponents. A Strategy only sees what
// its seat may see: the observer-scoped public state and the legal actions.
package bot

import (
	"context"

	"github.com/lox/cyberholdem/internal/game"
)

// Decision is a bot's chosen action. Amount is the street total for a raise.
type Decision struct {
	Action  game.Action
	Amount  int
	Thought string // private reasoning, shown in the bot_thought message
	Chat    string // table talk
}

// Strategy picks an action for playerID. valid is never empty when Decide is
// called, and the returned decision must be one of them.
type Strategy interface {
	Decide(ctx context.Context, state game.PublicState, playerID string, valid []game.ValidAction) Decision
}

// find returns the valid action of the given kind.
func find(valid []game.ValidAction, action game.Action) (game.ValidAction, bool) {
	for _, va := range valid {
		if va.Action == action {
			return va, true
		}
	}
	return game.ValidAction{}, false
}

// Legalize coerces d into one of the valid actions. Raise amounts are clamped
// to the legal range; an unavailable raise becomes a call, an unavailable
// call a check, and anything else left over a fold.
func Legalize(d Decision, valid []game.ValidAction) Decision {
	if va, ok := find(valid, d.Action); ok {
		if d.Action == game.Raise {
			d.Amount = max(va.MinAmount, min(d.Amount, va.MaxAmount))
		} else {
			d.Amount = va.MinAmount
		}
		return d
	}

	if d.Action == game.Raise || d.Action == game.AllIn {
		if va, ok := find(valid, game.Call); ok {
			d.Action, d.Amount = game.Call, va.MinAmount
			return d
		}
	}
	for _, fallback := range []game.Action{game.Check, game.Fold} {
		if _, ok := find(valid, fallback); ok {
			d.Action, d.Amount = fallback, 0
			return d
		}
	}
	if len(valid) > 0 {
		d.Action, d.Amount = valid[0].Action, valid[0].MinAmount
		return d
	}
	d.Action, d.Amount = game.Fold, 0
	return d
}
