package game

import (
	"fmt"
	"slices"

	"github.com/lox/cyberholdem/internal/deck"
)

// ValidActions returns the actions playerID may take right now. It is empty
// when the player is unknown, not on turn or no hand is in progress.
func (e *Engine) ValidActions(playerID string) []ValidAction {
	idx := e.findPlayer(playerID)
	if idx < 0 || idx != e.currentPlayerIdx || !e.inProgress() {
		return []ValidAction{}
	}
	p := e.players[idx]
	if !p.CanAct() {
		return []ValidAction{}
	}

	actions := []ValidAction{{Action: Fold}}
	toCall := e.currentBet - p.CurrentBet
	stack := p.Chips + p.CurrentBet

	if toCall <= 0 {
		actions = append(actions, ValidAction{Action: Check})
	} else {
		call := min(toCall, p.Chips)
		actions = append(actions, ValidAction{Action: Call, MinAmount: p.CurrentBet + call, MaxAmount: p.CurrentBet + call})
	}

	canRaise := e.raiseCount < e.maxRaises
	if canRaise && stack > e.currentBet {
		minTotal := min(e.currentBet+e.minRaise, stack)
		actions = append(actions, ValidAction{Action: Raise, MinAmount: minTotal, MaxAmount: stack})
	}
	if p.Chips > 0 && (canRaise || stack <= e.currentBet) {
		actions = append(actions, ValidAction{Action: AllIn, MinAmount: stack, MaxAmount: stack})
	}
	return actions
}

// ValidateChipConservation checks that chips behind plus the pot equal
// expectedTotal.
func (e *Engine) ValidateChipConservation(expectedTotal int) error {
	actualTotal := e.TotalChips()
	if actualTotal != expectedTotal {
		return fmt.Errorf("chip conservation violation: expected %d total chips, but found %d (difference: %d)",
			expectedTotal, actualTotal, actualTotal-expectedTotal)
	}
	return nil
}

// TotalChips returns the chips at the table, including the pot.
func (e *Engine) TotalChips() int {
	total := e.pot
	for _, p := range e.players {
		total += p.Chips
	}
	return total
}

// CurrentPlayer returns the player on turn, or nil when no hand is in progress.
func (e *Engine) CurrentPlayer() *Player {
	if !e.inProgress() || e.currentPlayerIdx < 0 || e.currentPlayerIdx >= len(e.players) {
		return nil
	}
	p := *e.players[e.currentPlayerIdx]
	p.Hand = slices.Clone(p.Hand)
	return &p
}

// Players returns copies of every seat in table order.
func (e *Engine) Players() []Player {
	out := make([]Player, len(e.players))
	for i, p := range e.players {
		out[i] = *p
		out[i].Hand = slices.Clone(p.Hand)
	}
	return out
}

func (e *Engine) Street() Street { return e.street }
func (e *Engine) HandNumber() int { return e.handNumber }
func (e *Engine) Pot() int { return e.pot }
func (e *Engine) Winners() []string { return slices.Clone(e.winners) }
func (e *Engine) WinningHand() string { return e.winningHand }
func (e *Engine) Community() []deck.Card { return slices.Clone(e.community) }
func (e *Engine) History() []ActionRecord { return slices.Clone(e.history) }
func (e *Engine) InProgress() bool { return e.inProgress() }
func (e *Engine) NumPlayers() int { return len(e.players) }
