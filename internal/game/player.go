package game

import (
	"github.com/lox/cyberholdem/internal/deck"
)

// Player is a seat at the table. Chips persist across hands; every other
// field is reset when a hand starts.
type Player struct {
	ID         string
	Name       string
	Chips      int
	Hand       []deck.Card
	IsActive   bool // still contesting the current hand
	CurrentBet int  // committed this street
	IsAllIn    bool
	HasActed   bool // acted since the last bet this street
}

// CanAct returns true if the player can still be put on turn
func (p *Player) CanAct() bool {
	return p.IsActive && !p.IsAllIn
}

func (p *Player) resetForHand() {
	p.Hand = nil
	p.IsActive = p.Chips > 0
	p.CurrentBet = 0
	p.IsAllIn = false
	p.HasActed = false
}

func (p *Player) resetForStreet() {
	p.CurrentBet = 0
	p.HasActed = false
}

func isContesting(p *Player) bool {
	return p.IsActive
}
