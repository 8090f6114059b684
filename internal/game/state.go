package game

import (
	"slices"

	"github.com/lox/cyberholdem/internal/deck"
)

// PublicState is the table as one observer may see it.
type PublicState struct {
	Street             Street         `json:"state"`
	HandNumber         int            `json:"hand_number"`
	Pot                int            `json:"pot"`
	CommunityCards     []deck.Card    `json:"community_cards"`
	Players            []PublicPlayer `json:"players"`
	CurrentPlayerIdx   int            `json:"current_player_idx"`
	DealerIdx          int            `json:"dealer_idx"`
	CurrentBet         int            `json:"current_bet"`
	MinRaise           int            `json:"min_raise"`
	RaiseCount         int            `json:"raise_count"`
	MaxRaisesPerStreet int            `json:"max_raises_per_street"`
	CanRaise           bool           `json:"can_raise"`
	SmallBlind         int            `json:"small_blind"`
	BigBlind           int            `json:"big_blind"`
	Winners            []string       `json:"winners"`
	WinningHand        string         `json:"winning_hand"`
}

// PublicPlayer is a seat as seen by an observer. Hidden hole cards are nil.
type PublicPlayer struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Chips      int          `json:"chips"`
	Hand       []*deck.Card `json:"hand"`
	IsActive   bool         `json:"is_active"`
	CurrentBet int          `json:"current_bet"`
	IsAllIn    bool         `json:"is_all_in"`
	HasActed   bool         `json:"has_acted"`
	IsDealer   bool         `json:"is_dealer"`
	IsTurn     bool         `json:"is_turn"`
}

// Player returns the seat with the given id.
func (s PublicState) Player(id string) (PublicPlayer, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PublicPlayer{}, false
}

// HoleCards returns the visible hole cards, or nil when any are hidden.
func (p PublicPlayer) HoleCards() []deck.Card {
	cards := make([]deck.Card, 0, len(p.Hand))
	for _, c := range p.Hand {
		if c == nil {
			return nil
		}
		cards = append(cards, *c)
	}
	return cards
}

// PublicState projects the table for observerID. The observer sees their own
// hole cards. Everyone sees the cards of players still in the hand once it
// has been decided by a showdown; a hand won by folds reveals nothing.
// Unknown observers get the same view as any other non-seated spectator.
func (e *Engine) PublicState(observerID string) PublicState {
	showdown := e.isShowdown()
	state := PublicState{
		Street:             e.street,
		HandNumber:         e.handNumber,
		Pot:                e.pot,
		CommunityCards:     slices.Clone(e.community),
		Players:            make([]PublicPlayer, len(e.players)),
		CurrentPlayerIdx:   e.currentPlayerIdx,
		DealerIdx:          e.dealerIdx,
		CurrentBet:         e.currentBet,
		MinRaise:           e.minRaise,
		RaiseCount:         e.raiseCount,
		MaxRaisesPerStreet: e.maxRaises,
		CanRaise:           e.raiseCount < e.maxRaises,
		SmallBlind:         e.smallBlind,
		BigBlind:           e.bigBlind,
		Winners:            slices.Clone(e.winners),
		WinningHand:        e.winningHand,
	}
	if state.CommunityCards == nil {
		state.CommunityCards = []deck.Card{}
	}
	if state.Winners == nil {
		state.Winners = []string{}
	}

	for i, p := range e.players {
		reveal := p.ID == observerID || (showdown && p.IsActive)
		hand := make([]*deck.Card, len(p.Hand))
		if reveal {
			for j := range p.Hand {
				card := p.Hand[j]
				hand[j] = &card
			}
		}
		state.Players[i] = PublicPlayer{
			ID:         p.ID,
			Name:       p.Name,
			Chips:      p.Chips,
			Hand:       hand,
			IsActive:   p.IsActive,
			CurrentBet: p.CurrentBet,
			IsAllIn:    p.IsAllIn,
			HasActed:   p.HasActed,
			IsDealer:   i == e.dealerIdx,
			IsTurn:     e.inProgress() && i == e.currentPlayerIdx,
		}
	}
	return state
}

// isShowdown reports whether the last hand was decided by comparing hands.
func (e *Engine) isShowdown() bool {
	return (e.street == Showdown || e.street == Finished) &&
		len(e.winners) > 0 &&
		e.winningHand != "" && e.winningHand != FoldWinDescription
}
