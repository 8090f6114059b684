package game

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/cyberholdem/internal/deck"
	"github.com/lox/cyberholdem/internal/evaluator"
)

// FoldWinDescription is the winning hand recorded when everyone else folded.
const FoldWinDescription = "Opponents Folded"

// Engine runs hands of Texas Hold'em for a single table.
//
// Engine is not safe for concurrent use. Callers serialise access, and every
// method runs to completion without blocking or I/O.
type Engine struct {
	players []*Player
	deck    *deck.Deck

	community  []deck.Card
	pot        int
	currentBet int
	minRaise   int
	raiseCount int

	dealerIdx        int
	currentPlayerIdx int
	street           Street
	started          bool
	handNumber       int

	winners     []string
	winningHand string
	history     []ActionRecord

	smallBlind int
	bigBlind   int
	maxRaises  int
	deckSource func() *deck.Deck
	logger     *log.Logger
}

// NewEngine creates an engine with no players seated.
func NewEngine(opts ...Option) *Engine {
	cfg := newEngineConfig(opts)
	return &Engine{
		minRaise:   cfg.bigBlind,
		smallBlind: cfg.smallBlind,
		bigBlind:   cfg.bigBlind,
		maxRaises:  cfg.maxRaises,
		deckSource: cfg.deckSource,
		logger:     cfg.logger.WithPrefix("engine"),
	}
}

// AddPlayer seats a player between hands.
func (e *Engine) AddPlayer(id, name string, chips int) error {
	if e.inProgress() {
		return fmt.Errorf("%w: cannot seat %s", ErrHandInProgress, id)
	}
	if chips < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChips, chips)
	}
	if e.findPlayer(id) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
	}
	if len(e.players) >= MaxPlayers {
		return fmt.Errorf("%w: %d seats", ErrTableFull, MaxPlayers)
	}
	e.players = append(e.players, &Player{ID: id, Name: name, Chips: chips, IsActive: chips > 0})
	return nil
}

// RemovePlayer unseats a player between hands. The dealer button keeps
// pointing at the same seat it did before.
func (e *Engine) RemovePlayer(id string) error {
	if e.inProgress() {
		return fmt.Errorf("%w: cannot remove %s", ErrHandInProgress, id)
	}
	idx := e.findPlayer(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	e.players = slices.Delete(e.players, idx, idx+1)
	if idx < e.dealerIdx {
		e.dealerIdx--
	}
	if len(e.players) > 0 {
		e.dealerIdx %= len(e.players)
	} else {
		e.dealerIdx = 0
	}
	return nil
}

// Reset gives every seated player a fresh stack and clears the table, as at
// the start of a new session. The dealer button is kept.
func (e *Engine) Reset(chips int) error {
	if chips < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChips, chips)
	}
	for _, p := range e.players {
		p.Chips = chips
		p.resetForHand()
	}
	e.community = nil
	e.pot = 0
	e.currentBet = 0
	e.minRaise = e.bigBlind
	e.raiseCount = 0
	e.street = Preflop
	e.started = false
	e.handNumber = 0
	e.winners = nil
	e.winningHand = ""
	e.history = nil
	return nil
}

// StartHand rotates the button, shuffles a fresh deck, deals two cards to
// every funded player and posts the blinds. It fails without changing
// anything when fewer than two players have chips.
func (e *Engine) StartHand() error {
	if e.inProgress() {
		return ErrHandInProgress
	}
	funded := 0
	for _, p := range e.players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return fmt.Errorf("%w: %d players with chips", ErrNotEnoughPlayers, funded)
	}

	n := len(e.players)
	e.dealerIdx = (e.dealerIdx + 1) % n
	e.deck = e.deckSource()
	e.community = nil
	e.pot = 0
	e.currentBet = 0
	e.minRaise = e.bigBlind
	e.raiseCount = 0
	e.street = Preflop
	e.started = true
	e.handNumber++
	e.winners = nil
	e.winningHand = ""
	e.history = nil
	for _, p := range e.players {
		p.resetForHand()
	}

	for range 2 {
		for _, p := range e.players {
			if p.IsActive {
				p.Hand = append(p.Hand, e.draw())
			}
		}
	}

	// With every seat funded the blinds sit at dealer+1 and dealer+2;
	// busted seats are skipped.
	sb := e.nextSeat(e.dealerIdx+1, isContesting)
	bb := e.nextSeat(sb+1, isContesting)
	e.postBet(e.players[sb], e.smallBlind)
	e.postBet(e.players[bb], e.bigBlind)
	e.currentBet = e.bigBlind
	e.raiseCount = 0

	e.logger.Debug("hand started",
		"hand", e.handNumber,
		"dealer", e.players[e.dealerIdx].Name,
		"small_blind", e.players[sb].Name,
		"big_blind", e.players[bb].Name,
	)

	first := e.nextSeat(bb+1, (*Player).CanAct)
	if first < 0 {
		// Both blinds put everyone all-in.
		e.currentPlayerIdx = bb
		e.nextStreet()
		return nil
	}
	e.currentPlayerIdx = first
	return nil
}

// PlayerAction applies an action for the player on turn. For Raise, amount is
// the player's new total commitment for the street; it is ignored for every
// other action. A failed action leaves the engine unchanged.
func (e *Engine) PlayerAction(playerID string, action Action, amount int) error {
	idx := e.findPlayer(playerID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if !e.inProgress() {
		return ErrHandNotInProgress
	}
	if idx != e.currentPlayerIdx {
		return fmt.Errorf("%w: current player is %s", ErrNotYourTurn, e.players[e.currentPlayerIdx].Name)
	}
	p := e.players[idx]
	if err := e.validateAction(p, action, amount); err != nil {
		return err
	}

	before := p.Chips
	raised := false
	switch action {
	case Fold:
		p.IsActive = false
	case Check:
	case Call:
		e.postBet(p, e.currentBet-p.CurrentBet)
	case Raise:
		e.postBet(p, amount-p.CurrentBet)
		e.raiseCount++
		raised = true
	case AllIn:
		if p.Chips+p.CurrentBet > e.currentBet {
			e.raiseCount++
			raised = true
		}
		e.postBet(p, p.Chips)
	}

	p.HasActed = true
	if raised {
		for _, other := range e.players {
			if other != p && other.CanAct() {
				other.HasActed = false
			}
		}
	}

	record := ActionRecord{PlayerID: p.ID, Name: p.Name, Street: e.street, Action: action, Amount: before - p.Chips}
	e.history = append(e.history, record)
	e.logger.Debug("player acted", "hand", e.handNumber, "player", p.Name, "action", action, "amount", record.Amount, "pot", e.pot)

	e.advanceTurn()
	return nil
}

func (e *Engine) validateAction(p *Player, action Action, amount int) error {
	switch action {
	case Fold, Call:
		return nil
	case Check:
		if p.CurrentBet < e.currentBet {
			return fmt.Errorf("%w %d", ErrCannotCheck, e.currentBet-p.CurrentBet)
		}
		return nil
	case Raise:
		if e.raiseCount >= e.maxRaises {
			return fmt.Errorf("%w (%d raises per street)", ErrRaiseCapReached, e.maxRaises)
		}
		stack := p.Chips + p.CurrentBet
		minTotal := e.currentBet + e.minRaise
		if amount < minTotal && amount < stack {
			return fmt.Errorf("%w: minimum total is %d", ErrRaiseTooSmall, minTotal)
		}
		if amount > stack {
			return fmt.Errorf("%w: raise to %d needs %d, have %d", ErrNotEnoughChips, amount, amount-p.CurrentBet, p.Chips)
		}
		if amount <= e.currentBet {
			return fmt.Errorf("%w: %d does not raise the bet of %d", ErrRaiseTooSmall, amount, e.currentBet)
		}
		return nil
	case AllIn:
		if p.Chips+p.CurrentBet > e.currentBet && e.raiseCount >= e.maxRaises {
			return fmt.Errorf("%w (%d raises per street)", ErrRaiseCapReached, e.maxRaises)
		}
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidAction, int(action))
}

// postBet moves up to amount chips from p into the pot. The street bet rises
// with p's commitment, and min raise tracks the largest increment seen.
func (e *Engine) postBet(p *Player, amount int) {
	actual := min(p.Chips, amount)
	p.Chips -= actual
	p.CurrentBet += actual
	e.pot += actual
	if p.Chips == 0 {
		p.IsAllIn = true
	}

	if p.CurrentBet > e.currentBet {
		if diff := p.CurrentBet - e.currentBet; diff > e.minRaise {
			e.minRaise = diff
		}
		e.currentBet = p.CurrentBet
	}
}

func (e *Engine) advanceTurn() {
	var last *Player
	contesting := 0
	for _, p := range e.players {
		if p.IsActive {
			contesting++
			last = p
		}
	}
	if contesting == 1 {
		e.resolve(last)
		return
	}

	done := true
	for _, p := range e.players {
		if p.CanAct() && (!p.HasActed || p.CurrentBet != e.currentBet) {
			done = false
			break
		}
	}
	if done {
		e.nextStreet()
		return
	}
	e.currentPlayerIdx = e.nextSeat(e.currentPlayerIdx+1, (*Player).CanAct)
}

func (e *Engine) nextStreet() {
	for e.street != Finished {
		e.currentBet = 0
		e.minRaise = e.bigBlind
		e.raiseCount = 0
		for _, p := range e.players {
			p.resetForStreet()
		}
		if next := e.nextSeat(e.dealerIdx+1, (*Player).CanAct); next >= 0 {
			e.currentPlayerIdx = next
		}

		switch e.street {
		case Preflop:
			e.street = Flop
			e.community = append(e.community, e.draw(), e.draw(), e.draw())
		case Flop:
			e.street = Turn
			e.community = append(e.community, e.draw())
		case Turn:
			e.street = River
			e.community = append(e.community, e.draw())
		case River:
			e.resolve(nil)
			return
		}
		e.logger.Debug("street dealt", "hand", e.handNumber, "street", e.street, "board", deck.FormatCards(e.community))

		canAct := 0
		for _, p := range e.players {
			if p.CanAct() {
				canAct++
			}
		}
		if canAct >= 2 {
			return
		}
		// Fewer than two players can bet: run out the board.
	}
}

// resolve awards the pot. A non-nil foldWinner takes it uncontested;
// otherwise every active player's best hand is compared.
func (e *Engine) resolve(foldWinner *Player) {
	e.street = Showdown
	pot := e.pot

	if foldWinner != nil {
		foldWinner.Chips += e.pot
		e.winners = []string{foldWinner.ID}
		e.winningHand = FoldWinDescription
	} else {
		var (
			best    evaluator.Result
			winners []*Player
		)
		for _, p := range e.players {
			if !p.IsActive {
				continue
			}
			cards := append(slices.Clone(p.Hand), e.community...)
			result, err := evaluator.Evaluate(cards)
			if err != nil {
				panic(fmt.Sprintf("evaluating %s at showdown: %v", p.Name, err))
			}
			switch c := evaluator.Compare(result, best); {
			case len(winners) == 0 || c > 0:
				best = result
				winners = []*Player{p}
			case c == 0:
				winners = append(winners, p)
			}
		}

		// Odd chips go to the first winner in seat order.
		share := e.pot / len(winners)
		for _, w := range winners {
			w.Chips += share
		}
		winners[0].Chips += e.pot % len(winners)

		e.winners = make([]string, len(winners))
		for i, w := range winners {
			e.winners[i] = w.ID
		}
		e.winningHand = best.Category.String()
	}

	e.pot = 0
	e.street = Finished
	e.logger.Info("hand finished", "hand", e.handNumber, "winners", e.winners, "hand_rank", e.winningHand, "pot", pot)
}

// draw deals the next card. A table never deals more than 23 cards, so an
// exhausted deck means the deck source is broken.
func (e *Engine) draw() deck.Card {
	card, ok := e.deck.Deal()
	if !ok {
		panic("deck exhausted")
	}
	return card
}

// nextSeat returns the first seat at or after from (wrapping) whose player
// satisfies ok, or -1 when there is none.
func (e *Engine) nextSeat(from int, ok func(*Player) bool) int {
	n := len(e.players)
	for i := range n {
		idx := (from + i) % n
		if ok(e.players[idx]) {
			return idx
		}
	}
	return -1
}

func (e *Engine) findPlayer(id string) int {
	return slices.IndexFunc(e.players, func(p *Player) bool { return p.ID == id })
}

func (e *Engine) inProgress() bool {
	return e.started && e.street != Finished
}
