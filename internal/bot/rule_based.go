package bot

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/cyberholdem/internal/deck"
	"github.com/lox/cyberholdem/internal/evaluator"
	"github.com/lox/cyberholdem/internal/game"
	"github.com/lox/cyberholdem/internal/randutil"
)

const (
	defaultEquitySamples = 400

	// Strength noise, wider for loose personalities.
	noiseBase        = 0.12
	noiseLooseFactor = 0.08

	// Bluff sizing as a fraction of the pot.
	bluffBetFrac   = 0.40
	bluffRaiseFrac = 0.55

	weakBluffThreshold = 0.30
	bluffRaiseFreqMult = 0.60

	// Loose-passive players sometimes call anyway.
	stationTightness  = 0.30
	stationAggression = 0.40
	stationCallProb   = 0.45

	sizeStrongThreshold = 0.85
	sizeMediumThreshold = 0.65
	sizeStrongFracBase  = 0.75
	sizeStrongFracAgg   = 0.25
	sizeMediumFracBase  = 0.45
	sizeMediumFracAgg   = 0.20
	sizeWeakFracBase    = 0.30
	sizeWeakFracAgg     = 0.15

	betJitterLo = 0.85
	betJitterHi = 1.15
)

// RuleBased plays from a hand strength estimate shifted by a Personality.
// Preflop strength comes from the starting hand chart, postflop strength from
// Monte Carlo equity against the opponents still in the hand.
type RuleBased struct {
	p       Personality
	samples int
	logger  *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRuleBased creates a bot. samples is the equity sample count; zero
// selects the default.
func NewRuleBased(p Personality, samples int, rng *rand.Rand, logger *log.Logger) *RuleBased {
	if samples <= 0 {
		samples = defaultEquitySamples
	}
	return &RuleBased{
		p:       p,
		samples: samples,
		rng:     rng,
		logger:  logger.WithPrefix("bot").With("personality", p.Name),
	}
}

// Personality returns the bot's personality.
func (b *RuleBased) Personality() Personality {
	return b.p
}

// situation is what the bot knows about the spot it is in.
type situation struct {
	strength   float64
	toCall     int
	minRaise   int
	currentBet int
	pot        int
	chips      int
}

func (b *RuleBased) Decide(ctx context.Context, state game.PublicState, playerID string, valid []game.ValidAction) Decision {
	me, ok := state.Player(playerID)
	if !ok || !me.IsActive {
		b.logger.Warn("player not found or inactive, folding", "player", playerID)
		return Legalize(Decision{Action: game.Fold, Thought: "Not active", Chat: "Fold."}, valid)
	}

	b.mu.Lock()
	eqRNG := randutil.Derive(b.rng)
	b.mu.Unlock()

	strength := b.assessStrength(ctx, state, me, eqRNG)

	b.mu.Lock()
	defer b.mu.Unlock()

	noise := noiseBase + (1.0-b.p.Tightness)*noiseLooseFactor
	strength = clamp01(strength + (b.rng.Float64()*2-1)*noise)

	s := situation{
		strength:   strength,
		toCall:     max(0, state.CurrentBet-me.CurrentBet),
		minRaise:   state.MinRaise,
		currentBet: state.CurrentBet,
		pot:        state.Pot,
		chips:      me.Chips,
	}
	b.logger.Debug("deciding", "player", playerID, "street", state.Street, "strength", fmt.Sprintf("%.2f", strength), "to_call", s.toCall)

	d := b.decide(s, valid)
	legal := Legalize(d, valid)
	if legal.Action != d.Action {
		legal.Chat = b.chat(legal.Action)
	}
	return legal
}

func (b *RuleBased) assessStrength(ctx context.Context, state game.PublicState, me game.PublicPlayer, rng *rand.Rand) float64 {
	hole := me.HoleCards()
	if len(hole) != 2 {
		return 0.25
	}
	if state.Street == game.Preflop {
		return preflopStrength(hole)
	}

	opponents := 0
	for _, p := range state.Players {
		if p.ID != me.ID && p.IsActive {
			opponents++
		}
	}
	opponents = max(1, min(opponents, evaluator.MaxOpponents))

	equity, err := evaluator.EstimateEquity(ctx, hole, state.CommunityCards, opponents, b.samples, rng)
	if err == nil {
		return equity
	}
	b.logger.Debug("equity failed, using made hand", "error", err)
	if r, err := evaluator.Evaluate(append(hole, state.CommunityCards...)); err == nil {
		return float64(r.Category-evaluator.HighCard) / 9.0
	}
	return 0.3
}

// preflopStrength maps the starting hand percentile onto roughly 0.22..0.92.
func preflopStrength(hole []deck.Card) float64 {
	return 0.22 + 0.70*deck.StartingHandPercentile(hole)
}

func (b *RuleBased) decide(s situation, valid []game.ValidAction) Decision {
	p := b.p
	_, canRaise := find(valid, game.Raise)

	// Higher aggression lowers the bar for betting; looser play folds less.
	betThreshold := 0.70 - p.Aggression*0.18
	raiseThreshold := 0.75 - p.Aggression*0.12
	foldThreshold := 0.35 - p.Aggression*0.12 - (1.0-p.Tightness)*0.08

	if s.chips <= 0 {
		return b.decision(game.Fold, 0, "No chips")
	}

	if s.toCall == 0 {
		if s.strength > betThreshold && canRaise {
			return b.decision(game.Raise, s.currentBet+b.sizeBet(s), fmt.Sprintf("Value bet (str=%.2f)", s.strength))
		}
		if s.strength < weakBluffThreshold && canRaise && b.rng.Float64() < p.BluffFreq {
			size := max(s.minRaise, int(float64(s.pot)*bluffBetFrac))
			return b.decision(game.Raise, s.currentBet+size, fmt.Sprintf("Bluff (str=%.2f)", s.strength))
		}
		return b.decision(game.Check, 0, fmt.Sprintf("Check (str=%.2f)", s.strength))
	}

	potOdds := float64(s.toCall) / float64(s.toCall+max(1, s.minRaise))

	if s.strength > potOdds+0.12 && s.strength > raiseThreshold && canRaise {
		return b.decision(game.Raise, s.currentBet+b.sizeBet(s), fmt.Sprintf("Value raise (str=%.2f)", s.strength))
	}
	if s.strength > potOdds+0.10 {
		return b.decision(game.Call, 0, fmt.Sprintf("Good odds call (str=%.2f > po=%.2f)", s.strength, potOdds))
	}
	if s.strength > foldThreshold {
		return b.decision(game.Call, 0, fmt.Sprintf("Marginal call (str=%.2f)", s.strength))
	}
	if canRaise && b.rng.Float64() < p.BluffFreq*bluffRaiseFreqMult {
		size := max(s.minRaise, int(float64(s.pot)*bluffRaiseFrac))
		return b.decision(game.Raise, s.currentBet+size, fmt.Sprintf("Bluff raise (str=%.2f)", s.strength))
	}
	if p.Tightness < stationTightness && p.Aggression < stationAggression && b.rng.Float64() < stationCallProb {
		return b.decision(game.Call, 0, fmt.Sprintf("Stubborn call (str=%.2f)", s.strength))
	}
	return b.decision(game.Fold, 0, fmt.Sprintf("Fold (str=%.2f)", s.strength))
}

// sizeBet returns the raise increment over the current bet.
func (b *RuleBased) sizeBet(s situation) int {
	p := b.p
	var frac float64
	switch {
	case s.strength > sizeStrongThreshold:
		frac = sizeStrongFracBase + p.Aggression*sizeStrongFracAgg
	case s.strength > sizeMediumThreshold:
		frac = sizeMediumFracBase + p.Aggression*sizeMediumFracAgg
	default:
		frac = sizeWeakFracBase + p.Aggression*sizeWeakFracAgg
	}

	amount := max(s.minRaise, int(float64(s.pot)*frac))
	jitter := betJitterLo + b.rng.Float64()*(betJitterHi-betJitterLo)
	amount = int(float64(amount) * jitter)
	return max(s.minRaise, min(amount, s.chips))
}

func (b *RuleBased) decision(action game.Action, amount int, thought string) Decision {
	return Decision{
		Action:  action,
		Amount:  amount,
		Thought: fmt.Sprintf("[%s] %s", b.p.Name, thought),
		Chat:    b.chat(action),
	}
}

func (b *RuleBased) chat(action game.Action) string {
	var pool []string
	switch action {
	case game.Fold:
		pool = b.p.ChatFold
	case game.Check:
		pool = b.p.ChatCheck
	case game.Call:
		pool = b.p.ChatCall
	case game.Raise, game.AllIn:
		pool = b.p.ChatRaise
	}
	if len(pool) == 0 {
		return "..."
	}
	return pool[b.rng.IntN(len(pool))]
}

func clamp01(x float64) float64 {
	return max(0, min(1, x))
}
