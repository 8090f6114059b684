package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/cyberholdem/internal/bot"
	"github.com/lox/cyberholdem/internal/game"
	"github.com/lox/cyberholdem/internal/randutil"
)

// ErrBotSeat is returned when a client tries to act for a computer player.
var ErrBotSeat = errors.New("seat is played by a bot")

// Table is one game session: an engine, its bots and the clients watching
// it. All engine access goes through mu; bot turns and action timeouts are
// clock callbacks that take the same lock.
type Table struct {
	mu sync.Mutex

	engine   *game.Engine
	bots     map[string]bot.Strategy
	humanID  string
	chips    int
	timeout  time.Duration
	delayMin time.Duration
	delayMax time.Duration

	handID  string
	turn    uint64
	pending *quartz.Timer

	listeners    map[uint64]listener
	nextListener uint64

	clock  quartz.Clock
	rng    *rand.Rand
	logger *log.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

type listener struct {
	playerID string
	send     func(*Message)
}

// TableOption configures a Table
type TableOption func(*tableOptions)

type tableOptions struct {
	clock      quartz.Clock
	rng        *rand.Rand
	logger     *log.Logger
	strategies map[string]bot.Strategy
	engineOpts []game.Option
}

// WithClock sets the clock used for bot delays and action timeouts
func WithClock(clock quartz.Clock) TableOption {
	return func(o *tableOptions) {
		o.clock = clock
	}
}

// WithRNG seeds the deck, the bots and their think delays
func WithRNG(rng *rand.Rand) TableOption {
	return func(o *tableOptions) {
		o.rng = rng
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) TableOption {
	return func(o *tableOptions) {
		o.logger = logger
	}
}

// WithStrategy replaces the configured strategy for one bot seat
func WithStrategy(botID string, s bot.Strategy) TableOption {
	return func(o *tableOptions) {
		o.strategies[botID] = s
	}
}

// WithEngineOptions passes extra options to the engine
func WithEngineOptions(opts ...game.Option) TableOption {
	return func(o *tableOptions) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// NewTable seats the human and the configured bots. cfg must be valid.
func NewTable(cfg *Config, opts ...TableOption) (*Table, error) {
	o := &tableOptions{strategies: map[string]bot.Strategy{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = quartz.NewReal()
	}
	if o.rng == nil {
		o.rng = randutil.Entropy()
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	ts := cfg.Table
	timeout, err := ts.Timeout()
	if err != nil {
		return nil, err
	}
	delayMin, delayMax, err := ts.BotDelay()
	if err != nil {
		return nil, err
	}

	engineOpts := append([]game.Option{
		game.WithBlinds(ts.SmallBlind, ts.BigBlind),
		game.WithMaxRaisesPerStreet(ts.MaxRaisesPerStreet),
		game.WithRNG(randutil.Derive(o.rng)),
		game.WithLogger(o.logger),
	}, o.engineOpts...)
	engine := game.NewEngine(engineOpts...)

	if err := engine.AddPlayer(ts.HumanID, ts.HumanName, ts.StartingChips); err != nil {
		return nil, err
	}
	bots := make(map[string]bot.Strategy, len(cfg.Bots))
	for _, bc := range cfg.Bots {
		if err := engine.AddPlayer(bc.ID, bc.Name, ts.StartingChips); err != nil {
			return nil, err
		}
		if s, ok := o.strategies[bc.ID]; ok {
			bots[bc.ID] = s
			continue
		}
		p, err := bot.LookupPersonality(bc.Personality)
		if err != nil {
			return nil, fmt.Errorf("bot %s: %w", bc.ID, err)
		}
		bots[bc.ID] = bot.NewRuleBased(p, ts.EquitySamples, randutil.Derive(o.rng), o.logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Table{
		engine:    engine,
		bots:      bots,
		humanID:   ts.HumanID,
		chips:     ts.StartingChips,
		timeout:   timeout,
		delayMin:  delayMin,
		delayMax:  delayMax,
		listeners: map[uint64]listener{},
		clock:     o.clock,
		rng:       o.rng,
		logger:    o.logger.WithPrefix("table"),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// HumanID returns the seat clients play by default
func (t *Table) HumanID() string {
	return t.humanID
}

// Subscribe registers send to receive messages for playerID, and sends the
// current state straight away if a hand has been dealt. The returned func
// unsubscribes.
func (t *Table) Subscribe(playerID string, send func(*Message)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextListener
	t.nextListener++
	l := listener{playerID: playerID, send: send}
	t.listeners[id] = l
	if t.engine.HandNumber() > 0 {
		t.sendState(l)
	}

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.listeners, id)
	}
}

// State returns the table as playerID sees it
func (t *Table) State(playerID string) GameStateData {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateFor(playerID)
}

func (t *Table) stateFor(playerID string) GameStateData {
	return GameStateData{
		HandID:       t.handID,
		PublicState:  t.engine.PublicState(playerID),
		ValidActions: t.engine.ValidActions(playerID),
	}
}

// StartHand deals the next hand. When the table can no longer play, every
// client gets a game_over message and the engine error is returned.
func (t *Table) StartHand() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startHandLocked()
}

// Reset restores every stack and deals a fresh hand.
func (t *Table) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopPending()
	if err := t.engine.Reset(t.chips); err != nil {
		return err
	}
	t.logger.Info("Table reset", "chips", t.chips)
	return t.startHandLocked()
}

// Act applies an action for playerID on behalf of a client.
func (t *Table) Act(playerID string, action game.Action, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.bots[playerID]; ok {
		return fmt.Errorf("%w: %s", ErrBotSeat, playerID)
	}
	name := t.playerName(playerID)
	if err := t.engine.PlayerAction(playerID, action, amount); err != nil {
		return err
	}
	t.afterAction(playerID, name, action, amount)
	return nil
}

// Close stops pending timers and cancels in-flight bot decisions.
func (t *Table) Close() {
	t.cancel()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopPending()
}

func (t *Table) startHandLocked() error {
	if err := t.engine.StartHand(); err != nil {
		if errors.Is(err, game.ErrNotEnoughPlayers) {
			t.gameOver()
		}
		return err
	}
	t.handID = uuid.NewString()
	t.logger.Info("Hand started", "hand", t.engine.HandNumber(), "id", t.handID)
	t.broadcastState()
	t.afterStateChange()
	return nil
}

func (t *Table) afterAction(playerID, name string, action game.Action, amount int) {
	t.broadcast(MessageTypePlayerActed, PlayerActedData{
		PlayerID:   playerID,
		PlayerName: name,
		Action:     action,
		Amount:     amount,
	})
	t.broadcastState()
	t.afterStateChange()
}

// afterStateChange schedules whoever is on turn, or reports a finished game.
func (t *Table) afterStateChange() {
	t.stopPending()
	if t.engine.InProgress() {
		t.schedule()
		return
	}
	if t.humanChips() <= 0 {
		t.gameOver()
	}
}

// schedule arms a timer for the player on turn: a think delay for a bot, the
// action timeout for a client.
func (t *Table) schedule() {
	cur := t.engine.CurrentPlayer()
	if cur == nil {
		return
	}
	t.turn++
	turn, id := t.turn, cur.ID

	if _, ok := t.bots[id]; ok {
		t.pending = t.clock.AfterFunc(t.botDelay(), func() { t.botTurn(turn, id) })
		return
	}
	if t.timeout > 0 {
		t.pending = t.clock.AfterFunc(t.timeout, func() { t.timeoutTurn(turn, id) })
	}
}

func (t *Table) botDelay() time.Duration {
	if t.delayMax <= t.delayMin {
		return t.delayMin
	}
	return t.delayMin + time.Duration(t.rng.Int64N(int64(t.delayMax-t.delayMin)))
}

func (t *Table) stopPending() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// current reports whether a timer callback still refers to the live turn.
func (t *Table) current(turn uint64, playerID string) bool {
	if t.ctx.Err() != nil || turn != t.turn || !t.engine.InProgress() {
		return false
	}
	cur := t.engine.CurrentPlayer()
	return cur != nil && cur.ID == playerID
}

func (t *Table) botTurn(turn uint64, playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(turn, playerID) {
		return
	}

	strategy := t.bots[playerID]
	d := strategy.Decide(t.ctx, t.engine.PublicState(playerID), playerID, t.engine.ValidActions(playerID))
	if d.Thought != "" || d.Chat != "" {
		t.broadcast(MessageTypeBotThought, BotThoughtData{PlayerID: playerID, Thought: d.Thought, Chat: d.Chat})
	}
	t.apply(playerID, d)
}

func (t *Table) timeoutTurn(turn uint64, playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(turn, playerID) {
		return
	}

	d := bot.FoldBot{}.Decide(t.ctx, t.engine.PublicState(playerID), playerID, t.engine.ValidActions(playerID))
	t.logger.Warn("Action timeout", "player", playerID, "action", d.Action)
	t.broadcast(MessageTypePlayerTimeout, PlayerTimeoutData{PlayerID: playerID, Action: d.Action})
	t.apply(playerID, d)
}

// apply plays a server-chosen decision, folding if the engine rejects it.
func (t *Table) apply(playerID string, d bot.Decision) {
	name := t.playerName(playerID)
	if err := t.engine.PlayerAction(playerID, d.Action, d.Amount); err != nil {
		t.logger.Error("Rejected server action, folding", "player", playerID, "action", d.Action, "amount", d.Amount, "error", err)
		d = bot.Decision{Action: game.Fold}
		if err := t.engine.PlayerAction(playerID, game.Fold, 0); err != nil {
			t.logger.Error("Fold rejected", "player", playerID, "error", err)
			return
		}
	}
	t.afterAction(playerID, name, d.Action, d.Amount)
}

func (t *Table) gameOver() {
	reason := GameOverNotEnoughPlayers
	chips := t.humanChips()
	if chips <= 0 {
		reason = GameOverEliminated
	}
	t.logger.Info("Game over", "reason", reason, "chips", chips)
	t.broadcast(MessageTypeGameOver, GameOverData{Reason: reason, FinalChips: chips})
}

func (t *Table) humanChips() int {
	for _, p := range t.engine.Players() {
		if p.ID == t.humanID {
			return p.Chips
		}
	}
	return 0
}

func (t *Table) playerName(playerID string) string {
	for _, p := range t.engine.Players() {
		if p.ID == playerID {
			return p.Name
		}
	}
	return playerID
}

func (t *Table) broadcast(messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data, t.clock.Now())
	if err != nil {
		t.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	for _, l := range t.listeners {
		l.send(msg)
	}
}

func (t *Table) broadcastState() {
	for _, l := range t.listeners {
		t.sendState(l)
	}
}

func (t *Table) sendState(l listener) {
	msg, err := NewMessage(MessageTypeGameState, t.stateFor(l.playerID), t.clock.Now())
	if err != nil {
		t.logger.Error("Failed to create state message", "error", err)
		return
	}
	l.send(msg)
}
