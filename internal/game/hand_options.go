package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/cyberholdem/internal/deck"
	"github.com/lox/cyberholdem/internal/randutil"
)

const (
	DefaultSmallBlind         = 10
	DefaultBigBlind           = 20
	DefaultMaxRaisesPerStreet = 4

	// MaxPlayers is the number of seats at a table.
	MaxPlayers = 9
)

// Option configures an Engine during creation.
type Option func(*engineConfig)

type engineConfig struct {
	smallBlind int
	bigBlind   int
	maxRaises  int
	rng        *rand.Rand
	deckSource func() *deck.Deck
	logger     *log.Logger
}

// WithBlinds sets the small and big blind.
func WithBlinds(small, big int) Option {
	return func(c *engineConfig) {
		c.smallBlind = small
		c.bigBlind = big
	}
}

// WithMaxRaisesPerStreet caps the number of raises in a single street.
func WithMaxRaisesPerStreet(n int) Option {
	return func(c *engineConfig) {
		c.maxRaises = n
	}
}

// WithRNG sets the source used to shuffle each hand's deck.
func WithRNG(rng *rand.Rand) Option {
	return func(c *engineConfig) {
		c.rng = rng
	}
}

// WithDeckSource replaces deck creation entirely. Each call must return a
// fresh deck for one hand; use deck.NewStackedDeck for deterministic deals.
func WithDeckSource(source func() *deck.Deck) Option {
	return func(c *engineConfig) {
		c.deckSource = source
	}
}

// WithLogger sets the logger for hand lifecycle messages.
func WithLogger(logger *log.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

func newEngineConfig(opts []Option) *engineConfig {
	cfg := &engineConfig{
		smallBlind: DefaultSmallBlind,
		bigBlind:   DefaultBigBlind,
		maxRaises:  DefaultMaxRaisesPerStreet,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = randutil.Entropy()
	}
	if cfg.deckSource == nil {
		rng := cfg.rng
		cfg.deckSource = func() *deck.Deck { return deck.NewDeck(rng) }
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	return cfg
}
