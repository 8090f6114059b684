package bot

import (
	"context"
	rand "math/rand/v2"
	"sync"

	"github.com/lox/cyberholdem/internal/game"
)

// RandBot makes uniform random legal actions
type RandBot struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand) *RandBot {
	return &RandBot{rng: rng}
}

func (r *RandBot) Decide(_ context.Context, _ game.PublicState, _ string, valid []game.ValidAction) Decision {
	if len(valid) == 0 {
		return Decision{Action: game.Fold, Thought: "rand-bot no valid actions"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	va := valid[r.rng.IntN(len(valid))]
	amount := va.MinAmount
	if va.Action == game.Raise && va.MaxAmount > va.MinAmount {
		amount = va.MinAmount + r.rng.IntN(va.MaxAmount-va.MinAmount+1)
	}
	return Decision{Action: va.Action, Amount: amount, Thought: "rand-bot random action"}
}
