package bot

import (
	"context"

	"github.com/lox/cyberholdem/internal/game"
)

// FoldBot checks when it can and folds otherwise. The table uses it to act for
// a seat that runs out of time.
type FoldBot struct{}

func (FoldBot) Decide(_ context.Context, _ game.PublicState, _ string, valid []game.ValidAction) Decision {
	if _, ok := find(valid, game.Check); ok {
		return Decision{Action: game.Check, Thought: "fold-bot checking"}
	}
	return Legalize(Decision{Action: game.Fold, Thought: "fold-bot folding"}, valid)
}
