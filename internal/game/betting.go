package game

import (
	"fmt"
	"strings"
)

// Street represents the betting round. Streets only move forward within a hand.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
	Finished
)

func (s Street) String() string {
	if s < Preflop || s > Finished {
		return fmt.Sprintf("Street(%d)", int(s))
	}
	return [...]string{"PREFLOP", "FLOP", "TURN", "RIVER", "SHOWDOWN", "FINISHED"}[s]
}

func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Street) UnmarshalText(text []byte) error {
	for st := Preflop; st <= Finished; st++ {
		if strings.EqualFold(string(text), st.String()) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown street %q", text)
}

// boardSize is the number of community cards showing on each betting street.
func (s Street) boardSize() int {
	switch s {
	case Flop:
		return 3
	case Turn:
		return 4
	case River, Showdown, Finished:
		return 5
	default:
		return 0
	}
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	if a < Fold || a > AllIn {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// ParseAction parses the wire name of an action. "all-in" and "all_in" are
// accepted as aliases of "allin".
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "allin", "all-in", "all_in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

func (a Action) MarshalText() ([]byte, error) {
	if a < Fold || a > AllIn {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ValidAction describes one legal action for the player on turn. Amounts are
// street totals, the same figure PlayerAction takes for a raise.
type ValidAction struct {
	Action    Action `json:"action"`
	MinAmount int    `json:"min_amount"`
	MaxAmount int    `json:"max_amount"`
}

// ActionRecord is an applied action. Amount is the number of chips the
// action moved into the pot.
type ActionRecord struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"player_name"`
	Street   Street `json:"street"`
	Action   Action `json:"action"`
	Amount   int    `json:"amount"`
}
