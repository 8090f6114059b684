package bot

import (
	"fmt"
	"slices"
	"strings"
)

// Personality shifts how a RuleBased bot plays.
type Personality struct {
	Name       string
	Aggression float64 // 0 passive .. 1 very aggressive
	Tightness  float64 // 0 loose .. 1 very tight
	BluffFreq  float64 // chance of bluffing a weak hand

	ChatFold  []string
	ChatCheck []string
	ChatCall  []string
	ChatRaise []string
}

var personalities = map[string]Personality{
	"shark": {
		Name: "shark", Aggression: 0.7, Tightness: 0.5, BluffFreq: 0.25,
		ChatFold:  []string{"Folding... for now.", "Not worth it.", "I'll wait."},
		ChatCheck: []string{"Check.", "I'll let it ride."},
		ChatCall:  []string{"I call.", "Let's see the next card.", "I'm in."},
		ChatRaise: []string{"Raise.", "Time to build this pot.", "Pay up.", "Let's go."},
	},
	"rock": {
		Name: "rock", Aggression: 0.2, Tightness: 0.8, BluffFreq: 0.05,
		ChatFold:  []string{"Fold.", "Not my hand.", "I'll pass."},
		ChatCheck: []string{"Check.", "Checking."},
		ChatCall:  []string{"...call.", "Fine, I call.", "I'll see it."},
		ChatRaise: []string{"Raise.", "I have a hand."},
	},
	"maniac": {
		Name: "maniac", Aggression: 0.9, Tightness: 0.15, BluffFreq: 0.40,
		ChatFold:  []string{"Ugh, fine.", "Whatever.", "Next hand!"},
		ChatCheck: []string{"Check... boring.", "Check I guess."},
		ChatCall:  []string{"CALL!", "Let's go!", "I'm not scared.", "Bring it!"},
		ChatRaise: []string{"ALL DAY!", "RAISE!", "You scared?", "Let's gamble!", "Come on!", "Can you handle this?"},
	},
	"station": {
		Name: "station", Aggression: 0.2, Tightness: 0.15, BluffFreq: 0.08,
		ChatFold:  []string{"Okay... fold.", "I guess I fold."},
		ChatCheck: []string{"Check.", "I check."},
		ChatCall:  []string{"Call.", "I'll call.", "Let me see.", "I call, show me.", "Calling.", "I want to see your cards."},
		ChatRaise: []string{"Raise.", "Small raise."},
	},
	"tag": {
		Name: "tag", Aggression: 0.6, Tightness: 0.6, BluffFreq: 0.18,
		ChatFold:  []string{"Fold.", "Not this time.", "I'm out."},
		ChatCheck: []string{"Check.", "Checking here."},
		ChatCall:  []string{"Call.", "Good price.", "Pot odds say call."},
		ChatRaise: []string{"Raise.", "Value bet.", "I like my hand.", "Raising."},
	},
}

// DefaultPersonality is used when none is configured.
const DefaultPersonality = "shark"

// LookupPersonality returns the named personality.
func LookupPersonality(name string) (Personality, error) {
	p, ok := personalities[strings.ToLower(name)]
	if !ok {
		return Personality{}, fmt.Errorf("unknown personality %q (want one of %s)", name, strings.Join(PersonalityNames(), ", "))
	}
	return p, nil
}

// PersonalityNames lists the known personalities in sorted order.
func PersonalityNames() []string {
	names := make([]string, 0, len(personalities))
	for name := range personalities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
