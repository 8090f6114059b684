package deck

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suitNames = [...]string{"Spades", "Hearts", "Diamonds", "Clubs"}

// String returns the suit name as used on the wire ("Spades", "Hearts", ...).
func (s Suit) String() string {
	if s < Spades || s > Clubs {
		return "?"
	}
	return suitNames[s]
}

// Symbol returns the unicode pip for the suit.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the single lowercase letter used in short card notation.
func (s Suit) Letter() byte {
	switch s {
	case Spades:
		return 's'
	case Hearts:
		return 'h'
	case Diamonds:
		return 'd'
	case Clubs:
		return 'c'
	default:
		return '?'
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// MarshalJSON encodes the suit by name.
func (s Suit) MarshalJSON() ([]byte, error) {
	if s < Spades || s > Clubs {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a suit name ("Hearts") or its letter ("h").
func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("suit must be a string: %w", err)
	}
	parsed, err := ParseSuit(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSuit parses a suit name, letter or pip.
func ParseSuit(str string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "s", "spades", "♠":
		return Spades, nil
	case "h", "hearts", "♥":
		return Hearts, nil
	case "d", "diamonds", "♦":
		return Diamonds, nil
	case "c", "clubs", "♣":
		return Clubs, nil
	}
	return 0, fmt.Errorf("invalid suit %q", str)
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string("23456789TJQKA"[r-Two])
}

// Valid reports whether the rank is in 2..14.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

func parseRank(b byte) (Rank, bool) {
	i := strings.IndexByte("23456789TJQKA", byte(unicode.ToUpper(rune(b))))
	if i < 0 {
		return 0, false
	}
	return Two + Rank(i), true
}

// Card represents a playing card. The JSON form is {"rank": 14, "suit": "Spades"}.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the short notation of a card (e.g., "As", "Th")
func (c Card) String() string {
	return c.Rank.String() + string(c.Suit.Letter())
}

// Pretty returns the card with a suit pip (e.g., "A♠")
func (c Card) Pretty() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Valid reports whether both rank and suit are in range.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit >= Spades && c.Suit <= Clubs
}

// UnmarshalJSON decodes the object form and rejects out-of-range ranks.
func (c *Card) UnmarshalJSON(data []byte) error {
	type plain Card
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if !p.Rank.Valid() {
		return fmt.Errorf("invalid rank %d", int(p.Rank))
	}
	*c = Card(p)
	return nil
}

// ParseCard parses a single card in short notation: "As", "Td", "10h".
func ParseCard(str string) (Card, error) {
	str = strings.TrimSpace(str)
	if strings.HasPrefix(str, "10") {
		str = "T" + str[2:]
	}
	if len(str) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", str)
	}
	rank, ok := parseRank(str[0])
	if !ok {
		return Card{}, fmt.Errorf("invalid rank in card %q", str)
	}
	suit, err := ParseSuit(str[1:])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", str, err)
	}
	return NewCard(suit, rank), nil
}

// ParseCards parses a run of cards. Cards may be concatenated ("AsKsQs") or
// separated by spaces or commas ("As Ks, Qs").
func ParseCards(str string) ([]Card, error) {
	fields := strings.FieldsFunc(str, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	cards := []Card{}
	for _, field := range fields {
		field = strings.ReplaceAll(field, "10", "T")
		if len(field)%2 != 0 {
			return nil, fmt.Errorf("invalid card string %q", field)
		}
		for i := 0; i < len(field); i += 2 {
			card, err := ParseCard(field[i : i+2])
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(str string) []Card {
	cards, err := ParseCards(str)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards in short notation separated by spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
