package deck

import (
	rand "math/rand/v2"
)

// Deck represents a deck of playing cards. Cards are dealt from the end of
// the slice.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a standard 52-card deck shuffled with rng.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: FullDeck(),
		rng:   rng,
	}
	d.Shuffle()
	return d
}

// NewStackedDeck returns a deck that deals top in order, followed by the
// remaining cards of a standard deck in a fixed order. Used for
// deterministic deals.
func NewStackedDeck(top ...Card) *Deck {
	used := make(map[Card]bool, len(top))
	for _, c := range top {
		used[c] = true
	}
	order := make([]Card, 0, 52)
	order = append(order, top...)
	for _, c := range FullDeck() {
		if !used[c] {
			order = append(order, c)
		}
	}
	// Deal pops from the end, so store in reverse.
	cards := make([]Card, len(order))
	for i, c := range order {
		cards[len(order)-1-i] = c
	}
	return &Deck{cards: cards}
}

// FullDeck returns all 52 cards in suit-major order.
func FullDeck() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Remaining returns the cards of a standard deck not present in exclude.
func Remaining(exclude ...Card) []Card {
	used := make(map[Card]bool, len(exclude))
	for _, c := range exclude {
		used[c] = true
	}
	cards := make([]Card, 0, 52-len(exclude))
	for _, c := range FullDeck() {
		if !used[c] {
			cards = append(cards, c)
		}
	}
	return cards
}

// Shuffle randomizes the order of cards in the deck. A deck without an RNG
// is left as is.
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the last card of the deck.
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// DealN deals up to n cards from the deck
func (d *Deck) DealN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, 0, n)
	for range n {
		card, _ := d.Deal()
		cards = append(cards, card)
	}
	return cards
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}
