package evaluator

import (
	"errors"
	"fmt"

	"github.com/lox/cyberholdem/internal/deck"
)

// ErrNotEnoughCards is returned when fewer than five cards are evaluated.
var ErrNotEnoughCards = errors.New("at least 5 cards are required")

// Category is the hand category, ordered from weakest to strongest.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = [...]string{
	"",
	"High Card",
	"Pair",
	"Two Pair",
	"Three Of A Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four Of A Kind",
	"Straight Flush",
	"Royal Flush",
}

func (c Category) String() string {
	if c < HighCard || c > RoyalFlush {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Result is the value of the best five-card hand. Results compare
// lexicographically on (Category, Tiebreak).
type Result struct {
	Category Category `json:"category"`
	Tiebreak []int    `json:"tiebreak"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s %v", r.Category, r.Tiebreak)
}

// Compare returns a positive number when a beats b, negative when b beats a
// and zero on a tie.
func Compare(a, b Result) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	return compareInts(a.Tiebreak, b.Tiebreak)
}

func compareInts(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}

// score is the allocation-free form of Result used while searching subsets.
type score struct {
	cat Category
	tb  [5]int
	n   int
}

func (s score) compare(o score) int {
	if s.cat != o.cat {
		return int(s.cat) - int(o.cat)
	}
	return compareInts(s.tb[:s.n], o.tb[:o.n])
}

func (s score) result() Result {
	tb := make([]int, s.n)
	copy(tb, s.tb[:s.n])
	return Result{Category: s.cat, Tiebreak: tb}
}

// Evaluate returns the best five-card hand that can be formed from cards.
// Exactly five cards are scored directly; larger sets try every five-card
// subset and keep the greatest.
func Evaluate(cards []deck.Card) (Result, error) {
	if len(cards) < 5 {
		return Result{}, fmt.Errorf("%w: got %d", ErrNotEnoughCards, len(cards))
	}
	return bestOf(cards).result(), nil
}

// MustEvaluate is like Evaluate but panics when given fewer than five cards.
func MustEvaluate(cards []deck.Card) Result {
	r, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return r
}

func bestOf(cards []deck.Card) score {
	n := len(cards)
	var best score
	var hand [5]deck.Card
	for a := 0; a < n-4; a++ {
		hand[0] = cards[a]
		for b := a + 1; b < n-3; b++ {
			hand[1] = cards[b]
			for c := b + 1; c < n-2; c++ {
				hand[2] = cards[c]
				for d := c + 1; d < n-1; d++ {
					hand[3] = cards[d]
					for e := d + 1; e < n; e++ {
						hand[4] = cards[e]
						if s := evaluateFive(&hand); best.cat == 0 || s.compare(best) > 0 {
							best = s
						}
					}
				}
			}
		}
	}
	return best
}

func evaluateFive(hand *[5]deck.Card) score {
	var ranks [5]int
	flush := true
	for i, c := range hand {
		ranks[i] = int(c.Rank)
		if c.Suit != hand[0].Suit {
			flush = false
		}
	}
	// insertion sort, descending
	for i := 1; i < 5; i++ {
		for j := i; j > 0 && ranks[j] > ranks[j-1]; j-- {
			ranks[j], ranks[j-1] = ranks[j-1], ranks[j]
		}
	}

	// rank groups ordered by (count, rank) descending
	type group struct{ rank, count int }
	var groups [5]group
	ng := 0
	for _, r := range ranks {
		if ng > 0 && groups[ng-1].rank == r {
			groups[ng-1].count++
			continue
		}
		groups[ng] = group{rank: r, count: 1}
		ng++
	}
	for i := 1; i < ng; i++ {
		for j := i; j > 0 && groups[j].count > groups[j-1].count; j-- {
			groups[j], groups[j-1] = groups[j-1], groups[j]
		}
	}

	straight := false
	if ng == 5 && ranks[0]-ranks[4] == 4 {
		straight = true
	}
	if ranks == [5]int{14, 5, 4, 3, 2} {
		straight = true
		ranks = [5]int{5, 4, 3, 2, 1}
	}

	s := score{}
	switch {
	case straight && flush:
		if ranks[0] == 14 && ranks[4] == 10 {
			s.cat = RoyalFlush
			return s
		}
		s.cat = StraightFlush
		s.tb, s.n = ranks, 5
	case groups[0].count == 4:
		s.cat = FourOfAKind
		s.tb[0], s.tb[1], s.n = groups[0].rank, groups[1].rank, 2
	case groups[0].count == 3 && groups[1].count == 2:
		s.cat = FullHouse
		s.tb[0], s.tb[1], s.n = groups[0].rank, groups[1].rank, 2
	case flush:
		s.cat = Flush
		s.tb, s.n = ranks, 5
	case straight:
		s.cat = Straight
		s.tb, s.n = ranks, 5
	case groups[0].count == 3:
		s.cat = ThreeOfAKind
		s.n = fillKickers(&s.tb, ranks, groups[0].rank)
	case groups[0].count == 2 && groups[1].count == 2:
		s.cat = TwoPair
		s.tb[0], s.tb[1], s.tb[2], s.n = groups[0].rank, groups[1].rank, groups[2].rank, 3
	case groups[0].count == 2:
		s.cat = Pair
		s.n = fillKickers(&s.tb, ranks, groups[0].rank)
	default:
		s.cat = HighCard
		s.tb, s.n = ranks, 5
	}
	return s
}

// fillKickers writes made, then every rank other than made in descending order.
func fillKickers(tb *[5]int, ranks [5]int, made int) int {
	tb[0] = made
	n := 1
	for _, r := range ranks {
		if r != made {
			tb[n] = r
			n++
		}
	}
	return n
}
