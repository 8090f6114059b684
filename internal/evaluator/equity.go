package evaluator

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"runtime"

	"github.com/lox/cyberholdem/internal/deck"
	"github.com/lox/cyberholdem/internal/randutil"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxOpponents is the most opponents a single table can seat.
	MaxOpponents = 8

	// parallelThreshold is the sample count below which one worker is used.
	parallelThreshold = 500
	maxWorkers        = 8
)

var (
	ErrInvalidHole      = errors.New("exactly 2 hole cards are required")
	ErrInvalidBoard     = errors.New("board must have at most 5 cards")
	ErrDuplicateCard    = errors.New("duplicate card")
	ErrInvalidOpponents = errors.New("opponents must be between 1 and 8")
)

// workerResult holds the results from a Monte Carlo worker
type workerResult struct {
	wins         int
	ties         int
	validSamples int
}

// EstimateEquity estimates the share of the pot hole wins against opponents
// random hands, completing the board at random: (wins + ties/2) / samples.
// Workers are seeded from rng in order, so a fixed seed gives a fixed result.
func EstimateEquity(ctx context.Context, hole, board []deck.Card, opponents, samples int, rng *rand.Rand) (float64, error) {
	if len(hole) != 2 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidHole, len(hole))
	}
	if len(board) > 5 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidBoard, len(board))
	}
	if opponents < 1 || opponents > MaxOpponents {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidOpponents, opponents)
	}
	if samples <= 0 {
		return 0, nil
	}

	known := append(append([]deck.Card{}, hole...), board...)
	seen := make(map[deck.Card]bool, len(known))
	for _, c := range known {
		if seen[c] {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = true
	}
	available := deck.Remaining(known...)

	workers := 1
	if samples >= parallelThreshold {
		workers = min(runtime.NumCPU(), maxWorkers)
	}
	perWorker := samples / workers
	remainder := samples % workers

	results := make([]workerResult, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		n := perWorker
		if w < remainder {
			n++
		}
		wrng := randutil.Derive(rng)
		g.Go(func() error {
			res, err := simulate(ctx, hole, board, available, opponents, n, wrng)
			results[w] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total workerResult
	for _, r := range results {
		total.wins += r.wins
		total.ties += r.ties
		total.validSamples += r.validSamples
	}
	if total.validSamples == 0 {
		return 0, nil
	}
	return (float64(total.wins) + float64(total.ties)/2.0) / float64(total.validSamples), nil
}

func simulate(ctx context.Context, hole, board, available []deck.Card, opponents, samples int, rng *rand.Rand) (workerResult, error) {
	var res workerResult

	pool := make([]deck.Card, len(available))
	copy(pool, available)
	need := opponents*2 + 5 - len(board)
	if need > len(pool) {
		return res, nil
	}

	hero := make([]deck.Card, 0, 7)
	villain := make([]deck.Card, 0, 7)
	finalBoard := make([]deck.Card, 5)
	copy(finalBoard, board)

	for i := range samples {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		// partial Fisher-Yates: the first need cards are the sample
		for j := range need {
			k := j + rng.IntN(len(pool)-j)
			pool[j], pool[k] = pool[k], pool[j]
		}
		copy(finalBoard[len(board):], pool[opponents*2:need])

		hero = append(append(hero[:0], hole...), finalBoard...)
		heroScore := bestOf(hero)

		var bestOpp score
		for o := range opponents {
			villain = append(append(villain[:0], pool[o*2], pool[o*2+1]), finalBoard...)
			if s := bestOf(villain); bestOpp.cat == 0 || s.compare(bestOpp) > 0 {
				bestOpp = s
			}
		}

		switch c := heroScore.compare(bestOpp); {
		case c > 0:
			res.wins++
		case c == 0:
			res.ties++
		}
		res.validSamples++
	}
	return res, nil
}
