// Package odds estimates how often each hand category is made once a partial
// board is completed.
package odds

import (
	"context"
	rand "math/rand/v2"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
	"github.com/lox/handrank/internal/randutil"
)

// ErrInvalidInput is returned for hole or board cards that cannot be completed.
var ErrInvalidInput = errors.New("invalid odds input")

const (
	// DefaultIterations is used when Options.Iterations is zero.
	DefaultIterations = 20000
	// ExactThreshold is the largest number of missing board cards that is
	// enumerated instead of sampled.
	ExactThreshold = 2

	maxWorkers  = 8
	cancelCheck = 256
)

// Options control a calculation. The zero value is usable.
type Options struct {
	Iterations int
	Workers    int
	// Rand seeds the workers. A clock-seeded source is used when nil.
	Rand      *rand.Rand
	Evaluator *evaluator.Evaluator
}

// Result is the category distribution over all completed boards.
type Result struct {
	Counts  map[evaluator.Category]int `json:"counts"`
	Samples int                        `json:"samples"`
	Exact   bool                       `json:"exact"`
}

// Probability returns the share of samples that made category c.
func (r Result) Probability(c evaluator.Category) float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.Counts[c]) / float64(r.Samples)
}

// Calculate completes board to five cards and tallies the category of each
// completion. Boards missing at most ExactThreshold cards are enumerated;
// larger gaps are sampled Options.Iterations times across worker goroutines.
func Calculate(ctx context.Context, hole, board []deck.Card, opts Options) (Result, error) {
	if len(hole) != evaluator.HoleSize {
		return Result{}, errors.Wrapf(ErrInvalidInput, "need %d hole cards, got %d", evaluator.HoleSize, len(hole))
	}
	if len(board) > evaluator.CommunitySize {
		return Result{}, errors.Wrapf(ErrInvalidInput, "board has %d cards, at most %d allowed", len(board), evaluator.CommunitySize)
	}
	for _, c := range append(append([]deck.Card{}, hole...), board...) {
		if !c.Valid() {
			return Result{}, errors.Wrapf(deck.ErrInvalidCard, "rank %d suit %d", int(c.Rank), int(c.Suit))
		}
	}
	if dup, ok := deck.FirstDuplicate(hole, board); ok {
		return Result{}, errors.Wrapf(evaluator.ErrDuplicateCard, "%s", dup)
	}

	if opts.Evaluator == nil {
		opts.Evaluator = evaluator.New()
	}

	used := deck.NewSet(hole)
	for _, c := range board {
		used.Add(c)
	}
	remaining := used.Remaining()
	missing := evaluator.CommunitySize - len(board)

	if missing <= ExactThreshold {
		return enumerate(ctx, opts.Evaluator, hole, board, remaining, missing)
	}
	return simulate(ctx, opts, hole, board, remaining, missing)
}

func enumerate(ctx context.Context, ev *evaluator.Evaluator, hole, board, remaining []deck.Card, missing int) (Result, error) {
	completions := [][]deck.Card{nil}
	if missing > 0 {
		completions = evaluator.Combinations(remaining, missing)
	}

	var t tally
	community := make([]deck.Card, evaluator.CommunitySize)
	copy(community, board)
	for i, extra := range completions {
		if i%cancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		copy(community[len(board):], extra)
		if err := t.add(ev, hole, community); err != nil {
			return Result{}, err
		}
	}
	return t.result(true), nil
}

func simulate(ctx context.Context, opts Options, hole, board, remaining []deck.Card, missing int) (Result, error) {
	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), maxWorkers)
	}
	workers = min(workers, iterations)

	rng := opts.Rand
	if rng == nil {
		rng = randutil.New(randutil.Seed(nil))
	}

	tallies := make([]tally, workers)
	g, ctx := errgroup.WithContext(ctx)

	perWorker, extra := iterations/workers, iterations%workers
	for w := range workers {
		samples := perWorker
		if w < extra {
			samples++
		}
		// Fork on this goroutine so a given seed always yields the same split.
		workerRng := randutil.Fork(rng)

		g.Go(func() error {
			return runWorker(ctx, opts.Evaluator, hole, board, remaining, missing, samples, workerRng, &tallies[w])
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var total tally
	for _, t := range tallies {
		total.merge(t)
	}
	return total.result(false), nil
}

func runWorker(ctx context.Context, ev *evaluator.Evaluator, hole, board, remaining []deck.Card,
	missing, samples int, rng *rand.Rand, t *tally) error {

	pool := make([]deck.Card, len(remaining))
	copy(pool, remaining)
	community := make([]deck.Card, evaluator.CommunitySize)
	copy(community, board)

	for i := range samples {
		if i%cancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		// Partial Fisher-Yates: the first missing slots become the draw.
		for j := range missing {
			k := j + rng.IntN(len(pool)-j)
			pool[j], pool[k] = pool[k], pool[j]
		}
		copy(community[len(board):], pool[:missing])
		if err := t.add(ev, hole, community); err != nil {
			return err
		}
	}
	return nil
}

type tally struct {
	counts  [evaluator.RoyalFlush + 1]int
	samples int
}

func (t *tally) add(ev *evaluator.Evaluator, hole, community []deck.Card) error {
	hand, err := ev.Classify(hole, community)
	if err != nil {
		return err
	}
	t.counts[hand.Category]++
	t.samples++
	return nil
}

func (t *tally) merge(o tally) {
	for i, n := range o.counts {
		t.counts[i] += n
	}
	t.samples += o.samples
}

func (t tally) result(exact bool) Result {
	r := Result{Counts: make(map[evaluator.Category]int), Samples: t.samples, Exact: exact}
	for _, c := range evaluator.Categories {
		if n := t.counts[c]; n > 0 {
			r.Counts[c] = n
		}
	}
	return r
}
