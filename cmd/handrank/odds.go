package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
	"github.com/lox/handrank/internal/logging"
	"github.com/lox/handrank/internal/odds"
	"github.com/lox/handrank/internal/randutil"
)

// OddsCmd prints how often each category is made once the board is complete.
type OddsCmd struct {
	Hole       string `arg:"" help:"Two hole cards"`
	Board      string `short:"b" help:"Zero to five community cards (e.g., 'Td7s8h')"`
	Iterations int    `short:"i" help:"Monte Carlo iterations (overrides config)"`
	Workers    int    `short:"w" help:"Worker goroutines (overrides config)"`
	Seed       *int64 `help:"Random seed for reproducible results"`
}

func (c *OddsCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	ev, err := newEvaluator(cfg)
	if err != nil {
		return err
	}

	hole, err := deck.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	board, err := deck.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	opts := odds.Options{
		Iterations: cfg.Odds.Iterations,
		Workers:    cfg.Odds.Workers,
		Rand:       randutil.New(randutil.Seed(c.Seed)),
		Evaluator:  ev,
	}
	if c.Iterations > 0 {
		opts.Iterations = c.Iterations
	}
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}

	ctx, stop := logging.SignalContext(context.Background(), logger)
	defer stop()

	start := time.Now()
	result, err := odds.Calculate(ctx, hole, board, opts)
	if err != nil {
		return err
	}
	logger.Debug("Calculated odds", "samples", result.Samples, "exact", result.Exact, "duration", time.Since(start))

	out := g.stdout()
	method := fmt.Sprintf("Monte Carlo, %d samples", result.Samples)
	if result.Exact {
		method = fmt.Sprintf("exact, %d boards", result.Samples)
	}
	fmt.Fprintf(out, "Hole: %s  Board: %s  (%s)\n\n", formatCards(hole), formatCards(board), method)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, headerStyle.Render("CATEGORY")+"\t"+headerStyle.Render("COUNT")+"\t"+headerStyle.Render("PROBABILITY")+"\t")
	for i := len(evaluator.Categories) - 1; i >= 0; i-- {
		cat := evaluator.Categories[i]
		n := result.Counts[cat]
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", categoryStyle.Render(cat.String()), n,
			percentStyle.Render(fmt.Sprintf("%.2f%%", 100*result.Probability(cat))))
	}
	return w.Flush()
}
