package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
	"github.com/lox/handrank/internal/randutil"
)

// DealCmd deals random seven-card hands from fresh decks.
type DealCmd struct {
	Count int    `short:"n" default:"1" help:"Number of hands to deal"`
	Seed  *int64 `help:"Deterministic RNG seed (optional)"`
}

func (c *DealCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	ev, err := newEvaluator(cfg)
	if err != nil {
		return err
	}
	if c.Count < 1 {
		return fmt.Errorf("count must be positive, got %d", c.Count)
	}

	seed := randutil.Seed(c.Seed)
	logger.Debug("Dealing", "hands", c.Count, "seed", seed)
	d := deck.NewDeck(randutil.New(seed))

	w := tabwriter.NewWriter(g.stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("#")+"\t"+headerStyle.Render("HOLE")+"\t"+headerStyle.Render("BOARD")+"\t"+headerStyle.Render("HAND"))
	for i := 0; i < c.Count; i++ {
		d.Reset()
		cards := d.DealN(evaluator.HoleSize + evaluator.CommunitySize)
		hole, community := cards[:evaluator.HoleSize], cards[evaluator.HoleSize:]

		hand, err := ev.Classify(hole, community)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, deck.FormatNotation(hole), deck.FormatNotation(community), hand.Describe())
	}
	return w.Flush()
}
