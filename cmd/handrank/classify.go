package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/history"
)

// ClassifyCmd classifies one seven-card hand.
type ClassifyCmd struct {
	Hole      string `arg:"" help:"Two hole cards, e.g. 'AsKd' or 'A♠ K♦'"`
	Community string `arg:"" help:"Five community cards, e.g. 'Td7s8h2c3d'"`
	JSON      bool   `help:"Print the result as JSON"`
	Record    bool   `help:"Save the classification to the history store"`
}

func (c *ClassifyCmd) Run(g *Globals) error {
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
	community, err := deck.ParseCards(c.Community)
	if err != nil {
		return fmt.Errorf("community cards: %w", err)
	}

	hand, err := ev.Classify(hole, community)
	if err != nil {
		return err
	}
	rec := history.NewRecord("cli", hole, community, hand)

	if c.Record {
		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if rec, err = store.Record(context.Background(), rec); err != nil {
			return err
		}
		logger.Debug("Recorded classification", "id", rec.ID, "db", store.Path())
	}

	out := g.stdout()
	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintln(out, categoryStyle.Render(hand.Describe()))
	fmt.Fprintf(out, "Best five: %s\n", formatCards(hand.Cards))
	if rec.ID != "" {
		fmt.Fprintf(out, "Recorded:  %s\n", rec.ID)
	}
	return nil
}
