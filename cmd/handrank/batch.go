package main

import (
	"context"
	"fmt"
	"io"

	"github.com/lox/handrank/internal/batch"
	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/fileutil"
	"github.com/lox/handrank/internal/history"
	"github.com/lox/handrank/internal/logging"
)

// BatchCmd classifies a YAML file of hands and writes a YAML report.
type BatchCmd struct {
	File        string `arg:"" type:"existingfile" help:"YAML file with a 'hands' list"`
	Output      string `short:"o" help:"Write the report to this file instead of stdout"`
	Concurrency int    `short:"j" default:"4" help:"Hands classified in parallel"`
	Record      bool   `help:"Save successful classifications to the history store"`
}

func (c *BatchCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	ev, err := newEvaluator(cfg)
	if err != nil {
		return err
	}

	entries, err := batch.Load(c.File)
	if err != nil {
		return err
	}

	ctx, stop := logging.SignalContext(context.Background(), logger)
	defer stop()

	results, err := batch.Run(ctx, ev, entries, c.Concurrency)
	if err != nil {
		return err
	}

	if c.Record {
		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		err = recordResults(ctx, store, results)
		store.Close()
		if err != nil {
			return err
		}
	}

	write := func(w io.Writer) error { return batch.WriteReport(w, results) }
	if c.Output != "" {
		err = fileutil.WriteAtomic(c.Output, 0o644, write)
	} else {
		err = write(g.stdout())
	}
	if err != nil {
		return err
	}

	failed := batch.Failed(results)
	logger.Info("Batch complete", "hands", len(results), "failed", failed)
	for cat, n := range batch.Tally(results) {
		logger.Debug("Category total", "category", cat.Slug(), "count", n)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d hands failed", failed, len(results))
	}
	return nil
}

func recordResults(ctx context.Context, store *history.Store, results []batch.Result) error {
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		hole, err := deck.ParseCards(r.Entry.Hole)
		if err != nil {
			return err
		}
		community, err := deck.ParseCards(r.Entry.Community)
		if err != nil {
			return err
		}
		if _, err := store.Record(ctx, history.NewRecord("batch", hole, community, r.Hand)); err != nil {
			return err
		}
	}
	return nil
}
