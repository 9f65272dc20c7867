package main

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/handrank/internal/randutil"
	"github.com/lox/handrank/internal/tui"
)

// TUICmd runs the interactive dealer.
type TUICmd struct {
	Seed *int64 `help:"Deterministic RNG seed (optional)"`
}

func (c *TUICmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	rules, err := cfg.EvaluatorRules()
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so only errors are logged.
	if logger.GetLevel() < log.ErrorLevel {
		logger.SetLevel(log.ErrorLevel)
	}

	seed := randutil.Seed(c.Seed)
	model := tui.NewModel(randutil.New(seed), rules, logger)
	return tui.Run(context.Background(), model)
}
