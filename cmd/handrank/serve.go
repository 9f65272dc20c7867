package main

import (
	"context"
	"errors"
	"time"

	"github.com/lox/handrank/internal/logging"
	"github.com/lox/handrank/internal/server"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd runs the HTTP and WebSocket API.
type ServeCmd struct {
	Addr      string `short:"a" help:"Server address to bind to (overrides config)"`
	NoHistory bool   `help:"Do not record classifications"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	rules, err := cfg.EvaluatorRules()
	if err != nil {
		return err
	}

	opts := server.Options{
		Logger:         logger,
		AccessLog:      g.stdout(),
		Rules:          rules,
		OddsIterations: cfg.Odds.Iterations,
		OddsWorkers:    cfg.Odds.Workers,
		RequestTimeout: cfg.RequestTimeout(),
	}
	if cfg.HistoryEnabled() && !c.NoHistory {
		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.History = store
		logger.Info("Recording classifications", "db", store.Path())
	}

	srv := server.New(opts)

	ctx, stop := logging.SignalContext(context.Background(), logger)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Shutdown error", "error", err)
		return err
	}
	return <-errCh
}
