package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/lox/handrank/internal/history"
)

// HistoryCmd groups the history subcommands.
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"withargs" help:"List recent classifications"`
	Show   HistoryShowCmd   `cmd:"" help:"Show one classification"`
	Export HistoryExportCmd `cmd:"" help:"Export classifications to a YAML file"`
}

type HistoryListCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum records to show"`
}

func (c *HistoryListCmd) Run(g *Globals) error {
	cfg, _, err := g.setup()
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background(), c.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(g.stdout(), "No classifications recorded")
		return nil
	}

	w := tabwriter.NewWriter(g.stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("ID")+"\t"+headerStyle.Render("TIME")+"\t"+headerStyle.Render("SOURCE")+"\t"+headerStyle.Render("HAND")+"\t"+headerStyle.Render("CARDS"))
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Source, r.Description, r.Cards)
	}
	return w.Flush()
}

type HistoryShowCmd struct {
	ID string `arg:"" help:"Record ID"`
}

func (c *HistoryShowCmd) Run(g *Globals) error {
	cfg, _, err := g.setup()
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(context.Background(), c.ID)
	if err != nil {
		return err
	}
	return history.Encode(g.stdout(), []history.Record{rec})
}

type HistoryExportCmd struct {
	Path  string `arg:"" help:"Destination YAML file"`
	Limit int    `short:"n" default:"1000" help:"Maximum records to export"`
}

func (c *HistoryExportCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background(), c.Limit)
	if err != nil {
		return err
	}
	if err := history.Export(records, c.Path); err != nil {
		return err
	}
	logger.Info("Exported history", "records", len(records), "path", c.Path)
	return nil
}
