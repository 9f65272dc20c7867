package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/lox/handrank/internal/deck"
)

// CompareCmd runs a showdown between several players.
type CompareCmd struct {
	Players []string `arg:"" help:"Hole cards for each player, e.g. 'AsKd QhJs'"`
	Board   string   `short:"b" required:"" help:"Five community cards"`
}

func (c *CompareCmd) Run(g *Globals) error {
	cfg, _, err := g.setup()
	if err != nil {
		return err
	}
	ev, err := newEvaluator(cfg)
	if err != nil {
		return err
	}
	if len(c.Players) < 2 {
		return fmt.Errorf("need at least two players, got %d", len(c.Players))
	}

	players := make([][]deck.Card, len(c.Players))
	for i, p := range c.Players {
		if players[i], err = deck.ParseCards(p); err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
	}
	board, err := deck.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	sd, err := ev.Showdown(players, board)
	if err != nil {
		return err
	}

	out := g.stdout()
	fmt.Fprintf(out, "Board: %s\n\n", formatCards(board))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("PLAYER")+"\t"+headerStyle.Render("HOLE")+"\t"+headerStyle.Render("HAND")+"\t"+headerStyle.Render("BEST FIVE"))
	for i, h := range sd.Hands {
		name := fmt.Sprintf("%d", i+1)
		if slices.Contains(sd.Winners, i) {
			name = winStyle.Render(name + " *")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, deck.Format(players[i]), h.Describe(), deck.Format(h.Cards))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if len(sd.Winners) > 1 {
		names := make([]string, len(sd.Winners))
		for i, idx := range sd.Winners {
			names[i] = fmt.Sprintf("%d", idx+1)
		}
		fmt.Fprintf(out, "Split pot between players %s\n", strings.Join(names, ", "))
	} else {
		fmt.Fprintf(out, "Player %d wins\n", sd.Winners[0]+1)
	}
	if len(sd.Hands) == 2 {
		_, explanation := sd.Hands[0].CompareWithExplanation(sd.Hands[1])
		fmt.Fprintln(out, explanation)
	}
	return nil
}
