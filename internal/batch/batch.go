// Package batch classifies many hands read from a YAML file.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
)

// DefaultConcurrency is used when Run is given a non-positive limit.
const DefaultConcurrency = 4

// Entry is one hand in a batch file. Cards use the notation accepted by
// deck.ParseCards.
type Entry struct {
	Name      string `yaml:"name"`
	Hole      string `yaml:"hole"`
	Community string `yaml:"community"`
}

type file struct {
	Hands []Entry `yaml:"hands"`
}

// Decode reads a document of the form
//
//	hands:
//	  - name: nuts
//	    hole: Ts Js
//	    community: Qs Ks As 2c 3d
//
// Unknown fields are rejected. An empty document yields no entries.
func Decode(r io.Reader) ([]Entry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "decode batch")
	}
	for i := range f.Hands {
		if f.Hands[i].Name == "" {
			f.Hands[i].Name = fmt.Sprintf("hand-%d", i+1)
		}
	}
	return f.Hands, nil
}

// Load decodes the batch file at path.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Result pairs an entry with its classification or the error it produced.
type Result struct {
	Entry Entry
	Hand  evaluator.Hand
	Err   error
}

// Run classifies entries with at most concurrency goroutines. Results are in
// input order. A bad entry records its error and does not stop the others;
// only context cancellation fails the whole run.
func Run(ctx context.Context, ev *evaluator.Evaluator, entries []Entry, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, entry := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hand, err := classify(ev, entry)
			results[i] = Result{Entry: entry, Hand: hand, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// gctx is always done once Wait returns; only the caller's ctx matters.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func classify(ev *evaluator.Evaluator, e Entry) (evaluator.Hand, error) {
	hole, err := deck.ParseCards(e.Hole)
	if err != nil {
		return evaluator.Hand{}, errors.Wrap(err, "hole")
	}
	community, err := deck.ParseCards(e.Community)
	if err != nil {
		return evaluator.Hand{}, errors.Wrap(err, "community")
	}
	return ev.Classify(hole, community)
}

// Failed counts results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Tally counts successful results per category.
func Tally(results []Result) map[evaluator.Category]int {
	counts := make(map[evaluator.Category]int)
	for _, r := range results {
		if r.Err == nil {
			counts[r.Hand.Category]++
		}
	}
	return counts
}

type reportEntry struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category,omitempty"`
	Cards       string `yaml:"cards,omitempty"`
	Description string `yaml:"description,omitempty"`
	Error       string `yaml:"error,omitempty"`
}

// WriteReport encodes results as a YAML sequence.
func WriteReport(w io.Writer, results []Result) error {
	report := make([]reportEntry, len(results))
	for i, r := range results {
		report[i] = reportEntry{Name: r.Entry.Name}
		if r.Err != nil {
			report[i].Error = r.Err.Error()
			continue
		}
		report[i].Category = r.Hand.Category.Slug()
		report[i].Cards = deck.FormatNotation(r.Hand.Cards)
		report[i].Description = r.Hand.Describe()
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
