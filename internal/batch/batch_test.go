package batch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
)

const sampleFile = `
hands:
  - name: royal
    hole: Ts Js
    community: Qs Ks As 2c 3d
  - name: quads
    hole: QsQh
    community: QdQc4s7h9d
  - hole: 2s5h
    community: 7d9cJsKh3c
  - name: bad card
    hole: Xs Js
    community: Qs Ks As 2c 3d
  - name: duplicate
    hole: AsAs
    community: 2c3d4h5s7c
`

type outcome struct {
	Name     string
	Category evaluator.Category
	Cards    string
	Failed   bool
}

func outcomes(results []Result) []outcome {
	out := make([]outcome, len(results))
	for i, r := range results {
		out[i] = outcome{Name: r.Entry.Name, Failed: r.Err != nil}
		if r.Err == nil {
			out[i].Category = r.Hand.Category
			out[i].Cards = deck.FormatNotation(r.Hand.Cards)
		}
	}
	return out
}

func TestDecode(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleFile))
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, Entry{Name: "royal", Hole: "Ts Js", Community: "Qs Ks As 2c 3d"}, entries[0])
	assert.Equal(t, "hand-3", entries[2].Name)

	entries, err = Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = Decode(strings.NewReader("hands:\n  - name: x\n    board: Qs\n"))
	assert.Error(t, err, "unknown fields should be rejected")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o644))

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleFile))
	require.NoError(t, err)

	for _, concurrency := range []int{0, 1, 3, 16} {
		results, err := Run(context.Background(), evaluator.New(), entries, concurrency)
		require.NoError(t, err)

		want := []outcome{
			{Name: "royal", Category: evaluator.RoyalFlush, Cards: "TsJsQsKsAs"},
			{Name: "quads", Category: evaluator.FourOfAKind, Cards: "9dQsQhQdQc"},
			{Name: "hand-3", Category: evaluator.HighCard, Cards: "5h7d9cJsKh"},
			{Name: "bad card", Failed: true},
			{Name: "duplicate", Failed: true},
		}
		if diff := cmp.Diff(want, outcomes(results)); diff != "" {
			t.Errorf("concurrency %d: results mismatch (-want +got):\n%s", concurrency, diff)
		}

		assert.ErrorIs(t, results[3].Err, deck.ErrInvalidCard)
		assert.ErrorIs(t, results[4].Err, evaluator.ErrDuplicateCard)
		assert.Equal(t, 2, Failed(results))
		assert.Equal(t, map[evaluator.Category]int{
			evaluator.RoyalFlush:  1,
			evaluator.FourOfAKind: 1,
			evaluator.HighCard:    1,
		}, Tally(results))
	}
}

func TestRunSingleEntry(t *testing.T) {
	// The errgroup's own context is cancelled by Wait and must not leak
	// into the result.
	results, err := Run(context.Background(), evaluator.New(), []Entry{{Hole: "TsJs", Community: "QsKsAs2c3d"}}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, evaluator.RoyalFlush, results[0].Hand.Category)

	results, err = Run(context.Background(), evaluator.New(), nil, 1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, evaluator.New(), []Entry{{Name: "x", Hole: "AsKs", Community: "2c3d4h5s7c"}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteReport(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleFile))
	require.NoError(t, err)
	results, err := Run(context.Background(), evaluator.New(), entries[:1], 1)
	require.NoError(t, err)
	results = append(results, Result{Entry: Entry{Name: "broken"}, Err: deck.ErrInvalidCard})

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, results))

	want := `- name: royal
  category: royal_flush
  cards: TsJsQsKsAs
  description: Royal Flush
- name: broken
  error: invalid card
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}
