package history

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func classified(t *testing.T, source, hole, community string) Record {
	t.Helper()
	h, c := deck.MustParseCards(hole), deck.MustParseCards(community)
	hand, err := evaluator.Classify(h, c)
	require.NoError(t, err)
	return NewRecord(source, h, c, hand)
}

func TestNewRecord(t *testing.T) {
	r := classified(t, "cli", "QsQh", "Qd5c5h6s2d")
	assert.Equal(t, Record{
		Source:      "cli",
		Hole:        "QsQh",
		Community:   "Qd5c5h6s2d",
		Category:    evaluator.FullHouse,
		Cards:       "5h5cQsQhQd",
		Description: "Full House, Queens full of Fives",
	}, r)
}

func TestStoreRecordAndGet(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock.Set(start).MustWait(ctx)

	store := openTestStore(t, WithClock(clock))

	saved, err := store.Record(ctx, classified(t, "http", "TsJs", "QsKsAs2c3d"))
	require.NoError(t, err)
	_, err = uuid.Parse(saved.ID)
	assert.NoError(t, err, "record should get a uuid")
	assert.Equal(t, start, saved.CreatedAt)

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, evaluator.RoyalFlush, got.Category)

	_, err = store.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	explicit := classified(t, "cli", "AsAh", "2c5d9sJhKd")
	explicit.ID = "fixed-id"
	explicit.CreatedAt = start.Add(-time.Hour)
	saved, err = store.Record(ctx, explicit)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", saved.ID)
	assert.Equal(t, start.Add(-time.Hour), saved.CreatedAt)

	_, err = store.Record(ctx, explicit)
	assert.Error(t, err, "IDs are unique")
}

func TestStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)).MustWait(ctx)
	store := openTestStore(t, WithClock(clock))

	hands := [][2]string{
		{"AsAh", "2c5d9sJhKd"},
		{"KsKh", "5c5d9s9hAd"},
		{"7s7h", "7d2cJsKh4d"},
		{"Th9h", "8d7c6s5h2c"},
	}
	for _, h := range hands {
		_, err := store.Record(ctx, classified(t, "cli", h[0], h[1]))
		require.NoError(t, err)
		clock.Advance(time.Second).MustWait(ctx)
	}

	records, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 4)
	var categories []evaluator.Category
	for _, r := range records {
		categories = append(categories, r.Category)
	}
	assert.Equal(t, []evaluator.Category{
		evaluator.Straight, evaluator.ThreeOfAKind, evaluator.TwoPair, evaluator.Pair,
	}, categories)

	records, err = store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestStoreConcurrentRecords(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	record := classified(t, "ws", "AsKs", "2c3d4h5s7c")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Record(ctx, record)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	saved, err := store.Record(ctx, classified(t, "cli", "AsAh", "2c5d9sJhKd"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Description, got.Description)
}

func TestExport(t *testing.T) {
	records := []Record{classified(t, "cli", "QsQh", "QdQc4s7h9d")}
	records[0].ID = "a1"
	records[0].CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, Export(records, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "category: four_of_a_kind")

	var decoded struct {
		Records []Record `yaml:"records"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, records, decoded.Records)
}
