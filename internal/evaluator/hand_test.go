package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handrank/internal/deck"
)

func mustClassify(t *testing.T, ev *Evaluator, hole, community string) Hand {
	t.Helper()
	hand, err := ev.Classify(deck.MustParseCards(hole), deck.MustParseCards(community))
	require.NoError(t, err)
	return hand
}

func TestHandDescribe(t *testing.T) {
	ev := New(WithRules(StandardRules()))

	tests := []struct {
		hole, community string
		want            string
	}{
		{"TsJs", "QsKsAs2c3d", "Royal Flush"},
		{"9s8s", "7s6s5s2d3h", "Straight Flush, Nine high"},
		{"QsQh", "QdQc4s7h9d", "Four of a Kind, Queens"},
		{"QsQh", "Qd5c5h6s2d", "Full House, Queens full of Fives"},
		{"Ks2s", "3s5s9sJsAh", "Flush, King high"},
		{"As2d", "3c4h5s9dKc", "Straight, Five high"},
		{"6s6h", "6d2cJsKh4d", "Three of a Kind, Sixes"},
		{"KsKh", "5c5d9s9hAd", "Two Pair, Kings and Nines"},
		{"JsJh", "2c5d9s3hKd", "Pair of Jacks"},
		{"2s5h", "7d9cJs8h3c", "High Card, Jack"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, mustClassify(t, ev, tt.hole, tt.community).Describe())
		})
	}
}

func TestHandCompareWithExplanation(t *testing.T) {
	ev := New()

	tests := []struct {
		name   string
		a, b   [2]string
		result int
		want   string
	}{
		{
			name:   "different categories",
			a:      [2]string{"QsQh", "QdQc4s7h9d"},
			b:      [2]string{"AsAh", "2c5d9sJhKd"},
			result: 1,
			want:   "Four of a Kind, Queens beats Pair of Aces",
		},
		{
			name:   "higher pair",
			a:      [2]string{"9s9h", "2c5d3sJhKd"},
			b:      [2]string{"AsAh", "2h5c3dJsKc"},
			result: -1,
			want:   "Pair of Aces beats Pair of Nines with higher pair (A vs 9)",
		},
		{
			name:   "kicker",
			a:      [2]string{"AsKh", "Ad7c2s9hTd"},
			b:      [2]string{"AcQh", "Ah7d2c9sTs"},
			result: 1,
			want:   "Pair of Aces beats Pair of Aces with a higher kicker (K vs Q)",
		},
		{
			name:   "second pair",
			a:      [2]string{"KsKh", "9c9d2s3hAd"},
			b:      [2]string{"KcKd", "8c8d2h3sAc"},
			result: 1,
			want:   "Two Pair, Kings and Nines beats Two Pair, Kings and Eights with a higher second pair (9 vs 8)",
		},
		{
			name:   "straights",
			a:      [2]string{"9h8d", "7c6s5hKd2c"},
			b:      [2]string{"Th9d", "8c7s6hKh2d"},
			result: -1,
			want:   "Straight, Ten high beats Straight, Nine high with a higher straight (10-high vs 9-high)",
		},
		{
			name:   "split",
			a:      [2]string{"2c3d", "AsKsQhJhTd"},
			b:      [2]string{"2h3h", "AsKsQhJhTd"},
			result: 0,
			want:   "Straight, Ace high ties Straight, Ace high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustClassify(t, ev, tt.a[0], tt.a[1])
			b := mustClassify(t, ev, tt.b[0], tt.b[1])

			result, explanation := a.CompareWithExplanation(b)
			assert.Equal(t, tt.result, result)
			assert.Equal(t, tt.want, explanation)
			assert.Equal(t, tt.result > 0, a.IsStrongerThan(b))
			assert.Equal(t, tt.result == 0, a.Equals(b))
		})
	}
}

func TestCategoryText(t *testing.T) {
	for _, c := range Categories {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Category
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)

		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	assert.Equal(t, "three_of_a_kind", ThreeOfAKind.Slug())
	assert.Equal(t, "Unknown", Category(42).String())

	_, err := Category(42).MarshalText()
	assert.Error(t, err)
	_, err = ParseCategory("five of a kind")
	assert.Error(t, err)
}

func TestParseSelection(t *testing.T) {
	for in, want := range map[string]Selection{"": SelectBest, "best": SelectBest, " LAST ": SelectLast} {
		got, err := ParseSelection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseSelection("first")
	assert.Error(t, err)
}

func TestShowdown(t *testing.T) {
	ev := New()
	board := deck.MustParseCards("Ks9d4c2h7s")

	t.Run("single winner", func(t *testing.T) {
		result, err := ev.Showdown([][]deck.Card{
			deck.MustParseCards("AsAh"),
			deck.MustParseCards("KhKd"),
			deck.MustParseCards("QcJc"),
		}, board)
		require.NoError(t, err)
		require.Len(t, result.Hands, 3)
		assert.Equal(t, []int{1}, result.Winners)
		assert.Equal(t, ThreeOfAKind, result.Hands[1].Category)
	})

	t.Run("split pot", func(t *testing.T) {
		result, err := ev.Showdown([][]deck.Card{
			deck.MustParseCards("AsQh"),
			deck.MustParseCards("AdQc"),
			deck.MustParseCards("5c6d"),
		}, board)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, result.Winners)
	})

	t.Run("card shared between players", func(t *testing.T) {
		_, err := ev.Showdown([][]deck.Card{
			deck.MustParseCards("AsQh"),
			deck.MustParseCards("AsQc"),
		}, board)
		assert.ErrorIs(t, err, ErrDuplicateCard)
	})

	t.Run("wrong hole size reported before duplicates", func(t *testing.T) {
		_, err := ev.Showdown([][]deck.Card{
			deck.MustParseCards("AsQh"),
			deck.MustParseCards("AdKs9d"),
		}, board)
		assert.ErrorIs(t, err, ErrInvalidHandSize)
		assert.NotErrorIs(t, err, ErrDuplicateCard)
	})

	t.Run("short board", func(t *testing.T) {
		_, err := ev.Showdown([][]deck.Card{
			deck.MustParseCards("AsQh"),
			deck.MustParseCards("AdQc"),
		}, board[:3])
		assert.ErrorIs(t, err, ErrInvalidHandSize)
	})

	t.Run("no players", func(t *testing.T) {
		_, err := ev.Showdown(nil, board)
		assert.ErrorIs(t, err, ErrInvalidHandSize)
	})
}
