package evaluator

import "github.com/lox/handrank/internal/deck"

// Combinations returns every k-card subset of cards in lexicographic index
// order: for seven cards and k=5 that is 21 subsets, starting with the first
// five cards and ending with the last five. It returns nil when k is out of
// range.
func Combinations(cards []deck.Card, k int) [][]deck.Card {
	n := len(cards)
	if k <= 0 || k > n {
		return nil
	}

	var out [][]deck.Card
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		combo := make([]deck.Card, k)
		for i, j := range idx {
			combo[i] = cards[j]
		}
		out = append(out, combo)

		// Advance the rightmost index that still has room.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
