package evaluator

import "github.com/lox/handrank/internal/deck"

// shape holds the rank and suit facts of one five-card combination.
type shape struct {
	cards  []deck.Card
	counts [deck.Ace + 1]uint8
	flush  bool
	// high is the top rank of a regular straight, zero otherwise.
	high deck.Rank
	// wheel marks A-2-3-4-5.
	wheel bool
}

func analyze(cards []deck.Card) *shape {
	s := &shape{cards: cards, flush: true}

	lo, hi := deck.Ace, deck.Two
	for i, c := range cards {
		s.counts[c.Rank]++
		if c.Rank < lo {
			lo = c.Rank
		}
		if c.Rank > hi {
			hi = c.Rank
		}
		if i > 0 && c.Suit != cards[0].Suit {
			s.flush = false
		}
	}

	if s.distinct() == 5 {
		switch {
		case hi-lo == 4:
			s.high = hi
		case hi == deck.Ace && s.counts[deck.Two] == 1 && s.counts[deck.Three] == 1 &&
			s.counts[deck.Four] == 1 && s.counts[deck.Five] == 1:
			s.wheel = true
		}
	}
	return s
}

func (s *shape) distinct() int {
	n := 0
	for r := deck.Two; r <= deck.Ace; r++ {
		if s.counts[r] > 0 {
			n++
		}
	}
	return n
}

// hasCount reports whether some rank appears exactly n times.
func (s *shape) hasCount(n uint8) bool {
	return s.ranksWithCount(n) > 0
}

// ranksWithCount returns how many ranks appear exactly n times.
func (s *shape) ranksWithCount(n uint8) int {
	total := 0
	for r := deck.Two; r <= deck.Ace; r++ {
		if s.counts[r] == n {
			total++
		}
	}
	return total
}

// straightHigh returns the top rank of the straight, or zero when the
// combination is not a straight under the wheel setting.
func (s *shape) straightHigh(wheel bool) deck.Rank {
	if s.high != 0 {
		return s.high
	}
	if wheel && s.wheel {
		return deck.Five
	}
	return 0
}

func (s *shape) royal() bool {
	return s.flush && s.high == deck.Ace
}

// grouped returns the distinct ranks ordered by count then rank, both
// descending: quads before trips before pairs before singles. This is the
// tie-break order for every category except straights.
func (s *shape) grouped() []deck.Rank {
	ranks := make([]deck.Rank, 0, 5)
	for count := uint8(4); count >= 1; count-- {
		for r := deck.Ace; r >= deck.Two; r-- {
			if s.counts[r] == count {
				ranks = append(ranks, r)
			}
		}
	}
	return ranks
}
