package evaluator

import (
	"fmt"

	"github.com/lox/handrank/internal/deck"
)

// Hand is a classified five-card poker hand
type Hand struct {
	Category Category
	Cards    []deck.Card // The 5 cards that make up the hand, lowest rank first
	Kickers  []deck.Rank // Tie-break ranks, most significant first
}

// String returns a string representation of the hand
func (h Hand) String() string {
	return fmt.Sprintf("%s [%s]", h.Category, deck.Format(h.Cards))
}

// Describe names the hand the way a dealer would announce it.
func (h Hand) Describe() string {
	k := func(i int) deck.Rank {
		if i < len(h.Kickers) {
			return h.Kickers[i]
		}
		return 0
	}

	switch h.Category {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush, Straight, Flush:
		return fmt.Sprintf("%s, %s high", h.Category, k(0).Name())
	case FourOfAKind, ThreeOfAKind:
		return fmt.Sprintf("%s, %s", h.Category, k(0).Plural())
	case FullHouse:
		return fmt.Sprintf("Full House, %s full of %s", k(0).Plural(), k(1).Plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", k(0).Plural(), k(1).Plural())
	case Pair:
		return fmt.Sprintf("Pair of %s", k(0).Plural())
	case HighCard:
		return fmt.Sprintf("High Card, %s", k(0).Name())
	default:
		return h.Category.String()
	}
}

// Compare compares two hands and returns:
// -1 if h1 is weaker than h2
//
//	0 if h1 equals h2
//	1 if h1 is stronger than h2
func (h1 Hand) Compare(h2 Hand) int {
	if h1.Category < h2.Category {
		return -1
	}
	if h1.Category > h2.Category {
		return 1
	}
	return compareKickers(h1.Kickers, h2.Kickers)
}

func compareKickers(a, b []deck.Rank) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// CompareWithExplanation compares two hands and returns the result with an explanation
func (h1 Hand) CompareWithExplanation(h2 Hand) (int, string) {
	result := h1.Compare(h2)
	if result == 0 {
		return result, fmt.Sprintf("%s ties %s", h1.Describe(), h2.Describe())
	}

	winner, loser := h1, h2
	if result < 0 {
		winner, loser = h2, h1
	}
	explanation := fmt.Sprintf("%s beats %s", winner.Describe(), loser.Describe())
	if winner.Category != loser.Category {
		return result, explanation
	}

	// Same category: name the first rank that differs.
	for i := 0; i < len(winner.Kickers) && i < len(loser.Kickers); i++ {
		w, l := winner.Kickers[i], loser.Kickers[i]
		if w == l {
			continue
		}
		switch {
		case i == 0 && (winner.Category == Straight || winner.Category == StraightFlush):
			explanation += fmt.Sprintf(" with a higher straight (%s-high vs %s-high)", w, l)
		case i == 0 && winner.Category != HighCard && winner.Category != Flush:
			explanation += fmt.Sprintf(" with higher %s (%s vs %s)", groupWord(winner.Category), w, l)
		case i == 1 && (winner.Category == FullHouse || winner.Category == TwoPair):
			explanation += fmt.Sprintf(" with a higher second pair (%s vs %s)", w, l)
		default:
			explanation += fmt.Sprintf(" with a higher kicker (%s vs %s)", w, l)
		}
		break
	}
	return result, explanation
}

func groupWord(c Category) string {
	switch c {
	case FourOfAKind:
		return "quads"
	case FullHouse, ThreeOfAKind:
		return "trips"
	default:
		return "pair"
	}
}

// IsStrongerThan returns true if this hand beats the other hand
func (h1 Hand) IsStrongerThan(h2 Hand) bool {
	return h1.Compare(h2) > 0
}

// Equals returns true if both hands are equal in strength
func (h1 Hand) Equals(h2 Hand) bool {
	return h1.Compare(h2) == 0
}
