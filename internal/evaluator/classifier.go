package evaluator

import "github.com/lox/handrank/internal/deck"

// classifier recognises one category's shape in a five-card combination.
type classifier struct {
	category Category
	match    func(s *shape) bool
}

// classifiers returns the shape tests in descending strength order. A
// combination belongs to the first category whose test it passes, so weaker
// tests (three of a kind, pair) may also match stronger shapes.
func classifiers(r Rules) []classifier {
	list := []classifier{
		{RoyalFlush, func(s *shape) bool { return s.royal() }},
	}
	if r.StraightFlush {
		list = append(list, classifier{StraightFlush, func(s *shape) bool {
			return s.flush && s.straightHigh(r.Wheel) != 0
		}})
	}
	return append(list,
		classifier{FourOfAKind, func(s *shape) bool { return s.hasCount(4) }},
		classifier{FullHouse, func(s *shape) bool { return s.hasCount(3) && s.hasCount(2) }},
		classifier{Flush, func(s *shape) bool { return s.flush }},
		classifier{Straight, func(s *shape) bool { return s.straightHigh(r.Wheel) != 0 }},
		classifier{ThreeOfAKind, func(s *shape) bool { return s.hasCount(3) }},
		classifier{TwoPair, func(s *shape) bool { return s.ranksWithCount(2) == 2 }},
		classifier{Pair, func(s *shape) bool { return s.ranksWithCount(2) == 1 }},
		classifier{HighCard, func(*shape) bool { return true }},
	)
}

// kickers returns the tie-break ranks of s when classified as c.
func kickers(c Category, s *shape, r Rules) []deck.Rank {
	switch c {
	case RoyalFlush, StraightFlush, Straight:
		return []deck.Rank{s.straightHigh(r.Wheel)}
	default:
		return s.grouped()
	}
}
