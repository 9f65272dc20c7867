package deck

import "math/bits"

// Set represents a set of cards using a bitset for fast operations.
// Each card maps to the bit at Card.Index.
type Set uint64

// NewSet creates a Set from a slice of cards
func NewSet(cards []Card) Set {
	var s Set
	for _, card := range cards {
		s.Add(card)
	}
	return s
}

// Add adds a card to the set
func (s *Set) Add(card Card) {
	if card.Valid() {
		*s |= 1 << card.Index()
	}
}

// Contains checks if a card is in the set
func (s Set) Contains(card Card) bool {
	return card.Valid() && s&(1<<card.Index()) != 0
}

// Len returns the number of cards in the set.
func (s Set) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Remaining returns every card of a Standard deck not in the set, in deck order.
func (s Set) Remaining() []Card {
	out := make([]Card, 0, 52-s.Len())
	for _, c := range Standard() {
		if !s.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// FirstDuplicate returns the first card that appears more than once.
func FirstDuplicate(cards ...[]Card) (Card, bool) {
	var seen Set
	for _, group := range cards {
		for _, c := range group {
			if seen.Contains(c) {
				return c, true
			}
			seen.Add(c)
		}
	}
	return Card{}, false
}
