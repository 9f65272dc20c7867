package evaluator

import (
	"github.com/pkg/errors"

	"github.com/lox/handrank/internal/deck"
)

// Showdown is the outcome of several players sharing one board.
type Showdown struct {
	Hands   []Hand
	Winners []int // indexes into Hands; more than one means a split
}

// Showdown classifies every player's hole cards against community and
// reports all players holding the strongest hand.
func (e *Evaluator) Showdown(players [][]deck.Card, community []deck.Card) (Showdown, error) {
	if len(players) == 0 {
		return Showdown{}, errors.Wrap(ErrInvalidHandSize, "no players")
	}
	if len(community) != CommunitySize {
		return Showdown{}, errors.Wrapf(ErrInvalidHandSize, "got %d community cards, want %d", len(community), CommunitySize)
	}
	for i, hole := range players {
		if len(hole) != HoleSize {
			return Showdown{}, errors.Wrapf(ErrInvalidHandSize, "player %d has %d hole cards, want %d", i+1, len(hole), HoleSize)
		}
	}

	groups := append([][]deck.Card{community}, players...)
	if dup, ok := deck.FirstDuplicate(groups...); ok {
		return Showdown{}, errors.Wrapf(ErrDuplicateCard, "%s", dup)
	}

	result := Showdown{Hands: make([]Hand, len(players))}
	for i, hole := range players {
		hand, err := e.Classify(hole, community)
		if err != nil {
			return Showdown{}, errors.Wrapf(err, "player %d", i+1)
		}
		result.Hands[i] = hand

		if len(result.Winners) == 0 {
			result.Winners = []int{i}
			continue
		}
		switch hand.Compare(result.Hands[result.Winners[0]]) {
		case 1:
			result.Winners = []int{i}
		case 0:
			result.Winners = append(result.Winners, i)
		}
	}
	return result, nil
}
