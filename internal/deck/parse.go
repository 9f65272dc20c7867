package deck

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidCard is returned for rank or suit tokens that do not name a card.
var ErrInvalidCard = errors.New("invalid card")

// ParseCard parses a single card such as "As", "Td", "10d" or "A♠".
func ParseCard(s string) (Card, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return Card{}, err
	}
	if len(cards) != 1 {
		return Card{}, errors.Wrapf(ErrInvalidCard, "%q is %d cards, want 1", s, len(cards))
	}
	return cards[0], nil
}

// ParseCards parses a string of card notation into a slice of cards.
// Each card is [Rank][Suit]; cards may be run together or separated by
// spaces or commas.
// Ranks: A, K, Q, J, T (or 10), 9, 8, 7, 6, 5, 4, 3, 2
// Suits: s h d c (either case) or ♠ ♥ ♦ ♣
func ParseCards(s string) ([]Card, error) {
	runes := []rune(strings.Map(func(r rune) rune {
		switch r {
		case ' ', ',', '\t', '\n':
			return -1
		}
		return r
	}, s))

	cards := []Card{}
	for i := 0; i < len(runes); {
		rank, width, err := parseRank(runes[i:])
		if err != nil {
			return nil, errors.Wrapf(err, "position %d", i)
		}
		i += width
		if i >= len(runes) {
			return nil, errors.Wrapf(ErrInvalidCard, "incomplete card at end of %q", s)
		}
		suit, err := parseSuit(runes[i])
		if err != nil {
			return nil, errors.Wrapf(err, "position %d", i)
		}
		i++
		cards = append(cards, Card{Rank: rank, Suit: suit})
	}

	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(rs []rune) (Rank, int, error) {
	if len(rs) >= 2 && rs[0] == '1' && rs[1] == '0' {
		return Ten, 2, nil
	}
	switch rs[0] {
	case 'A', 'a':
		return Ace, 1, nil
	case 'K', 'k':
		return King, 1, nil
	case 'Q', 'q':
		return Queen, 1, nil
	case 'J', 'j':
		return Jack, 1, nil
	case 'T', 't':
		return Ten, 1, nil
	case '2', '3', '4', '5', '6', '7', '8', '9':
		return Rank(rs[0] - '0'), 1, nil
	default:
		return 0, 0, errors.Wrapf(ErrInvalidCard, "unknown rank '%c'", rs[0])
	}
}

func parseSuit(r rune) (Suit, error) {
	switch r {
	case 's', 'S', '♠', '♤':
		return Spades, nil
	case 'h', 'H', '♥', '♡':
		return Hearts, nil
	case 'd', 'D', '♦', '♢':
		return Diamonds, nil
	case 'c', 'C', '♣', '♧':
		return Clubs, nil
	default:
		return 0, errors.Wrapf(ErrInvalidCard, "unknown suit '%c'", r)
	}
}
