package deck

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in deck order.
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the single lowercase letter used in compact notation.
func (s Suit) Letter() byte {
	switch s {
	case Spades:
		return 's'
	case Hearts:
		return 'h'
	case Diamonds:
		return 'd'
	case Clubs:
		return 'c'
	default:
		return '?'
	}
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s >= Spades && s <= Clubs
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. The numeric value is the rank's ordinal, so
// ranks compare and subtract directly.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the display form of a rank ("10" for ten)
func (r Rank) String() string {
	if r == Ten {
		return "10"
	}
	return string(r.Letter())
}

// Letter returns the single character used in compact notation ('T' for ten).
func (r Rank) Letter() byte {
	switch r {
	case Two, Three, Four, Five, Six, Seven, Eight, Nine:
		return byte('0' + int(r))
	case Ten:
		return 'T'
	case Jack:
		return 'J'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	case Ace:
		return 'A'
	default:
		return '?'
	}
}

// Name returns the rank spelled out, e.g. "Queen".
func (r Rank) Name() string {
	switch r {
	case Two:
		return "Two"
	case Three:
		return "Three"
	case Four:
		return "Four"
	case Five:
		return "Five"
	case Six:
		return "Six"
	case Seven:
		return "Seven"
	case Eight:
		return "Eight"
	case Nine:
		return "Nine"
	case Ten:
		return "Ten"
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	case Ace:
		return "Ace"
	default:
		return "Unknown"
	}
}

// Plural returns the plural rank name, e.g. "Sixes".
func (r Rank) Plural() string {
	if r == Six {
		return "Sixes"
	}
	return r.Name() + "s"
}

// Valid reports whether r is between Two and Ace.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the display form of a card (e.g., "A♠", "10♥")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Notation returns the compact two-character form (e.g., "As", "Th").
func (c Card) Notation() string {
	return string([]byte{c.Rank.Letter(), c.Suit.Letter()})
}

// Valid reports whether both rank and suit are in range.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Index returns the card's position (0-51) in a Standard deck.
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// MarshalText encodes the card in compact notation.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Wrapf(ErrInvalidCard, "rank %d suit %d", int(c.Rank), int(c.Suit))
	}
	return []byte(c.Notation()), nil
}

// UnmarshalText accepts any notation understood by ParseCard.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Less orders cards by rank, then by suit.
func Less(a, b Card) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Suit < b.Suit
}

// SortByRank sorts cards in place, lowest rank first.
func SortByRank(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return Less(cards[i], cards[j]) })
}

// Format joins the display form of cards with single spaces.
func Format(cards []Card) string {
	buf := make([]byte, 0, len(cards)*5)
	for i, c := range cards {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c.String()...)
	}
	return string(buf)
}

// FormatNotation joins the compact notation of cards without separators.
func FormatNotation(cards []Card) string {
	buf := make([]byte, 0, len(cards)*2)
	for _, c := range cards {
		buf = append(buf, c.Notation()...)
	}
	return string(buf)
}
