package evaluator

import (
	"strings"

	"github.com/pkg/errors"
)

// Category is a poker hand class, ordered from weakest to strongest.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// Categories lists every category from weakest to strongest.
var Categories = [...]Category{
	HighCard, Pair, TwoPair, ThreeOfAKind, Straight,
	Flush, FullHouse, FourOfAKind, StraightFlush, RoyalFlush,
}

// String returns the readable name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Slug returns the snake_case identifier used in JSON and YAML.
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(c.String()), " ", "_")
}

// MarshalText encodes the category as its slug.
func (c Category) MarshalText() ([]byte, error) {
	if c < HighCard || c > RoyalFlush {
		return nil, errors.Errorf("unknown category %d", int(c))
	}
	return []byte(c.Slug()), nil
}

// UnmarshalText decodes a slug or display name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory accepts either the slug ("full_house") or the display name
// ("Full House"), case-insensitively.
func ParseCategory(s string) (Category, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	for _, c := range Categories {
		if c.Slug() == norm {
			return c, nil
		}
	}
	return 0, errors.Errorf("unknown category %q", s)
}
