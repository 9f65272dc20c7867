// Package evaluator classifies Texas hold'em hands. A seven-card hand (two
// hole cards plus five community cards) is split into its 21 five-card
// combinations; categories are tried from strongest to weakest and the first
// category matched by any combination wins.
package evaluator

import (
	"github.com/pkg/errors"

	"github.com/lox/handrank/internal/deck"
)

const (
	HoleSize      = 2
	CommunitySize = 5
	HandSize      = 5
)

var (
	// ErrInvalidHandSize is returned when the hole or community card count is wrong.
	ErrInvalidHandSize = errors.New("invalid hand size")
	// ErrDuplicateCard is returned when a card appears more than once.
	ErrDuplicateCard = errors.New("duplicate card")
)

// Evaluator classifies hands under a fixed set of rules. It holds no mutable
// state and is safe for concurrent use.
type Evaluator struct {
	rules       Rules
	classifiers []classifier
}

// Option configures an Evaluator
type Option func(*Rules)

// WithRules replaces all rules at once.
func WithRules(r Rules) Option {
	return func(dst *Rules) { *dst = r }
}

// WithStraightFlush toggles the straight flush category.
func WithStraightFlush(enabled bool) Option {
	return func(r *Rules) { r.StraightFlush = enabled }
}

// WithWheel toggles A-2-3-4-5 straights.
func WithWheel(enabled bool) Option {
	return func(r *Rules) { r.Wheel = enabled }
}

// WithSelection sets the combination selection policy.
func WithSelection(s Selection) Option {
	return func(r *Rules) { r.Selection = s }
}

// New creates an Evaluator starting from DefaultRules.
func New(opts ...Option) *Evaluator {
	rules := DefaultRules()
	for _, opt := range opts {
		opt(&rules)
	}
	return &Evaluator{rules: rules, classifiers: classifiers(rules)}
}

var defaultEvaluator = New()

// Classify classifies a hand with DefaultRules.
func Classify(hole, community []deck.Card) (Hand, error) {
	return defaultEvaluator.Classify(hole, community)
}

// Rules returns the rules the evaluator was built with.
func (e *Evaluator) Rules() Rules {
	return e.rules
}

// Classify finds the strongest category among the 21 five-card combinations
// of hole and community, and the combination that makes it.
func (e *Evaluator) Classify(hole, community []deck.Card) (Hand, error) {
	if len(hole) != HoleSize || len(community) != CommunitySize {
		return Hand{}, errors.Wrapf(ErrInvalidHandSize,
			"got %d hole and %d community cards, want %d and %d",
			len(hole), len(community), HoleSize, CommunitySize)
	}

	cards := make([]deck.Card, 0, HoleSize+CommunitySize)
	cards = append(cards, hole...)
	cards = append(cards, community...)
	if err := validate(cards); err != nil {
		return Hand{}, err
	}

	return e.best(cards), nil
}

// Evaluate5 classifies exactly five cards.
func (e *Evaluator) Evaluate5(cards []deck.Card) (Hand, error) {
	if len(cards) != HandSize {
		return Hand{}, errors.Wrapf(ErrInvalidHandSize, "got %d cards, want %d", len(cards), HandSize)
	}
	if err := validate(cards); err != nil {
		return Hand{}, err
	}
	return e.best(cards), nil
}

// Best classifies the strongest five-card hand within 5 to 7 cards.
func (e *Evaluator) Best(cards []deck.Card) (Hand, error) {
	if len(cards) < HandSize || len(cards) > HoleSize+CommunitySize {
		return Hand{}, errors.Wrapf(ErrInvalidHandSize, "got %d cards, want 5 to 7", len(cards))
	}
	if err := validate(cards); err != nil {
		return Hand{}, err
	}
	return e.best(cards), nil
}

func (e *Evaluator) best(cards []deck.Card) Hand {
	combos := Combinations(cards, HandSize)
	shapes := make([]*shape, len(combos))
	for i, combo := range combos {
		shapes[i] = analyze(combo)
	}

	for _, cl := range e.classifiers {
		var (
			chosen  *shape
			chosenK []deck.Rank
		)
		for _, s := range shapes {
			if !cl.match(s) {
				continue
			}
			k := kickers(cl.category, s, e.rules)
			switch {
			case chosen == nil,
				e.rules.Selection == SelectLast,
				e.rules.Selection == SelectBest && compareKickers(k, chosenK) > 0:
				chosen, chosenK = s, k
			}
		}
		if chosen != nil {
			return newHand(cl.category, chosen.cards, chosenK)
		}
	}

	// Unreachable: the high card classifier matches everything.
	panic("evaluator: no classifier matched")
}

func newHand(c Category, cards []deck.Card, k []deck.Rank) Hand {
	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	deck.SortByRank(sorted)
	return Hand{Category: c, Cards: sorted, Kickers: k}
}

func validate(cards []deck.Card) error {
	for _, c := range cards {
		if !c.Valid() {
			return errors.Wrapf(deck.ErrInvalidCard, "rank %d suit %d", int(c.Rank), int(c.Suit))
		}
	}
	if dup, ok := deck.FirstDuplicate(cards); ok {
		return errors.Wrapf(ErrDuplicateCard, "%s", dup)
	}
	return nil
}
