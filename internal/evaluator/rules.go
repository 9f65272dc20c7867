package evaluator

import (
	"strings"

	"github.com/pkg/errors"
)

// Selection decides which combination is reported when several
// combinations share the winning category.
type Selection int

const (
	// SelectBest reports the highest-valued combination. Among equal values
	// the first one scanned wins.
	SelectBest Selection = iota
	// SelectLast reports the last matching combination in scan order,
	// regardless of value.
	SelectLast
)

func (s Selection) String() string {
	switch s {
	case SelectBest:
		return "best"
	case SelectLast:
		return "last"
	default:
		return "unknown"
	}
}

// ParseSelection parses "best" or "last".
func ParseSelection(s string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best":
		return SelectBest, nil
	case "last":
		return SelectLast, nil
	default:
		return 0, errors.Errorf("unknown selection %q (want best or last)", s)
	}
}

// Rules toggle the optional parts of classification.
type Rules struct {
	// StraightFlush adds the straight flush category between four of a kind
	// and royal flush. Without it a non-royal straight flush is a flush.
	StraightFlush bool
	// Wheel lets A-2-3-4-5 count as a five-high straight.
	Wheel bool
	// Selection picks among combinations of the winning category.
	Selection Selection
}

// DefaultRules classify with the nine categories, ace-high straights only,
// and report the best combination of the winning category.
func DefaultRules() Rules {
	return Rules{Selection: SelectBest}
}

// StandardRules follow conventional hold'em ranking: straight flushes and
// the wheel are recognised.
func StandardRules() Rules {
	return Rules{StraightFlush: true, Wheel: true, Selection: SelectBest}
}
