package deck

import (
	"errors"
	"testing"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
				{Suit: Spades, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:  "symbols with ten as 10",
			input: "10♠ J♠ Q♥",
			expected: []Card{
				{Suit: Spades, Rank: Ten},
				{Suit: Spades, Rank: Jack},
				{Suit: Hearts, Rank: Queen},
			},
		},
		{
			name:  "comma separated",
			input: "2c, 3d,4h",
			expected: []Card{
				{Suit: Clubs, Rank: Two},
				{Suit: Diamonds, Rank: Three},
				{Suit: Hearts, Rank: Four},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqDjc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
			},
		},
		{
			name:    "invalid rank",
			input:   "XsKs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AsKx",
			wantErr: true,
		},
		{
			name:    "dangling rank",
			input:   "AsK",
			wantErr: true,
		},
		{
			name:    "lone one",
			input:   "1s",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCards() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCard) {
					t.Errorf("ParseCards() error = %v, want ErrInvalidCard", err)
				}
				return
			}
			if !cardsEqual(got, tt.expected) {
				t.Errorf("ParseCards() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard("10h")
	if err != nil {
		t.Fatalf("ParseCard() error = %v", err)
	}
	if c != NewCard(Hearts, Ten) {
		t.Errorf("ParseCard() = %v, want 10♥", c)
	}

	if _, err := ParseCard("AsKs"); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("ParseCard() with two cards error = %v, want ErrInvalidCard", err)
	}
}

func TestMustParseCards(t *testing.T) {
	cards := MustParseCards("AsKs")
	expected := []Card{
		{Suit: Spades, Rank: Ace},
		{Suit: Spades, Rank: King},
	}
	if !cardsEqual(cards, expected) {
		t.Errorf("MustParseCards() = %v, want %v", cards, expected)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseCards() should panic on invalid input")
		}
	}()
	MustParseCards("invalid")
}

func TestCardFormatting(t *testing.T) {
	tests := []struct {
		card     Card
		display  string
		notation string
	}{
		{NewCard(Spades, Ace), "A♠", "As"},
		{NewCard(Hearts, Ten), "10♥", "Th"},
		{NewCard(Diamonds, Two), "2♦", "2d"},
		{NewCard(Clubs, Queen), "Q♣", "Qc"},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			if got := tt.card.String(); got != tt.display {
				t.Errorf("String() = %q, want %q", got, tt.display)
			}
			if got := tt.card.Notation(); got != tt.notation {
				t.Errorf("Notation() = %q, want %q", got, tt.notation)
			}
		})
	}

	if got := Format(MustParseCards("TsJsQs")); got != "10♠ J♠ Q♠" {
		t.Errorf("Format() = %q", got)
	}
	if got := FormatNotation(MustParseCards("10♠ J♠")); got != "TsJs" {
		t.Errorf("FormatNotation() = %q", got)
	}
}

func TestCardText(t *testing.T) {
	var c Card
	if err := c.UnmarshalText([]byte("K♦")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	text, err := c.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != "Kd" {
		t.Errorf("MarshalText() = %q, want Kd", text)
	}

	if _, err := (Card{}).MarshalText(); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("MarshalText() on zero card error = %v, want ErrInvalidCard", err)
	}
}

func TestSortByRank(t *testing.T) {
	cards := MustParseCards("AsTh2cTs5d")
	SortByRank(cards)
	if got := FormatNotation(cards); got != "2c5dTsThAs" {
		t.Errorf("SortByRank() = %s, want 2c5dTsThAs", got)
	}
}

func TestRankNames(t *testing.T) {
	if Six.Plural() != "Sixes" {
		t.Errorf("Six.Plural() = %q", Six.Plural())
	}
	if Queen.Plural() != "Queens" {
		t.Errorf("Queen.Plural() = %q", Queen.Plural())
	}
	if Rank(1).Valid() || Rank(15).Valid() {
		t.Error("out of range ranks should be invalid")
	}
}

func cardsEqual(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Rank != b[i].Rank || a[i].Suit != b[i].Suit {
			return false
		}
	}
	return true
}
