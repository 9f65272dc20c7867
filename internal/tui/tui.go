// Package tui is an interactive dealer: each keypress deals a fresh hand and
// shows its classification.
package tui

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
	"github.com/lox/handrank/internal/odds"
)

const flopSize = 3

// Model is the Bubble Tea model for the dealer.
type Model struct {
	deck      *deck.Deck
	rules     evaluator.Rules
	evaluator *evaluator.Evaluator
	logger    *log.Logger

	keys keyMap
	help help.Model

	hole      []deck.Card
	community []deck.Card
	hand      evaluator.Hand
	flop      odds.Result
	err       error

	// Session tallies, reset whenever the rules change.
	dealt  int
	counts [len(evaluator.Categories)]int

	width    int
	quitting bool
}

// NewModel creates a model that deals from rng and deals the first hand.
func NewModel(rng *rand.Rand, rules evaluator.Rules, logger *log.Logger) *Model {
	m := &Model{
		deck:   deck.NewDeck(rng),
		logger: logger.WithPrefix("tui"),
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	m.setRules(rules)
	m.deal()
	return m
}

// Run starts the program and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Deal):
			m.deal()
		case key.Matches(msg, m.keys.Standard):
			r := m.rules
			standard := !(r.StraightFlush && r.Wheel)
			r.StraightFlush, r.Wheel = standard, standard
			m.setRules(r)
			m.classify()
		case key.Matches(msg, m.keys.Selection):
			r := m.rules
			if r.Selection == evaluator.SelectBest {
				r.Selection = evaluator.SelectLast
			} else {
				r.Selection = evaluator.SelectBest
			}
			m.setRules(r)
			m.classify()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("handrank"))
	b.WriteString("  ")
	b.WriteString(InfoStyle.Render(m.rulesSummary()))
	b.WriteString("\n\n")

	var hand strings.Builder
	if m.err != nil {
		hand.WriteString(ErrorStyle.Render(m.err.Error()))
	} else {
		used := deck.NewSet(m.hand.Cards)
		fmt.Fprintf(&hand, "%s%s\n", LabelStyle.Render("Hole"), formatCards(m.hole, &used))
		fmt.Fprintf(&hand, "%s%s\n\n", LabelStyle.Render("Board"), formatCards(m.community, &used))
		fmt.Fprintf(&hand, "%s\n", CategoryStyle.Render(m.hand.Describe()))
		fmt.Fprintf(&hand, "%s%s", LabelStyle.Render("Best"), formatCards(m.hand.Cards, nil))
	}
	b.WriteString(PanelStyle.Render(hand.String()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderFlopOdds(),
		"    ",
		m.renderSession(),
	))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Hand returns the classification of the current deal.
func (m *Model) Hand() evaluator.Hand { return m.hand }

// Cards returns the current hole and community cards.
func (m *Model) Cards() (hole, community []deck.Card) { return m.hole, m.community }

// Rules returns the rules in effect.
func (m *Model) Rules() evaluator.Rules { return m.rules }

// Dealt returns how many hands were dealt under the current rules.
func (m *Model) Dealt() int { return m.dealt }

// Count returns how many dealt hands made category c under the current rules.
func (m *Model) Count(c evaluator.Category) int { return m.counts[c] }

func (m *Model) setRules(r evaluator.Rules) {
	m.rules = r
	m.evaluator = evaluator.New(evaluator.WithRules(r))
	m.dealt = 0
	m.counts = [len(evaluator.Categories)]int{}
}

func (m *Model) deal() {
	m.deck.Reset()
	cards := m.deck.DealN(evaluator.HoleSize + evaluator.CommunitySize)
	m.hole, m.community = cards[:evaluator.HoleSize], cards[evaluator.HoleSize:]
	m.classify()
}

func (m *Model) classify() {
	m.hand, m.err = m.evaluator.Classify(m.hole, m.community)
	if m.err != nil {
		m.logger.Error("Failed to classify hand", "error", m.err)
		return
	}
	m.dealt++
	m.counts[m.hand.Category]++

	// Two cards to come, so the flop distribution is enumerated exactly.
	m.flop, m.err = odds.Calculate(context.Background(), m.hole, m.community[:flopSize], odds.Options{Evaluator: m.evaluator})
	m.logger.Debug("Dealt hand",
		"hole", deck.FormatNotation(m.hole),
		"community", deck.FormatNotation(m.community),
		"category", m.hand.Category.Slug())
}

func (m *Model) rulesSummary() string {
	name := "default rules"
	if m.rules.StraightFlush && m.rules.Wheel {
		name = "standard rules"
	}
	return fmt.Sprintf("%s · selection %s", name, m.rules.Selection)
}

func (m *Model) renderFlopOdds() string {
	var b strings.Builder
	b.WriteString(InfoStyle.Render(fmt.Sprintf("From the flop (%d boards)", m.flop.Samples)))
	for i := len(evaluator.Categories) - 1; i >= 0; i-- {
		c := evaluator.Categories[i]
		if m.flop.Counts[c] == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%-16s %s", c, OddsStyle.Render(fmt.Sprintf("%5.1f%%", 100*m.flop.Probability(c))))
	}
	return b.String()
}

func (m *Model) renderSession() string {
	var b strings.Builder
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Session (%d hands)", m.dealt)))
	for i := len(evaluator.Categories) - 1; i >= 0; i-- {
		c := evaluator.Categories[i]
		if m.counts[c] == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%-16s %4d", c, m.counts[c])
	}
	return b.String()
}

// formatCards colours cards by suit. Cards outside used are dimmed when used
// is non-nil.
func formatCards(cards []deck.Card, used *deck.Set) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		style := BlackCardStyle
		switch {
		case used != nil && !used.Contains(card):
			style = UnusedCardStyle
		case card.IsRed():
			style = RedCardStyle
		}
		formatted = append(formatted, style.Render(card.String()))
	}
	return strings.Join(formatted, " ")
}
