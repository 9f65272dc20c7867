package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/handrank/internal/config"
	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
	"github.com/lox/handrank/internal/history"
	"github.com/lox/handrank/internal/logging"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"handrank.hcl" help:"Path to HCL configuration file"`
	EnvFile  string `name:"env-file" default:".env" help:"dotenv file loaded before the environment is read"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	NoColor  bool   `help:"Disable colored output"`
	Standard bool   `help:"Recognise straight flushes and the A-2-3-4-5 wheel"`
	Select   string `help:"Which combination of the winning category to report (best or last)"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

func (g *Globals) stderr() io.Writer {
	if g.Stderr != nil {
		return g.Stderr
	}
	return os.Stderr
}

// setup loads configuration, applies flag overrides and builds the logger.
func (g *Globals) setup() (*config.Config, *log.Logger, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if err := config.LoadDotEnv(g.EnvFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)

	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.Standard {
		cfg.Rules.StraightFlush, cfg.Rules.Wheel = true, true
	}
	if g.Select != "" {
		cfg.Rules.Selection = g.Select
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, g.stderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newEvaluator(cfg *config.Config) (*evaluator.Evaluator, error) {
	rules, err := cfg.EvaluatorRules()
	if err != nil {
		return nil, err
	}
	return evaluator.New(evaluator.WithRules(rules)), nil
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.HistoryEnabled() {
		return nil, fmt.Errorf("history is disabled in %s", config.DefaultFile)
	}
	return history.Open(cfg.History.Path)
}

var (
	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	percentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// formatCards renders cards with red suits highlighted.
func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = redCardStyle.Render(c.String())
		} else {
			parts[i] = c.String()
		}
	}
	return strings.Join(parts, " ")
}
