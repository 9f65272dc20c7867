// Package config loads handrank settings from an HCL file, a .env file and
// the environment, in that order of increasing precedence.
package config

import (
	"io/fs"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/lox/handrank/internal/evaluator"
)

// DefaultFile is the config file read when no path is given.
const DefaultFile = "handrank.hcl"

// Environment variables that override file settings.
const (
	EnvAddr     = "HANDRANK_ADDR"
	EnvLogLevel = "HANDRANK_LOG_LEVEL"
	EnvDB       = "HANDRANK_DB"
)

// Config is the complete configuration. Every block is optional.
type Config struct {
	LogLevel string         `hcl:"log_level,optional"`
	Server   *ServerConfig  `hcl:"server,block"`
	Rules    *RulesConfig   `hcl:"rules,block"`
	Odds     *OddsConfig    `hcl:"odds,block"`
	History  *HistoryConfig `hcl:"history,block"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address        string `hcl:"address,optional"`
	RequestTimeout string `hcl:"request_timeout,optional"`
}

// RulesConfig selects the optional classification rules.
type RulesConfig struct {
	StraightFlush bool   `hcl:"straight_flush,optional"`
	Wheel         bool   `hcl:"wheel,optional"`
	Selection     string `hcl:"selection,optional"`
}

// OddsConfig tunes the Monte Carlo simulator.
type OddsConfig struct {
	Iterations int `hcl:"iterations,optional"`
	Workers    int `hcl:"workers,optional"`
}

// HistoryConfig configures the classification store.
type HistoryConfig struct {
	Path    string `hcl:"path,optional"`
	Enabled *bool  `hcl:"enabled,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse decodes configuration from src. filename is used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var config Config
	if diags := gohcl.DecodeBody(body, nil, &config); diags.HasErrors() {
		return nil, errors.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.RequestTimeout == "" {
		c.Server.RequestTimeout = "10s"
	}
	if c.Rules == nil {
		c.Rules = &RulesConfig{}
	}
	if c.Rules.Selection == "" {
		c.Rules.Selection = evaluator.SelectBest.String()
	}
	if c.Odds == nil {
		c.Odds = &OddsConfig{}
	}
	if c.Odds.Iterations == 0 {
		c.Odds.Iterations = 20000
	}
	if c.Odds.Workers == 0 {
		c.Odds.Workers = 4
	}
	if c.History == nil {
		c.History = &HistoryConfig{}
	}
	if c.History.Path == "" {
		c.History.Path = "handrank.db"
	}
	if c.History.Enabled == nil {
		enabled := true
		c.History.Enabled = &enabled
	}
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// named) without overriding variables that are already set. Missing files
// are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "load %s", f)
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables found by lookup,
// normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Address = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvDB); ok && v != "" {
		c.History.Path = v
	}
}

// Validate checks values that cannot be expressed in the HCL schema.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return errors.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Server.Address == "" {
		return errors.New("server address must not be empty")
	}
	if d, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
		return errors.Wrap(err, "server request_timeout")
	} else if d <= 0 {
		return errors.Errorf("server request_timeout must be positive, got %s", d)
	}
	if _, err := evaluator.ParseSelection(c.Rules.Selection); err != nil {
		return errors.Wrap(err, "rules selection")
	}
	if c.Odds.Iterations < 1 {
		return errors.Errorf("odds iterations must be positive, got %d", c.Odds.Iterations)
	}
	if c.Odds.Workers < 1 || c.Odds.Workers > 64 {
		return errors.Errorf("odds workers must be between 1 and 64, got %d", c.Odds.Workers)
	}
	if c.HistoryEnabled() && c.History.Path == "" {
		return errors.New("history path must be set when history is enabled")
	}
	return nil
}

// RequestTimeout returns the parsed server request timeout.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// EvaluatorRules converts the rules block.
func (c *Config) EvaluatorRules() (evaluator.Rules, error) {
	sel, err := evaluator.ParseSelection(c.Rules.Selection)
	if err != nil {
		return evaluator.Rules{}, err
	}
	return evaluator.Rules{
		StraightFlush: c.Rules.StraightFlush,
		Wheel:         c.Rules.Wheel,
		Selection:     sel,
	}, nil
}

// HistoryEnabled reports whether classifications should be recorded.
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}
