package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handrank/internal/evaluator"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 20000, cfg.Odds.Iterations)
	assert.Equal(t, 4, cfg.Odds.Workers)
	assert.Equal(t, "handrank.db", cfg.History.Path)
	assert.True(t, cfg.HistoryEnabled())
	require.NoError(t, cfg.Validate())

	rules, err := cfg.EvaluatorRules()
	require.NoError(t, err)
	assert.Equal(t, evaluator.DefaultRules(), rules)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handrank.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level = "debug"

server {
  address         = "127.0.0.1:9000"
  request_timeout = "2s"
}

rules {
  straight_flush = true
  wheel          = true
  selection      = "last"
}

odds {
  iterations = 500
}

history {
  enabled = false
}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 500, cfg.Odds.Iterations)
	assert.Equal(t, 4, cfg.Odds.Workers, "unset attributes keep defaults")
	assert.False(t, cfg.HistoryEnabled())
	assert.Equal(t, "handrank.db", cfg.History.Path)

	rules, err := cfg.EvaluatorRules()
	require.NoError(t, err)
	assert.Equal(t, evaluator.Rules{StraightFlush: true, Wheel: true, Selection: evaluator.SelectLast}, rules)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `server {`},
		{"unknown attribute", `colour = "red"`},
		{"wrong type", `odds { iterations = "many" }`},
		{"duplicate block", "server {}\nserver {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test.hcl")
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"empty address", func(c *Config) { c.Server.Address = "" }},
		{"bad timeout", func(c *Config) { c.Server.RequestTimeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Server.RequestTimeout = "-1s" }},
		{"selection", func(c *Config) { c.Rules.Selection = "first" }},
		{"iterations", func(c *Config) { c.Odds.Iterations = -1 }},
		{"workers", func(c *Config) { c.Odds.Workers = 100 }},
		{"history path", func(c *Config) { c.History.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAddr:     ":9999",
		EnvLogLevel: "warn",
		EnvDB:       "/tmp/other.db",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.ApplyEnv(lookup)
	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/tmp/other.db", cfg.History.Path)

	cfg = Default()
	cfg.ApplyEnv(func(string) (string, bool) { return "", true })
	assert.Equal(t, Default(), cfg, "empty values do not override")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HANDRANK_TEST_DOTENV=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("HANDRANK_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("HANDRANK_TEST_DOTENV"))

	t.Setenv("HANDRANK_TEST_DOTENV", "from-env")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("HANDRANK_TEST_DOTENV"), "existing variables win")
}
