package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, 5000, cfg.Table.StartingChips)
	assert.Len(t, cfg.Bots, 5)

	timeout, err := cfg.Table.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	lo, hi, err := cfg.Table.BotDelay()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, lo)
	assert.Equal(t, 1200*time.Millisecond, hi)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "table.hcl")
	src := `
server {
  port = 9090
}

table {
  small_blind    = 5
  big_blind      = 10
  action_timeout = "10s"
}

bot "bot_1" {
  name        = "NEON"
  personality = "maniac"
}

bot "bot_2" {}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost:9090", cfg.Addr())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 5, cfg.Table.SmallBlind)
	assert.Equal(t, 10, cfg.Table.BigBlind)
	assert.Equal(t, 5000, cfg.Table.StartingChips)
	assert.Equal(t, 4, cfg.Table.MaxRaisesPerStreet)
	assert.Equal(t, "human", cfg.Table.HumanID)
	assert.Equal(t, []BotConfig{
		{ID: "bot_1", Name: "NEON", Personality: "maniac"},
		{ID: "bot_2", Name: "bot_2", Personality: "shark"},
	}, cfg.Bots)
}

func TestParseConfigErrors(t *testing.T) {
	t.Parallel()
	_, err := ParseConfig([]byte(`table {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL")

	_, err = ParseConfig([]byte(`table { small_blind = "lots" }`), "typed.hcl")
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid port"},
		{"big blind not above small", func(c *Config) { c.Table.BigBlind = c.Table.SmallBlind }, "big blind"},
		{"stack below big blind", func(c *Config) { c.Table.StartingChips = 5 }, "starting chips"},
		{"bad timeout", func(c *Config) { c.Table.ActionTimeout = "soon" }, "action_timeout"},
		{"negative delay", func(c *Config) { c.Table.BotDelayMin = "-1s" }, "must not be negative"},
		{"delay range inverted", func(c *Config) { c.Table.BotDelayMin = "2s" }, "greater than bot_delay_max"},
		{"no bots", func(c *Config) { c.Bots = nil }, "at least one bot"},
		{"too many bots", func(c *Config) {
			c.Bots = append(c.Bots, c.Bots...)
			for i := range c.Bots {
				c.Bots[i].ID = string(rune('a' + i))
			}
		}, "do not fit"},
		{"duplicate bot", func(c *Config) { c.Bots[1].ID = c.Bots[0].ID }, "duplicate id"},
		{"bot takes human seat", func(c *Config) { c.Bots[0].ID = "human" }, "duplicate id"},
		{"unknown personality", func(c *Config) { c.Bots[0].Personality = "fish" }, "unknown personality"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
