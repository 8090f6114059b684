package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/cyberholdem/internal/bot"
	"github.com/lox/cyberholdem/internal/game"
)

// Config is the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
	Bots   []BotConfig     `hcl:"bot,block"`
}

// ServerSettings contains listener and logging configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings describes the single table the server runs
type TableSettings struct {
	SmallBlind         int    `hcl:"small_blind,optional"`
	BigBlind           int    `hcl:"big_blind,optional"`
	StartingChips      int    `hcl:"starting_chips,optional"`
	MaxRaisesPerStreet int    `hcl:"max_raises_per_street,optional"`
	HumanID            string `hcl:"human_id,optional"`
	HumanName          string `hcl:"human_name,optional"`
	ActionTimeout      string `hcl:"action_timeout,optional"`
	BotDelayMin        string `hcl:"bot_delay_min,optional"`
	BotDelayMax        string `hcl:"bot_delay_max,optional"`
	EquitySamples      int    `hcl:"equity_samples,optional"`
}

// BotConfig seats a computer opponent
type BotConfig struct {
	ID          string `hcl:"id,label"`
	Name        string `hcl:"name,optional"`
	Personality string `hcl:"personality,optional"`
}

const (
	defaultAddress       = "localhost"
	defaultPort          = 8080
	defaultLogLevel      = "info"
	defaultStartingChips = 5000
	defaultHumanID       = "human"
	defaultHumanName     = "PLAYER"
	defaultActionTimeout = "30s"
	defaultBotDelayMin   = "500ms"
	defaultBotDelayMax   = "1200ms"
	defaultEquitySamples = 400
)

// DefaultConfig returns a table of one human against five bots, one of
// each personality.
func DefaultConfig() *Config {
	cfg := &Config{
		Bots: []BotConfig{
			{ID: "bot_1", Name: "NEON", Personality: "shark"},
			{ID: "bot_2", Name: "GRANITE", Personality: "rock"},
			{ID: "bot_3", Name: "BLAZE", Personality: "maniac"},
			{ID: "bot_4", Name: "GLACIER", Personality: "station"},
			{ID: "bot_5", Name: "CIPHER", Personality: "tag"},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads an HCL config file. A missing file yields DefaultConfig.
func LoadConfig(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(src, filename)
}

// ParseConfig decodes HCL source and fills in defaults. It does not validate.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaultLogLevel
	}

	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	t := c.Table
	if t.SmallBlind == 0 {
		t.SmallBlind = game.DefaultSmallBlind
	}
	if t.BigBlind == 0 {
		t.BigBlind = max(game.DefaultBigBlind, t.SmallBlind*2)
	}
	if t.StartingChips == 0 {
		t.StartingChips = defaultStartingChips
	}
	if t.MaxRaisesPerStreet == 0 {
		t.MaxRaisesPerStreet = game.DefaultMaxRaisesPerStreet
	}
	if t.HumanID == "" {
		t.HumanID = defaultHumanID
	}
	if t.HumanName == "" {
		t.HumanName = defaultHumanName
	}
	if t.ActionTimeout == "" {
		t.ActionTimeout = defaultActionTimeout
	}
	if t.BotDelayMin == "" {
		t.BotDelayMin = defaultBotDelayMin
	}
	if t.BotDelayMax == "" {
		t.BotDelayMax = defaultBotDelayMax
	}
	if t.EquitySamples == 0 {
		t.EquitySamples = defaultEquitySamples
	}

	for i := range c.Bots {
		if c.Bots[i].Name == "" {
			c.Bots[i].Name = c.Bots[i].ID
		}
		if c.Bots[i].Personality == "" {
			c.Bots[i].Personality = bot.DefaultPersonality
		}
	}
}

// Validate checks the configuration for values the table cannot run with
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	t := c.Table
	if t.SmallBlind <= 0 {
		return fmt.Errorf("table: small blind must be positive")
	}
	if t.BigBlind <= t.SmallBlind {
		return fmt.Errorf("table: big blind must be greater than small blind")
	}
	if t.StartingChips < t.BigBlind {
		return fmt.Errorf("table: starting chips must cover the big blind")
	}
	if t.MaxRaisesPerStreet < 1 {
		return fmt.Errorf("table: max raises per street must be at least 1")
	}
	if t.EquitySamples < 1 {
		return fmt.Errorf("table: equity samples must be positive")
	}
	if _, err := t.Timeout(); err != nil {
		return err
	}
	lo, hi, err := t.BotDelay()
	if err != nil {
		return err
	}
	if lo > hi {
		return fmt.Errorf("table: bot_delay_min %s is greater than bot_delay_max %s", lo, hi)
	}

	if len(c.Bots) == 0 {
		return fmt.Errorf("at least one bot must be configured")
	}
	if len(c.Bots)+1 > game.MaxPlayers {
		return fmt.Errorf("%d bots and a human do not fit %d seats", len(c.Bots), game.MaxPlayers)
	}
	seen := map[string]bool{t.HumanID: true}
	for _, b := range c.Bots {
		if b.ID == "" {
			return fmt.Errorf("bot id must not be empty")
		}
		if seen[b.ID] {
			return fmt.Errorf("bot %s: duplicate id", b.ID)
		}
		seen[b.ID] = true
		if _, err := bot.LookupPersonality(b.Personality); err != nil {
			return fmt.Errorf("bot %s: %w", b.ID, err)
		}
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Timeout returns how long the human has to act. Zero disables the timeout.
func (t *TableSettings) Timeout() (time.Duration, error) {
	return parseDuration("action_timeout", t.ActionTimeout)
}

// BotDelay returns the range bots wait before acting
func (t *TableSettings) BotDelay() (lo, hi time.Duration, err error) {
	if lo, err = parseDuration("bot_delay_min", t.BotDelayMin); err != nil {
		return 0, 0, err
	}
	if hi, err = parseDuration("bot_delay_max", t.BotDelayMax); err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("table: invalid %s %q: %w", field, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("table: %s must not be negative", field)
	}
	return d, nil
}
