package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/lox/fairholdem/internal/fileutil"
	"github.com/lox/fairholdem/internal/game"
)

// Config is the complete server configuration, normally read from an HCL file:
//
//	server {
//	  address   = "0.0.0.0"
//	  port      = 8080
//	  log_level = "info"
//	}
//
//	table {
//	  small_blind    = 10
//	  big_blind      = 20
//	  action_timeout = "30s"
//	}
//
//	commitments {
//	  redis_url = "redis://localhost:6379/0"
//	}
type Config struct {
	Server      *ServerSettings     `hcl:"server,block"`
	Table       *TableSettings      `hcl:"table,block"`
	Commitments *CommitmentSettings `hcl:"commitments,block"`
}

// ServerSettings contains listener and logging settings.
type ServerSettings struct {
	Address        string   `hcl:"address,optional"`
	Port           int      `hcl:"port,optional"`
	LogLevel       string   `hcl:"log_level,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
}

// TableSettings are the defaults for newly created rooms.
type TableSettings struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	MaxPlayers    int    `hcl:"max_players,optional"`
	ActionTimeout string `hcl:"action_timeout,optional"`
	AutoDeal      *bool  `hcl:"auto_deal,optional"`
	ShowdownDelay string `hcl:"showdown_delay,optional"`
	DealDelay     string `hcl:"deal_delay,optional"`
}

// CommitmentSettings selects where seed commitments are published. An empty
// RedisURL keeps them in memory.
type CommitmentSettings struct {
	RedisURL string `hcl:"redis_url,optional"`
	Limit    int    `hcl:"limit,optional"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
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
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	defaults := game.DefaultConfig()
	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	if c.Table.SmallBlind == 0 {
		c.Table.SmallBlind = defaults.SmallBlind
	}
	if c.Table.BigBlind == 0 {
		c.Table.BigBlind = defaults.BigBlind
	}
	if c.Table.StartingChips == 0 {
		c.Table.StartingChips = defaults.StartingChips
	}
	if c.Table.MaxPlayers == 0 {
		c.Table.MaxPlayers = defaults.MaxPlayers
	}
	if c.Table.ActionTimeout == "" {
		c.Table.ActionTimeout = defaults.ActionTimeout.String()
	}
	if c.Table.AutoDeal == nil {
		on := defaults.AutoDeal
		c.Table.AutoDeal = &on
	}
	if c.Table.ShowdownDelay == "" {
		c.Table.ShowdownDelay = "5s"
	}
	if c.Table.DealDelay == "" {
		c.Table.DealDelay = "2s"
	}

	if c.Commitments == nil {
		c.Commitments = &CommitmentSettings{}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	t := c.Table
	if t.SmallBlind <= 0 {
		return fmt.Errorf("table: small blind must be positive")
	}
	if t.BigBlind < t.SmallBlind {
		return fmt.Errorf("table: big blind must be at least the small blind")
	}
	if t.StartingChips <= 0 {
		return fmt.Errorf("table: starting chips must be positive")
	}
	if t.MaxPlayers < 2 || t.MaxPlayers > 10 {
		return fmt.Errorf("table: max players must be between 2 and 10")
	}
	for name, value := range map[string]string{
		"action_timeout": t.ActionTimeout,
		"showdown_delay": t.ShowdownDelay,
		"deal_delay":     t.DealDelay,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("table: %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("table: %s must be positive", name)
		}
	}

	if c.Commitments.Limit < 0 {
		return fmt.Errorf("commitments: limit must not be negative")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameConfig returns the room defaults. Call Validate first.
func (c *Config) GameConfig() game.Config {
	timeout, _ := time.ParseDuration(c.Table.ActionTimeout)
	return game.Config{
		SmallBlind:    c.Table.SmallBlind,
		BigBlind:      c.Table.BigBlind,
		StartingChips: c.Table.StartingChips,
		ActionTimeout: timeout,
		AutoDeal:      *c.Table.AutoDeal,
		MaxPlayers:    c.Table.MaxPlayers,
	}
}

// Delays returns the showdown and deal delays. Call Validate first.
func (c *Config) Delays() (showdown, deal time.Duration) {
	showdown, _ = time.ParseDuration(c.Table.ShowdownDelay)
	deal, _ = time.ParseDuration(c.Table.DealDelay)
	return showdown, deal
}

// Encode renders the configuration as HCL.
func (c *Config) Encode() []byte {
	out := *c
	if out.Server != nil && out.Server.AllowedOrigins == nil {
		server := *out.Server
		server.AllowedOrigins = []string{}
		out.Server = &server
	}
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(&out, f.Body())
	return f.Bytes()
}

// Save writes the configuration to filename. An existing file is only
// replaced when overwrite is set.
func (c *Config) Save(filename string, overwrite bool) error {
	if overwrite {
		return fileutil.WriteFileAtomic(filename, c.Encode(), 0o644)
	}
	return fileutil.CreateFileAtomic(filename, c.Encode(), 0o644)
}
