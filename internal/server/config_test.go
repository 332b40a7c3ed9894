package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fairholdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost:8080", cfg.Addr())
	game := cfg.GameConfig()
	assert.Equal(t, 10, game.SmallBlind)
	assert.Equal(t, 20, game.BigBlind)
	assert.Equal(t, 1000, game.StartingChips)
	assert.Equal(t, 30*time.Second, game.ActionTimeout)
	assert.True(t, game.AutoDeal)

	showdown, deal := cfg.Delays()
	assert.Equal(t, 5*time.Second, showdown)
	assert.Equal(t, 2*time.Second, deal)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  address         = "0.0.0.0"
  port            = 9000
  log_level       = "debug"
  allowed_origins = ["https://example.com"]
}

table {
  small_blind    = 25
  big_blind      = 50
  action_timeout = "15s"
  auto_deal      = false
  deal_delay     = "500ms"
}

commitments {
  redis_url = "redis://localhost:6379/1"
  limit     = 20
}
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.AllowedOrigins)

	game := cfg.GameConfig()
	assert.Equal(t, 25, game.SmallBlind)
	assert.Equal(t, 50, game.BigBlind)
	assert.Equal(t, 1000, game.StartingChips, "unset values keep defaults")
	assert.Equal(t, 15*time.Second, game.ActionTimeout)
	assert.False(t, game.AutoDeal)

	_, deal := cfg.Delays()
	assert.Equal(t, 500*time.Millisecond, deal)

	assert.Equal(t, "redis://localhost:6379/1", cfg.Commitments.RedisURL)
	assert.Equal(t, 20, cfg.Commitments.Limit)
}

func TestLoadConfigParseError(t *testing.T) {
	path := writeConfig(t, `server { port = `)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"negative small blind", func(c *Config) { c.Table.SmallBlind = -1 }},
		{"big blind below small", func(c *Config) { c.Table.BigBlind = 5 }},
		{"too many players", func(c *Config) { c.Table.MaxPlayers = 11 }},
		{"bad timeout", func(c *Config) { c.Table.ActionTimeout = "soon" }},
		{"negative delay", func(c *Config) { c.Table.DealDelay = "-1s" }},
		{"negative limit", func(c *Config) { c.Commitments.Limit = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 9001
	cfg.Server.AllowedOrigins = []string{"https://cards.example"}
	cfg.Table.DealDelay = "1s"
	off := false
	cfg.Table.AutoDeal = &off

	path := filepath.Join(t.TempDir(), "fairholdem.hcl")
	require.NoError(t, cfg.Save(path, false))
	assert.ErrorIs(t, cfg.Save(path, false), os.ErrExist)
	require.NoError(t, cfg.Save(path, true))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())
	assert.Equal(t, cfg.Server, loaded.Server)
	assert.Equal(t, cfg.GameConfig(), loaded.GameConfig())
	_, deal := loaded.Delays()
	assert.Equal(t, time.Second, deal)
}

func TestDefaultConfigEncodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fairholdem.hcl")
	require.NoError(t, DefaultConfig().Save(path, false))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().GameConfig(), loaded.GameConfig())
	assert.Empty(t, loaded.Server.AllowedOrigins)
}
