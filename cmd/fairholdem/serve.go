package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/redis/go-redis/v9"

	"github.com/lox/fairholdem/internal/commitlog"
	"github.com/lox/fairholdem/internal/server"
)

// ServeCmd runs the WebSocket and HTTP server.
type ServeCmd struct {
	Config   string `short:"c" default:"fairholdem.hcl" env:"FAIRHOLDEM_CONFIG" help:"Path to HCL configuration file"`
	Addr     string `short:"a" env:"FAIRHOLDEM_ADDR" help:"Address to bind to (overrides config)"`
	Port     int    `short:"p" env:"FAIRHOLDEM_PORT" help:"Port to listen on (overrides config)"`
	LogLevel string `short:"l" env:"FAIRHOLDEM_LOG_LEVEL" help:"Log level (overrides config)"`
	RedisURL string `env:"FAIRHOLDEM_REDIS_URL" help:"Redis URL for the commitment log (overrides config)"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.RedisURL != "" {
		cfg.Commitments.RedisURL = c.RedisURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := log.New(os.Stderr)
	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commitments, closeLog, err := openCommitLog(ctx, cfg.Commitments, logger)
	if err != nil {
		return err
	}
	defer closeLog()

	game := cfg.GameConfig()
	logger.Info("Starting fairholdem",
		"addr", cfg.Addr(),
		"stakes", fmt.Sprintf("%d/%d", game.SmallBlind, game.BigBlind),
		"starting_chips", game.StartingChips,
		"action_timeout", game.ActionTimeout,
		"auto_deal", game.AutoDeal)

	srv := server.NewServer(cfg, logger, quartz.NewReal(), commitments)
	return srv.Serve(ctx)
}

// openCommitLog connects to Redis when a URL is configured and falls back to
// an in-memory log otherwise.
func openCommitLog(ctx context.Context, settings *server.CommitmentSettings, logger *log.Logger) (commitlog.Log, func(), error) {
	if settings.RedisURL == "" {
		logger.Info("Using in-memory commitment log")
		return commitlog.NewMemoryLog(settings.Limit), func() {}, nil
	}

	opts, err := redis.ParseURL(settings.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	logger.Info("Using redis commitment log", "addr", opts.Addr, "db", opts.DB)
	return commitlog.NewRedisLog(client, settings.Limit), func() { _ = client.Close() }, nil
}
