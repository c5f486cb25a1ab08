package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"

	"github.com/lox/tabled/internal/bot"
	"github.com/lox/tabled/internal/engine"
	"github.com/lox/tabled/internal/ledger/sqlite"
	"github.com/lox/tabled/internal/server"
	"github.com/lox/tabled/internal/table"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"tabled.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Ledger   string `long:"ledger" help:"Path to the ledger database (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Ledger != "" {
		cfg.Ledger.Path = CLI.Ledger
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	// Setup logging
	logger := log.New(os.Stderr)
	zlevel := zerolog.InfoLevel
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
		zlevel = zerolog.DebugLevel
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
		zlevel = zerolog.WarnLevel
	case "error":
		logger.SetLevel(log.ErrorLevel)
		zlevel = zerolog.ErrorLevel
	default:
		logger.SetLevel(log.InfoLevel)
	}
	tableLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zlevel).With().Timestamp().Logger()

	newEngine, err := engine.Default()
	if err != nil {
		logger.Error("No rule engine linked into this build", "error", err)
		ctx.Exit(1)
	}

	store, err := sqlite.Open(cfg.Ledger.Path)
	if err != nil {
		logger.Error("Failed to open ledger", "path", cfg.Ledger.Path, "error", err)
		ctx.Exit(1)
	}
	defer store.Close()

	logger.Info("Starting tabled",
		"addr", cfg.GetServerAddress(),
		"ledger", cfg.Ledger.Path,
		"tables", len(cfg.Tables))

	wsServer := server.NewServer(cfg.GetServerAddress(), logger)
	msgr := server.NewHubMessenger(wsServer)
	service := server.NewTableService(logger, tableLog, store, msgr, newEngine)
	wsServer.SetTableService(service)

	// Open configured tables and seat their bots.
	for _, tc := range cfg.Tables {
		t := service.CreateTable(tc.Owner, table.WithAnte(tc.Ante))
		for i := 0; i < tc.Bots; i++ {
			strategy, err := bot.New(tc.BotStrategy, time.Now().UnixNano()+int64(i))
			if err != nil {
				logger.Error("Unknown bot strategy", "strategy", tc.BotStrategy, "error", err)
				ctx.Exit(1)
			}
			if err := t.AddBot(strategy); err != nil {
				logger.Error("Failed to seat bot", "table", t.ID(), "error", err)
				ctx.Exit(1)
			}
		}
		logger.Info("Opened table", "id", t.ID(), "owner", tc.Owner, "ante", tc.Ante, "bots", tc.Bots)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- wsServer.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err)
			ctx.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("Shutting down", "signal", sig)
		service.CloseAll()
		if err := wsServer.Stop(); err != nil {
			logger.Warn("Shutdown error", "error", err)
		}
	}
}
