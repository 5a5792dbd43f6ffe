// Command tichu-server runs the authoritative WebSocket game server.
package main

import (
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"

	"github.com/marianogappa/tichu-server/internal/config"
	"github.com/marianogappa/tichu-server/internal/transport"
)

var cli struct {
	Config      string `short:"c" long:"config" default:"tichu-server.yaml" help:"Path to YAML configuration file"`
	Addr        string `short:"a" long:"addr" help:"Address to bind to (overrides config)"`
	TargetScore int    `long:"target-score" help:"Game-ending score threshold (overrides config)"`
	Seed        int64  `long:"seed" help:"Deterministic RNG seed (overrides config)"`
	LogLevel    string `short:"l" long:"log-level" default:"info" help:"Log level: debug, info, warn, error"`
}

func main() {
	kong.Parse(&cli)

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{ReportTimestamp: true})
	if level, err := charmlog.ParseLevel(cli.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	if cli.Addr != "" {
		cfg.Addr = cli.Addr
	}
	if cli.TargetScore != 0 {
		cfg.TargetScore = cli.TargetScore
	}
	if cli.Seed != 0 {
		cfg.Seed = cli.Seed
	}

	server := transport.NewServer(cfg, logger)
	router := transport.NewRouter(server)

	logger.Info("listening", "addr", cfg.Addr, "targetScore", cfg.TargetScore)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Fatal("server exited", "error", err)
	}
}
