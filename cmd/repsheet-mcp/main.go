// repsheet-mcp runs a stdio MCP server exposing the remote workout API
// read-only. The bearer token comes from REPSHEET_API_TOKEN; without one
// the remote API decides what anonymous callers may see.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/claude/repsheet/internal/api"
	"github.com/claude/repsheet/internal/config"
	"github.com/claude/repsheet/internal/mcp"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Logs go to stderr; stdout belongs to the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.API.BaseURL)
	ds := mcp.NewRemoteClient(client, os.Getenv("REPSHEET_API_TOKEN"))

	s := mcp.New(ds, Version, log)
	log.Info("MCP server starting", "base_url", cfg.API.BaseURL)
	if err := server.ServeStdio(s); err != nil {
		log.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}
