// Boardwatch: Trello MCP Server
//
// An MCP server that exposes Trello boards, lists, cards, labels,
// attachments, and activity as tools for AI coding agents, including a
// watch_board_changes primitive that blocks until a board changes.
//
// Usage:
//
//	boardwatch serve    # Start MCP server (stdio transport)
//	boardwatch update   # Update to the latest version
package main

import (
	"fmt"
	"os"

	"github.com/HendryAvila/boardwatch/internal/config"
	bwserver "github.com/HendryAvila/boardwatch/internal/server"
	"github.com/HendryAvila/boardwatch/internal/updater"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("boardwatch v%s\n", bwserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	s := bwserver.New(cfg, logger)
	logger.Info("boardwatch starting",
		zap.String("version", bwserver.Version),
		zap.String("attachment_dir", cfg.AttachmentDir),
	)

	return server.ServeStdio(s)
}

// newLogger builds the process logger. Everything goes to stderr:
// stdout belongs to the MCP stdio transport.
func newLogger(levelStr string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. Best-effort — network failures
// are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(bwserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s → v%s\n"+
				"  Run: boardwatch update\n"+
				"  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "Checking for updates...\n")

	result := updater.CheckVersion(bwserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "New version available: v%s → v%s\nDownloading...\n",
		result.CurrentVersion, result.LatestVersion)

	if err := updater.SelfUpdate(bwserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n  You can download manually from:\n  %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Updated to v%s!\nRestart boardwatch to use the new version.\n", result.LatestVersion)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Boardwatch v%s — Trello MCP Server

Usage:
  boardwatch serve    Start the MCP server (stdio transport)
  boardwatch update   Update to the latest version

Configuration (environment or boardwatch.toml):
  TRELLO_API_KEY              Trello API key (required)
  TRELLO_TOKEN                Trello member token (required)
  BOARDWATCH_ATTACHMENT_DIR   Where to store downloaded attachments
  LOG_LEVEL                   debug | info | warn | error

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "boardwatch": {
        "command": "boardwatch",
        "args": ["serve"],
        "env": {
          "TRELLO_API_KEY": "...",
          "TRELLO_TOKEN": "..."
        }
      }
    }
  }
`, bwserver.Version)
}
