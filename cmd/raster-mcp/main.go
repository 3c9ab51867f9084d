package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ironsheep/raster-algebra-mcp/internal/raster"
	"github.com/ironsheep/raster-algebra-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("raster-algebra-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("raster-algebra-mcp - MCP server for five-level grayscale raster algebra")
			fmt.Println()
			fmt.Println("Usage: raster-algebra-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug|info|warn|error   Log level (default info)\n", server.EnvLogLevel)
			fmt.Printf("  %s=dense|assoc               Default storage strategy (default dense)\n", server.EnvStorage)
			fmt.Printf("  %s=<uint64>                     Seed for raster_randomize\n", server.EnvSeed)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	opts, err := server.OptionsFromEnv(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "raster-algebra-mcp: %v\n", err)
		os.Exit(2)
	}

	// stdout carries the protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.LogLevel}))
	raster.SetLogger(logger)
	opts.Logger = logger
	server.Version = Version

	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit,
		"storage", opts.Storage.String())

	if err := server.New(opts).Run(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
