package server

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ironsheep/raster-algebra-mcp/internal/raster"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvLogLevel = "RASTER_MCP_LOG_LEVEL"
	EnvStorage  = "RASTER_MCP_STORAGE"
	EnvSeed     = "RASTER_MCP_SEED"
)

// Options configures a Server.
type Options struct {
	// LogLevel is the minimum level the binary logs at.
	LogLevel slog.Level

	// Storage is the strategy used for rasters when a tool call does not
	// name one.
	Storage raster.Kind

	// Seed feeds the source used by raster_randomize. Without HasSeed the
	// server seeds from the clock.
	Seed    uint64
	HasSeed bool

	// Logger receives the server's own records. Nil discards them.
	Logger *slog.Logger
}

// OptionsFromEnv builds Options from environment variables looked up
// through getenv, normally os.Getenv. Unset variables keep their defaults:
// info logging, dense storage and a clock seed.
func OptionsFromEnv(getenv func(string) string) (Options, error) {
	opts := Options{
		LogLevel: slog.LevelInfo,
		Storage:  raster.KindDense,
	}

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		if err := opts.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Options{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	if v := strings.TrimSpace(getenv(EnvStorage)); v != "" {
		kind, err := raster.ParseKind(v)
		if err != nil {
			return Options{}, fmt.Errorf("%s: %w", EnvStorage, err)
		}
		opts.Storage = kind
	}

	if v := strings.TrimSpace(getenv(EnvSeed)); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Options{}, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		opts.Seed = seed
		opts.HasSeed = true
	}

	return opts, nil
}
