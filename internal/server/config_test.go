package server

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/ironsheep/raster-algebra-mcp/internal/raster"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestOptionsFromEnv_Defaults(t *testing.T) {
	opts, err := OptionsFromEnv(envOf(nil))
	if err != nil {
		t.Fatalf("OptionsFromEnv failed: %v", err)
	}
	if opts.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: got %v, want INFO", opts.LogLevel)
	}
	if opts.Storage != raster.KindDense {
		t.Errorf("Storage: got %v, want dense", opts.Storage)
	}
	if opts.HasSeed {
		t.Error("HasSeed should be false without RASTER_MCP_SEED")
	}
}

func TestOptionsFromEnv_Values(t *testing.T) {
	opts, err := OptionsFromEnv(envOf(map[string]string{
		EnvLogLevel: "debug",
		EnvStorage:  "assoc",
		EnvSeed:     "12345",
	}))
	if err != nil {
		t.Fatalf("OptionsFromEnv failed: %v", err)
	}
	if opts.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: got %v, want DEBUG", opts.LogLevel)
	}
	if opts.Storage != raster.KindAssoc {
		t.Errorf("Storage: got %v, want assoc", opts.Storage)
	}
	if !opts.HasSeed || opts.Seed != 12345 {
		t.Errorf("Seed: got %d (set %v), want 12345", opts.Seed, opts.HasSeed)
	}
}

func TestOptionsFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad level", map[string]string{EnvLogLevel: "loud"}},
		{"bad storage", map[string]string{EnvStorage: "sparse"}},
		{"bad seed", map[string]string{EnvSeed: "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := OptionsFromEnv(envOf(tt.vars)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := OptionsFromEnv(envOf(map[string]string{EnvStorage: "sparse"}))
	if !errors.Is(err, raster.ErrUnknownKind) {
		t.Errorf("storage error should wrap ErrUnknownKind, got %v", err)
	}
}
