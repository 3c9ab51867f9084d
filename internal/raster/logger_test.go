package raster

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_DefaultIsSilent(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLogger_RecordsMismatch(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	if _, err := NewDense(2, 2).Xor(NewAssoc(3, 3)); err == nil {
		t.Fatal("expected mismatch error")
	}
	out := buf.String()
	for _, want := range []string{"operands rejected", "op=xor", "left=2x2", "right=3x3"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if _, err := NewAssoc(0, 0).AverageLevel(); err == nil {
		t.Fatal("expected empty raster error")
	}
	if !strings.Contains(buf.String(), "average of empty raster") {
		t.Errorf("log output missing empty raster record:\n%s", buf.String())
	}
}

func TestSetLogger_NilRestoresSilence(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	SetLogger(nil)
	_, _ = NewDense(1, 1).Add(NewDense(2, 2))
	if buf.Len() != 0 {
		t.Errorf("expected no output after SetLogger(nil), got %q", buf.String())
	}
}
