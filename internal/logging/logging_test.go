package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Fatalf("expected warn line with fields, got %q", out)
	}
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "loud")

	logger.Debug("debug line")
	logger.Info("info line")

	out := buf.String()
	if strings.Contains(out, "debug line") || !strings.Contains(out, "info line") {
		t.Fatalf("unexpected output for default level: %q", out)
	}
}

func TestComponentAddsField(t *testing.T) {
	var buf bytes.Buffer
	Component(New(&buf, "info"), "bot").Info("hello")

	if !strings.Contains(buf.String(), "component=bot") {
		t.Fatalf("expected component field, got %q", buf.String())
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	Slog(New(&buf, "info")).Info("via slog", "n", 1)

	if !strings.Contains(buf.String(), "via slog") {
		t.Fatalf("expected slog output, got %q", buf.String())
	}
	if Slog(nil) == nil {
		t.Fatal("expected default slog logger for nil input")
	}
}
