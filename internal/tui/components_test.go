package tui

import (
	"strings"
	"testing"

	"stock-assistant/internal/domain"

	"github.com/shopspring/decimal"
)

func TestRenderMessageNumbersOptions(t *testing.T) {
	msg := domain.Message{
		ID:     1,
		Origin: domain.OriginAssistant,
		Text:   "Pick one",
		Options: []domain.Option{
			{Label: "First"},
			{Label: "Second"},
		},
	}
	out := RenderMessage(msg, true, 1)
	for _, want := range []string{"Assistant:", "Pick one", "1. First", "2. Second", "›"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	disabled := RenderMessage(msg, false, 1)
	if strings.Contains(disabled, "›") {
		t.Fatal("disabled message must not show a cursor")
	}
}

func TestRenderUserMessage(t *testing.T) {
	out := RenderMessage(domain.Message{Origin: domain.OriginUser, Text: "Selected: Nasdaq"}, false, -1)
	if !strings.Contains(out, "You:") || !strings.Contains(out, "Selected: Nasdaq") {
		t.Fatalf("unexpected user render: %q", out)
	}
}

func TestFormatStockPrice(t *testing.T) {
	priced := domain.Stock{Code: "A", Name: "A", Price: decimal.NewNullDecimal(decimal.RequireFromString("16340"))}
	if got := FormatStockPrice(priced); !strings.Contains(got, "$16,340") {
		t.Fatalf("expected $16,340, got %q", got)
	}
	if got := FormatStockPrice(domain.Stock{Code: "B", Name: "B"}); !strings.Contains(got, "n/a") {
		t.Fatalf("expected n/a, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected unchanged, got %q", got)
	}
	if got := truncate("a very long company name", 8); got != "a very …" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
