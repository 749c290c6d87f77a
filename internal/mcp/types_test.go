package mcp

import (
	"testing"

	"stock-assistant/internal/domain"

	"github.com/shopspring/decimal"
)

func TestNormalizeCode(t *testing.T) {
	code, err := normalizeCode("exchange", " lse ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "LSE" {
		t.Fatalf("expected LSE, got %s", code)
	}

	if _, err := normalizeCode("exchange", "  "); err == nil {
		t.Fatal("expected required error")
	}
}

func TestLookupExchange(t *testing.T) {
	ex, err := lookupExchange(testMarket(), "nyse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Name != "New York Stock Exchange" {
		t.Fatalf("unexpected exchange %+v", ex)
	}

	if _, err := lookupExchange(testMarket(), "TSX"); err == nil {
		t.Fatal("expected unknown exchange error")
	}
}

func TestToQuoteTreatsNonPositivePriceAsUnavailable(t *testing.T) {
	q := toQuote("X", domain.Stock{Code: "Z", Name: "Zero", Price: decimal.NewNullDecimal(decimal.Zero)})
	if q.Available || q.Price != "" || q.Formatted != "" {
		t.Fatalf("expected unavailable quote, got %+v", q)
	}

	q = toQuote("X", domain.Stock{Code: "P", Name: "Priced", Price: decimal.NewNullDecimal(decimal.RequireFromString("16340"))})
	if !q.Available || q.Formatted != "$16,340" {
		t.Fatalf("unexpected quote %+v", q)
	}
}
