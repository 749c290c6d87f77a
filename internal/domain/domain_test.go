package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestActionConstructors(t *testing.T) {
	if a := NavigateToExchanges(); a.Kind != ActionShowExchanges || !a.IsValid() {
		t.Fatalf("unexpected navigate action: %+v", a)
	}
	if a := SelectExchange("LSE"); a.Kind != ActionSelectExchange || a.ExchangeCode != "LSE" || !a.IsValid() {
		t.Fatalf("unexpected select action: %+v", a)
	}
	if a := ShowStockPrice("LSE", "VOD"); a.Kind != ActionShowStockPrice || a.StockCode != "VOD" || !a.IsValid() {
		t.Fatalf("unexpected price action: %+v", a)
	}
}

func TestActionIsValid(t *testing.T) {
	if SelectExchange("").IsValid() {
		t.Fatal("expected select without code to be invalid")
	}
	if ShowStockPrice("LSE", "").IsValid() {
		t.Fatal("expected price without stock to be invalid")
	}
	if (Action{Kind: "bogus"}).IsValid() {
		t.Fatal("expected unknown kind to be invalid")
	}
}

func TestActionString(t *testing.T) {
	if got := ShowStockPrice("NYSE", "IBM").String(); got != "show_stock_price(NYSE/IBM)" {
		t.Fatalf("unexpected string: %s", got)
	}
	if got := NavigateToExchanges().String(); got != "show_exchanges" {
		t.Fatalf("unexpected string: %s", got)
	}
}

func TestStockHasPrice(t *testing.T) {
	priced := Stock{Code: "AAPL", Price: decimal.NewNullDecimal(decimal.RequireFromString("123.45"))}
	if !priced.HasPrice() {
		t.Fatal("expected priced stock to have a price")
	}
	if (Stock{Code: "X"}).HasPrice() {
		t.Fatal("expected missing price to be unavailable")
	}
	zero := Stock{Code: "Z", Price: decimal.NewNullDecimal(decimal.Zero)}
	if zero.HasPrice() {
		t.Fatal("expected zero price to be unavailable")
	}
}
