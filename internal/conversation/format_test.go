package conversation

import (
	"testing"

	"stock-assistant/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"123.45":    "$123.45",
		"16340":     "$16,340",
		"1234567.5": "$1,234,567.5",
		"0.1234":    "$0.123",
		"42":        "$42",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, FormatPrice(decimal.RequireFromString(in)))
		})
	}
}

func TestStockLabel(t *testing.T) {
	assert.Equal(t, "Tesla Inc. (TSLA)", StockLabel(domain.Stock{Code: "TSLA", Name: "Tesla Inc."}))
}
