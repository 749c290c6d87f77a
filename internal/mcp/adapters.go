package mcp

import "stock-assistant/internal/domain"

// MarketReader exposes the read operations the tools need from the dataset.
type MarketReader interface {
	Exchanges() []domain.Exchange
	Exchange(code string) (domain.Exchange, bool)
	Stock(exchangeCode, stockCode string) (domain.Stock, bool)
}
