package mcp

import (
	"fmt"
	"strings"

	"stock-assistant/internal/conversation"
	"stock-assistant/internal/domain"
)

type exchangeSummary struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	StockCount int    `json:"stock_count"`
}

type stockQuote struct {
	Exchange  string `json:"exchange"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     string `json:"price,omitempty"`
	Formatted string `json:"formatted,omitempty"`
	Available bool   `json:"available"`
}

type exchangesListInput struct{}

type exchangesListOutput struct {
	Exchanges []exchangeSummary `json:"exchanges"`
}

type stocksListInput struct {
	Exchange string `json:"exchange" jsonschema:"exchange code (e.g. LSE, NYSE, NASDAQ)"`
}

type stocksListOutput struct {
	Exchange string       `json:"exchange"`
	Name     string       `json:"name"`
	Stocks   []stockQuote `json:"stocks"`
}

type stockQuoteInput struct {
	Exchange string `json:"exchange" jsonschema:"exchange code (e.g. LSE, NYSE, NASDAQ)"`
	Stock    string `json:"stock" jsonschema:"stock code within the exchange (e.g. GSK)"`
}

type stockQuoteOutput struct {
	Quote stockQuote `json:"quote"`
	Text  string     `json:"text"`
}

func normalizeCode(kind, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("%s is required", kind)
	}
	return code, nil
}

func lookupExchange(market MarketReader, code string) (domain.Exchange, error) {
	code, err := normalizeCode("exchange", code)
	if err != nil {
		return domain.Exchange{}, err
	}
	ex, ok := market.Exchange(code)
	if !ok {
		return domain.Exchange{}, fmt.Errorf("unknown exchange: %s", code)
	}
	return ex, nil
}

func summarize(exchanges []domain.Exchange) []exchangeSummary {
	out := make([]exchangeSummary, 0, len(exchanges))
	for _, ex := range exchanges {
		out = append(out, exchangeSummary{Code: ex.Code, Name: ex.Name, StockCount: len(ex.Stocks)})
	}
	return out
}

func toQuote(exchange string, s domain.Stock) stockQuote {
	q := stockQuote{Exchange: exchange, Code: s.Code, Name: s.Name}
	if s.HasPrice() {
		q.Price = s.Price.Decimal.String()
		q.Formatted = conversation.FormatPrice(s.Price.Decimal)
		q.Available = true
	}
	return q
}

func toStocksList(ex domain.Exchange) stocksListOutput {
	out := stocksListOutput{Exchange: ex.Code, Name: ex.Name, Stocks: make([]stockQuote, 0, len(ex.Stocks))}
	for _, s := range ex.Stocks {
		out.Stocks = append(out.Stocks, toQuote(ex.Code, s))
	}
	return out
}
