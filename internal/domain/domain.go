package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Exchange struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Stocks []Stock `json:"stocks"`
}

type Stock struct {
	Code  string              `json:"code"`
	Name  string              `json:"name"`
	Price decimal.NullDecimal `json:"price"`
}

// HasPrice reports whether the stock carries a usable quote. A missing or
// non-positive price counts as unavailable.
func (s Stock) HasPrice() bool {
	return s.Price.Valid && s.Price.Decimal.IsPositive()
}

type Origin string

const (
	OriginAssistant Origin = "assistant"
	OriginUser      Origin = "user"
)

// MessageID is assigned by the message store, starting at 1. Zero means "no message".
type MessageID int64

type Message struct {
	ID        MessageID `json:"id"`
	Origin    Origin    `json:"origin"`
	Text      string    `json:"text"`
	Options   []Option  `json:"options,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Option struct {
	Label  string `json:"label"`
	Action Action `json:"action"`
}

type ActionKind string

const (
	ActionShowExchanges  ActionKind = "show_exchanges"
	ActionSelectExchange ActionKind = "select_exchange"
	ActionShowStockPrice ActionKind = "show_stock_price"
)

// Action is the navigation target an option resolves to.
type Action struct {
	Kind         ActionKind `json:"kind"`
	ExchangeCode string     `json:"exchange_code,omitempty"`
	StockCode    string     `json:"stock_code,omitempty"`
}

func NavigateToExchanges() Action {
	return Action{Kind: ActionShowExchanges}
}

func SelectExchange(code string) Action {
	return Action{Kind: ActionSelectExchange, ExchangeCode: code}
}

func ShowStockPrice(exchangeCode, stockCode string) Action {
	return Action{Kind: ActionShowStockPrice, ExchangeCode: exchangeCode, StockCode: stockCode}
}

func (a Action) IsValid() bool {
	switch a.Kind {
	case ActionShowExchanges:
		return true
	case ActionSelectExchange:
		return a.ExchangeCode != ""
	case ActionShowStockPrice:
		return a.ExchangeCode != "" && a.StockCode != ""
	default:
		return false
	}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSelectExchange:
		return fmt.Sprintf("%s(%s)", a.Kind, a.ExchangeCode)
	case ActionShowStockPrice:
		return fmt.Sprintf("%s(%s/%s)", a.Kind, a.ExchangeCode, a.StockCode)
	default:
		return string(a.Kind)
	}
}
