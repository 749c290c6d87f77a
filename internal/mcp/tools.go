package mcp

import (
	"context"
	"fmt"

	"stock-assistant/internal/conversation"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, market MarketReader) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "exchanges_list",
		Description: "List the stock exchanges the assistant covers",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ exchangesListInput) (*mcp.CallToolResult, exchangesListOutput, error) {
		if market == nil {
			return nil, exchangesListOutput{}, fmt.Errorf("dataset unavailable")
		}
		return nil, exchangesListOutput{Exchanges: summarize(market.Exchanges())}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stocks_list",
		Description: "List the top stocks of one exchange with their prices",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in stocksListInput) (*mcp.CallToolResult, stocksListOutput, error) {
		if market == nil {
			return nil, stocksListOutput{}, fmt.Errorf("dataset unavailable")
		}
		ex, err := lookupExchange(market, in.Exchange)
		if err != nil {
			return nil, stocksListOutput{}, err
		}
		return nil, toStocksList(ex), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stock_quote",
		Description: "Get the current price of one stock",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in stockQuoteInput) (*mcp.CallToolResult, stockQuoteOutput, error) {
		if market == nil {
			return nil, stockQuoteOutput{}, fmt.Errorf("dataset unavailable")
		}
		ex, err := lookupExchange(market, in.Exchange)
		if err != nil {
			return nil, stockQuoteOutput{}, err
		}
		code, err := normalizeCode("stock", in.Stock)
		if err != nil {
			return nil, stockQuoteOutput{}, err
		}
		stock, ok := market.Stock(ex.Code, code)
		if !ok {
			return nil, stockQuoteOutput{}, fmt.Errorf("unknown stock %s on %s", code, ex.Code)
		}
		if !stock.HasPrice() {
			return nil, stockQuoteOutput{}, fmt.Errorf("price unavailable for %s on %s", code, ex.Code)
		}

		quote := toQuote(ex.Code, stock)
		text := fmt.Sprintf("%s \nCurrent Price: %s", conversation.StockLabel(stock), quote.Formatted)
		return nil, stockQuoteOutput{Quote: quote, Text: text}, nil
	})
}
