package mcp

import (
	"context"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestToolsListAndInvoke(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	session, shutdown, err := connectInMemory(ctx, testServer())
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	tools, err := session.ListTools(ctx, &sdkmcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools failed: %v", err)
	}
	if len(tools.Tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(tools.Tools))
	}

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "exchanges_list", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call tool failed: %v", err)
	}
	var exchanges exchangesListOutput
	if err := decodeStructured(res, &exchanges); err != nil {
		t.Fatalf("decode exchanges failed: %v", err)
	}
	if len(exchanges.Exchanges) != 2 || exchanges.Exchanges[0].Code != "LSE" || exchanges.Exchanges[0].StockCount != 2 {
		t.Fatalf("unexpected exchanges %+v", exchanges.Exchanges)
	}

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "stocks_list", Arguments: map[string]any{"exchange": "lse"}})
	if err != nil {
		t.Fatalf("stocks tool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	var stocks stocksListOutput
	if err := decodeStructured(res, &stocks); err != nil {
		t.Fatalf("decode stocks failed: %v", err)
	}
	if len(stocks.Stocks) != 2 || !stocks.Stocks[0].Available || stocks.Stocks[1].Available {
		t.Fatalf("unexpected stocks %+v", stocks.Stocks)
	}

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "stock_quote", Arguments: map[string]any{"exchange": "LSE", "stock": "gsk"}})
	if err != nil {
		t.Fatalf("quote tool failed: %v", err)
	}
	var quote stockQuoteOutput
	if err := decodeStructured(res, &quote); err != nil {
		t.Fatalf("decode quote failed: %v", err)
	}
	if quote.Quote.Formatted != "$1,234.5" {
		t.Fatalf("expected $1,234.5, got %q", quote.Quote.Formatted)
	}
	if quote.Text != "GSK PLC (GSK) \nCurrent Price: $1,234.5" {
		t.Fatalf("unexpected quote text %q", quote.Text)
	}
}

func TestToolsValidationFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	session, shutdown, err := connectInMemory(ctx, testServer())
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	for _, tc := range []struct {
		name string
		args map[string]any
	}{
		{"stocks_list", map[string]any{"exchange": "TSX"}},
		{"stocks_list", map[string]any{"exchange": " "}},
		{"stock_quote", map[string]any{"exchange": "LSE", "stock": "NOPX"}},
		{"stock_quote", map[string]any{"exchange": "LSE", "stock": "ZZZ"}},
	} {
		res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: tc.name, Arguments: tc.args})
		if err != nil {
			t.Fatalf("%s %v: unexpected protocol error: %v", tc.name, tc.args, err)
		}
		if !res.IsError {
			t.Fatalf("%s %v: expected tool-level error", tc.name, tc.args)
		}
	}
}
