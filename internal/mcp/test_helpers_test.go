package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"stock-assistant/internal/dataset"
	"stock-assistant/internal/domain"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

func testMarket() *dataset.Catalog {
	return dataset.New([]domain.Exchange{
		{
			Code: "LSE",
			Name: "London Stock Exchange",
			Stocks: []domain.Stock{
				{Code: "GSK", Name: "GSK PLC", Price: decimal.NewNullDecimal(decimal.RequireFromString("1234.5"))},
				{Code: "NOPX", Name: "No Price PLC"},
			},
		},
		{
			Code:   "NYSE",
			Name:   "New York Stock Exchange",
			Stocks: []domain.Stock{{Code: "AHT", Name: "Ashford", Price: decimal.NewNullDecimal(decimal.RequireFromString("2.41"))}},
		},
	})
}

func testServer() *sdkmcp.Server {
	return NewServer(nil, testMarket(), ServerConfig{RequestTimeout: time.Second})
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

type authRoundTripper struct {
	token string
	base  http.RoundTripper
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.token)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}

func decodeStructured(result *sdkmcp.CallToolResult, out any) error {
	body, err := json.Marshal(result.StructuredContent)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
