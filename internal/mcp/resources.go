package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcp.Server, market MarketReader) {
	server.AddResource(&mcp.Resource{
		URI:         "market://exchanges",
		Name:        "exchanges",
		Description: "Exchanges covered by the assistant",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if market == nil {
			return nil, fmt.Errorf("dataset unavailable")
		}
		return jsonResource(req.Params.URI, exchangesListOutput{Exchanges: summarize(market.Exchanges())})
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "exchanges://{code}",
		Name:        "exchange-stocks",
		Description: "Stocks and prices of one exchange",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if market == nil {
			return nil, fmt.Errorf("dataset unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil || parsed.Scheme != "exchanges" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		ex, ok := market.Exchange(strings.ToUpper(strings.TrimSpace(parsed.Host)))
		if !ok {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return jsonResource(req.Params.URI, toStocksList(ex))
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
