package mcp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"stock-assistant/internal/logging"

	"github.com/charmbracelet/log"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultRequestTimeout = 5 * time.Second
	serverName            = "stock-assistant-mcp"
	serverVersion         = "1.0.0"
)

type ServerConfig struct {
	RequestTimeout time.Duration
	Logger         *log.Logger
}

// NewServer exposes the dataset as read-only MCP tools and resources.
func NewServer(tracer trace.Tracer, market MarketReader, cfg ServerConfig) *sdkmcp.Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	logger := logging.Component(cfg.Logger, "mcp")

	srv := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &sdkmcp.ServerOptions{
		Instructions: "Browse stock exchanges, their top stocks and current prices. " +
			"Start with exchanges_list, then stocks_list for an exchange code, then stock_quote.",
		Logger: logging.Slog(logger),
	})

	srv.AddReceivingMiddleware(timeoutMiddleware(cfg.RequestTimeout))
	srv.AddReceivingMiddleware(loggingMiddleware(logger))
	if tracer != nil {
		srv.AddReceivingMiddleware(tracingMiddleware(tracer))
	}

	registerTools(srv, market)
	registerResources(srv, market)
	return srv
}

// NewHTTPTransportHandler serves srv over streamable HTTP behind bearer auth,
// a per-client rate limit and a body size limit.
func NewHTTPTransportHandler(srv *sdkmcp.Server, cfg HTTPHandlerConfig) http.Handler {
	base := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return srv
	}, &sdkmcp.StreamableHTTPOptions{})
	return wrapHTTPHandler(base, cfg)
}

func timeoutMiddleware(timeout time.Duration) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, method, req)
		}
	}
}

func loggingMiddleware(logger *log.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			fields := []interface{}{"method", method, "took", time.Since(start)}
			if target := requestTarget(req); target != "" {
				fields = append(fields, "target", target)
			}
			if err != nil {
				logger.Warn("mcp request failed", append(fields, "err", err)...)
			} else {
				logger.Debug("mcp request", fields...)
			}
			return result, err
		}
	}
}

func tracingMiddleware(tracer trace.Tracer) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx, span := tracer.Start(ctx, mcpSpanName(method, req))
			defer span.End()
			span.SetAttributes(attribute.String("mcp.method", method))

			switch r := req.(type) {
			case *sdkmcp.CallToolRequest:
				span.SetAttributes(attribute.String("mcp.tool", strings.TrimSpace(r.Params.Name)))
			case *sdkmcp.ReadResourceRequest:
				span.SetAttributes(attribute.String("mcp.resource.uri", strings.TrimSpace(r.Params.URI)))
			}

			result, err := next(ctx, method, req)
			if err != nil {
				span.RecordError(err)
			}
			return result, err
		}
	}
}

// requestTarget names the tool or resource a request addresses, if any.
func requestTarget(req sdkmcp.Request) string {
	switch r := req.(type) {
	case *sdkmcp.CallToolRequest:
		return strings.TrimSpace(r.Params.Name)
	case *sdkmcp.ReadResourceRequest:
		return strings.TrimSpace(r.Params.URI)
	}
	return ""
}

func mcpSpanName(method string, req sdkmcp.Request) string {
	switch method {
	case "tools/call":
		if name := requestTarget(req); name != "" {
			return "mcp.tool." + strings.ReplaceAll(name, "/", ".")
		}
		return "mcp.tool.call"
	case "resources/read":
		return "mcp.resource.read"
	default:
		return "mcp." + strings.ReplaceAll(method, "/", ".")
	}
}
