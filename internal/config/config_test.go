package config

import (
	"reflect"
	"testing"
	"time"
)

var allKeys = []string{
	"LOG_LEVEL", "DATASET_PATH", "TYPING_DELAY_MS", "DEBOUNCE_MS", "SESSION_IDLE_MINS",
	"PORT", "CORS_ALLOWED_ORIGINS", "TELEGRAM_BOT_TOKEN",
	"SSH_ENABLED", "SSH_BIND", "SSH_PORT", "SSH_HOST_KEY_PATH", "SSH_AUTHORIZED_KEYS",
	"MCP_TRANSPORT", "MCP_HTTP_ENABLED", "MCP_HTTP_BIND", "MCP_HTTP_PORT",
	"MCP_AUTH_TOKEN", "MCP_REQUEST_TIMEOUT_SECS", "MCP_RATE_LIMIT_PER_MIN",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.TypingDelay != 600*time.Millisecond || cfg.Debounce != 300*time.Millisecond {
		t.Fatalf("unexpected delays: typing=%v debounce=%v", cfg.TypingDelay, cfg.Debounce)
	}
	if cfg.SessionIdle != 30*time.Minute {
		t.Fatalf("expected 30m session idle, got %v", cfg.SessionIdle)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Fatalf("unexpected CORS defaults: %+v", cfg.CORSAllowedOrigins)
	}
	if cfg.SSHEnabled || cfg.SSHBind != "127.0.0.1" || cfg.SSHPort != 23234 || cfg.SSHHostKeyPath != ".ssh/id_ed25519" {
		t.Fatalf("unexpected SSH defaults: %+v", cfg)
	}
	if cfg.MCPTransport != "stdio" {
		t.Fatalf("expected default MCP transport stdio, got %s", cfg.MCPTransport)
	}
	if cfg.MCPHTTPBind != "127.0.0.1" || cfg.MCPHTTPPort != 8090 {
		t.Fatalf("unexpected MCP http defaults: %s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort)
	}
	if cfg.MCPRequestTimeoutSecs != 5 || cfg.MCPRateLimitPerMin != 60 {
		t.Fatalf("unexpected MCP defaults: timeout=%d rate=%d", cfg.MCPRequestTimeoutSecs, cfg.MCPRateLimitPerMin)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", " DEBUG ")
	t.Setenv("DATASET_PATH", "/data/stocks.yaml")
	t.Setenv("TYPING_DELAY_MS", "50")
	t.Setenv("DEBOUNCE_MS", "10")
	t.Setenv("SESSION_IDLE_MINS", "5")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SSH_ENABLED", "TRUE")
	t.Setenv("SSH_PORT", "2222")
	t.Setenv("MCP_TRANSPORT", "HTTP")
	t.Setenv("MCP_HTTP_ENABLED", "true")
	t.Setenv("MCP_HTTP_PORT", "9191")

	cfg := Load()
	if cfg.LogLevel != "debug" || cfg.DatasetPath != "/data/stocks.yaml" {
		t.Fatalf("unexpected basics: %+v", cfg)
	}
	if cfg.TypingDelay != 50*time.Millisecond || cfg.Debounce != 10*time.Millisecond || cfg.SessionIdle != 5*time.Minute {
		t.Fatalf("unexpected timings: %+v", cfg)
	}
	if cfg.Port != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
	}
	if !cfg.SSHEnabled || cfg.SSHPort != 2222 {
		t.Fatalf("unexpected SSH config: %+v", cfg)
	}
	if cfg.MCPTransport != "http" || !cfg.MCPHTTPEnabled || cfg.MCPHTTPPort != 9191 {
		t.Fatalf("unexpected MCP config: %+v", cfg)
	}
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("TYPING_DELAY_MS", "-1")
	t.Setenv("PORT", "abc")
	t.Setenv("MCP_TRANSPORT", "grpc")

	cfg := Load()
	if cfg.TypingDelay != 600*time.Millisecond {
		t.Fatalf("expected fallback typing delay, got %v", cfg.TypingDelay)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected fallback port, got %d", cfg.Port)
	}
	if cfg.MCPTransport != "stdio" {
		t.Fatalf("expected fallback transport, got %s", cfg.MCPTransport)
	}
}
