package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Config struct {
	LogLevel    string
	DatasetPath string

	TypingDelay time.Duration
	Debounce    time.Duration
	SessionIdle time.Duration

	Port               int
	CORSAllowedOrigins []string

	TelegramBotToken string

	SSHEnabled        bool
	SSHBind           string
	SSHPort           int
	SSHHostKeyPath    string
	SSHAuthorizedKeys string

	MCPTransport          string
	MCPHTTPEnabled        bool
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatasetPath:       strings.TrimSpace(os.Getenv("DATASET_PATH")),
		SSHAuthorizedKeys: strings.TrimSpace(os.Getenv("SSH_AUTHORIZED_KEYS")),
		MCPAuthToken:      os.Getenv("MCP_AUTH_TOKEN"),
	}

	if cfg.TelegramBotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set, telegram bot disabled")
	}
	if cfg.DatasetPath == "" {
		log.Info("DATASET_PATH not set, using built-in dataset")
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.TypingDelay = time.Duration(positiveInt("TYPING_DELAY_MS", 600)) * time.Millisecond
	cfg.Debounce = time.Duration(positiveInt("DEBOUNCE_MS", 300)) * time.Millisecond
	cfg.SessionIdle = time.Duration(positiveInt("SESSION_IDLE_MINS", 30)) * time.Minute

	cfg.Port = positiveInt("PORT", 8080)

	cfg.CORSAllowedOrigins = parseList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	cfg.SSHEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("SSH_ENABLED")), "true")

	cfg.SSHBind = strings.TrimSpace(os.Getenv("SSH_BIND"))
	if cfg.SSHBind == "" {
		cfg.SSHBind = "127.0.0.1"
	}
	cfg.SSHPort = positiveInt("SSH_PORT", 23234)

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/id_ed25519"
	}
	if cfg.SSHEnabled && cfg.SSHAuthorizedKeys == "" {
		log.Warn("SSH_AUTHORIZED_KEYS not set, ssh server accepts any key")
	}

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Warn("unsupported MCP_TRANSPORT, defaulting to stdio", "value", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MCP_HTTP_ENABLED")), "true")

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}

	cfg.MCPHTTPPort = positiveInt("MCP_HTTP_PORT", 8090)
	cfg.MCPRequestTimeoutSecs = positiveInt("MCP_REQUEST_TIMEOUT_SECS", 5)
	cfg.MCPRateLimitPerMin = positiveInt("MCP_RATE_LIMIT_PER_MIN", 60)

	return cfg
}

// positiveInt reads key as a positive integer, falling back to def when it is
// unset or invalid.
func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn("ignoring invalid value", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
