package tui

import (
	"time"

	"stock-assistant/internal/conversation"

	"github.com/charmbracelet/log"
)

// Services bundles everything injected into the TUI.
type Services struct {
	Catalog  conversation.Catalog
	Debounce time.Duration
	Typing   time.Duration
	Logger   *log.Logger
	// Username is shown in the header for SSH sessions.
	Username string
}

func (s Services) debounce() time.Duration {
	if s.Debounce <= 0 {
		return conversation.DefaultDebounce
	}
	return s.Debounce
}

func (s Services) typing() time.Duration {
	if s.Typing <= 0 {
		return conversation.DefaultTyping
	}
	return s.Typing
}

func (s Services) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}
