package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	tele "gopkg.in/telebot.v3"
)

const usageText = "Use the buttons to navigate. Send /start to begin a new conversation."

// StartTelegramBot connects to Telegram and serves the assistant until Stop
// is called. Without a token it returns nil and does nothing.
func StartTelegramBot(token string, sessions Sessions, logger *log.Logger) (*Assistant, error) {
	if logger == nil {
		logger = log.Default()
	}
	if token == "" {
		logger.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("telegram handler error", "err", err)
		},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("creating Telegram bot: %w", err)
	}

	assistant := NewAssistant(b, sessions, logger)
	registerHandlers(b, assistant)

	logger.Info("Telegram bot started", "username", b.Me.Username)
	go b.Start()

	stopAssistant := assistant.stop
	assistant.stop = func() {
		b.Stop()
		stopAssistant()
	}
	return assistant, nil
}

type handlerRegistrar interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

func registerHandlers(b handlerRegistrar, a *Assistant) {
	b.Handle("/start", func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return nil
		}
		a.Start(chat)
		return nil
	})

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle(&tele.Btn{Unique: optionUnique}, func(c tele.Context) error {
		chat := c.Chat()
		cb := c.Callback()
		if chat == nil || cb == nil {
			return c.Respond()
		}
		toast := a.Choose(context.Background(), chat, cb.Data)
		if toast == "" {
			return c.Respond()
		}
		return c.Respond(&tele.CallbackResponse{Text: toast})
	})

	b.Handle(tele.OnText, func(c tele.Context) error {
		return c.Send(usageText)
	})
}
