package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"stock-assistant/internal/conversation"
	"stock-assistant/internal/domain"

	"github.com/charmbracelet/log"
	tele "gopkg.in/telebot.v3"
)

const optionUnique = "opt"

// Toast texts answered to button presses.
const (
	toastBusy    = "Please wait, the assistant is typing…"
	toastStale   = "That option is no longer available."
	toastExpired = "This conversation has expired. Send /start to begin again."
)

type messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	EditReplyMarkup(msg tele.Editable, markup *tele.ReplyMarkup) (*tele.Message, error)
}

// Sessions is the part of the session manager the bot needs.
type Sessions interface {
	Reset(key string) *conversation.Controller
	Lookup(key string) (*conversation.Controller, bool)
}

// Assistant mirrors each chat's conversation into Telegram messages.
type Assistant struct {
	sender   messenger
	sessions Sessions
	logger   *log.Logger

	mu    sync.Mutex
	views map[int64]*chatView
	stop  func()
}

// chatView tracks what has already been posted to one chat.
type chatView struct {
	chat     *tele.Chat
	cancel   context.CancelFunc
	sent     map[domain.MessageID]*tele.Message
	lastSent domain.MessageID
	keyboard domain.MessageID
}

// NewAssistant creates an assistant that posts through sender.
func NewAssistant(sender messenger, sessions Sessions, logger *log.Logger) *Assistant {
	if logger == nil {
		logger = log.Default()
	}
	a := &Assistant{
		sender:   sender,
		sessions: sessions,
		logger:   logger.With("component", "telegram"),
		views:    make(map[int64]*chatView),
	}
	a.stop = a.detachAll
	return a
}

func sessionKey(chatID int64) string {
	return "telegram:" + strconv.FormatInt(chatID, 10)
}

// Start begins a new conversation in chat and streams it.
func (a *Assistant) Start(chat *tele.Chat) {
	ctrl := a.sessions.Reset(sessionKey(chat.ID))
	a.attach(chat, ctrl)
}

// Choose handles a button press and returns the toast to answer it with
// (empty for none).
func (a *Assistant) Choose(ctx context.Context, chat *tele.Chat, data string) string {
	msgID, idx, err := parseCallbackData(data)
	if err != nil {
		a.logger.Warn("malformed callback data", "chat", chat.ID, "data", data)
		return toastStale
	}

	ctrl, ok := a.sessions.Lookup(sessionKey(chat.ID))
	if !ok {
		return toastExpired
	}
	a.ensureAttached(chat, ctrl)

	switch err := ctrl.Choose(ctx, msgID, idx); {
	case err == nil:
		return ""
	case errors.Is(err, conversation.ErrBusy):
		return toastBusy
	case errors.Is(err, conversation.ErrClosed):
		return toastExpired
	default:
		return toastStale
	}
}

// Stop ends every chat stream and, when running, the Telegram poller.
func (a *Assistant) Stop() {
	if a == nil {
		return
	}
	a.stop()
}

func (a *Assistant) detachAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, v := range a.views {
		v.cancel()
		delete(a.views, id)
	}
}

func (a *Assistant) ensureAttached(chat *tele.Chat, ctrl *conversation.Controller) {
	a.mu.Lock()
	_, ok := a.views[chat.ID]
	a.mu.Unlock()
	if !ok {
		a.attach(chat, ctrl)
	}
}

func (a *Assistant) attach(chat *tele.Chat, ctrl *conversation.Controller) {
	ctx, cancel := context.WithCancel(context.Background())
	view := &chatView{
		chat:   chat,
		cancel: cancel,
		sent:   make(map[domain.MessageID]*tele.Message),
	}

	a.mu.Lock()
	if old, ok := a.views[chat.ID]; ok {
		old.cancel()
	}
	a.views[chat.ID] = view
	a.mu.Unlock()

	updates, _ := ctrl.Subscribe(ctx)
	go func() {
		for snap := range updates {
			a.sync(view, snap)
		}
		a.detach(chat.ID, view)
	}()
}

// detach forgets view once its stream has ended, unless a newer view has
// already taken over the chat.
func (a *Assistant) detach(chatID int64, view *chatView) {
	view.cancel()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.views[chatID] == view {
		delete(a.views, chatID)
	}
}

func (a *Assistant) viewCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.views)
}

// sync posts new messages and moves the inline keyboard to the active one.
// The keyboard stays up while a reply is pending; presses then get the busy
// toast.
func (a *Assistant) sync(v *chatView, snap conversation.Snapshot) {
	if v.keyboard != 0 && v.keyboard != snap.ActiveID {
		if stored, ok := v.sent[v.keyboard]; ok {
			if _, err := a.sender.EditReplyMarkup(stored, &tele.ReplyMarkup{}); err != nil {
				a.logger.Warn("failed to remove keyboard", "chat", v.chat.ID, "err", err)
			}
		}
		v.keyboard = 0
	}

	for _, msg := range snap.Messages {
		if msg.ID <= v.lastSent {
			continue
		}
		var opts []interface{}
		withKeyboard := len(msg.Options) > 0 && msg.ID == snap.ActiveID
		if withKeyboard {
			opts = append(opts, optionKeyboard(msg))
		}
		sent, err := a.sender.Send(v.chat, renderText(msg), opts...)
		if err != nil {
			a.logger.Error("failed to send message", "chat", v.chat.ID, "err", err)
			continue
		}
		v.sent[msg.ID] = sent
		v.lastSent = msg.ID
		if withKeyboard {
			v.keyboard = msg.ID
		}
	}
}

func renderText(msg domain.Message) string {
	if msg.Origin == domain.OriginUser {
		return "» " + msg.Text
	}
	return msg.Text
}

func optionKeyboard(msg domain.Message) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(msg.Options))
	for i, opt := range msg.Options {
		rows = append(rows, markup.Row(markup.Data(opt.Label, optionUnique, callbackData(msg.ID, i))))
	}
	markup.Inline(rows...)
	return markup
}

func callbackData(id domain.MessageID, idx int) string {
	return fmt.Sprintf("%d:%d", id, idx)
}

func parseCallbackData(data string) (domain.MessageID, int, error) {
	rawID, rawIdx, ok := strings.Cut(strings.TrimSpace(data), ":")
	if !ok {
		return 0, 0, fmt.Errorf("callback data %q: missing separator", data)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, fmt.Errorf("callback data %q: bad message id", data)
	}
	idx, err := strconv.Atoi(rawIdx)
	if err != nil || idx < 0 {
		return 0, 0, fmt.Errorf("callback data %q: bad option index", data)
	}
	return domain.MessageID(id), idx, nil
}
