package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stock-assistant/internal/conversation"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Chat message types. Both carry the ticket of the invocation they belong to.
type debounceMsg struct{ ticket conversation.Ticket }
type typingDoneMsg struct{ ticket conversation.Ticket }

// ChatModel is the Bubble Tea model for the assistant conversation. It owns
// the conversation machine and drives its timers with tea.Tick.
type ChatModel struct {
	services Services
	machine  *conversation.Machine
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	cursor   int
	notice   string
	focused  bool
	width    int
	height   int
	ready    bool
}

// NewChatModel starts a conversation over svc.Catalog.
func NewChatModel(svc Services) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Please select an option above..."
	ti.Width = 60
	ti.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return ChatModel{
		services: svc,
		machine:  conversation.NewMachine(svc.Catalog, conversation.WithLogger(svc.logger())),
		input:    ti,
		spinner:  sp,
		focused:  true,
	}
}

// Init initializes the chat model.
func (m ChatModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		step, err := m.machine.Fire(msg.ticket)
		if err != nil {
			return m, nil
		}
		m.cursor = 0
		m.refresh()
		if step.Pending {
			return m, tea.Batch(
				tea.Tick(m.services.typing(), func(time.Time) tea.Msg { return typingDoneMsg{ticket: msg.ticket} }),
				m.spinner.Tick,
			)
		}
		return m, nil

	case typingDoneMsg:
		if err := m.machine.Complete(msg.ticket); err != nil && !errors.Is(err, conversation.ErrSuperseded) {
			m.services.logger().Debug("reply not committed", "ticket", msg.ticket, "err", err)
		}
		m.cursor = 0
		m.notice = ""
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.machine.Pending() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			m.moveCursor(-1)
			return m, nil
		case key.Matches(msg, DefaultKeyMap.Down):
			m.moveCursor(1)
			return m, nil
		case key.Matches(msg, DefaultKeyMap.Select):
			return m.choose(m.cursor)
		case key.Matches(msg, DefaultKeyMap.Quick):
			return m.choose(int(msg.Runes[0] - '1'))
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the chat screen.
func (m ChatModel) View() string {
	title := "  LSEG Stock Information Assistant"
	if m.services.Username != "" {
		title += SubtextStyle.Render(" · " + m.services.Username)
	}

	var sections []string
	sections = append(sections, HeaderStyle.Render(title))
	sections = append(sections, SubtextStyle.Render(strings.Repeat("─", max(m.width-2, 0))))

	if !m.ready {
		m.initViewport()
	}
	sections = append(sections, m.viewport.View())
	sections = append(sections, SubtextStyle.Render(strings.Repeat("─", max(m.width-2, 0))))

	switch {
	case m.machine.Pending():
		sections = append(sections, fmt.Sprintf("  %s typing...", m.spinner.View()))
	case m.notice != "":
		sections = append(sections, ErrorStyle.Render("  "+m.notice))
	default:
		sections = append(sections, "  "+m.input.View())
	}
	sections = append(sections, SubtextStyle.Render("  ↑/↓ move · enter select · 1-9 pick · tab switch · q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the model dimensions.
func (m *ChatModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = w - 6
	m.ready = false
	m.initViewport()
}

// Focus routes option keys to the chat.
func (m *ChatModel) Focus() { m.focused = true }

// Blur stops the chat from reacting to option keys.
func (m *ChatModel) Blur() { m.focused = false }

// IsWaiting returns whether the assistant is typing (for testing).
func (m ChatModel) IsWaiting() bool { return m.machine.Pending() }

// MessageCount returns the number of messages (for testing).
func (m ChatModel) MessageCount() int { return m.machine.Snapshot().Len() }

// Snapshot exposes the conversation state (for testing).
func (m ChatModel) Snapshot() conversation.Snapshot { return m.machine.Snapshot() }

func (m ChatModel) choose(idx int) (ChatModel, tea.Cmd) {
	snap := m.machine.Snapshot()
	active, ok := snap.ActiveMessage()
	if !ok {
		return m, nil
	}

	ticket, err := m.machine.Select(active.ID, idx)
	if err != nil {
		if !errors.Is(err, conversation.ErrBusy) && !errors.Is(err, conversation.ErrUnknownOption) {
			m.notice = err.Error()
		}
		return m, nil
	}
	m.cursor = idx
	m.notice = ""
	m.refresh()
	return m, tea.Tick(m.services.debounce(), func(time.Time) tea.Msg { return debounceMsg{ticket: ticket} })
}

func (m *ChatModel) moveCursor(delta int) {
	active, ok := m.machine.Snapshot().ActiveMessage()
	if !ok || len(active.Options) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(active.Options)) % len(active.Options)
	m.refresh()
}

func (m *ChatModel) initViewport() {
	vpHeight := m.height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	vpWidth := m.width - 2
	if vpWidth < 10 {
		vpWidth = 10
	}
	m.viewport = viewport.New(vpWidth, vpHeight)
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
	m.ready = true
}

// refresh re-renders the log and keeps the newest message in view.
func (m *ChatModel) refresh() {
	if !m.ready {
		m.initViewport()
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m ChatModel) renderMessages() string {
	snap := m.machine.Snapshot()
	var blocks []string
	for _, msg := range snap.Messages {
		clickable := len(msg.Options) > 0 && snap.Clickable(msg.ID) && msg.ID == snap.ActiveID
		cursor := -1
		if clickable {
			cursor = m.cursor
		}
		blocks = append(blocks, RenderMessage(msg, clickable, cursor), "")
	}

	if snap.Pending {
		blocks = append(blocks, fmt.Sprintf("  %s  %s",
			SubtextStyle.Render(time.Now().Format("15:04")),
			SubtextStyle.Render("Assistant is typing..."),
		))
	}
	return strings.Join(blocks, "\n")
}
