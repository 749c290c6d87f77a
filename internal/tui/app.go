package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab represents a screen tab in the TUI.
type Tab int

const (
	TabChat Tab = iota
	TabMarkets
)

var tabNames = []string{"Chat", "Markets"}

// chromeHeight is the rows taken by the tab bar and the help footer.
const chromeHeight = 3

// AppModel is the root model: the conversation on one tab, the price board
// on the other, and a key help footer.
type AppModel struct {
	services  Services
	activeTab Tab
	chat      ChatModel
	markets   MarketsModel
	help      help.Model
	width     int
	height    int
	quitting  bool
}

// NewAppModel creates the root model with the chat tab focused.
func NewAppModel(svc Services) AppModel {
	return AppModel{
		services:  svc,
		activeTab: TabChat,
		chat:      NewChatModel(svc),
		markets:   NewMarketsModel(svc),
		help:      help.New(),
	}
}

// Init initializes the chat and markets tabs.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.chat.Init(),
		m.markets.Init(),
	)
}

// Update routes keys to the active tab. Conversation timers always reach
// the chat so a reply lands even while the board is shown.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.propagateSize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, DefaultKeyMap.Tab):
			m.switchTab(Tab((int(m.activeTab) + 1) % len(tabNames)))
			return m, nil

		case key.Matches(msg, DefaultKeyMap.ShiftTab):
			next := int(m.activeTab) - 1
			if next < 0 {
				next = len(tabNames) - 1
			}
			m.switchTab(Tab(next))
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch msg.(type) {
	case debounceMsg, typingDoneMsg:
		m.chat, cmd = m.chat.Update(msg)

	default:
		switch m.activeTab {
		case TabChat:
			m.chat, cmd = m.chat.Update(msg)
		case TabMarkets:
			m.markets, cmd = m.markets.Update(msg)
		}
	}

	return m, cmd
}

// View renders the tab bar, the active tab and the help footer.
func (m AppModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	tabBar := m.renderTabBar()
	footer := m.help.View(DefaultKeyMap.helpFor(m.activeTab))

	var content string
	switch m.activeTab {
	case TabChat:
		content = m.chat.View()
	case TabMarkets:
		content = m.markets.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, footer)
}

// SetSize updates the terminal dimensions.
func (m *AppModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.propagateSize()
}

// ActiveTab returns the currently active tab.
func (m AppModel) ActiveTab() Tab { return m.activeTab }

func (m *AppModel) switchTab(tab Tab) {
	if tab == TabChat && m.activeTab != TabChat {
		m.chat.Focus()
	} else if m.activeTab == TabChat && tab != TabChat {
		m.chat.Blur()
	}
	m.activeTab = tab
}

func (m *AppModel) propagateSize() {
	contentHeight := m.height - chromeHeight
	if contentHeight < 0 {
		contentHeight = 0
	}
	m.help.Width = m.width
	m.chat.SetSize(m.width, contentHeight)
	m.markets.SetSize(m.width, contentHeight)
}

func (m AppModel) renderTabBar() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
