package tui

import (
	"fmt"
	"strings"

	"stock-assistant/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MarketsModel is a read-only board of every exchange and its quotes.
type MarketsModel struct {
	services  Services
	exchanges []domain.Exchange
	selected  int
	err       error
	width     int
	height    int
}

// NewMarketsModel creates a new markets board.
func NewMarketsModel(svc Services) MarketsModel {
	m := MarketsModel{services: svc}
	if svc.Catalog == nil {
		m.err = fmt.Errorf("no dataset loaded")
		return m
	}
	if err := svc.Catalog.Validate(); err != nil {
		m.err = err
		return m
	}
	m.exchanges = svc.Catalog.Exchanges()
	return m
}

// Init has nothing to fetch; the dataset is static.
func (m MarketsModel) Init() tea.Cmd { return nil }

// Update handles exchange navigation.
func (m MarketsModel) Update(msg tea.Msg) (MarketsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.exchanges) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, DefaultKeyMap.PrevExchange), key.Matches(keyMsg, DefaultKeyMap.Up):
		m.selected = (m.selected - 1 + len(m.exchanges)) % len(m.exchanges)
	case key.Matches(keyMsg, DefaultKeyMap.NextExchange), key.Matches(keyMsg, DefaultKeyMap.Down):
		m.selected = (m.selected + 1) % len(m.exchanges)
	}
	return m, nil
}

// View renders the exchange list beside the selected exchange's quotes.
func (m MarketsModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if len(m.exchanges) == 0 {
		return SubtextStyle.Render("No exchanges available")
	}

	listWidth := m.width/3 - 2
	if listWidth < 24 {
		listWidth = 24
	}
	boardWidth := m.width - listWidth - 4
	if boardWidth < 54 {
		boardWidth = 54
	}

	list := BorderStyle.Width(listWidth).Render(m.renderExchangeList())
	board := ActiveBorderStyle.Width(boardWidth).Render(m.renderBoard())
	help := SubtextStyle.Render("  ←/→ switch exchange · tab switch · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, list, board),
		help,
	)
}

// SetSize updates the model dimensions.
func (m *MarketsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Selected returns the highlighted exchange (for testing).
func (m MarketsModel) Selected() (domain.Exchange, bool) {
	if len(m.exchanges) == 0 {
		return domain.Exchange{}, false
	}
	return m.exchanges[m.selected], true
}

func (m MarketsModel) renderExchangeList() string {
	lines := []string{HeaderStyle.Render("  Exchanges")}
	for i, ex := range m.exchanges {
		label := fmt.Sprintf("%s (%d)", ex.Name, len(ex.Stocks))
		if i == m.selected {
			lines = append(lines, SelectedOptionStyle.Render("› "+label))
		} else {
			lines = append(lines, OptionStyle.Render("  "+label))
		}
	}
	return strings.Join(lines, "\n")
}

func (m MarketsModel) renderBoard() string {
	ex := m.exchanges[m.selected]
	lines := []string{
		HeaderStyle.Render(fmt.Sprintf("  %s (%s)", ex.Name, ex.Code)),
		SubtextStyle.Render("  Code   Name                                    Price"),
		SubtextStyle.Render("  " + strings.Repeat("─", 52)),
	}
	for _, s := range ex.Stocks {
		lines = append(lines, "  "+FormatStockRow(s))
	}
	if len(ex.Stocks) == 0 {
		lines = append(lines, SubtextStyle.Render("  No stocks listed"))
	}
	return strings.Join(lines, "\n")
}
