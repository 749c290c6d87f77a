package tui

import (
	"fmt"
	"strings"

	"stock-assistant/internal/conversation"
	"stock-assistant/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

const messageIndent = "         "

type optionState int

const (
	optionDisabled optionState = iota
	optionEnabled
	optionSelected
)

// RenderMessage renders one conversation entry with its option buttons.
// cursor is the highlighted option, or -1.
func RenderMessage(msg domain.Message, clickable bool, cursor int) string {
	timestamp := SubtextStyle.Render(msg.CreatedAt.Format("15:04"))

	var lines []string
	switch msg.Origin {
	case domain.OriginUser:
		lines = append(lines, fmt.Sprintf("  %s  %s %s",
			timestamp,
			UserMsgStyle.Render("You:"),
			msg.Text,
		))
	default:
		lines = append(lines, fmt.Sprintf("  %s  %s",
			timestamp,
			AssistantMsgStyle.Render("Assistant:"),
		))
		for _, line := range strings.Split(msg.Text, "\n") {
			lines = append(lines, messageIndent+strings.TrimRight(line, " "))
		}
	}

	for i, opt := range msg.Options {
		state := optionDisabled
		if clickable {
			state = optionEnabled
			if i == cursor {
				state = optionSelected
			}
		}
		lines = append(lines, messageIndent+RenderOption(i, opt.Label, state))
	}
	return strings.Join(lines, "\n")
}

// RenderOption renders a numbered option button.
func RenderOption(idx int, label string, state optionState) string {
	text := fmt.Sprintf(" %d. %s ", idx+1, label)
	switch state {
	case optionSelected:
		return SelectedOptionStyle.Render("›" + text)
	case optionEnabled:
		return OptionStyle.Render(" " + text)
	default:
		return DisabledOptionStyle.Render(" " + text)
	}
}

// FormatStockPrice renders a stock's quote, or n/a when it has none.
func FormatStockPrice(s domain.Stock) string {
	if !s.HasPrice() {
		return PriceMissingStyle.Render("n/a")
	}
	return PriceStyle.Render(conversation.FormatPrice(s.Price.Decimal))
}

// FormatStockRow renders a stock as a single board line.
func FormatStockRow(s domain.Stock) string {
	price := lipgloss.NewStyle().Width(14).Align(lipgloss.Right).Render(FormatStockPrice(s))
	return fmt.Sprintf("%-6s %-30s %s", s.Code, truncate(s.Name, 30), price)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
