package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Tab bar styles
	TabStyle       = lipgloss.NewStyle().Padding(0, 2)
	ActiveTabStyle = TabStyle.Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
	InactiveTabStyle = TabStyle.
				Foreground(lipgloss.Color("#888888"))

	// Price colors
	PriceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	PriceMissingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	// General styles
	HeaderStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	SubtextStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	BorderStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555"))
	ActiveBorderStyle = BorderStyle.BorderForeground(lipgloss.Color("#7D56F4"))
	ErrorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	SpinnerColor      = lipgloss.Color("#7D56F4")

	// Chat styles
	UserMsgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	AssistantMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))

	// Option buttons
	OptionStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	SelectedOptionStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4"))
	DisabledOptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)
