package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	primaryColor = lipgloss.Color("#7AA2F7") // blue
	accentColor  = lipgloss.Color("#9ECE6A") // green
	warningColor = lipgloss.Color("#E0AF68") // amber
	errorColor   = lipgloss.Color("#F7768E") // red
	mutedColor   = lipgloss.Color("#565F89") // gray
	textColor    = lipgloss.Color("#C0CAF5") // light text
	dimTextColor = lipgloss.Color("#737AA2") // dim text

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Italic(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(mutedColor).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(textColor)

	pathStyle = lipgloss.NewStyle().
			Foreground(textColor)

	countStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2).
			MarginTop(1)

	highlightBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 2).
				MarginTop(1)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Padding(0, 2).
			MarginTop(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	ruleKindStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Width(8)

	confirmPromptStyle = lipgloss.NewStyle().
				Foreground(warningColor).
				Bold(true).
				MarginTop(1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			MarginTop(1)

	viewportStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	// Icon characters
	iconFolder  = "▸"
	iconFile    = "·"
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "⚠"
	iconToggle  = "⏱"
)
