package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - Earthy tones (lighter for dark backgrounds)
var (
	primaryColor   = lipgloss.Color("#E8C4A0") // Light warm beige
	secondaryColor = lipgloss.Color("#7EBB81") // Light forest green
	accentColor    = lipgloss.Color("#A8C9A4") // Soft sage green
	successColor   = lipgloss.Color("#B5D99C") // Bright sage
	mutedColor     = lipgloss.Color("#B8A890") // Light taupe
	fgColor        = lipgloss.Color("#F5F3ED") // Warm white
	ownBubbleColor = lipgloss.Color("#3E6A8A") // Slate blue
	dangerColor    = lipgloss.Color("#E07B7B")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true).
			Align(lipgloss.Center)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accentColor).
			Padding(0, 1).
			Width(36)

	focusedInputBoxStyle = inputBoxStyle.
				BorderForeground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			MarginTop(1)

	highlightStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	instructionStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true).
				Margin(1, 0)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)

	focusedPanelStyle = panelStyle.
				BorderForeground(primaryColor)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Align(lipgloss.Center)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dangerColor).
			Foreground(dangerColor).
			Padding(0, 2)

	// Chat bubbles
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2B2B2B")).
			Background(lipgloss.Color("#D0D0D0")).
			Bold(true).
			Padding(0, 1)

	ownBubbleStyle = lipgloss.NewStyle().
			Foreground(fgColor).
			Background(ownBubbleColor).
			Padding(0, 1)

	otherBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2B2B2B")).
				Background(lipgloss.Color("#D8D4CA")).
				Padding(0, 1)

	systemBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#D0D0D0")).
				Background(lipgloss.Color("#555555")).
				Padding(0, 1)

	authorStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Faint(true)

	// Status bar
	onlineStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)
)
