package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// viewLoading renders the screen shown while Home loads and connects
func (m Model) viewLoading() string {
	title := titleStyle.Render("DOCCHAT")
	subtitle := subtitleStyle.Render("Loading chat and document...")

	// Animated loading dots
	dots := strings.Repeat(".", m.home.loadingDots)
	spinner := spinnerStyle.Render([]string{"◐", "◓", "◑", "◒"}[m.home.loadingDots%4])

	loadingText := lipgloss.NewStyle().
		Foreground(mutedColor).
		Render("Connecting" + dots)

	mainContent := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		subtitle,
		"\n\n",
		spinner+" "+loadingText,
	)

	serverURL := ""
	if m.home.client != nil {
		serverURL = m.home.client.ServerURL()
	}
	instructions := instructionStyle.Render(
		mutedStyle.Render("Connecting to ") + highlightStyle.Render(serverURL) + "  •  " +
			mutedStyle.Render("CTRL+C to quit"))

	centeredMain := lipgloss.Place(m.width, m.height-5, lipgloss.Center, lipgloss.Center, mainContent)
	bottomInstructions := lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Bottom, instructions)

	return centeredMain + "\n" + bottomInstructions
}
