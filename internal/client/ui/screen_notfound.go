package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) updateNotFound(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "enter":
		return m.navigate(RouteLogin)
	}
	return m, nil
}

func (m Model) viewNotFound() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		errorStyle.Render("404"),
		subtitleStyle.Render("Page not found"),
	)
	instructions := instructionStyle.Render(
		"Press " + highlightStyle.Render("ENTER") + " to go to login  •  " +
			mutedStyle.Render("ESC to quit"))

	centeredMain := lipgloss.Place(m.width, m.height-5, lipgloss.Center, lipgloss.Center, content)
	bottomInstructions := lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Bottom, instructions)
	return centeredMain + "\n" + bottomInstructions
}
