package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/docchat/internal/workspace"
)

// systemAuthor is the author name the backend uses for its own lines
const systemAuthor = "system"

// initials returns the first two letters of a name, upper-cased
func initials(name string) string {
	r := []rune(name)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// renderChatMessage renders one message for a panel of the given width.
// Own messages sit on the right, system lines in the middle, everyone else
// on the left with their name.
func renderChatMessage(msg workspace.ChatMessage, self string, width int) string {
	if width < 10 {
		width = 10
	}
	bubbleWidth := width * 3 / 4

	switch {
	case msg.Author == self:
		bubble := ownBubbleStyle.MaxWidth(bubbleWidth).Render(msg.Text)
		row := lipgloss.JoinHorizontal(lipgloss.Top, bubble, " ", badgeStyle.Render(initials(msg.Author)))
		stamp := timestampStyle.Render(msg.Timestamp)
		block := lipgloss.JoinVertical(lipgloss.Right, row, stamp)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)

	case msg.Author == systemAuthor:
		bubble := systemBubbleStyle.MaxWidth(bubbleWidth).Render(msg.Text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, bubble)

	default:
		name := authorStyle.Render("~" + msg.Author)
		bubble := otherBubbleStyle.MaxWidth(bubbleWidth).Render(msg.Text)
		body := lipgloss.JoinVertical(lipgloss.Left, name, bubble, timestampStyle.Render(msg.Timestamp))
		return lipgloss.JoinHorizontal(lipgloss.Top, badgeStyle.Render(initials(msg.Author)), " ", body)
	}
}

// renderChat renders the whole chat list, oldest first
func renderChat(msgs []workspace.ChatMessage, self string, width int) string {
	if len(msgs) == 0 {
		return mutedStyle.Render("No messages yet")
	}

	lines := make([]string, len(msgs))
	for i, msg := range msgs {
		lines[i] = renderChatMessage(msg, self, width)
	}
	return strings.Join(lines, "\n")
}
