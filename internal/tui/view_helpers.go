package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const dividerWidth = 72

var dividerStyle = lipgloss.NewStyle().Faint(true)

// renderPage lays out a screen: title, divider, body, divider and the hot key
// line. An empty body renders as a single dash.
func renderPage(title, body, hotKeys string) string {
	divider := dividerStyle.Render(strings.Repeat("─", dividerWidth))

	if strings.TrimSpace(body) == "" {
		body = "-"
	}

	footer := "ctrl+c: sair"
	if strings.TrimSpace(hotKeys) != "" {
		footer = hotKeys + "\n" + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		divider,
		"",
		body,
		"",
		divider,
		footer,
	)
}
