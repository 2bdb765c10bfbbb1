package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	listPaneStyle   = lipgloss.NewStyle().Width(listPaneWidth).PaddingRight(2)
	selectedStyle   = lipgloss.NewStyle().Bold(true)
	fallbackStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	badgeBaseStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	badgeConnecting = badgeBaseStyle.Foreground(lipgloss.Color("11"))
	badgeOnline     = badgeBaseStyle.Foreground(lipgloss.Color("10"))
	badgeSyncing    = badgeBaseStyle.Foreground(lipgloss.Color("14"))
	badgeOffline    = badgeBaseStyle.Foreground(lipgloss.Color("9"))
)
