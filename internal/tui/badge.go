package tui

import (
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/MKhiriev/go-church-sync/internal/connection"
)

// renderBadge shows the connection state. Transitional states carry the
// spinner.
func renderBadge(state connection.State, s spinner.Model) string {
	switch state {
	case connection.Connecting:
		return badgeConnecting.Render(s.View() + " conectando")
	case connection.Online:
		return badgeOnline.Render("● online")
	case connection.Syncing:
		return badgeSyncing.Render(s.View() + " sincronizando")
	case connection.Offline:
		return badgeOffline.Render("○ offline")
	default:
		return badgeBaseStyle.Render(state.String())
	}
}
