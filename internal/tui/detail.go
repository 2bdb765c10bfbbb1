package tui

import (
	"bytes"
	"encoding/json"

	"github.com/MKhiriev/go-church-sync/models"
)

// renderSnapshot formats snapshot as indented JSON for the viewport.
func renderSnapshot(snapshot models.Snapshot) string {
	if len(snapshot) == 0 {
		return helpStyle.Render("Nenhum registro")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return errorStyle.Render(err.Error())
	}

	var out bytes.Buffer
	if err = json.Indent(&out, data, "", "  "); err != nil {
		return string(data)
	}
	return out.String()
}
