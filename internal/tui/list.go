package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-church-sync/models"
)

// listPaneWidth is the width of the collection list, padding included.
const listPaneWidth = 28

// listModel is the collection list. It keeps the last snapshot seen of each
// collection so the view never reads the store.
type listModel struct {
	collections []models.Collection
	snapshots   map[string]models.Snapshot
	idx         int
}

func newListModel() listModel {
	return listModel{
		collections: models.Collections,
		snapshots:   make(map[string]models.Snapshot, len(models.Collections)),
	}
}

func (m *listModel) set(collection string, snapshot models.Snapshot) {
	m.snapshots[collection] = snapshot
}

// move shifts the cursor by delta, clamped to the list.
func (m *listModel) move(delta int) {
	m.idx = min(max(m.idx+delta, 0), len(m.collections)-1)
}

func (m listModel) selected() models.Collection {
	return m.collections[m.idx]
}

func (m listModel) View() string {
	var b strings.Builder
	for i, c := range m.collections {
		line := fmt.Sprintf("%-14s %4d", c.ExportName, len(m.snapshots[c.Name]))
		if i == m.idx {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
