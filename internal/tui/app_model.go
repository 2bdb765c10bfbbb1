package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-church-sync/internal/connection"
	"github.com/MKhiriev/go-church-sync/internal/service"
	"github.com/MKhiriev/go-church-sync/models"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

type promptKind int

const (
	promptNone promptKind = iota
	promptExport
	promptImport
)

// chromeHeight is the number of lines around the panes: header, banner,
// dividers, status and hot keys.
const chromeHeight = 10

type appModel struct {
	ctx       context.Context
	store     service.CollectionStore
	machine   *connection.Machine
	buildInfo models.AppBuildInfo

	list     listModel
	viewport viewport.Model
	spinner  spinner.Model

	state    connection.State
	fallback bool

	prompt promptKind
	input  textinput.Model

	showConfirm   bool
	confirm       confirmModel
	pendingImport string

	showError    bool
	errorOverlay errorOverlayModel

	showBuildInfo bool

	status string
}

func newAppModel(ctx context.Context, services *service.ClientServices, buildInfo models.AppBuildInfo) appModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	in := textinput.New()
	in.CharLimit = 512
	in.Width = 60

	m := appModel{
		ctx:       ctx,
		store:     services.Store,
		machine:   services.Machine,
		buildInfo: buildInfo,
		list:      newListModel(),
		viewport:  viewport.New(80, 20),
		spinner:   s,
		state:     services.Machine.State(),
		fallback:  services.Machine.FallbackAvailable(),
		input:     in,
	}
	m.reloadAll()
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.animating() {
		return m.spinner.Tick
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.WindowSizeMsg:
		m.viewport.Width = max(msg.Width-listPaneWidth-6, 20)
		m.viewport.Height = max(msg.Height-chromeHeight, 5)
		return m, nil
	case collectionChangedMsg:
		m.list.set(msg.collection, m.store.Get(msg.collection))
		if msg.collection == m.list.selected().Name {
			m.refreshViewport()
		}
		return m, nil
	case stateChangedMsg:
		wasAnimating := m.animating()
		m.state = msg.state
		if m.state != connection.Connecting {
			m.fallback = false
		}
		if m.animating() && !wasAnimating {
			return m, m.spinner.Tick
		}
		return m, nil
	case fallbackAvailableMsg:
		m.fallback = m.state == connection.Connecting
		return m, nil
	case spinner.TickMsg:
		if !m.animating() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case offlineDoneMsg:
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		m.fallback = false
		return m, m.setStatus("Trabalhando offline. As alterações ficam neste dispositivo.")
	case exportDoneMsg:
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		return m, m.setStatus("Backup salvo em " + msg.path)
	case importDoneMsg:
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		m.reloadAll()
		return m, m.setStatus("Backup importado de " + msg.path)
	case copiedMsg:
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		return m, m.setStatus("Backup copiado para a área de transferência")
	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	if m.prompt != promptNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showError {
		if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
			m.showError = false
			m.errorOverlay.message = ""
		}
		return m, nil
	}
	if m.showConfirm {
		if key.Matches(msg, keys.yes) {
			m.showConfirm = false
			path := m.pendingImport
			m.pendingImport = ""
			return m, m.cmdImport(path)
		}
		if key.Matches(msg, keys.no) {
			m.showConfirm = false
			m.pendingImport = ""
		}
		return m, nil
	}
	if m.showBuildInfo {
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.info) {
			m.showBuildInfo = false
		}
		return m, nil
	}
	if m.prompt != promptNone {
		return m.updatePrompt(msg)
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		m.list.move(-1)
		m.refreshViewport()
	case key.Matches(msg, keys.down):
		m.list.move(1)
		m.refreshViewport()
	case key.Matches(msg, keys.pageUp), key.Matches(msg, keys.pageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case key.Matches(msg, keys.offline):
		if m.fallback {
			return m, m.cmdGoOffline()
		}
	case key.Matches(msg, keys.reload):
		m.reloadAll()
		return m, m.setStatus("Coleções recarregadas")
	case key.Matches(msg, keys.export):
		return m, m.openPrompt(promptExport, defaultExportPath(time.Now()))
	case key.Matches(msg, keys.importB):
		return m, m.openPrompt(promptImport, "")
	case key.Matches(msg, keys.copy):
		return m, m.cmdCopyExport()
	case key.Matches(msg, keys.info):
		m.showBuildInfo = true
	}

	return m, nil
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, keys.enter):
		path := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.closePrompt()
		if path == "" {
			return m, nil
		}
		if kind == promptExport {
			return m, m.cmdExport(path)
		}
		m.pendingImport = path
		m.confirm.message = path
		m.showConfirm = true
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) View() string {
	if m.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}

	title := titleStyle.Render("IEADBAN · Sincronização") + "  " + renderBadge(m.state, m.spinner)

	var b strings.Builder
	if m.fallback {
		b.WriteString(fallbackStyle.Render("O servidor não respondeu. Pressione o para continuar offline."))
		b.WriteString("\n\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		listPaneStyle.Render(m.list.View()),
		m.viewport.View(),
	))

	switch m.prompt {
	case promptExport:
		b.WriteString("\n\nSalvar backup em:\n" + m.input.View())
	case promptImport:
		b.WriteString("\n\nImportar backup de:\n" + m.input.View())
	}
	if m.status != "" {
		b.WriteString("\n\n" + m.status)
	}

	body := renderPage(title, b.String(), helpStyle.Render(m.hotKeys()))
	if m.showConfirm {
		body += "\n\n" + m.confirm.View()
	}
	if m.showError {
		body += "\n\n" + m.errorOverlay.View()
	}

	return appStyle.Render(body)
}

func (m appModel) hotKeys() string {
	if m.prompt != promptNone {
		return "enter: confirmar  esc: cancelar"
	}
	hk := "↑/↓: coleção  pgup/pgdn: rolar  r: recarregar  e: exportar  i: importar  c: copiar  v: versão  q: sair"
	if m.fallback {
		hk = "o: offline  " + hk
	}
	return hk
}

// animating reports whether the badge shows a spinner.
func (m appModel) animating() bool {
	return m.state == connection.Connecting || m.state == connection.Syncing
}

func (m *appModel) reloadAll() {
	for _, c := range models.Collections {
		m.list.set(c.Name, m.store.Get(c.Name))
	}
	m.refreshViewport()
}

func (m *appModel) refreshViewport() {
	c := m.list.selected()
	m.viewport.SetContent(renderSnapshot(m.list.snapshots[c.Name]))
	m.viewport.GotoTop()
}

func (m *appModel) openPrompt(kind promptKind, value string) tea.Cmd {
	m.prompt = kind
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *appModel) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *appModel) showErrorf(message string) {
	m.showError = true
	m.errorOverlay.message = message
}

func (m *appModel) setStatus(status string) tea.Cmd {
	m.status = status
	return cmdClearStatus()
}

func (m appModel) cmdGoOffline() tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		return offlineDoneMsg{err: machine.GoOffline()}
	}
}

func (m appModel) cmdExport(path string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		data, err := store.Export(ctx)
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		if err = os.WriteFile(path, data, 0o600); err != nil {
			return exportDoneMsg{path: path, err: fmt.Errorf("write backup: %w", err)}
		}
		return exportDoneMsg{path: path}
	}
}

func (m appModel) cmdImport(path string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return importDoneMsg{path: path, err: fmt.Errorf("read backup: %w", err)}
		}
		return importDoneMsg{path: path, err: store.Import(ctx, data)}
	}
}

func (m appModel) cmdCopyExport() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		data, err := store.Export(ctx)
		if err != nil {
			return copiedMsg{err: err}
		}
		if err = writeClipboard(string(data)); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func defaultExportPath(now time.Time) string {
	return "ieadban-backup-" + now.Format("2006-01-02") + ".json"
}
