// Package tui is the bubbletea console of go-church-sync: the collection
// list, the connection badge, the offline fallback prompt and backup
// export and import.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-church-sync/internal/connection"
	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/service"
	"github.com/MKhiriev/go-church-sync/models"
)

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, log *logger.Logger) (*TUI, error) {
	if services == nil || services.Store == nil || services.Machine == nil {
		return nil, ErrNoServices
	}
	return &TUI{services: services, buildInfo: buildInfo, logger: log.Component("tui")}, nil
}

// Run shows the console until the operator quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	model := newAppModel(ctx, t.services, t.buildInfo)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	stop := t.bridge(p)
	defer stop()

	t.logger.Info().Msg("console started")
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	t.logger.Info().Err(err).Msg("console stopped")
	return err
}

type sender interface {
	Send(msg tea.Msg)
}

// bridge forwards engine events to the program and returns the func that
// stops forwarding.
func (t *TUI) bridge(p sender) func() {
	stopStore := t.services.Store.Watch(func(collection string) {
		p.Send(collectionChangedMsg{collection: collection})
	})
	stopMachine := t.services.Machine.Watch(func(state connection.State) {
		p.Send(stateChangedMsg{state: state})
	})
	t.services.Machine.OnFallbackAvailable(func() {
		p.Send(fallbackAvailableMsg{})
	})

	return func() {
		stopStore()
		stopMachine()
		t.services.Machine.OnFallbackAvailable(nil)
	}
}
