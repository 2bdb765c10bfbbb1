package client

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/tui"
)

var _ Client = (*App)(nil)

// flushTimeout bounds how long pending pushes may finish on exit.
const flushTimeout = 5 * time.Second

type App struct {
	engine *Engine
	ui     *tui.TUI
	logger *logger.Logger
}

func NewApp(engine *Engine, ui *tui.TUI, log *logger.Logger) (*App, error) {
	if engine == nil || ui == nil {
		return nil, errAppNotConfigured
	}
	return &App{engine: engine, ui: ui, logger: log.Component("app")}, nil
}

// Run starts the engine and its workers, shows the console and shuts
// everything down when the operator quits or a signal arrives.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.engine.Start(ctx); err != nil {
		a.engine.Close()
		return err
	}

	workersCtx, cancelWorkers := context.WithCancel(ctx)
	workersDone := make(chan error, 1)
	go func() {
		workersDone <- a.engine.Workers.Run(workersCtx)
	}()

	uiErr := a.ui.Run(ctx)

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), flushTimeout)
	if err := a.engine.Services.Store.Flush(flushCtx); err != nil {
		a.logger.Warn().Err(err).Msg("pending pushes abandoned on exit")
	}
	cancelFlush()

	cancelWorkers()
	workersErr := <-workersDone

	return errors.Join(uiErr, workersErr, a.engine.Close())
}
