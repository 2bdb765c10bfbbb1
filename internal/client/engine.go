package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-church-sync/internal/adapter"
	"github.com/MKhiriev/go-church-sync/internal/broadcast"
	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/connection"
	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/service"
	"github.com/MKhiriev/go-church-sync/internal/store"
	"github.com/MKhiriev/go-church-sync/internal/workers"
)

// Engine is the wired sync engine of one process: cache, remote client,
// broadcast channel, connection machine and collection store. The console and
// the ctl share it.
type Engine struct {
	Services *service.ClientServices
	Workers  *workers.Workers

	storages *store.ClientStorages
	channel  broadcast.Channel
	logger   *logger.Logger
}

// NewEngine wires the engine described by cfg. Nothing runs until Start.
func NewEngine(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*Engine, error) {
	storages, err := store.NewClientStorages(ctx, cfg.CacheDSN, cfg.Namespace, log)
	if err != nil {
		return nil, fmt.Errorf("create client storages: %w", err)
	}

	bg := workers.NewWorkers(log)

	var remote adapter.RemoteClient
	if cfg.Adapter.Memory {
		memory := adapter.NewMemoryRemote(log)
		memory.SetConnected(true)
		remote = memory
	} else {
		networked, err := adapter.NewRemoteClient(cfg.Adapter, log)
		if err != nil {
			storages.Close()
			return nil, fmt.Errorf("create remote client: %w", err)
		}
		bg.Add(networked)
		remote = networked
	}

	channel := broadcast.New(cfg.Broadcast, log)
	machine := connection.NewMachine(cfg.Sync, log)

	return &Engine{
		Services: service.NewClientServices(storages, remote, machine, channel, log),
		Workers:  bg,
		storages: storages,
		channel:  channel,
		logger:   log,
	}, nil
}

// Start arms the connection machine and loads the collection store.
func (e *Engine) Start(ctx context.Context) error {
	e.Services.Machine.Start()
	if err := e.Services.Store.Start(ctx); err != nil {
		return fmt.Errorf("start collection store: %w", err)
	}
	return nil
}

// Close stops the store, the machine and the channel and releases the cache.
func (e *Engine) Close() error {
	e.Services.Store.Close()
	e.Services.Machine.Dispose()

	err := errors.Join(e.channel.Close(), e.storages.Close())
	if err != nil {
		e.logger.Err(err).Msg("engine closed with errors")
	}
	return err
}

// WaitOnline blocks until the connection machine is online or ctx is done.
func (e *Engine) WaitOnline(ctx context.Context) error {
	online := make(chan struct{}, 1)
	stop := e.Services.Machine.Watch(func(s connection.State) {
		if s == connection.Online {
			select {
			case online <- struct{}{}:
			default:
			}
		}
	})
	defer stop()

	if e.Services.Machine.State() == connection.Online {
		return nil
	}

	select {
	case <-online:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
