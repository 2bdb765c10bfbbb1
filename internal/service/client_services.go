package service

import (
	"github.com/MKhiriev/go-church-sync/internal/adapter"
	"github.com/MKhiriev/go-church-sync/internal/broadcast"
	"github.com/MKhiriev/go-church-sync/internal/connection"
	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/store"
)

type ClientServices struct {
	Machine *connection.Machine
	Store   CollectionStore
}

func NewClientServices(
	storages *store.ClientStorages,
	remote adapter.RemoteClient,
	machine *connection.Machine,
	channel broadcast.Channel,
	logger *logger.Logger,
) *ClientServices {
	return &ClientServices{
		Machine: machine,
		Store:   NewCollectionStore(storages.Cache, remote, machine, channel, logger),
	}
}
