package service

import (
	"context"

	"github.com/MKhiriev/go-church-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=SnapshotServiceWrapper

// SnapshotService is the remote store: one snapshot per collection, with
// write fan-out to stream subscribers.
type SnapshotService interface {
	// Get returns the stored snapshot of collection or an error wrapping
	// store.ErrSnapshotNotFound.
	Get(ctx context.Context, collection string) (models.Snapshot, error)

	// Put stores snapshot as the whole value of collection and hands it to
	// every subscriber of collection.
	Put(ctx context.Context, collection string, snapshot models.Snapshot) error

	// Subscribe registers fn for every later Put of collection. fn is called
	// synchronously by Put and must not block.
	Subscribe(ctx context.Context, collection string, fn func(models.Snapshot)) (unsubscribe func(), err error)
}

// SnapshotServiceWrapper decorates a SnapshotService, e.g. with validation.
type SnapshotServiceWrapper interface {
	Wrap(SnapshotService) SnapshotService
}

// AuthService issues and verifies the device bearer tokens of the remote
// store.
type AuthService interface {
	CreateToken(ctx context.Context, device string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
