package store

import (
	"context"

	"github.com/MKhiriev/go-church-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SnapshotRepository stores the shared remote copy of every collection, one
// snapshot per remote path (e.g. "churchData/members").
type SnapshotRepository interface {
	// Get returns the snapshot stored under path or [ErrSnapshotNotFound].
	Get(ctx context.Context, path string) (models.Snapshot, error)
	// Put replaces the snapshot stored under path.
	Put(ctx context.Context, path string, snapshot models.Snapshot) error
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
