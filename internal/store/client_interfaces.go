package store

import (
	"context"

	"github.com/MKhiriev/go-church-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalCache is the durable, device-local copy of every collection. One
// JSON array is kept per collection under the key "<namespace>_<collection>".
type LocalCache interface {
	// Save persists the whole snapshot of collection synchronously.
	Save(ctx context.Context, collection string, snapshot models.Snapshot) error
	// Load returns the cached snapshot. Missing, unreadable or malformed
	// entries are reported as absent (found == false), never as errors.
	Load(ctx context.Context, collection string) (snapshot models.Snapshot, found bool)
	// SaveAll persists several collections in one transaction.
	SaveAll(ctx context.Context, snapshots map[string]models.Snapshot) error
	// LoadAll returns every decodable cached collection keyed by name.
	LoadAll(ctx context.Context) map[string]models.Snapshot
}
