package service

import (
	"context"

	"github.com/MKhiriev/go-church-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// CollectionStore is the local-first orchestrator of every collection. Reads
// are served from memory and never block on I/O; Replace is the single
// mutation entry point.
type CollectionStore interface {
	// Start loads every collection from the local cache, then subscribes each
	// one to the remote store and starts listening to sibling broadcasts.
	Start(ctx context.Context) error

	// Get returns the in-memory snapshot of collection. It never returns nil:
	// collections without data yield their seed or an empty snapshot.
	Get(collection string) models.Snapshot

	// Replace swaps the whole collection. Memory is updated first, then the
	// cache, then a push is attempted if the connection state allows it, and
	// finally siblings are told to re-read the cache. Only an unknown
	// collection or an invalid snapshot is reported as an error.
	Replace(ctx context.Context, collection string, snapshot models.Snapshot) error

	// Watch registers fn to be called with the collection name after every
	// change of its in-memory value.
	Watch(fn func(collection string)) (unsubscribe func())

	// Export encodes every collection as one JSON object keyed by export name.
	Export(ctx context.Context) ([]byte, error)

	// Import validates a backup produced by Export, writes every collection
	// it names in one cache transaction and then applies them. Nothing is
	// applied when any part is malformed.
	Import(ctx context.Context, data []byte) error

	// Flush blocks until no push is in flight or ctx is done.
	Flush(ctx context.Context) error

	// Close stops remote subscriptions and broadcast delivery. Later push
	// completions and remote callbacks are ignored.
	Close()
}
