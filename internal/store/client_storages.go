package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/migrations"
)

// ClientStorages groups the device-local storage used by the console and the
// ctl.
type ClientStorages struct {
	// Cache is the durable local copy of every collection.
	Cache LocalCache

	db *DB
}

// NewClientStorages opens the SQLite cache at dsn, applies the client
// migrations and returns the storages.
func NewClientStorages(ctx context.Context, dsn, namespace string, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, dsn, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(migrations.Client); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Cache: NewLocalCache(db, namespace, log),
		db:    db,
	}, nil
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
