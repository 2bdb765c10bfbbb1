package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/migrations"
)

// Storages groups the repositories of the remote store server.
type Storages struct {
	SnapshotRepository SnapshotRepository

	db *DB
}

// NewStorages connects to the database chosen by dsn, applies the server
// migrations and returns the storages.
func NewStorages(ctx context.Context, dsn string, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating storages...")

	db, err := NewConnect(ctx, dsn, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err := db.Migrate(migrations.Server); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		SnapshotRepository: NewSnapshotRepository(db),
		db:                 db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
