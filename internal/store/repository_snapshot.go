package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/models"
)

// snapshotRepository is the SQL implementation of [SnapshotRepository] for
// both PostgreSQL and SQLite.
type snapshotRepository struct {
	*DB
	now func() time.Time
}

// NewSnapshotRepository returns a [SnapshotRepository] over db.
func NewSnapshotRepository(db *DB) SnapshotRepository {
	return &snapshotRepository{
		DB:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *snapshotRepository) Get(ctx context.Context, path string) (models.Snapshot, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSnapshotSelectQuery(r.builder(), path)
	if err != nil {
		return nil, err
	}

	var payload string
	err = r.withRetry(ctx, "snapshotRepository.Get", func() error {
		return r.DB.QueryRowContext(ctx, query, args...).Scan(&payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.Get").Str("path", path).Msg("failed to read snapshot")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	snapshot, err := models.ParseSnapshot([]byte(payload))
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.Get").Str("path", path).Msg("stored snapshot is malformed")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return snapshot, nil
}

func (r *snapshotRepository) Put(ctx context.Context, path string, snapshot models.Snapshot) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingSnapshot, err)
	}

	query, args, err := buildSnapshotUpsertQuery(r.builder(), path, string(payload), r.now())
	if err != nil {
		return err
	}

	err = r.withRetry(ctx, "snapshotRepository.Put", func() error {
		_, execErr := r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.Put").Str("path", path).Msg("failed to store snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
