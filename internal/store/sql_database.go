package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/migrations"
)

// Supported SQL dialects.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"
)

// maxAttempts bounds how often a retryable operation is tried.
const maxAttempts = 3

var retryDelays = []time.Duration{100 * time.Millisecond, 500 * time.Millisecond}

// DB wraps a *sql.DB with its dialect, error classifier and logger.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnect opens the database selected by dsn: PostgreSQL for
// "postgres://" and "postgresql://" DSNs, SQLite otherwise.
func NewConnect(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	switch {
	case dsn == "":
		return nil, ErrUnsupportedDSN
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewConnectPostgres(ctx, dsn, log)
	default:
		return NewConnectSQLite(ctx, dsn, log)
	}
}

// Dialect returns the goose dialect of the connection.
func (db *DB) Dialect() string {
	return db.dialect
}

// Migrate applies the migration set ("client" or "server").
func (db *DB) Migrate(set string) error {
	return migrations.Migrate(db.DB, db.dialect, set)
}

func (db *DB) builder() sq.StatementBuilderType {
	if db.dialect == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// withRetry runs fn until it succeeds, fails with a non-retryable error or
// maxAttempts is reached.
func (db *DB) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}
		if attempt == maxAttempts-1 {
			break
		}

		db.logger.Warn().Err(err).
			Str("op", op).
			Int("attempt", attempt+1).
			Msg("retryable database error, retrying")

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(retryDelays[attempt]):
		}
	}

	return err
}
