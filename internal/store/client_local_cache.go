package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/models"
)

// localCache is the SQLite-backed [LocalCache]. Each collection is one row
// of the cache table holding its JSON array.
type localCache struct {
	*DB
	namespace string
	logger    *logger.Logger
	now       func() time.Time
}

// NewLocalCache returns a [LocalCache] storing keys "<namespace>_<collection>".
func NewLocalCache(db *DB, namespace string, log *logger.Logger) LocalCache {
	return &localCache{
		DB:        db,
		namespace: namespace,
		logger:    log.Component("cache"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Key returns the storage key of collection within namespace.
func Key(namespace, collection string) string {
	return namespace + "_" + collection
}

func (c *localCache) Save(ctx context.Context, collection string, snapshot models.Snapshot) error {
	key := Key(c.namespace, collection)

	value, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingSnapshot, err)
	}

	query, args, err := buildCacheUpsertQuery(c.builder(), key, string(value), c.now())
	if err != nil {
		return err
	}

	err = c.withRetry(ctx, "localCache.Save", func() error {
		_, execErr := c.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		c.logger.Err(err).
			Str("func", "localCache.Save").
			Str("key", key).
			Msg("failed to save collection")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	c.logger.Debug().Str("key", key).Int("records", len(snapshot)).Msg("collection cached")
	return nil
}

func (c *localCache) Load(ctx context.Context, collection string) (models.Snapshot, bool) {
	key := Key(c.namespace, collection)

	query, args, err := buildCacheSelectQuery(c.builder(), key)
	if err != nil {
		c.logger.Err(err).Str("func", "localCache.Load").Str("key", key).Msg("failed to build query")
		return nil, false
	}

	var value string
	err = c.withRetry(ctx, "localCache.Load", func() error {
		return c.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		c.logger.Err(err).Str("func", "localCache.Load").Str("key", key).Msg("failed to read cached collection")
		return nil, false
	}

	snapshot, err := models.ParseSnapshot([]byte(value))
	if err != nil {
		c.logger.Warn().Err(err).Str("func", "localCache.Load").Str("key", key).Msg("malformed cached collection, treating as absent")
		return nil, false
	}

	return snapshot, true
}

func (c *localCache) SaveAll(ctx context.Context, snapshots map[string]models.Snapshot) error {
	type entry struct {
		query string
		args  []any
	}

	now := c.now()
	entries := make([]entry, 0, len(snapshots))
	for collection, snapshot := range snapshots {
		value, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrEncodingSnapshot, collection, err)
		}
		query, args, err := buildCacheUpsertQuery(c.builder(), Key(c.namespace, collection), string(value), now)
		if err != nil {
			return err
		}
		entries = append(entries, entry{query: query, args: args})
	}

	err := c.withRetry(ctx, "localCache.SaveAll", func() error {
		tx, err := c.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
		}
		defer tx.Rollback()

		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, e.query, e.args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
		}
		return nil
	})
	if err != nil {
		c.logger.Err(err).Str("func", "localCache.SaveAll").Int("collections", len(snapshots)).Msg("failed to save collections")
		return err
	}

	return nil
}

func (c *localCache) LoadAll(ctx context.Context) map[string]models.Snapshot {
	result := make(map[string]models.Snapshot)
	prefix := Key(c.namespace, "")

	query, args, err := buildCacheSelectPrefixQuery(c.builder(), prefix)
	if err != nil {
		c.logger.Err(err).Str("func", "localCache.LoadAll").Msg("failed to build query")
		return result
	}

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		c.logger.Err(err).Str("func", "localCache.LoadAll").Msg("failed to read cache")
		return result
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			c.logger.Err(err).Str("func", "localCache.LoadAll").Msg("failed to scan cache row")
			continue
		}

		snapshot, err := models.ParseSnapshot([]byte(value))
		if err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("malformed cached collection, skipping")
			continue
		}
		result[strings.TrimPrefix(key, prefix)] = snapshot
	}

	if err := rows.Err(); err != nil {
		c.logger.Err(err).Str("func", "localCache.LoadAll").Msg("error during rows iteration")
	}

	return result
}
