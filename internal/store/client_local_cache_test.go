package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/models"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB, dialect string) *DB {
	classifier := ErrorClassificator(NewSQLiteErrorClassifier())
	if dialect == DialectPostgres {
		classifier = NewPostgresErrorClassifier()
	}
	return &DB{
		DB:                 db,
		dialect:            dialect,
		errorClassificator: classifier,
		logger:             logger.Nop(),
	}
}

func newSQLiteCache(t *testing.T, namespace string) (*ClientStorages, LocalCache) {
	t.Helper()
	storages, err := NewClientStorages(context.Background(), filepath.Join(t.TempDir(), "cache.db"), namespace, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })
	return storages, storages.Cache
}

func TestKey(t *testing.T) {
	assert.Equal(t, "ieadban_members", Key("ieadban", "members"))
}

func TestLocalCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	_, cache := newSQLiteCache(t, "ieadban")

	_, found := cache.Load(ctx, "members")
	assert.False(t, found)

	s := models.MustParseSnapshot(`[{"id":"1","name":"Ana","tags":["x"],"n":1.25,"ok":false,"nil":null}]`)
	require.NoError(t, cache.Save(ctx, "members", s))

	got, found := cache.Load(ctx, "members")
	require.True(t, found)
	assert.True(t, s.Equal(got))

	// overwrite, never merge
	s2 := models.MustParseSnapshot(`[{"id":"2"}]`)
	require.NoError(t, cache.Save(ctx, "members", s2))
	got, _ = cache.Load(ctx, "members")
	assert.True(t, s2.Equal(got))
}

func TestLocalCache_EmptySnapshotIsFound(t *testing.T) {
	ctx := context.Background()
	_, cache := newSQLiteCache(t, "ieadban")

	require.NoError(t, cache.Save(ctx, "events", nil))

	got, found := cache.Load(ctx, "events")
	require.True(t, found)
	assert.Empty(t, got)
}

func TestLocalCache_MalformedIsAbsent(t *testing.T) {
	ctx := context.Background()
	storages, cache := newSQLiteCache(t, "ieadban")

	_, err := storages.db.ExecContext(ctx, `INSERT INTO cache (key, value) VALUES (?, ?)`, "ieadban_members", `{not json`)
	require.NoError(t, err)
	_, err = storages.db.ExecContext(ctx, `INSERT INTO cache (key, value) VALUES (?, ?)`, "ieadban_events", `{"id":"1"}`)
	require.NoError(t, err)

	_, found := cache.Load(ctx, "members")
	assert.False(t, found)
	_, found = cache.Load(ctx, "events")
	assert.False(t, found)

	assert.Empty(t, cache.LoadAll(ctx))
}

func TestLocalCache_SaveAllAndLoadAll(t *testing.T) {
	ctx := context.Background()
	_, cache := newSQLiteCache(t, "ieadban")
	_, other := newSQLiteCache(t, "other")

	require.NoError(t, cache.SaveAll(ctx, map[string]models.Snapshot{
		"members": models.MustParseSnapshot(`[{"id":"1"}]`),
		"congs":   models.MustParseSnapshot(`[{"id":"c1"},{"id":"c2"}]`),
	}))
	require.NoError(t, other.Save(ctx, "members", models.MustParseSnapshot(`[{"id":"x"}]`)))

	all := cache.LoadAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, []string{"1"}, all["members"].IDs())
	assert.Equal(t, []string{"c1", "c2"}, all["congs"].IDs())
}

// Two instances sharing one file see each other's writes.
func TestLocalCache_SharedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	a, err := NewClientStorages(ctx, path, "ieadban", logger.Nop())
	require.NoError(t, err)
	defer a.Close()
	b, err := NewClientStorages(ctx, path, "ieadban", logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Cache.Save(ctx, "notices", models.MustParseSnapshot(`[{"id":"n1"}]`)))

	got, found := b.Cache.Load(ctx, "notices")
	require.True(t, found)
	assert.Equal(t, []string{"n1"}, got.IDs())
}

func TestLocalCache_SaveExecError(t *testing.T) {
	db, mock := newTestDB(t)
	cache := NewLocalCache(newDBFromSQL(db, DialectSQLite), "ieadban", logger.Nop())

	mock.ExpectExec(`INSERT INTO cache`).
		WithArgs("ieadban_members", `[{"id":"1"}]`, sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	err := cache.Save(context.Background(), "members", models.MustParseSnapshot(`[{"id":"1"}]`))
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalCache_LoadQueryErrorIsAbsent(t *testing.T) {
	db, mock := newTestDB(t)
	cache := NewLocalCache(newDBFromSQL(db, DialectSQLite), "ieadban", logger.Nop())

	mock.ExpectQuery(`SELECT value FROM cache WHERE key = \?`).
		WithArgs("ieadban_members").
		WillReturnError(errors.New("io error"))

	_, found := cache.Load(context.Background(), "members")
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalCache_SaveAllRollsBackOnError(t *testing.T) {
	db, mock := newTestDB(t)
	cache := NewLocalCache(newDBFromSQL(db, DialectSQLite), "ieadban", logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO cache`).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := cache.SaveAll(context.Background(), map[string]models.Snapshot{
		"members": models.MustParseSnapshot(`[{"id":"1"}]`),
	})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalCache_SaveAllBeginError(t *testing.T) {
	db, mock := newTestDB(t)
	cache := NewLocalCache(newDBFromSQL(db, DialectSQLite), "ieadban", logger.Nop())

	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	err := cache.SaveAll(context.Background(), map[string]models.Snapshot{"members": nil})
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}
