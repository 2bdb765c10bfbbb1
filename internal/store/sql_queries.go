// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	cacheTable     = "cache"
	snapshotsTable = "snapshots"
)

// buildCacheUpsertQuery renders an INSERT ... ON CONFLICT upsert of one cache
// entry. Both SQLite (3.24+) and PostgreSQL accept the syntax.
func buildCacheUpsertQuery(b sq.StatementBuilderType, key, value string, now time.Time) (string, []any, error) {
	query, args, err := b.Insert(cacheTable).
		Columns("key", "value", "updated_at").
		Values(key, value, now).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCacheSelectQuery(b sq.StatementBuilderType, key string) (string, []any, error) {
	query, args, err := b.Select("value").
		From(cacheTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildCacheSelectPrefixQuery selects every entry whose key starts with
// prefix. substr is used instead of LIKE so "_" in keys needs no escaping.
func buildCacheSelectPrefixQuery(b sq.StatementBuilderType, prefix string) (string, []any, error) {
	query, args, err := b.Select("key", "value").
		From(cacheTable).
		Where("substr(key, 1, ?) = ?", len(prefix), prefix).
		OrderBy("key").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSnapshotUpsertQuery(b sq.StatementBuilderType, path, payload string, now time.Time) (string, []any, error) {
	query, args, err := b.Insert(snapshotsTable).
		Columns("path", "payload", "updated_at").
		Values(path, payload, now).
		Suffix("ON CONFLICT (path) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSnapshotSelectQuery(b sq.StatementBuilderType, path string) (string, []any, error) {
	query, args, err := b.Select("payload").
		From(snapshotsTable).
		Where(sq.Eq{"path": path}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
