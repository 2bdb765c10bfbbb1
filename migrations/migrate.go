// Package migrations embeds the goose schema migrations of the local cache
// (client) and of the remote store (server).
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql server/*.sql
var embedMigrations embed.FS

// Migration sets.
const (
	Client = "client"
	Server = "server"
)

// goose keeps its base FS and dialect in package globals.
var mu sync.Mutex

// Migrate applies every pending migration of set ("client" or "server") using
// the goose dialect ("sqlite3" or "pgx").
func Migrate(db *sql.DB, dialect, set string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}
	if set != Client && set != Server {
		return fmt.Errorf("migration error: unknown migration set %q", set)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, set); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
