// Package sqlite persists viewed state so review progress survives
// restarts when persistence is enabled in config.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/diffscope/internal/log"
)

// schemaVersion is stored in PRAGMA user_version. Bump it together with
// a migration step in migrate.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	session_id   TEXT NOT NULL,
	file_key     TEXT NOT NULL,
	viewed       INTEGER NOT NULL DEFAULT 0,
	content_hash TEXT NOT NULL DEFAULT '',
	updated_at   INTEGER NOT NULL,
	PRIMARY KEY (session_id, file_key)
);

CREATE INDEX IF NOT EXISTS idx_reviews_session ON reviews(session_id);
`

// DB wraps the sqlite connection and owns schema setup.
type DB struct {
	conn *sql.DB
}

// NewDB opens (creating if needed) the database at dbPath, applies
// pragmas, and migrates the schema to the current version. The parent
// directory is created with 0700 permissions.
func NewDB(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// migrate brings the schema up to schemaVersion using user_version as
// the cursor.
func (d *DB) migrate() error {
	var version int
	if err := d.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	if version < 1 {
		if _, err := d.conn.Exec(schema); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if _, err := d.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	log.Debug(log.CatStorage, "migrated review database", "from", version, "to", schemaVersion)
	return nil
}

// Repository returns the viewed-state repository backed by this DB.
func (d *DB) Repository() *Repository {
	return NewRepository(d.conn)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}
