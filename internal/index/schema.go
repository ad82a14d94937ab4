// Package index provides the SQLite-backed search index over vault pages,
// with optional FTS5 full-text search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// WAL keeps the single writer from starving concurrent handler reads.
const dsnOptions = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// Every statement is idempotent, so Open can replay the whole list on an
// existing database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS pages (
		slug       TEXT PRIMARY KEY,
		path       TEXT NOT NULL DEFAULT '',
		title      TEXT NOT NULL DEFAULT '',
		checksum   TEXT NOT NULL DEFAULT '',
		tags       TEXT NOT NULL DEFAULT '[]',
		body       TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS links (
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		UNIQUE(source, target)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_links_source ON links(source)`,
	`CREATE INDEX IF NOT EXISTS idx_links_target ON links(target)`,
}

// DB is a handle on the page index database.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at dsn and brings its schema up
// to date, including the FTS side when compiled in.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("index: apply schema: %w", err)
		}
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
