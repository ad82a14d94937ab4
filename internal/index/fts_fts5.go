//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

const ftsSchemaSQL = `
CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
	slug UNINDEXED,
	title,
	body,
	tags,
	tokenize = 'unicode61 remove_diacritics 2'
);
`

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(ftsSchemaSQL)
	return err
}

func ftsUpsert(tx *sql.Tx, slug, title, body string, tags []string) error {
	ftsDelete(tx, slug)
	if _, err := tx.Exec(
		`INSERT INTO pages_fts (slug, title, body, tags) VALUES (?, ?, ?, ?)`,
		slug, title, body, strings.Join(tags, " "),
	); err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, slug string) {
	_, _ = tx.Exec(`DELETE FROM pages_fts WHERE slug = ?`, slug)
}

// Search runs an FTS5 MATCH query ranked by bm25, with highlighted snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	rows, err := db.conn.Query(`
		SELECT slug, title, snippet(pages_fts, 2, '<b>', '</b>', '...', 64)
		FROM pages_fts
		WHERE pages_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
