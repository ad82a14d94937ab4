//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

// Built without the sqlite_fts5 tag, search degrades to LIKE matching over
// the body column stored in the pages table. No ranking, crude snippets.

func initFTS(_ *sql.DB) error { return nil }

func ftsUpsert(_ *sql.Tx, _, _, _ string, _ []string) error { return nil }

func ftsDelete(_ *sql.Tx, _ string) {}

// likeEscaper makes user input literal inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches query as a literal substring of the title, body, or tags.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`
		SELECT slug, title, substr(body, 1, 200)
		FROM pages
		WHERE title LIKE ?1 ESCAPE '\'
		   OR body  LIKE ?1 ESCAPE '\'
		   OR tags  LIKE ?1 ESCAPE '\'
		LIMIT ?2
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
