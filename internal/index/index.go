package index

import "database/sql"

// defaultSearchLimit caps Search results when the caller asks for none.
const defaultSearchLimit = 20

// PageIndex defines the interface for page indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type PageIndex interface {
	UpsertPage(p PageRow, body string, links []string) error
	DeletePage(slug string) error
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Backlinks(target string) ([]string, error)
	Close() error
}

// Verify *DB satisfies PageIndex at compile time.
var _ PageIndex = (*DB)(nil)

// scanResults drains a (slug, title, snippet) row set. Both search
// implementations produce their hits in that shape.
func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Slug, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
