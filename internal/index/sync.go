package index

import (
	"log/slog"
	"time"

	"github.com/starford/perthro/internal/vault"
)

// Sync brings the index up to date with a loaded vault:
//   - new/changed documents are upserted (diffed by checksum)
//   - slugs no longer present in the vault are deleted
func Sync(db *DB, v *vault.Vault, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(v.Docs))
	for _, doc := range v.Docs {
		seen[doc.Slug] = struct{}{}

		if checksums[doc.Slug] == doc.Checksum {
			continue
		}

		if err := indexDoc(db, doc); err != nil {
			logger.Warn("sync: index failed", slog.String("slug", doc.Slug), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("slug", doc.Slug))
		}
	}

	// Remove stale entries.
	for slug := range checksums {
		if _, ok := seen[slug]; !ok {
			if err := db.DeletePage(slug); err != nil {
				logger.Warn("sync: delete failed", slog.String("slug", slug), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("slug", slug))
			}
		}
	}

	return nil
}

// indexDoc upserts one document. Link targets arrive from the loader already
// resolved to slugs, so backlink queries work in slug space.
func indexDoc(db *DB, doc vault.Document) error {
	row := PageRow{
		Slug:      doc.Slug,
		Path:      doc.Path,
		Title:     doc.Title,
		Checksum:  doc.Checksum,
		Tags:      doc.Tags,
		UpdatedAt: time.Now(),
	}
	return db.UpsertPage(row, doc.Body, doc.Links)
}
