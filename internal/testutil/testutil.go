// Package testutil provides shared test helpers for setting up vaults and
// search databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/perthro/internal/index"
	"github.com/starford/perthro/internal/vault"
)

// TestDB creates a temporary SQLite search index that is automatically
// cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "perthro-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SampleVault returns a small in-memory vault: a tagged journal page that
// links to an NPC page. Service and server tests share it so reference
// resolution and backlink fixtures stay consistent.
func SampleVault() *vault.Vault {
	files := vault.NewLookup()
	files.Add(vault.FileInfo{Slug: "/journal", Title: "Journal", SourcePath: "Journal.md"})
	files.Add(vault.FileInfo{Slug: "/npcs/kira", Title: "Kira", SourcePath: "NPCs/Kira.md"})
	return &vault.Vault{
		Docs: []vault.Document{
			{
				Path: "Journal.md", Slug: "/journal", Title: "Journal", Checksum: "j1",
				Tags: []string{"session"}, Links: []string{"/npcs/kira"},
				Body:        "Met [[Kira]] at the westgate.",
				Frontmatter: map[string]interface{}{"campaign": "Reach"},
			},
			{Path: "NPCs/Kira.md", Slug: "/npcs/kira", Title: "Kira", Checksum: "k1", Body: "A wary pilot."},
		},
		Files: files,
	}
}
