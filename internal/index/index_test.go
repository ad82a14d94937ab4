package index

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/starford/perthro/internal/vault"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "perthro-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages`).Scan(&count); err != nil {
		t.Fatalf("pages table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestUpsertAndAllChecksums(t *testing.T) {
	db := testDB(t)
	row := PageRow{
		Slug:      "/journal",
		Path:      "Journal.md",
		Title:     "Journal",
		Checksum:  "abc123",
		Tags:      []string{"log", "session"},
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertPage(row, "Rolled with fire.", []string{"/quests/hunt"}); err != nil {
		t.Fatalf("UpsertPage: %v", err)
	}
	sums, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if sums["/journal"] != "abc123" {
		t.Errorf("checksum = %q, want %q", sums["/journal"], "abc123")
	}
}

func TestBacklinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(PageRow{Slug: "/a", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"/b"})
	_ = db.UpsertPage(PageRow{Slug: "/c", Checksum: "2", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"/b"})

	bl, err := db.Backlinks("/b")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 || bl[0] != "/a" || bl[1] != "/c" {
		t.Fatalf("backlinks = %v, want [/a /c]", bl)
	}
}

func TestDeletePage(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(PageRow{Slug: "/del", Checksum: "x", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"/target"})

	if err := db.DeletePage("/del"); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	sums, _ := db.AllChecksums()
	if _, ok := sums["/del"]; ok {
		t.Error("deleted page still indexed")
	}
	bl, _ := db.Backlinks("/target")
	if len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertPage(PageRow{Slug: "/up", Title: "Old", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "old body", []string{"/x"})
	_ = db.UpsertPage(PageRow{Slug: "/up", Title: "New", Checksum: "2", Tags: []string{"new"}, UpdatedAt: now}, "new body", []string{"/y"})

	sums, _ := db.AllChecksums()
	if sums["/up"] != "2" {
		t.Errorf("checksum = %q, want %q", sums["/up"], "2")
	}
	bl, _ := db.Backlinks("/x")
	if len(bl) != 0 {
		t.Error("old link should be removed on upsert")
	}
	bl, _ = db.Backlinks("/y")
	if len(bl) != 1 {
		t.Error("new link should exist")
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(PageRow{Slug: "/s", Title: "Search Me", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "uniqueword appears here", nil)

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "/s" {
		t.Errorf("search results = %+v, want 1 hit for /s", results)
	}
}

func syncLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func syncVault(docs ...vault.Document) *vault.Vault {
	files := vault.NewLookup()
	for _, d := range docs {
		files.Add(vault.FileInfo{Slug: d.Slug, Title: d.Title, SourcePath: d.Path})
	}
	return &vault.Vault{Docs: docs, Files: files}
}

func TestSync_IndexesPagesAndLinks(t *testing.T) {
	db := testDB(t)
	v := syncVault(
		vault.Document{
			Path: "Journal.md", Slug: "/journal", Title: "Journal", Checksum: "j1",
			Body: "Met [[Kira]].", Links: []string{"/npcs/kira"},
		},
		vault.Document{Path: "NPCs/Kira.md", Slug: "/npcs/kira", Title: "Kira", Checksum: "k1"},
	)

	if err := Sync(db, v, syncLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	sums, _ := db.AllChecksums()
	if len(sums) != 2 || sums["/journal"] != "j1" || sums["/npcs/kira"] != "k1" {
		t.Errorf("checksums = %v", sums)
	}
	bl, _ := db.Backlinks("/npcs/kira")
	if len(bl) != 1 || bl[0] != "/journal" {
		t.Errorf("backlinks = %v, want [/journal]", bl)
	}
}

func TestSync_SkipsUnchanged(t *testing.T) {
	db := testDB(t)
	v := syncVault(vault.Document{Path: "A.md", Slug: "/a", Checksum: "same"})

	if err := Sync(db, v, syncLogger()); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	var before string
	if err := db.conn.QueryRow(`SELECT updated_at FROM pages WHERE slug = '/a'`).Scan(&before); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, v, syncLogger()); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	var after string
	if err := db.conn.QueryRow(`SELECT updated_at FROM pages WHERE slug = '/a'`).Scan(&after); err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Error("unchanged page was rewritten")
	}
}

func TestSync_RemovesStale(t *testing.T) {
	db := testDB(t)
	v := syncVault(
		vault.Document{Path: "A.md", Slug: "/a", Checksum: "1"},
		vault.Document{Path: "B.md", Slug: "/b", Checksum: "2"},
	)
	if err := Sync(db, v, syncLogger()); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, syncVault(vault.Document{Path: "A.md", Slug: "/a", Checksum: "1"}), syncLogger()); err != nil {
		t.Fatal(err)
	}
	sums, _ := db.AllChecksums()
	if _, ok := sums["/b"]; ok {
		t.Error("stale page /b not removed")
	}
	if _, ok := sums["/a"]; !ok {
		t.Error("live page /a removed")
	}
}
