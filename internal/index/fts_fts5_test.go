//go:build sqlite_fts5

package index

import (
	"strings"
	"testing"
	"time"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages_fts`).Scan(&count); err != nil {
		t.Fatalf("pages_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	row := PageRow{
		Slug:      "/journal",
		Path:      "Journal.md",
		Title:     "Journal",
		Checksum:  "f1",
		Tags:      []string{"session"},
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertPage(row, "The crew burned momentum escaping the reach pirates.", nil); err != nil {
		t.Fatalf("UpsertPage: %v", err)
	}

	results, err := db.Search("momentum", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Slug != "/journal" {
		t.Errorf("slug = %q", results[0].Slug)
	}
	// FTS5 snippet should highlight the match.
	if !strings.Contains(results[0].Snippet, "<b>momentum</b>") {
		t.Errorf("snippet = %q, want highlighted match", results[0].Snippet)
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(PageRow{Slug: "/gone", Checksum: "g", Tags: []string{}, UpdatedAt: time.Now()}, "vanishing content", nil)
	_ = db.DeletePage("/gone")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.Slug == "/gone" {
			t.Error("deleted page still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertPage(PageRow{Slug: "/evo", Title: "Old", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "original text", nil)
	_ = db.UpsertPage(PageRow{Slug: "/evo", Title: "New", Checksum: "2", Tags: []string{}, UpdatedAt: now}, "replacement text", nil)

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
