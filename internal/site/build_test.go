package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/perthro/internal/render"
	"github.com/starford/perthro/internal/vault"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func buildFixture(t *testing.T) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Maps"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "Maps", "map.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	files := vault.NewLookup()
	files.Add(vault.FileInfo{Slug: "/quests/hunt", Title: "Hunt", SourcePath: "Quests/Hunt.md"})
	return &vault.Vault{
		Root: root,
		Docs: []vault.Document{
			{Path: "Quests/Hunt.md", Slug: "/quests/hunt", Title: "Hunt", Body: "Track the beast.\n"},
			{Path: "Journal.md", Slug: "/journal", Title: "Journal", Body: "Rolled `iv-burn:8|2` today."},
		},
		Files:       files,
		Attachments: []string{"Maps/map.png"},
	}
}

func TestBuild(t *testing.T) {
	v := buildFixture(t)
	out := t.TempDir()
	r := render.New(v)

	err := Build(context.Background(), testLogger(), v, r, Config{OutDir: out, Title: "Iron Vault"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	hunt := readFile(t, filepath.Join(out, "quests", "hunt", "index.html"))
	for _, want := range []string{
		"<title>Hunt · Iron Vault</title>",
		`<h1 class="page-title">Hunt</h1>`,
		"<p>Track the beast.</p>",
		`<a href="/quests/hunt">Hunt</a>`,
	} {
		if !strings.Contains(hunt, want) {
			t.Errorf("hunt page missing %q:\n%s", want, hunt)
		}
	}
	if strings.Contains(hunt, "EventSource") {
		t.Errorf("live reload script present without LiveReload:\n%s", hunt)
	}
	if strings.Contains(hunt, `rel="canonical"`) {
		t.Errorf("canonical link present without BaseURL:\n%s", hunt)
	}

	journal := readFile(t, filepath.Join(out, "journal", "index.html"))
	if !strings.Contains(journal, "iv-mechanic iv-burn") {
		t.Errorf("journal page missing rendered mechanic:\n%s", journal)
	}

	home := readFile(t, filepath.Join(out, "index.html"))
	if !strings.Contains(home, `<p class="vault-summary">2 pages</p>`) {
		t.Errorf("home page missing summary:\n%s", home)
	}
	if !strings.Contains(home, `<a href="/journal">Journal</a>`) {
		t.Errorf("home page missing nav entry:\n%s", home)
	}

	css := readFile(t, filepath.Join(out, "assets", "site.css"))
	if !strings.Contains(css, ".iron-vault-mechanics") {
		t.Errorf("stylesheet missing mechanics rules:\n%s", css)
	}

	if got := readFile(t, filepath.Join(out, "Maps", "map.png")); got != "png-bytes" {
		t.Errorf("attachment copy = %q, want %q", got, "png-bytes")
	}
}

func TestBuild_LiveReload(t *testing.T) {
	v := buildFixture(t)
	out := t.TempDir()

	err := Build(context.Background(), testLogger(), v, render.New(v), Config{
		OutDir: out, Title: "Iron Vault", Workers: 2, LiveReload: true,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	page := readFile(t, filepath.Join(out, "journal", "index.html"))
	if !strings.Contains(page, `new EventSource("/api/events")`) {
		t.Errorf("live reload script missing:\n%s", page)
	}
}

func TestBuild_CanonicalLinks(t *testing.T) {
	v := buildFixture(t)
	out := t.TempDir()

	err := Build(context.Background(), testLogger(), v, render.New(v), Config{
		OutDir: out, Title: "Iron Vault", BaseURL: "https://vault.example/",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	hunt := readFile(t, filepath.Join(out, "quests", "hunt", "index.html"))
	if !strings.Contains(hunt, `<link rel="canonical" href="https://vault.example/quests/hunt">`) {
		t.Errorf("hunt page missing canonical link:\n%s", hunt)
	}
	home := readFile(t, filepath.Join(out, "index.html"))
	if !strings.Contains(home, `<link rel="canonical" href="https://vault.example/">`) {
		t.Errorf("home page missing canonical link:\n%s", home)
	}
}

func TestBuild_MissingAttachmentDegrades(t *testing.T) {
	v := buildFixture(t)
	v.Attachments = append(v.Attachments, "Maps/gone.png")
	out := t.TempDir()

	err := Build(context.Background(), testLogger(), v, render.New(v), Config{OutDir: out, Title: "T"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "Maps", "gone.png")); !os.IsNotExist(err) {
		t.Errorf("missing attachment should not be written, stat err = %v", err)
	}
}

func TestBuild_Rebuild(t *testing.T) {
	v := buildFixture(t)
	out := t.TempDir()
	cfg := Config{OutDir: out, Title: "T"}

	if err := Build(context.Background(), testLogger(), v, render.New(v), cfg); err != nil {
		t.Fatalf("first build: %v", err)
	}
	v.Docs[0].Body = "A fresh trail.\n"
	if err := Build(context.Background(), testLogger(), v, render.New(v), cfg); err != nil {
		t.Fatalf("second build: %v", err)
	}
	page := readFile(t, filepath.Join(out, "quests", "hunt", "index.html"))
	if !strings.Contains(page, "A fresh trail.") {
		t.Errorf("rebuild did not replace page:\n%s", page)
	}
}

func TestPagePath(t *testing.T) {
	got := pagePath("/out", "/quests/hunt")
	want := filepath.Join("/out", "quests", "hunt", "index.html")
	if got != want {
		t.Errorf("pagePath = %q, want %q", got, want)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "file.txt")

	if err := writeFileAtomic(path, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writeFileAtomic(path, []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got := readFile(t, path); got != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}
