// Package pageservice exposes the loaded vault, renderer and search index
// behind one read-side service shared by the preview server and MCP layers.
package pageservice

import (
	"context"
	"sync/atomic"

	"github.com/starford/perthro/internal/apperr"
	"github.com/starford/perthro/internal/index"
	"github.com/starford/perthro/internal/query"
	"github.com/starford/perthro/internal/render"
	"github.com/starford/perthro/internal/vault"
)

// Snapshot is one immutable view of the vault with its renderer. Watch mode
// swaps the whole snapshot after a rebuild, so readers never see a
// half-reloaded vault.
type Snapshot struct {
	Vault    *vault.Vault
	Renderer *render.Renderer
}

// NewSnapshot pairs a loaded vault with a renderer over it.
func NewSnapshot(v *vault.Vault) *Snapshot {
	return &Snapshot{Vault: v, Renderer: render.New(v)}
}

// Service coordinates snapshot reads and index queries.
type Service struct {
	snap atomic.Pointer[Snapshot]
	db   index.PageIndex // nil when search is disabled
}

// New creates a service over an initial snapshot. db may be nil; search and
// backlink operations then return apperr.ErrSearchDisabled.
func New(snap *Snapshot, db index.PageIndex) *Service {
	s := &Service{db: db}
	s.snap.Store(snap)
	return s
}

// Replace swaps in a freshly loaded snapshot.
func (s *Service) Replace(snap *Snapshot) {
	s.snap.Store(snap)
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot() *Snapshot {
	return s.snap.Load()
}

// DocDetail is the full representation of one document.
type DocDetail struct {
	Path        string         `json:"path"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Checksum    string         `json:"checksum"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Backlinks   []string       `json:"backlinks"`
}

// ReadDoc returns the raw document for a slug, path or bare name reference.
func (s *Service) ReadDoc(_ context.Context, ref string) (*DocDetail, error) {
	snap := s.snap.Load()
	doc, ok := findDoc(snap.Vault, ref)
	if !ok {
		return nil, apperr.ErrNotFound
	}

	backlinks := []string{}
	if s.db != nil {
		bl, err := s.db.Backlinks(doc.Slug)
		if err != nil {
			return nil, err
		}
		backlinks = nonNilSlice(bl)
	}

	return &DocDetail{
		Path:        doc.Path,
		Slug:        doc.Slug,
		Title:       doc.Title,
		Content:     doc.Body,
		Checksum:    doc.Checksum,
		Tags:        nonNilSlice(doc.Tags),
		Frontmatter: doc.Frontmatter,
		Backlinks:   backlinks,
	}, nil
}

// RenderDoc returns the rendered HTML fragment for a document.
func (s *Service) RenderDoc(_ context.Context, ref string) (string, error) {
	snap := s.snap.Load()
	doc, ok := findDoc(snap.Vault, ref)
	if !ok {
		return "", apperr.ErrNotFound
	}
	return snap.Renderer.Render(doc)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, q string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return nil, apperr.ErrSearchDisabled
	}
	return s.db.Search(q, limit)
}

// RunQuery parses and runs a query string against the current snapshot.
func (s *Service) RunQuery(_ context.Context, text string) (query.Result, error) {
	q, err := query.Parse(text)
	if err != nil {
		return query.Result{}, err
	}
	return query.Run(q, s.snap.Load().Vault.Docs), nil
}

// Backlinks returns the slugs of pages linking to the referenced document.
func (s *Service) Backlinks(_ context.Context, ref string) ([]string, error) {
	if s.db == nil {
		return nil, apperr.ErrSearchDisabled
	}
	slug := s.snap.Load().Vault.Files.Resolve(ref)
	return s.db.Backlinks(slug)
}

// findDoc resolves a reference to a document. Slugs and source paths match
// directly; anything else goes through the lookup table.
func findDoc(v *vault.Vault, ref string) (vault.Document, bool) {
	for _, d := range v.Docs {
		if d.Slug == ref || d.Path == ref {
			return d, true
		}
	}
	slug := v.Files.Resolve(ref)
	for _, d := range v.Docs {
		if d.Slug == slug {
			return d, true
		}
	}
	return vault.Document{}, false
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
