// Package vault loads an Obsidian-style campaign vault into memory: every
// Markdown file becomes a Document with frontmatter, tags, and a site slug,
// and a basename lookup table supports short-form references from mechanics
// notation and wikilinks.
package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one parsed Markdown file from the vault.
type Document struct {
	Path        string                 // vault-relative source path, forward slashes
	Slug        string                 // site-relative URL path, e.g. /quests/iron-oath
	Title       string                 // frontmatter title, first H1, or basename
	Frontmatter map[string]interface{} // nil when the file has none
	Tags        []string
	Links       []string // outgoing wikilink targets, resolved to slugs
	Body        string   // Markdown body without frontmatter
	Checksum    string
}

// Vault is the loaded document collection plus derived lookup structures.
// It is built once per run and treated as immutable afterwards.
type Vault struct {
	Root        string
	Docs        []Document
	Files       *Lookup
	Attachments []string // vault-relative paths of non-Markdown files
}

// Load walks root and parses every .md file. Directories and files whose
// name starts with a dot (.obsidian and friends) are skipped. Non-Markdown
// files are recorded as attachments for the site build to copy.
func Load(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault: root is not a directory: %s", abs)
	}

	v := &Vault{Root: abs, Files: NewLookup()}

	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != abs && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, relErr := filepath.Rel(abs, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if !strings.HasSuffix(d.Name(), ".md") {
			v.Attachments = append(v.Attachments, rel)
			return nil
		}

		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return readErr
		}
		v.Docs = append(v.Docs, parseDocument(rel, data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: walk: %w", err)
	}

	sort.Slice(v.Docs, func(i, j int) bool { return v.Docs[i].Path < v.Docs[j].Path })
	sort.Strings(v.Attachments)

	for _, doc := range v.Docs {
		v.Files.Add(FileInfo{Slug: doc.Slug, Title: doc.Title, SourcePath: doc.Path})
	}

	// Outgoing links can only be resolved once the whole lookup exists.
	for i := range v.Docs {
		v.Docs[i].Links = v.Files.resolveAll(extractLinks(v.Docs[i].Body))
	}

	return v, nil
}

// parseDocument builds a Document from raw file bytes. Links stay empty here;
// they are resolved after the lookup table is complete.
func parseDocument(rel string, data []byte) Document {
	fm, body := splitFrontmatter(data)
	title := deriveTitle(fm, body)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(rel), ".md")
	}
	return Document{
		Path:        rel,
		Slug:        Slugify(rel),
		Title:       title,
		Frontmatter: fm,
		Tags:        extractTags(body, fm),
		Body:        body,
		Checksum:    digest(data),
	}
}

// digest returns the hex SHA-256 of the raw file bytes. The index sync layer
// compares these to skip pages that have not changed on disk.
func digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// resolveAll maps raw wikilink targets to slugs, dropping duplicates.
func (l *Lookup) resolveAll(targets []string) []string {
	seen := make(map[string]struct{}, len(targets))
	var out []string
	for _, t := range targets {
		slug := l.Resolve(t)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	return out
}
