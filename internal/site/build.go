// Package site builds the static site: every vault document rendered into
// <out>/<slug>/index.html around the shared page shell, plus the navigation
// tree, copied attachments and the stylesheet hook.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/perthro/internal/render"
	"github.com/starford/perthro/internal/vault"
)

// Config controls one build. BaseURL, when set, turns on rel=canonical
// links on every page.
type Config struct {
	OutDir     string
	Title      string
	BaseURL    string
	Workers    int
	LiveReload bool
}

// Build renders the whole vault into cfg.OutDir. Page renders run
// concurrently under a worker cap; a page that fails to render gets an
// error body instead of failing the build. I/O failures do fail it.
func Build(ctx context.Context, logger *slog.Logger, v *vault.Vault, r *render.Renderer, cfg Config) error {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	nav := NavHTML(v)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, doc := range v.Docs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return buildPage(logger, r, nav, cfg, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("site: build pages: %w", err)
	}

	for _, rel := range v.Attachments {
		if err := copyAttachment(logger, v.Root, cfg.OutDir, rel); err != nil {
			return err
		}
	}
	if err := writeFileAtomic(filepath.Join(cfg.OutDir, "assets", "site.css"), []byte(stylesheet)); err != nil {
		return err
	}
	if err := writeHome(v, nav, cfg); err != nil {
		return err
	}

	logger.Info("site built",
		slog.Int("pages", len(v.Docs)),
		slog.Int("attachments", len(v.Attachments)),
		slog.String("out", cfg.OutDir))
	return nil
}

func buildPage(logger *slog.Logger, r *render.Renderer, nav template.HTML, cfg Config, doc vault.Document) error {
	body, err := r.Render(doc)
	if err != nil {
		logger.Warn("page render failed",
			slog.String("path", doc.Path),
			slog.String("error", err.Error()))
		body = `<p class="error">` + html.EscapeString(err.Error()) + "</p>\n"
	}

	var page bytes.Buffer
	err = render.WritePage(&page, render.PageData{
		Title:      pageTitle(doc),
		SiteTitle:  cfg.Title,
		Canonical:  canonicalURL(cfg.BaseURL, doc.Slug),
		Nav:        nav,
		Body:       template.HTML(body),
		LiveReload: cfg.LiveReload,
	})
	if err != nil {
		return fmt.Errorf("site: page template %s: %w", doc.Path, err)
	}
	return writeFileAtomic(pagePath(cfg.OutDir, doc.Slug), page.Bytes())
}

// writeHome emits the root index.html: a summary line plus the same
// navigation tree, so the site has a landing page without a special
// document in the vault.
func writeHome(v *vault.Vault, nav template.HTML, cfg Config) error {
	var body strings.Builder
	fmt.Fprintf(&body, "<p class=\"vault-summary\">%d pages</p>\n", len(v.Docs))
	body.WriteString(string(nav))

	var page bytes.Buffer
	err := render.WritePage(&page, render.PageData{
		Title:      "Home",
		SiteTitle:  cfg.Title,
		Canonical:  canonicalURL(cfg.BaseURL, "/"),
		Nav:        nav,
		Body:       template.HTML(body.String()),
		LiveReload: cfg.LiveReload,
	})
	if err != nil {
		return fmt.Errorf("site: home template: %w", err)
	}
	return writeFileAtomic(filepath.Join(cfg.OutDir, "index.html"), page.Bytes())
}

func copyAttachment(logger *slog.Logger, root, outDir, rel string) error {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		// The file disappeared between vault load and build; skip it.
		logger.Warn("attachment unreadable", slog.String("path", rel), slog.String("error", err.Error()))
		return nil
	}
	if err := writeFileAtomic(filepath.Join(outDir, filepath.FromSlash(rel)), data); err != nil {
		return fmt.Errorf("site: copy attachment %s: %w", rel, err)
	}
	return nil
}

func pageTitle(doc vault.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	return strings.TrimPrefix(doc.Slug, "/")
}

// canonicalURL joins the configured base URL with a site slug. An empty
// base disables canonical links.
func canonicalURL(base, slug string) string {
	if base == "" {
		return ""
	}
	base = strings.TrimSuffix(base, "/")
	if slug == "/" {
		return base + "/"
	}
	return base + slug
}

// pagePath maps a site slug to its output file, one directory per page so
// URLs need no .html suffix.
func pagePath(outDir, slug string) string {
	return filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(slug, "/")), "index.html")
}
