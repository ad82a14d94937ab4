package site

import (
	"html"
	"html/template"
	"sort"
	"strings"

	"github.com/starford/perthro/internal/vault"
)

type navFolder struct {
	sub   map[string]*navFolder
	pages []navPage
}

type navPage struct {
	title string
	slug  string
}

// NavHTML renders the navigation tree shared by every page: one nested list
// mirroring the vault's folder layout. Folders sort before pages, both
// alphabetically.
func NavHTML(v *vault.Vault) template.HTML {
	root := newNavFolder()
	for _, d := range v.Docs {
		dir := root
		parts := strings.Split(d.Path, "/")
		for _, p := range parts[:len(parts)-1] {
			next, ok := dir.sub[p]
			if !ok {
				next = newNavFolder()
				dir.sub[p] = next
			}
			dir = next
		}
		title := d.Title
		if title == "" {
			title = d.Slug
		}
		dir.pages = append(dir.pages, navPage{title: title, slug: d.Slug})
	}

	var b strings.Builder
	writeTree(&b, root, `<ul class="nav-tree">`)
	return template.HTML(b.String())
}

func newNavFolder() *navFolder {
	return &navFolder{sub: make(map[string]*navFolder)}
}

func writeTree(b *strings.Builder, f *navFolder, open string) {
	b.WriteString(open)
	b.WriteString("\n")

	names := make([]string, 0, len(f.sub))
	for name := range f.sub {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(`<li class="folder">`)
		b.WriteString(html.EscapeString(name))
		b.WriteString("\n")
		writeTree(b, f.sub[name], "<ul>")
		b.WriteString("</li>\n")
	}

	pages := append([]navPage(nil), f.pages...)
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].title != pages[j].title {
			return pages[i].title < pages[j].title
		}
		return pages[i].slug < pages[j].slug
	})
	for _, p := range pages {
		b.WriteString(`<li><a href="`)
		b.WriteString(html.EscapeString(p.slug))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(p.title))
		b.WriteString("</a></li>\n")
	}

	b.WriteString("</ul>\n")
}
