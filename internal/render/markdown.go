// Package render converts vault markdown into HTML: goldmark with a renderer
// hook for mechanics notation and query fences, wikilink rewriting, and the
// page template the site builder wraps fragments in.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/starford/perthro/internal/mechanics"
	"github.com/starford/perthro/internal/vault"
)

// Renderer converts one document body to an HTML fragment. It is safe for
// concurrent use once constructed; page renders share the vault read-only.
type Renderer struct {
	vault *vault.Vault
	md    goldmark.Markdown
}

func New(v *vault.Vault) *Renderer {
	return &Renderer{
		vault: v,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				ghtml.WithUnsafe(),
				renderer.WithNodeRenderers(
					util.Prioritized(newMechanicsRenderer(v), 100),
				),
			),
		),
	}
}

// Render converts a document body to its HTML fragment. Wikilinks are
// rewritten textually first; mechanics and query fences are picked up by the
// renderer hook during conversion.
func (r *Renderer) Render(doc vault.Document) (string, error) {
	src := rewriteWikilinks(doc.Body, r.vault)
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render %s: %w", doc.Path, err)
	}
	return buf.String(), nil
}

// mechanicsRenderer overrides goldmark's code span and fenced block output.
// Inline codes in mechanics notation and fences tagged mechanics/query are
// replaced with their rendered HTML; everything else falls through to the
// stock markup.
type mechanicsRenderer struct {
	ghtml.Config
	files *vault.Lookup
	docs  []vault.Document
}

func newMechanicsRenderer(v *vault.Vault) renderer.NodeRenderer {
	return &mechanicsRenderer{Config: ghtml.NewConfig(), files: v.Files, docs: v.Docs}
}

func (r *mechanicsRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

// renderCodeSpan is called on both enter and exit, and the exit call still
// happens when enter skipped the children, so the mechanics check runs on
// both passes to keep the writes balanced.
func (r *mechanicsRenderer) renderCodeSpan(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if out, ok := mechanics.ParseInline(codeSpanText(n, source), r.files); ok {
		if entering {
			_, _ = w.WriteString(out)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	}
	if entering {
		_, _ = w.WriteString("<code>")
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			t, ok := c.(*ast.Text)
			if !ok {
				continue
			}
			value := t.Segment.Value(source)
			if bytes.HasSuffix(value, []byte("\n")) {
				r.Writer.RawWrite(w, value[:len(value)-1])
				r.Writer.RawWrite(w, []byte(" "))
			} else {
				r.Writer.RawWrite(w, value)
			}
		}
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString("</code>")
	return ast.WalkContinue, nil
}

func (r *mechanicsRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	switch string(n.Language(source)) {
	case "mechanics", "iron-vault-mechanics":
		if entering {
			_, _ = w.WriteString(mechanics.ParseBlock(fenceText(n, source)))
			_ = w.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	case "query", "dataview":
		if entering {
			_, _ = w.WriteString(queryFenceHTML(fenceText(n, source), r.docs))
			_ = w.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	}

	if entering {
		_, _ = w.WriteString("<pre><code")
		if language := n.Language(source); language != nil {
			_, _ = w.WriteString(` class="language-`)
			r.Writer.Write(w, language)
			_, _ = w.WriteString(`"`)
		}
		_ = w.WriteByte('>')
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			r.Writer.RawWrite(w, line.Value(source))
		}
	} else {
		_, _ = w.WriteString("</code></pre>\n")
	}
	return ast.WalkContinue, nil
}

func codeSpanText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.String()
}

func fenceText(n *ast.FencedCodeBlock, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
	}
	return b.String()
}
