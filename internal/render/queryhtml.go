package render

import (
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/starford/perthro/internal/query"
	"github.com/starford/perthro/internal/vault"
)

// queryFenceHTML runs one query fence and serializes its result. Parse
// failures render as a visible error paragraph instead of breaking the page.
func queryFenceHTML(text string, docs []vault.Document) string {
	q, err := query.Parse(text)
	if err != nil {
		return `<p class="error">` + escape(err.Error()) + `</p>`
	}
	return resultHTML(query.Run(q, docs))
}

func resultHTML(res query.Result) string {
	var b strings.Builder
	if res.Kind == query.List {
		b.WriteString("<ul class=\"dataview\">\n")
		for _, it := range res.Items {
			b.WriteString("<li>")
			b.WriteString(cellHTML(it))
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>")
		return b.String()
	}

	b.WriteString("<table class=\"dataview\">\n<thead>\n<tr>")
	for _, h := range res.Headers {
		b.WriteString("<th>")
		b.WriteString(escape(h))
		b.WriteString("</th>")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, row := range res.Rows {
		b.WriteString("<tr>")
		for _, c := range row {
			b.WriteString("<td>")
			b.WriteString(cellHTML(c))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")
	return b.String()
}

func cellHTML(c query.Cell) string {
	if c.Href != "" {
		return `<a href="` + escape(c.Href) + `">` + escape(c.Text) + `</a>`
	}
	return escape(c.Text)
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
