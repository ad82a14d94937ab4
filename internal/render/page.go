package render

import (
	"html/template"
	"io"
)

// PageData fills the site page template around one converted fragment.
// Canonical, when non-empty, is emitted as a rel=canonical link.
type PageData struct {
	Title      string
	SiteTitle  string
	Canonical  string
	Nav        template.HTML
	Body       template.HTML
	LiveReload bool
}

var pageTmpl = template.Must(template.New("page").Parse(pageSrc))

const pageSrc = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · {{.SiteTitle}}</title>
<link rel="stylesheet" href="/assets/site.css">
{{if .Canonical}}<link rel="canonical" href="{{.Canonical}}">
{{end}}</head>
<body>
<header class="site-header"><a href="/">{{.SiteTitle}}</a></header>
<div class="layout">
<nav class="site-nav">
{{.Nav}}</nav>
<main class="page">
<h1 class="page-title">{{.Title}}</h1>
{{.Body}}</main>
</div>
<footer class="site-footer">perthro</footer>
{{if .LiveReload}}<script>new EventSource("/api/events").addEventListener("site.reloaded", function () { location.reload(); });</script>
{{end}}</body>
</html>
`

// WritePage renders the full page document for one fragment.
func WritePage(w io.Writer, data PageData) error {
	return pageTmpl.Execute(w, data)
}
