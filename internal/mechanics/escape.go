package mechanics

import "strings"

// The notation escapes path separators as \/ so that pipes and slugs survive
// pipe-delimited fields. unescapePath reverses that before any other
// processing.
func unescapePath(s string) string {
	return strings.ReplaceAll(s, `\/`, "/")
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escapeText prepares authored text for embedding into HTML: unescape the
// notation's separators first, then entity-escape the HTML metacharacters.
func escapeText(s string) string {
	return htmlEscaper.Replace(unescapePath(s))
}

// truncate shortens s to at most n runes for error excerpts.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
