package vault

import (
	"regexp"
	"strings"
)

var slugWS = regexp.MustCompile(`\s+`)

// Slugify maps a vault-relative content path to its site URL. The transform
// is shared by the loader, the wikilink rewriter, and the mechanics parsers,
// so every reference to the same file lands on the same slug:
//
//	unescape "\/" to "/", drop a trailing ".md", lowercase, collapse
//	whitespace runs to single hyphens, strip parentheses and apostrophes,
//	and guarantee exactly one leading slash.
func Slugify(path string) string {
	s := strings.ReplaceAll(path, `\/`, "/")
	s = strings.TrimSuffix(s, ".md")
	s = strings.ToLower(s)
	s = slugWS.ReplaceAllString(s, "-")
	s = strings.Map(dropPunct, s)
	return "/" + strings.TrimLeft(s, "/")
}

func dropPunct(r rune) rune {
	switch r {
	case '(', ')', '\'':
		return -1
	}
	return r
}
