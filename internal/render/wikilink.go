package render

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/starford/perthro/internal/vault"
)

var (
	embedRe    = regexp.MustCompile(`!\[\[([^\]|]+)(?:\|([^\]]*))?\]\]`)
	wikilinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]*))?\]\]`)
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
}

// rewriteWikilinks replaces [[target]] links and ![[target]] embeds with
// HTML before markdown conversion. Lines inside code fences are left alone;
// mechanics blocks carry wikilink-shaped names that must reach the block
// parser intact.
func rewriteWikilinks(body string, v *vault.Vault) string {
	lines := strings.Split(body, "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = rewriteLine(line, v)
	}
	return strings.Join(lines, "\n")
}

func rewriteLine(line string, v *vault.Vault) string {
	// Embeds first so the plain link pattern cannot eat their tails.
	line = embedRe.ReplaceAllStringFunc(line, func(m string) string {
		sub := embedRe.FindStringSubmatch(m)
		return embedHTML(sub[1], sub[2], v)
	})
	return wikilinkRe.ReplaceAllStringFunc(line, func(m string) string {
		sub := wikilinkRe.FindStringSubmatch(m)
		target, alias := sub[1], sub[2]
		ref := target
		if h := strings.Index(ref, "#"); h >= 0 {
			ref = ref[:h]
		}
		if ref == "" {
			return m
		}
		return linkHTML(ref, displayText(target, alias), v)
	})
}

func linkHTML(ref, text string, v *vault.Vault) string {
	return `<a href="` + escape(v.Files.Resolve(ref)) + `" class="internal-link">` + escape(text) + `</a>`
}

func embedHTML(target, alias string, v *vault.Vault) string {
	ext := strings.ToLower(path.Ext(target))
	if !imageExts[ext] {
		// Non-image embeds degrade to plain links.
		return linkHTML(target, displayText(target, alias), v)
	}
	alt := alias
	if alt == "" {
		alt = strings.TrimSuffix(path.Base(target), ext)
	}
	return `<img src="` + escape(attachmentSrc(target, v)) + `" alt="` + escape(alt) + `">`
}

// attachmentSrc maps an embed target to the copied attachment's URL. Bare
// filenames are matched against the vault's attachment list by basename.
func attachmentSrc(target string, v *vault.Vault) string {
	if v != nil && !strings.Contains(target, "/") {
		base := strings.ToLower(target)
		for _, a := range v.Attachments {
			if strings.ToLower(path.Base(a)) == base {
				target = a
				break
			}
		}
	}
	u := url.URL{Path: "/" + target}
	return u.EscapedPath()
}

func displayText(target, alias string) string {
	if alias != "" {
		return alias
	}
	return target
}
