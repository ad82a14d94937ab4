package vault

import "strings"

// FileInfo is the lookup entry for one vault file.
type FileInfo struct {
	Slug       string
	Title      string
	SourcePath string
}

// Lookup maps lowercased basenames (without the .md extension) to files, so
// that short references like [[Iron Oath]] or an inline mechanic's bare move
// name can find their target without a full path.
//
// When two files share a basename the shallower source path wins; at equal
// depth the lexicographically smaller path wins. The result is deterministic
// regardless of insertion order.
type Lookup struct {
	m map[string]FileInfo
}

// NewLookup returns an empty lookup table.
func NewLookup() *Lookup {
	return &Lookup{m: make(map[string]FileInfo)}
}

// Add registers a file under its lowercased basename, applying the collision
// tie-break described on Lookup.
func (l *Lookup) Add(fi FileInfo) {
	key := baseKey(fi.SourcePath)
	if key == "" {
		return
	}
	cur, ok := l.m[key]
	if ok && !prefer(fi.SourcePath, cur.SourcePath) {
		return
	}
	l.m[key] = fi
}

// Get looks up a file by lowercased basename without extension.
func (l *Lookup) Get(base string) (FileInfo, bool) {
	if l == nil {
		return FileInfo{}, false
	}
	fi, ok := l.m[strings.ToLower(strings.TrimSuffix(base, ".md"))]
	return fi, ok
}

// Len returns the number of registered basenames.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.m)
}

// Resolve maps an authored reference to a site slug. References containing a
// path separator (possibly escaped as "\/") convert directly via Slugify;
// bare names are looked up by basename first, falling back to Slugify when
// absent. A nil receiver behaves like an empty table.
func (l *Lookup) Resolve(ref string) string {
	r := strings.TrimSpace(ref)
	if r == "" {
		return ""
	}
	if strings.Contains(strings.ReplaceAll(r, `\/`, "/"), "/") {
		return Slugify(r)
	}
	if fi, ok := l.Get(r); ok {
		return fi.Slug
	}
	return Slugify(r)
}

// baseKey derives the lookup key from a source path.
func baseKey(path string) string {
	p := strings.TrimSuffix(path, ".md")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return strings.ToLower(p)
}

// prefer reports whether candidate should replace current in the table.
func prefer(candidate, current string) bool {
	cd := strings.Count(candidate, "/")
	dd := strings.Count(current, "/")
	if cd != dd {
		return cd < dd
	}
	return candidate < current
}
