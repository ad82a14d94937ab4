package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/starford/perthro/internal/vault"
)

// Cell is one rendered value. A non-empty Href marks it as a link.
type Cell struct {
	Text string
	Href string
}

// Result is the projected output of one query run: Headers+Rows for tables,
// Items for lists.
type Result struct {
	Kind    Kind
	Headers []string
	Rows    [][]Cell
	Items   []Cell
}

// Run executes a parsed query over the document collection. It never fails;
// a query that matches nothing yields an empty result.
func Run(q *Query, docs []vault.Document) Result {
	var matched []vault.Document
	for _, d := range docs {
		if !q.From.match(d) {
			continue
		}
		keep := true
		for _, w := range q.Where {
			if !w.match(d) {
				keep = false
				break
			}
		}
		if keep {
			matched = append(matched, d)
		}
	}
	sortDocs(matched, q.Sort)

	if q.Kind == List {
		res := Result{Kind: List}
		for _, d := range matched {
			res.Items = append(res.Items, Cell{Text: displayName(d), Href: d.Slug})
		}
		return res
	}

	res := Result{Kind: q.Kind}
	if q.Kind == Table {
		res.Headers = append(res.Headers, "File")
	}
	res.Headers = append(res.Headers, q.Fields...)
	for _, d := range matched {
		var row []Cell
		if q.Kind == Table {
			row = append(row, Cell{Text: displayName(d), Href: d.Slug})
		}
		for _, f := range q.Fields {
			v, _ := fieldValue(d, f)
			row = append(row, Cell{Text: stringify(v)})
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func (f From) match(d vault.Document) bool {
	if f.Tag != "" {
		for _, t := range d.Tags {
			if strings.EqualFold(t, f.Tag) {
				return true
			}
		}
		return false
	}
	if f.Prefix != "" {
		return strings.HasPrefix(d.Path, f.Prefix)
	}
	return false
}

func (w Where) match(d vault.Document) bool {
	v, ok := fieldValue(d, w.Field)
	if !ok {
		// Absent fields fail equality and pass inequality.
		return w.Op == "!="
	}
	if w.Numeric {
		if n, nok := toNumber(v); nok {
			want, _ := strconv.ParseFloat(w.Value, 64)
			if w.Op == "=" {
				return n == want
			}
			return n != want
		}
	}
	s := stringify(v)
	if w.Op == "=" {
		return s == w.Value
	}
	return s != w.Value
}

// fieldValue resolves a projection or filter field against one document.
// Frontmatter wins; tags fall back to the extracted tag set.
func fieldValue(d vault.Document, name string) (interface{}, bool) {
	if v, ok := d.Frontmatter[name]; ok {
		return v, true
	}
	if name == "tags" && len(d.Tags) > 0 {
		return d.Tags, true
	}
	return nil, false
}

func displayName(d vault.Document) string {
	if d.Title != "" {
		return d.Title
	}
	return d.Slug
}

func sortDocs(docs []vault.Document, keys []Sort) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			c := compareField(docs[i], docs[j], k.Field)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareField orders two documents by one field, numerically when both
// sides are numbers, as strings otherwise. Missing fields compare as the
// empty string.
func compareField(a, b vault.Document, field string) int {
	av, _ := fieldValue(a, field)
	bv, _ := fieldValue(b, field)
	an, aok := toNumber(av)
	bn, bok := toNumber(bv)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(stringify(av), stringify(bv))
}

func toNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		if n, err := strconv.ParseFloat(x, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// stringify renders a frontmatter value for display and string comparison.
// Arrays join with a comma, absent values are empty.
func stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []string:
		return strings.Join(x, ", ")
	case []interface{}:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, stringify(e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", x)
	}
}
