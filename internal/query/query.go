// Package query implements the Dataview-style query language used in query
// fences: TABLE/LIST projections over the vault's frontmatter, filtered by
// tag or path prefix, with WHERE conjunctions and multi-key SORT.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind selects the projection shape of a query.
type Kind int

const (
	Table Kind = iota
	TableWithoutID
	List
)

// String returns the kind's wire name, used by the server's JSON responses.
func (k Kind) String() string {
	switch k {
	case TableWithoutID:
		return "table-without-id"
	case List:
		return "list"
	default:
		return "table"
	}
}

// From filters the document collection. Exactly one of Tag or Prefix is set
// by a well-formed query; the zero value matches nothing.
type From struct {
	Tag    string
	Prefix string
}

// Where is one field comparison. Numeric marks a bare numeric literal, which
// compares numerically when the field value is a number.
type Where struct {
	Field   string
	Op      string
	Value   string
	Numeric bool
}

// Sort is one ordering key. Keys apply left to right as tie-breakers.
type Sort struct {
	Field string
	Desc  bool
}

// Query is the parsed form of one query fence, built once and discarded
// after a single Run.
type Query struct {
	Kind   Kind
	Fields []string
	From   From
	Where  []Where
	Sort   []Sort
}

// Parse builds a Query from raw fence text. Only an empty query or an
// unknown leading keyword is an error; malformed trailing clauses are
// dropped so a typo narrows the result instead of breaking the page.
func Parse(text string) (*Query, error) {
	toks := lex(text)
	if len(toks) == 0 {
		return nil, errors.New("query: empty")
	}

	q := &Query{}
	i := 0
	switch strings.ToUpper(toks[0].text) {
	case "TABLE":
		q.Kind = Table
		i = 1
		if len(toks) >= 3 && keywordIs(toks[1], "WITHOUT") && keywordIs(toks[2], "ID") {
			q.Kind = TableWithoutID
			i = 3
		}
		var parts []string
		for i < len(toks) && !isClauseKeyword(toks[i]) {
			parts = append(parts, toks[i].text)
			i++
		}
		q.Fields = splitFields(strings.Join(parts, " "))
	case "LIST":
		q.Kind = List
		i = 1
	default:
		return nil, fmt.Errorf("query: unknown query type %q", toks[0].text)
	}

	for i < len(toks) {
		switch {
		case keywordIs(toks[i], "FROM"):
			i++
			if i < len(toks) {
				t := toks[i]
				if t.quoted {
					q.From.Prefix = t.text
				} else if strings.HasPrefix(t.text, "#") {
					q.From.Tag = strings.TrimPrefix(t.text, "#")
				}
				i++
			}
		case keywordIs(toks[i], "WHERE"):
			if i+3 < len(toks) {
				field, op, val := toks[i+1], toks[i+2], toks[i+3]
				if (op.text == "=" || op.text == "!=") && !field.quoted {
					w := Where{Field: field.text, Op: op.text, Value: val.text}
					if !val.quoted {
						if _, err := strconv.ParseFloat(val.text, 64); err == nil {
							w.Numeric = true
						}
					}
					q.Where = append(q.Where, w)
					i += 4
					continue
				}
			}
			i++
		case keywordIs(toks[i], "SORT"):
			if i+1 < len(toks) && !isClauseKeyword(toks[i+1]) {
				s := Sort{Field: strings.TrimSuffix(toks[i+1].text, ",")}
				i += 2
				if i < len(toks) {
					switch strings.ToUpper(toks[i].text) {
					case "ASC":
						i++
					case "DESC":
						s.Desc = true
						i++
					}
				}
				q.Sort = append(q.Sort, s)
				continue
			}
			i++
		default:
			i++
		}
	}
	return q, nil
}

type token struct {
	text   string
	quoted bool
}

func lex(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		if c == '"' {
			j := i + 1
			for j < len(s) && s[j] != '"' {
				j++
			}
			toks = append(toks, token{text: s[i+1 : j], quoted: true})
			if j < len(s) {
				j++
			}
			i = j
			continue
		}
		j := i
		for j < len(s) && s[j] != ' ' && s[j] != '\t' && s[j] != '\n' && s[j] != '\r' {
			j++
		}
		toks = append(toks, token{text: s[i:j]})
		i = j
	}
	return toks
}

func keywordIs(t token, kw string) bool {
	return !t.quoted && strings.EqualFold(t.text, kw)
}

func isClauseKeyword(t token) bool {
	return keywordIs(t, "FROM") || keywordIs(t, "WHERE") || keywordIs(t, "SORT")
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
