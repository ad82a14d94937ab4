package mechanics

import "strconv"

// propValue is a typed statement attribute: a quoted (or bare-word) string,
// or a bare number.
type propValue struct {
	str   string
	num   float64
	isNum bool
}

// props maps attribute keys to values. Duplicate keys resolve last-write-wins
// regardless of value type, which is the stated contract for repeated
// attributes on one line.
type props map[string]propValue

// parseProps tokenizes the attribute portion of a statement line. Three token
// shapes are recognized:
//
//	key="quoted value"   string attribute (no escapes inside quotes)
//	key=123  key=-4.5    numeric attribute
//	key=word             bare-word string attribute (e.g. rank=dangerous)
//	"quoted value"       positional string, collected in order
//
// Anything else is skipped. An unterminated quote runs to end of line.
func parseProps(s string) (props, []string) {
	pr := make(props)
	var positional []string

	i, n := 0, len(s)
	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '"':
			val, next := scanQuoted(s, i)
			positional = append(positional, val)
			i = next
		case isKeyStart(c):
			start := i
			for i < n && isKeyChar(s[i]) {
				i++
			}
			key := s[start:i]
			if i >= n || s[i] != '=' {
				continue // bare keyword token, not an attribute
			}
			i++
			if i < n && s[i] == '"' {
				val, next := scanQuoted(s, i)
				pr[key] = propValue{str: val}
				i = next
				continue
			}
			vstart := i
			for i < n && s[i] != ' ' && s[i] != '\t' {
				i++
			}
			word := s[vstart:i]
			if f, ok := parseNumber(word); ok {
				pr[key] = propValue{num: f, isNum: true}
			} else {
				pr[key] = propValue{str: word}
			}
		default:
			i++
		}
	}
	return pr, positional
}

// scanQuoted consumes a double-quoted token starting at the opening quote and
// returns the content plus the index after the closing quote.
func scanQuoted(s string, start int) (string, int) {
	i := start + 1
	for i < len(s) && s[i] != '"' {
		i++
	}
	if i >= len(s) {
		return s[start+1:], len(s)
	}
	return s[start+1 : i], i + 1
}

// parseNumber accepts an optional leading minus, digits, and an optional
// decimal part. Anything else is not a number.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	i := 0
	if s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if i < len(s) && s[i] == '.' {
		i++
		frac := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			frac++
		}
		if frac == 0 {
			return 0, false
		}
	}
	if i != len(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isKeyStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isKeyChar(c byte) bool {
	return isKeyStart(c) || c >= '0' && c <= '9' || c == '-' || c == '_'
}

// has reports whether the key was present on the line.
func (p props) has(key string) bool {
	_, ok := p[key]
	return ok
}

// str returns the attribute as text: strings verbatim, numbers formatted
// without trailing zeros, absent keys as "".
func (p props) str(key string) string {
	v, ok := p[key]
	if !ok {
		return ""
	}
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// num returns the attribute as a number, parsing string values best-effort.
// Absent or unparsable values are 0.
func (p props) num(key string) float64 {
	v, ok := p[key]
	if !ok {
		return 0
	}
	if v.isNum {
		return v.num
	}
	f, ok := parseNumber(v.str)
	if !ok {
		return 0
	}
	return f
}

// integer returns the attribute truncated to an int.
func (p props) integer(key string) int {
	return int(p.num(key))
}
