package mechanics

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	mdLinkRe        = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	addPositionalRe = regexp.MustCompile(`^add\s+(-?\d+)(?:\s+"([^"]*)")?`)
	oracleScanRe    = regexp.MustCompile(`oracle\s+name="([^"]*)"\s+result="([^"]*)"\s+roll=(-?\d+(?:\.\d+)?)`)
)

// scan parses a mechanics-block body into a statement list. Lines with an
// unknown keyword are skipped; the scanner itself never fails.
func scan(src string) []Statement {
	lines := strings.Split(src, "\n")
	var out []Statement

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}
		if strings.HasPrefix(line, "- ") {
			out = append(out, DetailStmt{Text: line[2:]})
			i++
			continue
		}

		keyword, rest := splitKeyword(line)
		switch keyword {
		case "move", "oracle", "oracle-group", "actor":
			if strings.Contains(line, "{") {
				header, body, next := collectBraced(lines, i)
				out = append(out, bracedStatement(keyword, header, body))
				i = next
				continue
			}
		}

		if st, ok := lineStatement(keyword, rest, line); ok {
			out = append(out, st)
		}
		i++
	}
	return out
}

// splitKeyword separates the leading keyword from the rest of the line.
func splitKeyword(line string) (keyword, rest string) {
	end := len(line)
	for j := 0; j < len(line); j++ {
		c := line[j]
		if c == ' ' || c == '\t' || c == '{' {
			end = j
			break
		}
	}
	return line[:end], line[end:]
}

// collectBraced consumes a brace-delimited statement starting at lines[start].
// It returns the header (text before the first opening brace), the body
// between the outermost braces, and the index of the line after the closing
// brace. An unbalanced body consumes everything to end of input. Brace
// counting is not aware of quoted strings; a brace inside a quoted value
// mis-balances the scan.
func collectBraced(lines []string, start int) (header, body string, next int) {
	first := lines[start]
	open := strings.Index(first, "{")
	header = strings.TrimSpace(first[:open])

	var b strings.Builder
	depth := 0
	text := first[open:]
	j := start
	for {
		for k := 0; k < len(text); k++ {
			c := text[k]
			switch c {
			case '{':
				depth++
				if depth == 1 {
					continue
				}
			case '}':
				depth--
				if depth == 0 {
					return header, b.String(), j + 1
				}
			}
			b.WriteByte(c)
		}
		j++
		if j >= len(lines) {
			return header, b.String(), j
		}
		b.WriteByte('\n')
		text = lines[j]
	}
}

// bracedStatement builds the statement for a brace-delimited form.
func bracedStatement(keyword, header, body string) Statement {
	_, rest := splitKeyword(header)
	pr, pos := parseProps(rest)

	switch keyword {
	case "move":
		name, ok := moveName(pr, pos)
		if !ok {
			return BadMoveStmt{Raw: header + " {" + body + "}"}
		}
		return MoveStmt{Name: name, Children: scan(body)}
	case "oracle":
		o := oracleFromProps(pr, pos)
		for _, ln := range strings.Split(body, "\n") {
			kw, r := splitKeyword(strings.TrimSpace(ln))
			if kw != "oracle" {
				continue
			}
			cpr, cpos := parseProps(r)
			o.Children = append(o.Children, oracleFromProps(cpr, cpos))
		}
		return o
	case "oracle-group":
		g := OracleGroupStmt{Name: nameFrom(pr, pos)}
		for _, m := range oracleScanRe.FindAllStringSubmatch(body, -1) {
			f, _ := strconv.ParseFloat(m[3], 64)
			g.Oracles = append(g.Oracles, OracleStmt{Name: m[1], Result: m[2], Roll: int(f)})
		}
		return g
	default: // actor
		return ActorStmt{Name: parseLinkName(nameFrom(pr, pos)), Children: scan(body)}
	}
}

// lineStatement builds the statement for a single-line form. ok is false for
// unknown keywords.
func lineStatement(keyword, rest, line string) (Statement, bool) {
	pr, pos := parseProps(rest)

	switch keyword {
	case "move":
		name, ok := moveName(pr, pos)
		if !ok {
			return BadMoveStmt{Raw: line}, true
		}
		return MoveStmt{Name: name}, true
	case "oracle":
		return oracleFromProps(pr, pos), true
	case "oracle-group":
		return OracleGroupStmt{Name: nameFrom(pr, pos)}, true
	case "actor":
		return ActorStmt{Name: parseLinkName(nameFrom(pr, pos))}, true
	case "roll":
		statName := pr.str("stat-name")
		if statName == "" && len(pos) > 0 {
			statName = pos[0]
		}
		return RollStmt{
			StatName: statName,
			Action:   pr.integer("action"),
			Stat:     pr.integer("stat"),
			Adds:     pr.integer("adds"),
			VS1:      pr.integer("vs1"),
			VS2:      pr.integer("vs2"),
		}, true
	case "progress-roll":
		return ProgressRollStmt{
			Score: pr.integer("score"),
			VS1:   pr.integer("vs1"),
			VS2:   pr.integer("vs2"),
		}, true
	case "meter":
		return MeterStmt{Name: nameFrom(pr, pos), From: pr.integer("from"), To: pr.integer("to")}, true
	case "burn":
		return BurnStmt{From: pr.integer("from"), To: pr.integer("to")}, true
	case "xp":
		return XPStmt{From: pr.integer("from"), To: pr.integer("to")}, true
	case "track":
		st := TrackStmt{
			Name: parseLinkName(nameFrom(pr, pos)),
			From: pr.integer("from"),
			To:   pr.integer("to"),
		}
		if pr.has("status") {
			st.Status, st.HasStatus = pr.str("status"), true
		}
		return st, true
	case "progress":
		return ProgressStmt{
			Name:  parseLinkName(nameFrom(pr, pos)),
			Rank:  pr.str("rank"),
			Steps: pr.integer("steps"),
			From:  pr.integer("from"),
		}, true
	case "clock":
		st := ClockStmt{
			Name:  parseLinkName(nameFrom(pr, pos)),
			From:  pr.integer("from"),
			To:    pr.integer("to"),
			OutOf: pr.integer("out-of"),
		}
		if pr.has("status") {
			st.Status, st.HasStatus = pr.str("status"), true
		}
		return st, true
	case "asset":
		st := AssetStmt{Name: parseLinkName(nameFrom(pr, pos))}
		if pr.has("status") {
			st.Status, st.HasStatus = pr.str("status"), true
		}
		if pr.has("ability") {
			st.Ability, st.HasAbility = pr.str("ability"), true
		}
		return st, true
	case "impact":
		return ImpactStmt{Name: nameFrom(pr, pos), Marked: strings.ToLower(pr.str("marked"))}, true
	case "initiative", "position":
		return InitiativeStmt{From: pr.str("from"), To: pr.str("to")}, true
	case "reroll":
		st := RerollStmt{}
		if pr.has("action") {
			st.Action, st.HasAction = pr.integer("action"), true
		}
		if pr.has("old-action") {
			st.OldAction, st.HasOldAction = pr.integer("old-action"), true
		}
		if pr.has("vs1") {
			st.VS1, st.HasVS1 = pr.integer("vs1"), true
		}
		if pr.has("old-vs1") {
			st.OldVS1, st.HasOldVS1 = pr.integer("old-vs1"), true
		}
		if pr.has("vs2") {
			st.VS2, st.HasVS2 = pr.integer("vs2"), true
		}
		if pr.has("old-vs2") {
			st.OldVS2, st.HasOldVS2 = pr.integer("old-vs2"), true
		}
		return st, true
	case "add":
		st := AddStmt{Amount: pr.integer("amount"), Reason: pr.str("from")}
		// A prop-style amount of 0 is indistinguishable from an absent
		// amount, so the positional form is also tried and may override.
		if st.Amount == 0 {
			if m := addPositionalRe.FindStringSubmatch(line); m != nil {
				n, _ := strconv.Atoi(m[1])
				st.Amount = n
				if m[2] != "" {
					st.Reason = m[2]
				}
			}
		}
		return st, true
	case "dice":
		expr := pr.str("expr")
		if expr == "" && len(pos) > 0 {
			expr = pos[0]
		}
		return DiceStmt{Expr: expr, Result: pr.integer("result")}, true
	}
	return nil, false
}

// moveName extracts a move's display name from its name prop or first
// positional string, stripping one level of Markdown link syntax. ok is
// false when no name is present at all.
func moveName(pr props, pos []string) (string, bool) {
	name := nameFrom(pr, pos)
	if name == "" {
		return "", false
	}
	return mdLinkRe.ReplaceAllString(name, "$1"), true
}

// nameFrom prefers the name prop over the first positional string.
func nameFrom(pr props, pos []string) string {
	if n := pr.str("name"); n != "" {
		return n
	}
	if len(pos) > 0 {
		return pos[0]
	}
	return ""
}

// oracleFromProps builds an oracle statement from one line's attributes.
func oracleFromProps(pr props, pos []string) OracleStmt {
	o := OracleStmt{Name: nameFrom(pr, pos), Roll: pr.integer("roll"), Result: pr.str("result")}
	if pr.has("cursed") {
		o.Cursed, o.HasCursed = pr.str("cursed"), true
	}
	if pr.has("replaced") {
		o.Replaced, o.HasReplaced = pr.str("replaced"), true
	}
	return o
}
