package mechanics

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseBlock renders a fenced mechanics block as an HTML article. It never
// fails: unknown statement lines are skipped and malformed values fall back
// to defaults, so the worst input still yields the empty article.
func ParseBlock(content string) string {
	stmts := scan(content)
	var b strings.Builder
	b.WriteString(`<article class="iron-vault-mechanics">`)
	if len(stmts) > 0 {
		b.WriteByte('\n')
		for _, st := range stmts {
			renderStatement(&b, st)
		}
	}
	b.WriteString(`</article>`)
	return b.String()
}

func renderStatement(b *strings.Builder, st Statement) {
	switch s := st.(type) {
	case MoveStmt:
		renderMove(b, s)
	case BadMoveStmt:
		b.WriteString(`<p class="error">Unable to parse move: `)
		b.WriteString(escapeText(truncate(s.Raw, 60)))
		b.WriteString("</p>\n")
	case RollStmt:
		renderRoll(b, s)
	case ProgressRollStmt:
		renderProgressRoll(b, s)
	case OracleStmt:
		renderOracle(b, s)
	case OracleGroupStmt:
		renderOracleGroup(b, s)
	case ActorStmt:
		renderActor(b, s)
	case MeterStmt:
		openDL(b, "meter")
		writeDD(b, "Meter", "name", s.Name)
		writeDD(b, "From", "from", strconv.Itoa(s.From))
		writeDD(b, "To", signClass("to", s.To-s.From), strconv.Itoa(s.To))
		closeDL(b)
	case BurnStmt:
		openDL(b, "burn")
		writeDD(b, "From", "from", strconv.Itoa(s.From))
		writeDD(b, "To", "to", strconv.Itoa(s.To))
		closeDL(b)
	case XPStmt:
		openDL(b, "xp")
		writeDD(b, "From", "from", strconv.Itoa(s.From))
		writeDD(b, "To", signClass("to", s.To-s.From), strconv.Itoa(s.To))
		closeDL(b)
	case TrackStmt:
		renderTrack(b, s)
	case ProgressStmt:
		renderProgress(b, s)
	case ClockStmt:
		renderClock(b, s)
	case AssetStmt:
		openDL(b, "asset")
		writeDDRaw(b, "Name", "name", s.Name.html())
		if s.HasStatus {
			writeDD(b, "Status", "status", s.Status)
		}
		if s.HasAbility {
			writeDD(b, "Ability", "ability", s.Ability)
		}
		closeDL(b)
	case ImpactStmt:
		openDL(b, "impact")
		writeDD(b, "Name", "name", s.Name)
		b.WriteString(`<dt>Marked</dt><dd class="marked" data-value="`)
		b.WriteString(escapeText(s.Marked))
		b.WriteString(`">`)
		b.WriteString(escapeText(s.Marked))
		b.WriteString("</dd>\n")
		closeDL(b)
	case InitiativeStmt:
		openDL(b, "initiative")
		writeDD(b, "From", "from "+initiativeClass(s.From), initiativeLabel(s.From))
		writeDD(b, "To", "to "+initiativeClass(s.To), initiativeLabel(s.To))
		closeDL(b)
	case RerollStmt:
		renderReroll(b, s)
	case AddStmt:
		openDL(b, "add")
		writeDD(b, "Amount", "amount", strconv.Itoa(s.Amount))
		if s.Reason != "" {
			writeDD(b, "Reason", "reason", s.Reason)
		}
		closeDL(b)
	case DiceStmt:
		openDL(b, "dice")
		writeDD(b, "Roll", "expr", s.Expr)
		writeDD(b, "Result", "result", strconv.Itoa(s.Result))
		closeDL(b)
	case DetailStmt:
		b.WriteString(`<aside class="detail">`)
		b.WriteString(escapeText(s.Text))
		b.WriteString("</aside>\n")
	}
}

// renderMove emits a move details element. With a roll among the children
// the element is open and classed with the roll's outcome; without one it
// collapses to the bare name.
func renderMove(b *strings.Builder, s MoveStmt) {
	out, match, rolled := moveOutcome(s.Children)
	if !rolled {
		b.WriteString(`<details class="move">` + "\n<summary>")
		b.WriteString(escapeText(s.Name))
		b.WriteString("</summary>\n</details>\n")
		return
	}
	b.WriteString(`<details class="move `)
	b.WriteString(out.classes(match))
	b.WriteString("\" open>\n<summary>")
	b.WriteString(escapeText(s.Name))
	b.WriteString("</summary>\n")
	for _, child := range s.Children {
		renderStatement(b, child)
	}
	b.WriteString("</details>\n")
}

// moveOutcome classifies a move by its first roll child.
func moveOutcome(children []Statement) (out Outcome, match, ok bool) {
	for _, child := range children {
		switch c := child.(type) {
		case RollStmt:
			score := Score(c.Action, c.Stat, c.Adds)
			return Classify(score, c.VS1, c.VS2), IsMatch(c.VS1, c.VS2), true
		case ProgressRollStmt:
			return Classify(c.Score, c.VS1, c.VS2), IsMatch(c.VS1, c.VS2), true
		}
	}
	return 0, false, false
}

func renderRoll(b *strings.Builder, s RollStmt) {
	score := Score(s.Action, s.Stat, s.Adds)
	out := Classify(score, s.VS1, s.VS2)
	match := IsMatch(s.VS1, s.VS2)
	openDL(b, "roll "+out.classes(match))
	writeDD(b, "Action die", "action-die", strconv.Itoa(s.Action))
	writeDD(b, "Stat", "stat", strconv.Itoa(s.Stat))
	writeDD(b, "Stat name", "stat-name", s.StatName)
	writeDD(b, "Adds", "adds", strconv.Itoa(s.Adds))
	writeDD(b, "Score", "score", strconv.Itoa(score))
	writeDD(b, "Challenge die", "challenge-die", strconv.Itoa(s.VS1))
	writeDD(b, "Challenge die", "challenge-die", strconv.Itoa(s.VS2))
	writeDD(b, "Outcome", "outcome", out.labelWith(match))
	closeDL(b)
}

func renderProgressRoll(b *strings.Builder, s ProgressRollStmt) {
	out := Classify(s.Score, s.VS1, s.VS2)
	match := IsMatch(s.VS1, s.VS2)
	openDL(b, "roll "+out.classes(match))
	writeDD(b, "Progress score", "progress-score", strconv.Itoa(s.Score))
	writeDD(b, "Challenge die", "challenge-die", strconv.Itoa(s.VS1))
	writeDD(b, "Challenge die", "challenge-die", strconv.Itoa(s.VS2))
	writeDD(b, "Outcome", "outcome", out.labelWith(match))
	closeDL(b)
}

func renderOracle(b *strings.Builder, s OracleStmt) {
	renderOracleDL(b, s)
	if len(s.Children) > 0 {
		b.WriteString("<blockquote>\n")
		for _, child := range s.Children {
			renderOracleDL(b, child)
		}
		b.WriteString("</blockquote>\n")
	}
}

func renderOracleDL(b *strings.Builder, s OracleStmt) {
	openDL(b, "oracle")
	writeDD(b, "Name", "name", s.Name)
	writeDD(b, "Roll", "roll", strconv.Itoa(s.Roll))
	writeDD(b, "Result", "result", s.Result)
	if s.HasCursed {
		writeDD(b, "Cursed", "cursed", s.Cursed)
	}
	if s.HasReplaced {
		writeDD(b, "Replaced", "replaced", s.Replaced)
	}
	closeDL(b)
}

func renderOracleGroup(b *strings.Builder, s OracleGroupStmt) {
	b.WriteString(`<section class="oracle-group">` + "\n")
	if s.Name != "" {
		b.WriteString("<h4>")
		b.WriteString(escapeText(s.Name))
		b.WriteString("</h4>\n")
	}
	for _, o := range s.Oracles {
		renderOracleDL(b, o)
	}
	b.WriteString("</section>\n")
}

func renderActor(b *strings.Builder, s ActorStmt) {
	b.WriteString(`<section class="actor">` + "\n")
	b.WriteString(`<h4 class="name">`)
	b.WriteString(s.Name.html())
	b.WriteString("</h4>\n")
	for _, child := range s.Children {
		renderStatement(b, child)
	}
	b.WriteString("</section>\n")
}

func renderTrack(b *strings.Builder, s TrackStmt) {
	if s.HasStatus {
		openDL(b, "track-status")
		writeDDRaw(b, "Name", "name", s.Name.html())
		writeDD(b, "Status", "status", s.Status)
		closeDL(b)
		return
	}
	openDL(b, "track")
	writeDDRaw(b, "Name", "name", s.Name.html())
	writeTicks(b, s.From, s.To)
	closeDL(b)
}

func renderProgress(b *strings.Builder, s ProgressStmt) {
	added := ticksForRank(s.Rank) * s.Steps
	openDL(b, "track")
	writeDDRaw(b, "Name", "name", s.Name.html())
	writeDD(b, "Rank", "rank", s.Rank)
	writeDD(b, "Steps", "steps", strconv.Itoa(s.Steps))
	writeTicks(b, s.From, s.From+added)
	closeDL(b)
}

// writeTicks decomposes tick totals into filled boxes and remainder ticks.
func writeTicks(b *strings.Builder, from, to int) {
	writeDD(b, "From boxes", "from-boxes", strconv.Itoa(from/4))
	writeDD(b, "From ticks", "from-ticks", strconv.Itoa(from%4))
	writeDD(b, "To boxes", "to-boxes", strconv.Itoa(to/4))
	writeDD(b, "To ticks", "to-ticks", strconv.Itoa(to%4))
}

func renderClock(b *strings.Builder, s ClockStmt) {
	if s.HasStatus {
		openDL(b, "clock-status")
		writeDDRaw(b, "Name", "name", s.Name.html())
		writeDD(b, "Status", "status", s.Status)
		closeDL(b)
		return
	}
	openDL(b, "clock")
	writeDDRaw(b, "Name", "name", s.Name.html())
	writeDD(b, "From", "from", strconv.Itoa(s.From))
	writeDD(b, "Out of", "out-of", strconv.Itoa(s.OutOf))
	writeDD(b, "To", "to", strconv.Itoa(s.To))
	writeDD(b, "Out of", "out-of", strconv.Itoa(s.OutOf))
	closeDL(b)
}

func renderReroll(b *strings.Builder, s RerollStmt) {
	openDL(b, "reroll")
	if s.HasAction {
		writeRerollDie(b, "Action die", s.OldAction, s.HasOldAction, s.Action)
	}
	if s.HasVS1 {
		writeRerollDie(b, "Challenge die", s.OldVS1, s.HasOldVS1, s.VS1)
	}
	if s.HasVS2 {
		writeRerollDie(b, "Challenge die", s.OldVS2, s.HasOldVS2, s.VS2)
	}
	closeDL(b)
}

func writeRerollDie(b *strings.Builder, label string, old int, hasOld bool, to int) {
	from := "?"
	if hasOld {
		from = strconv.Itoa(old)
	}
	b.WriteString("<dt>")
	b.WriteString(label)
	b.WriteString(`</dt><dd class="from">`)
	b.WriteString(from)
	b.WriteString(`</dd><dd class="to">`)
	b.WriteString(strconv.Itoa(to))
	b.WriteString("</dd>\n")
}

var rankTicks = map[string]int{
	"troublesome": 12,
	"dangerous":   8,
	"formidable":  4,
	"extreme":     2,
	"epic":        1,
}

func ticksForRank(rank string) int {
	if t, ok := rankTicks[strings.ToLower(rank)]; ok {
		return t
	}
	return 4
}

var (
	reBadSpot   = regexp.MustCompile(`(?i)bad.spot`)
	reNoInit    = regexp.MustCompile(`(?i)no.initiative`)
	reInControl = regexp.MustCompile(`(?i)in.control`)
	reInit      = regexp.MustCompile(`(?i)initiative`)
)

func initiativeClass(s string) string {
	switch {
	case reBadSpot.MatchString(s) || reNoInit.MatchString(s):
		return "no-initiative"
	case reInControl.MatchString(s) || reInit.MatchString(s):
		return "has-initiative"
	default:
		return "out-of-combat"
	}
}

func initiativeLabel(s string) string {
	switch {
	case reBadSpot.MatchString(s):
		return "In a bad spot"
	case reNoInit.MatchString(s):
		return "No initiative"
	case reInControl.MatchString(s):
		return "In control"
	case reInit.MatchString(s):
		return "Has initiative"
	default:
		return "Out of combat"
	}
}

// html renders a link name as an anchor when a target resolved, otherwise
// as escaped text.
func (n LinkName) html() string {
	if n.Href == "" {
		return escapeText(n.Text)
	}
	return `<a href="` + escapeText(n.Href) + `">` + escapeText(n.Text) + `</a>`
}

func openDL(b *strings.Builder, class string) {
	b.WriteString(`<dl class="`)
	b.WriteString(class)
	b.WriteString("\">\n")
}

func closeDL(b *strings.Builder) {
	b.WriteString("</dl>\n")
}

func writeDD(b *strings.Builder, label, class, value string) {
	writeDDRaw(b, label, class, escapeText(value))
}

func writeDDRaw(b *strings.Builder, label, class, inner string) {
	b.WriteString("<dt>")
	b.WriteString(label)
	b.WriteString(`</dt><dd class="`)
	b.WriteString(class)
	b.WriteString(`">`)
	b.WriteString(inner)
	b.WriteString("</dd>\n")
}

func signClass(base string, delta int) string {
	if delta >= 0 {
		return base + " positive"
	}
	return base + " negative"
}
