package mechanics

import (
	"strconv"
	"strings"

	"github.com/starford/perthro/internal/vault"
)

// ParseInline renders one inline mechanics code as an HTML span. ok is false
// when the code is not mechanics notation at all, telling the caller to fall
// back to a literal code span. Recognized codes always render: missing
// numeric fields count as 0 and missing strings as empty.
func ParseInline(code string, files *vault.Lookup) (string, bool) {
	kind, rest, found := strings.Cut(code, ":")
	if !found || !strings.HasPrefix(kind, "iv-") {
		return "", false
	}
	kind = strings.TrimPrefix(kind, "iv-")

	// ooc bodies are freeform and may contain pipes; everything else is
	// pipe-delimited positional fields.
	if kind == "ooc" {
		return span("iv-mechanic iv-ooc", escapeText(rest)), true
	}

	f := fields(strings.Split(rest, "|"))
	switch kind {
	case "move":
		return inlineMove(f, files), true
	case "oracle":
		inner := linkOrSpan(f.str(0), f.str(3), files) +
			": " + escapeText(f.str(2)) + " (" + strconv.Itoa(f.num(1)) + ")"
		return span("iv-mechanic iv-oracle", inner), true
	case "meter":
		from, to := f.num(1), f.num(2)
		variant := "meter-increase"
		if to-from < 0 {
			variant = "meter-decrease"
		}
		inner := escapeText(f.str(0)) + ": " + arrow(from, to)
		return span("iv-mechanic iv-meter "+variant, inner), true
	case "burn":
		return span("iv-mechanic iv-burn", "Burn: "+arrow(f.num(0), f.num(1))), true
	case "initiative":
		inner := escapeText(f.str(0)) + " → " + escapeText(f.str(1))
		return span("iv-mechanic iv-initiative "+inlineInitiativeClass(f.str(1)), inner), true
	case "track-create":
		return span("iv-mechanic iv-track-create",
			"Track created: "+linkOrSpan(f.str(0), f.str(1), files)), true
	case "track-advance":
		inner := linkOrSpan(f.str(0), f.str(1), files) +
			": +" + strconv.Itoa(f.num(5)) +
			" (" + strconv.Itoa(f.num(3)/4) + "/10)"
		return span("iv-mechanic iv-track-advance", inner), true
	case "track-complete":
		return span("iv-mechanic iv-track-complete",
			"Track completed: "+linkOrSpan(f.str(0), f.str(1), files)), true
	case "progress":
		return inlineProgress(f, files), true
	case "noroll":
		return span("iv-mechanic iv-noroll", linkOrSpan(f.str(0), f.str(1), files)), true
	case "entity-create":
		inner := "New " + escapeText(f.str(0)) + ": " + linkOrSpan(f.str(1), f.str(2), files)
		return span("iv-mechanic iv-entity-create", inner), true
	case "clock-create":
		inner := linkOrSpan(f.str(0), f.str(2), files) + ": 0/" + strconv.Itoa(f.num(1))
		return span("iv-mechanic iv-clock-create", inner), true
	case "clock-advance":
		seg := strconv.Itoa(f.num(3))
		inner := linkOrSpan(f.str(0), f.str(4), files) +
			": " + strconv.Itoa(f.num(1)) + "/" + seg +
			" → " + strconv.Itoa(f.num(2)) + "/" + seg
		return span("iv-mechanic iv-clock-advance", inner), true
	case "clock-resolve":
		return span("iv-mechanic iv-clock-resolve",
			"Clock resolved: "+linkOrSpan(f.str(0), f.str(1), files)), true
	case "dice":
		inner := escapeText(f.str(0)) + " = " + strconv.Itoa(f.num(1))
		return span("iv-mechanic iv-dice", inner), true
	}
	return "", false
}

func inlineMove(f fields, files *vault.Lookup) string {
	score := Score(f.num(2), f.num(3), f.num(4))
	vs1, vs2 := f.num(5), f.num(6)
	out := Classify(score, vs1, vs2)
	match := IsMatch(vs1, vs2)
	inner := `<span class="outcome-icon ` + out.String() + `"></span>` +
		linkOrSpan(f.str(0), f.str(7), files) +
		": " + escapeText(f.str(1)) + " " + strconv.Itoa(score) +
		" vs " + strconv.Itoa(vs1) + ", " + strconv.Itoa(vs2)
	return span("iv-mechanic iv-move "+out.classes(match), inner)
}

func inlineProgress(f fields, files *vault.Lookup) string {
	prog := f.num(1)
	vs1, vs2 := f.num(2), f.num(3)
	out := Classify(prog, vs1, vs2)
	match := IsMatch(vs1, vs2)
	inner := `<span class="outcome-icon ` + out.String() + `"></span>` +
		linkOrSpan(f.str(0), f.str(4), files) +
		": " + strconv.Itoa(prog) +
		" vs " + strconv.Itoa(vs1) + ", " + strconv.Itoa(vs2)
	return span("iv-mechanic iv-progress "+out.classes(match), inner)
}

// inlineInitiativeClass picks the variant class from the destination state.
func inlineInitiativeClass(to string) string {
	lt := strings.ToLower(to)
	switch {
	case strings.Contains(lt, "control"):
		return "initiative-in-control"
	case strings.Contains(lt, "bad"):
		return "initiative-bad-spot"
	case strings.Contains(lt, "out"):
		return "initiative-out-of-combat"
	default:
		return "initiative"
	}
}

// fields is a pipe-split positional field list with defaulting accessors.
type fields []string

func (f fields) str(i int) string {
	if i < len(f) {
		return f[i]
	}
	return ""
}

func (f fields) num(i int) int {
	n, err := strconv.Atoi(strings.TrimSpace(f.str(i)))
	if err != nil {
		return 0
	}
	return n
}

func span(class, inner string) string {
	return `<span class="` + class + `">` + inner + `</span>`
}

// linkOrSpan renders a display name, linked when a reference is present.
func linkOrSpan(name, ref string, files *vault.Lookup) string {
	if strings.TrimSpace(ref) == "" {
		return `<span class="name">` + escapeText(name) + `</span>`
	}
	return `<a href="` + escapeText(files.Resolve(ref)) + `">` + escapeText(name) + `</a>`
}

func arrow(from, to int) string {
	return strconv.Itoa(from) + " → " + strconv.Itoa(to)
}
