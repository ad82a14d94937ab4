// Package mechanics renders Iron Vault mechanics notation into HTML
// fragments: inline codes (iv-move:..., iv-meter:..., and friends) become
// styled spans, and fenced mechanics blocks become semantic article markup.
// Both parsers degrade instead of failing: malformed fields default to zero
// or empty, unknown statements are skipped, and the worst case is a visible
// error paragraph, never a broken page.
package mechanics

// Outcome is the three-tier classification of a roll against two challenge
// values.
type Outcome int

const (
	Miss Outcome = iota
	WeakHit
	StrongHit
)

// Classify compares a score against both challenge values. Strong hit beats
// both, weak hit beats exactly one, miss beats neither. Ties count as not
// exceeding.
func Classify(score, vs1, vs2 int) Outcome {
	beat1 := score > vs1
	beat2 := score > vs2
	switch {
	case beat1 && beat2:
		return StrongHit
	case beat1 || beat2:
		return WeakHit
	default:
		return Miss
	}
}

// IsMatch reports whether the two challenge dice show the same value.
func IsMatch(vs1, vs2 int) bool {
	return vs1 == vs2
}

// Score computes an action-roll score: action die plus stat plus adds,
// capped at 10 per the game rules.
func Score(action, stat, adds int) int {
	s := action + stat + adds
	if s > 10 {
		s = 10
	}
	return s
}

// String returns the CSS class token for the outcome.
func (o Outcome) String() string {
	switch o {
	case StrongHit:
		return "strong-hit"
	case WeakHit:
		return "weak-hit"
	default:
		return "miss"
	}
}

// Label returns the human-readable outcome name.
func (o Outcome) Label() string {
	switch o {
	case StrongHit:
		return "Strong hit"
	case WeakHit:
		return "Weak hit"
	default:
		return "Miss"
	}
}

// classes returns the outcome's CSS class list, appending "match" when the
// challenge dice match.
func (o Outcome) classes(match bool) string {
	if match {
		return o.String() + " match"
	}
	return o.String()
}

// labelWith returns the outcome label, extended when the dice match.
func (o Outcome) labelWith(match bool) string {
	if match {
		return o.Label() + " with a match"
	}
	return o.Label()
}
