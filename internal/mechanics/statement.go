package mechanics

import (
	"regexp"
	"strings"

	"github.com/starford/perthro/internal/vault"
)

// Statement is one parsed mechanics-block statement. The interface is
// sealed: every variant lives in this package and carries the unexported
// marker method, so rendering can dispatch over a closed set.
type Statement interface {
	stmt()
}

// MoveStmt is a brace-delimited move with its nested statements. A move with
// no nested roll renders as a collapsed name-only element.
type MoveStmt struct {
	Name     string
	Children []Statement
}

// BadMoveStmt is a move whose name could not be parsed. It renders as a
// visible error paragraph with an excerpt of the offending text.
type BadMoveStmt struct {
	Raw string
}

// RollStmt is an action roll: stat name plus the five dice/modifier values.
type RollStmt struct {
	StatName string
	Action   int
	Stat     int
	Adds     int
	VS1      int
	VS2      int
}

// ProgressRollStmt is a progress roll: the track's score against both
// challenge dice, no action die involved.
type ProgressRollStmt struct {
	Score int
	VS1   int
	VS2   int
}

// OracleStmt is one oracle draw. Nested draws (sub-tables rolled from a
// parent result) hang off Children, one level deep.
type OracleStmt struct {
	Name        string
	Roll        int
	Result      string
	Cursed      string
	HasCursed   bool
	Replaced    string
	HasReplaced bool
	Children    []OracleStmt
}

// OracleGroupStmt is a named group of oracle draws rolled together.
type OracleGroupStmt struct {
	Name    string
	Oracles []OracleStmt
}

// ActorStmt scopes a sub-sequence of statements to one character in
// multi-character play.
type ActorStmt struct {
	Name     LinkName
	Children []Statement
}

// MeterStmt is a named meter change (health, spirit, supply...).
type MeterStmt struct {
	Name string
	From int
	To   int
}

// BurnStmt is a momentum burn.
type BurnStmt struct {
	From int
	To   int
}

// XPStmt is an experience change.
type XPStmt struct {
	From int
	To   int
}

// TrackStmt is a progress-track change: either a status transition or a
// tick-total delta. From and To are total ticks (4 ticks per box).
type TrackStmt struct {
	Name      LinkName
	Status    string
	HasStatus bool
	From      int
	To        int
}

// ProgressStmt marks progress on a track by rank and step count; the tick
// math is derived at render time from the rank table.
type ProgressStmt struct {
	Name  LinkName
	Rank  string
	Steps int
	From  int
}

// ClockStmt is a clock change: a status transition or a segment delta.
type ClockStmt struct {
	Name      LinkName
	Status    string
	HasStatus bool
	From      int
	To        int
	OutOf     int
}

// AssetStmt records an asset acquisition or upgrade.
type AssetStmt struct {
	Name       LinkName
	Status     string
	HasStatus  bool
	Ability    string
	HasAbility bool
}

// ImpactStmt marks or clears a character impact/debility.
type ImpactStmt struct {
	Name   string
	Marked string
}

// InitiativeStmt is an initiative/position transition. From and To keep the
// authored text; classification happens at render time.
type InitiativeStmt struct {
	From string
	To   string
}

// RerollStmt rerolls any subset of the three dice. Old values may be absent
// and render as "?".
type RerollStmt struct {
	Action       int
	HasAction    bool
	OldAction    int
	HasOldAction bool
	VS1          int
	HasVS1       bool
	OldVS1       int
	HasOldVS1    bool
	VS2          int
	HasVS2       bool
	OldVS2       int
	HasOldVS2    bool
}

// AddStmt is a one-off score adjustment with an optional reason.
type AddStmt struct {
	Amount int
	Reason string
}

// DiceStmt is a freeform dice expression roll.
type DiceStmt struct {
	Expr   string
	Result int
}

// DetailStmt is a freestanding "- " comment line.
type DetailStmt struct {
	Text string
}

func (MoveStmt) stmt()         {}
func (BadMoveStmt) stmt()      {}
func (RollStmt) stmt()         {}
func (ProgressRollStmt) stmt() {}
func (OracleStmt) stmt()       {}
func (OracleGroupStmt) stmt()  {}
func (ActorStmt) stmt()        {}
func (MeterStmt) stmt()        {}
func (BurnStmt) stmt()         {}
func (XPStmt) stmt()           {}
func (TrackStmt) stmt()        {}
func (ProgressStmt) stmt()     {}
func (ClockStmt) stmt()        {}
func (AssetStmt) stmt()        {}
func (ImpactStmt) stmt()       {}
func (InitiativeStmt) stmt()   {}
func (RerollStmt) stmt()       {}
func (AddStmt) stmt()          {}
func (DiceStmt) stmt()         {}
func (DetailStmt) stmt()       {}

// LinkName is a display name with an optional link target. Name attributes
// may use the doubled wikilink form "[[path|display]]", which supplies both
// the slug and the display text.
type LinkName struct {
	Text string
	Href string
}

var nameWikilinkRe = regexp.MustCompile(`^\[\[(.+?)(?:\|(.*))?\]\]$`)

// parseLinkName interprets a name attribute, honoring the doubled wikilink
// form when present.
func parseLinkName(raw string) LinkName {
	raw = strings.TrimSpace(raw)
	m := nameWikilinkRe.FindStringSubmatch(raw)
	if m == nil {
		return LinkName{Text: raw}
	}
	text := m[2]
	if text == "" {
		text = m[1]
	}
	return LinkName{Text: text, Href: vault.Slugify(m[1])}
}
