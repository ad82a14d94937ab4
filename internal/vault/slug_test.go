package vault

import (
	"strings"
	"testing"
)

func TestSlugify_Path(t *testing.T) {
	got := Slugify("Moves/Adventure/Face Danger.md")
	want := "/moves/adventure/face-danger"
	if got != want {
		t.Errorf("Slugify = %q, want %q", got, want)
	}
}

func TestSlugify_EscapedSeparators(t *testing.T) {
	got := Slugify(`Moves\/Adventure\/Face Danger.md`)
	want := "/moves/adventure/face-danger"
	if got != want {
		t.Errorf("Slugify = %q, want %q", got, want)
	}
}

func TestSlugify_StripsParensAndApostrophes(t *testing.T) {
	got := Slugify("NPCs/Kira's Hideout (Old).md")
	want := "/npcs/kiras-hideout-old"
	if got != want {
		t.Errorf("Slugify = %q, want %q", got, want)
	}
}

func TestSlugify_SingleLeadingSlash(t *testing.T) {
	for _, in := range []string{"foo", "/foo", "//foo"} {
		got := Slugify(in)
		if got != "/foo" {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, "/foo")
		}
	}
}

func TestSlugify_CollapsesWhitespaceRuns(t *testing.T) {
	got := Slugify("a  b\tc")
	if got != "/a-b-c" {
		t.Errorf("Slugify = %q, want %q", got, "/a-b-c")
	}
}

func TestSlugify_NeverEmitsForbiddenRunes(t *testing.T) {
	inputs := []string{
		"Plain.md",
		"With Space (and) Paren's.md",
		`Esc\/aped Path.md`,
		"  oddly   spaced  ",
	}
	for _, in := range inputs {
		got := Slugify(in)
		if !strings.HasPrefix(got, "/") || strings.HasPrefix(got, "//") {
			t.Errorf("Slugify(%q) = %q, want exactly one leading slash", in, got)
		}
		if strings.ContainsAny(got, " ()'") {
			t.Errorf("Slugify(%q) = %q contains forbidden runes", in, got)
		}
		if got != Slugify(in) {
			t.Errorf("Slugify(%q) not deterministic", in)
		}
	}
}
