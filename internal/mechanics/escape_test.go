package mechanics

import (
	"strings"
	"testing"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"separators unescaped first", `Moves\/Face Danger`, "Moves/Face Danger"},
		{"entities", `a <b> & "c"`, "a &lt;b&gt; &amp; &quot;c&quot;"},
		{"already entity encoded", "&amp;", "&amp;amp;"},
		{"single quote untouched", "Kira's", "Kira's"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeText(tt.in); got != tt.want {
				t.Errorf("escapeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeText_NeverLeaksRawMarkup(t *testing.T) {
	inputs := []string{`<script>alert("x")</script>`, `a & b < c > d`, `"" "" <>&`}
	for _, in := range inputs {
		got := escapeText(in)
		if strings.ContainsAny(got, `<>"`) {
			t.Errorf("escapeText(%q) = %q, contains raw markup characters", in, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q, want %q", got, "short")
	}
	if got := truncate("abcdefghij", 4); got != "abcd…" {
		t.Errorf("truncate = %q, want %q", got, "abcd…")
	}
	if got := truncate("héllo wörld", 5); got != "héllo…" {
		t.Errorf("truncate on multibyte = %q, want %q", got, "héllo…")
	}
}
