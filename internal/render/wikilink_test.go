package render

import "testing"

func TestRewriteWikilinks(t *testing.T) {
	v := testVault()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"bare name",
			"See [[Face Danger]].",
			`See <a href="/moves/face-danger" class="internal-link">Face Danger</a>.`,
		},
		{
			"alias",
			"See [[Face Danger|the move]].",
			`See <a href="/moves/face-danger" class="internal-link">the move</a>.`,
		},
		{
			"path target slugifies directly",
			"[[Oracles/Core.md|Core]]",
			`<a href="/oracles/core" class="internal-link">Core</a>`,
		},
		{
			"unknown bare name falls back to slug",
			"[[Lost Page]]",
			`<a href="/lost-page" class="internal-link">Lost Page</a>`,
		},
		{
			"heading fragment dropped from target",
			"[[Face Danger#Outcomes]]",
			`<a href="/moves/face-danger" class="internal-link">Face Danger#Outcomes</a>`,
		},
		{
			"fragment-only link left alone",
			"[[#Outcomes]]",
			"[[#Outcomes]]",
		},
		{
			"image embed by basename",
			"![[map.png]]",
			`<img src="/Maps/map.png" alt="map">`,
		},
		{
			"image embed with alt alias",
			"![[map.png|The region]]",
			`<img src="/Maps/map.png" alt="The region">`,
		},
		{
			"non-image embed degrades to link",
			"![[Face Danger]]",
			`<a href="/moves/face-danger" class="internal-link">Face Danger</a>`,
		},
		{
			"two links on one line",
			"[[Face Danger]] and [[Lost Page]]",
			`<a href="/moves/face-danger" class="internal-link">Face Danger</a> and <a href="/lost-page" class="internal-link">Lost Page</a>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewriteWikilinks(tt.in, v); got != tt.want {
				t.Errorf("rewriteWikilinks(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRewriteWikilinks_FenceProtection(t *testing.T) {
	v := testVault()
	in := "before [[Face Danger]]\n" +
		"```mechanics\n" +
		"track name=\"[[Foo|Foo Track]]\" status=\"added\"\n" +
		"```\n" +
		"after [[Face Danger]]"
	got := rewriteWikilinks(in, v)
	want := `before <a href="/moves/face-danger" class="internal-link">Face Danger</a>` + "\n" +
		"```mechanics\n" +
		"track name=\"[[Foo|Foo Track]]\" status=\"added\"\n" +
		"```\n" +
		`after <a href="/moves/face-danger" class="internal-link">Face Danger</a>`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestAttachmentSrc(t *testing.T) {
	v := testVault()
	tests := []struct {
		in   string
		want string
	}{
		{"map.png", "/Maps/map.png"},
		{"MAP.PNG", "/Maps/map.png"},
		{"Maps/map.png", "/Maps/map.png"},
		{"missing.png", "/missing.png"},
		{"art/with space.png", "/art/with%20space.png"},
	}
	for _, tt := range tests {
		if got := attachmentSrc(tt.in, v); got != tt.want {
			t.Errorf("attachmentSrc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
