package render

import (
	"strings"
	"testing"

	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"

	"gorm.io/datatypes"
)

func mustHTML(t *testing.T, b blocks.Block, ctx Context) string {
	t.Helper()
	out, err := HTML(Block(b, pages.DefaultTheme, ctx))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func block(typ blocks.Type, content string) blocks.Block {
	return blocks.Block{ID: "blk-1", Type: typ, Content: datatypes.JSON(content), Visible: true}
}

func TestNormalizeMedia(t *testing.T) {
	cases := []struct {
		mediaType, url string
		kind           MediaKind
		src            string
	}{
		{"youtube", "https://youtu.be/dQw4w9WgXcQ", MediaEmbed, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"youtube", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", MediaEmbed, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"youtube", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", MediaEmbed, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"youtube", "https://www.youtube.com/embed/dQw4w9WgXcQ", MediaEmbed, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"youtube", "dQw4w9WgXcQ", MediaEmbed, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"youtube", "not a url", MediaInvalid, ""},
		{"youtube", "https://youtu.be/short", MediaInvalid, ""},
		{"youtube", "", MediaUnconfigured, ""},
		{"youtube", "   ", MediaUnconfigured, ""},
		{"vimeo", "https://vimeo.com/76979871", MediaEmbed, "https://player.vimeo.com/video/76979871"},
		{"vimeo", "https://vimeo.com/channels/staff", MediaInvalid, ""},
		{"spotify", "https://open.spotify.com/track/abc", MediaEmbed, "https://open.spotify.com/embed/track/abc"},
		{"spotify", "https://open.spotify.com/embed/track/abc", MediaEmbed, "https://open.spotify.com/embed/track/abc"},
		{"spotify", "https://spotify.link/xyz", MediaEmbed, "https://spotify.link/xyz"},
		{"spotify", "spotify:track:4uLU6hMCjMI75M1A2tKUQC", MediaEmbed, "spotify:track:4uLU6hMCjMI75M1A2tKUQC"},
		{"spotify", "javascript:alert(1)", MediaInvalid, ""},
		{"soundcloud", "https://soundcloud.com/artist/track", MediaEmbed, "https://w.soundcloud.com/player/?url=https%3A%2F%2Fsoundcloud.com%2Fartist%2Ftrack"},
		{"soundcloud", "https://example.com/track", MediaInvalid, ""},
		{"image", "https://cdn.example.com/a.png", MediaImage, "https://cdn.example.com/a.png"},
		{"image", "javascript:alert(1)", MediaInvalid, ""},
	}
	for _, tc := range cases {
		got := NormalizeMedia(tc.mediaType, tc.url)
		if got.Kind != tc.kind || got.Src != tc.src {
			t.Fatalf("NormalizeMedia(%s, %q) = %+v, want kind %d src %q", tc.mediaType, tc.url, got, tc.kind, tc.src)
		}
	}
}

func TestMediaPlaceholdersAreDistinct(t *testing.T) {
	ctx := Context{Surface: SurfacePublic}

	embed := mustHTML(t, block(blocks.TypeMedia, `{"mediaType":"youtube","embedUrl":"https://youtu.be/dQw4w9WgXcQ"}`), ctx)
	if !strings.Contains(embed, `src="https://www.youtube.com/embed/dQw4w9WgXcQ"`) {
		t.Fatalf("expected youtube embed, got %s", embed)
	}

	empty := mustHTML(t, block(blocks.TypeMedia, `{"mediaType":"youtube","embedUrl":""}`), ctx)
	if !strings.Contains(empty, textUnconfigured) || strings.Contains(empty, textInvalidURL) {
		t.Fatalf("expected unconfigured placeholder, got %s", empty)
	}

	invalid := mustHTML(t, block(blocks.TypeMedia, `{"mediaType":"youtube","embedUrl":"not a url"}`), ctx)
	if !strings.Contains(invalid, textInvalidURL+"youtube") || strings.Contains(invalid, textUnconfigured) {
		t.Fatalf("expected invalid URL placeholder, got %s", invalid)
	}
}

func TestUnknownTypeRendersPlaceholder(t *testing.T) {
	out := mustHTML(t, block(blocks.Type("POLL"), `{"question":"?"}`), Context{Surface: SurfaceLive})
	if !strings.Contains(out, "Block POLL") {
		t.Fatalf("expected generic placeholder, got %s", out)
	}
	broken := mustHTML(t, block(blocks.TypeLink, `not json`), Context{Surface: SurfaceLive})
	if !strings.Contains(broken, "Block LINK") {
		t.Fatalf("expected placeholder for undecodable content, got %s", broken)
	}
}

func TestSurfaces(t *testing.T) {
	link := block(blocks.TypeLink, `{"url":"https://example.com","label":"Shop"}`)

	public := mustHTML(t, link, Context{Surface: SurfacePublic})
	if !strings.Contains(public, `data-pulse-click="blk-1"`) || strings.Contains(public, "data-action") {
		t.Fatalf("public link should be tracked and have no controls: %s", public)
	}

	editor := mustHTML(t, link, Context{Surface: SurfaceEditor})
	if strings.Contains(editor, "data-pulse-click") || !strings.Contains(editor, `data-action="delete"`) {
		t.Fatalf("editor link should have controls and no tracking: %s", editor)
	}

	link.Visible = false
	if Block(link, pages.DefaultTheme, Context{Surface: SurfacePublic}) != nil {
		t.Fatalf("hidden block must not render publicly")
	}
	hidden := mustHTML(t, link, Context{Surface: SurfaceEditor})
	if !strings.Contains(hidden, "opacity:0.5") || !strings.Contains(hidden, ">Show<") {
		t.Fatalf("hidden block should be dimmed in the editor: %s", hidden)
	}
}

func TestClickBearingElementsAreTracked(t *testing.T) {
	ctx := Context{Surface: SurfacePublic}

	highlight := mustHTML(t, block(blocks.TypeHighlight, `{"title":"News","url":"https://example.com"}`), ctx)
	if !strings.Contains(highlight, `data-pulse-click="blk-1"`) {
		t.Fatalf("highlight link should be tracked: %s", highlight)
	}

	social := mustHTML(t, block(blocks.TypeSocialIcons, `{"icons":[{"platform":"instagram","url":"https://instagram.com/a"},{"platform":"github","url":"https://github.com/a"}]}`), ctx)
	if strings.Count(social, `data-pulse-click="blk-1"`) != 2 || !strings.Contains(social, ">IN<") || !strings.Contains(social, ">GI<") {
		t.Fatalf("every social icon should be tracked: %s", social)
	}

	empty := mustHTML(t, block(blocks.TypeSocialIcons, `{"icons":[]}`), ctx)
	if !strings.Contains(empty, "pulse-social__empty") {
		t.Fatalf("expected empty icons placeholder: %s", empty)
	}
}

func TestUnsafeHrefsAreNeutralized(t *testing.T) {
	out := mustHTML(t, block(blocks.TypeLink, `{"url":"javascript:alert(1)","label":"x"}`), Context{Surface: SurfacePublic})
	if strings.Contains(out, "javascript:") || !strings.Contains(out, `href="#"`) {
		t.Fatalf("expected unsafe href to be replaced: %s", out)
	}

	cases := map[string]string{
		"https://a.com":     "https://a.com",
		"mailto:me@a.com":   "mailto:me@a.com",
		"tel:+551199999999": "tel:+551199999999",
		"instagram.com/me":  "https://instagram.com/me",
		"data:text/html,hi": "#",
		"":                  "#",
		"//evil.com":        "#",
	}
	for in, want := range cases {
		if got := SafeHref(in); got != want {
			t.Fatalf("SafeHref(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextIsEscaped(t *testing.T) {
	b := blocks.Block{ID: "b", Type: blocks.TypeText, Visible: true, Content: datatypes.JSON(`{"text":"a < b & c"}`)}
	out := mustHTML(t, b, Context{Surface: SurfacePublic})
	if !strings.Contains(out, "a &lt; b &amp; c") {
		t.Fatalf("expected escaped text, got %s", out)
	}
}

func TestPageDocument(t *testing.T) {
	page := pages.Page{ID: "p1", Username: "alice", DisplayName: "Alice", Bio: "hello"}
	list := []blocks.Block{
		block(blocks.TypeLink, `{"url":"https://example.com","label":"Shop"}`),
		{ID: "hidden", Type: blocks.TypeText, Content: datatypes.JSON(`{"text":"secret"}`), Visible: false},
	}

	doc, err := HTML(Page(page, list, pages.DefaultTheme, PageOptions{Watermark: true, ClickEndpoint: "/analytics/click"}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<title>Alice</title>", "Made with Pulse", "navigator.sendBeacon", `"/analytics/click"`, "try{"} {
		if !strings.Contains(doc, want) {
			t.Fatalf("expected %q in document: %s", want, doc)
		}
	}
	if strings.Contains(doc, "secret") {
		t.Fatalf("hidden block leaked into public page")
	}

	plain, _ := HTML(Page(page, nil, pages.DefaultTheme, PageOptions{}))
	if strings.Contains(plain, "Made with Pulse") {
		t.Fatalf("watermark must be absent when not requested")
	}
}
