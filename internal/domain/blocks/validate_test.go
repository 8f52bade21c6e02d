package blocks

import (
	"testing"

	"pulse/internal/domain/apperr"
)

func hasField(err error, field string) bool {
	ve, ok := apperr.AsValidation(err)
	if !ok {
		return false
	}
	for _, f := range ve.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func TestDecodeContentAcceptsEachType(t *testing.T) {
	cases := []struct {
		typ  Type
		body string
	}{
		{TypeLink, `{"url":"https://example.com","label":"Shop","style":"outline"}`},
		{TypeHighlight, `{}`},
		{TypeHighlight, `{"title":"New album","description":"Out now","url":"https://example.com"}`},
		{TypeMedia, `{"mediaType":"youtube","embedUrl":""}`},
		{TypeSocialIcons, `{"icons":[{"platform":"instagram","url":"https://instagram.com/x"}]}`},
		{TypeText, `{"text":"hello","align":"left"}`},
		{TypeDivider, `{"style":"dots"}`},
		{TypeCatalog, `{"items":[{"id":"1","name":"Shirt","price":"$20"}]}`},
		{TypeForm, `{"title":"Contact","fields":[{"id":"1","label":"Name","type":"text","required":true}],"submitLabel":"Send"}`},
	}
	for _, tc := range cases {
		c, err := DecodeContent(tc.typ, []byte(tc.body))
		if err != nil {
			t.Fatalf("%s %s: unexpected error: %v", tc.typ, tc.body, err)
		}
		if c.Type() != tc.typ {
			t.Fatalf("expected content of type %s, got %s", tc.typ, c.Type())
		}
	}
}

func TestDecodeContentRejects(t *testing.T) {
	cases := []struct {
		name  string
		typ   Type
		body  string
		field string
	}{
		{"unknown type", Type("POLL"), `{}`, "type"},
		{"not an object", TypeLink, `[]`, "content"},
		{"link without url", TypeLink, `{"label":"x"}`, "url"},
		{"link null url", TypeLink, `{"url":null}`, "url"},
		{"link bad style", TypeLink, `{"url":"https://a.b","style":"neon"}`, "style"},
		{"unknown key", TypeText, `{"text":"a","color":"red"}`, "color"},
		{"text missing", TypeText, `{"align":"left"}`, "text"},
		{"text bad align", TypeText, `{"text":"a","align":"justify"}`, "align"},
		{"media missing embed", TypeMedia, `{"mediaType":"vimeo"}`, "embedUrl"},
		{"media bad type", TypeMedia, `{"mediaType":"tiktok","embedUrl":""}`, "mediaType"},
		{"icons missing", TypeSocialIcons, `{}`, "icons"},
		{"icon missing url", TypeSocialIcons, `{"icons":[{"platform":"x"}]}`, "icons[0].url"},
		{"divider bad style", TypeDivider, `{"style":"wave"}`, "style"},
		{"catalog item missing name", TypeCatalog, `{"items":[{"id":"1"}]}`, "items[0].name"},
		{"form bad field type", TypeForm, `{"title":"t","fields":[{"id":"1","label":"l","type":"date"}],"submitLabel":"s"}`, "fields[0].type"},
		{"wrong json type", TypeText, `{"text":42}`, "text"},
	}
	for _, tc := range cases {
		_, err := DecodeContent(tc.typ, []byte(tc.body))
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !hasField(err, tc.field) {
			t.Fatalf("%s: expected field error for %q, got %v", tc.name, tc.field, err)
		}
	}
}

func TestDecodeContentStripsMarkup(t *testing.T) {
	c, err := DecodeContent(TypeText, []byte(`{"text":"<script>alert(1)</script>Tom & <b>Jerry</b>"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.(TextContent).Text; got != "Tom & Jerry" {
		t.Fatalf("expected markup stripped, got %q", got)
	}
}

func TestDefaultContentIsValid(t *testing.T) {
	for _, typ := range Types {
		encoded, err := Encode(DefaultContent(typ))
		if err != nil {
			t.Fatalf("%s: encode failed: %v", typ, err)
		}
		if _, err := DecodeContent(typ, encoded); err != nil {
			t.Fatalf("%s: default content does not validate: %v (%s)", typ, err, encoded)
		}
	}
}

func TestLabel(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	cases := []struct {
		typ  Type
		c    Content
		want string
	}{
		{TypeLink, LinkContent{Label: "Shop", URL: "https://a"}, "Shop"},
		{TypeLink, LinkContent{URL: "https://a"}, "Link"},
		{TypeHighlight, HighlightContent{Title: "News"}, "News"},
		{TypeHighlight, HighlightContent{}, "Highlight"},
		{TypeText, TextContent{Text: long}, long[:30]},
		{TypeText, TextContent{}, "Text"},
		{TypeDivider, DividerContent{}, "DIVIDER"},
		{TypeMedia, nil, "MEDIA"},
	}
	for _, tc := range cases {
		if got := Label(tc.typ, tc.c); got != tc.want {
			t.Fatalf("Label(%s) = %q, want %q", tc.typ, got, tc.want)
		}
	}
}

func TestDecodeContentKeepsStrayBrackets(t *testing.T) {
	c, err := DecodeContent(TypeText, []byte(`{"text":"if a<b and c>d then"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.(TextContent).Text; got != "if a<b and c>d then" {
		t.Fatalf("expected text unchanged, got %q", got)
	}
}
