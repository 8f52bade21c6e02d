package blocks

// DefaultContent is used when a block is created without content.
func DefaultContent(t Type) Content {
	switch t {
	case TypeLink:
		return LinkContent{Label: "My link", URL: "https://", Style: "default"}
	case TypeHighlight:
		return HighlightContent{Title: "Highlight"}
	case TypeMedia:
		return MediaContent{MediaType: "youtube", EmbedURL: ""}
	case TypeSocialIcons:
		return SocialIconsContent{Icons: []SocialIcon{}}
	case TypeText:
		return TextContent{Text: "", Align: "center"}
	case TypeDivider:
		return DividerContent{Style: "line"}
	case TypeCatalog:
		return CatalogContent{Items: []CatalogItem{}}
	case TypeForm:
		return FormContent{
			Title: "Contact",
			Fields: []FormField{
				{ID: "1", Label: "Name", Type: "text", Required: true},
				{ID: "2", Label: "Email", Type: "email", Required: true},
				{ID: "3", Label: "Message", Type: "textarea", Required: true},
			},
			SubmitLabel: "Send",
		}
	}
	return nil
}

// Label is the short name shown for a block in analytics listings.
func Label(t Type, c Content) string {
	switch v := c.(type) {
	case LinkContent:
		if v.Label != "" {
			return v.Label
		}
		return "Link"
	case HighlightContent:
		if v.Title != "" {
			return v.Title
		}
		return "Highlight"
	case TextContent:
		text := v.Text
		if text == "" {
			text = "Text"
		}
		if r := []rune(text); len(r) > 30 {
			return string(r[:30])
		}
		return text
	}
	return string(t)
}
