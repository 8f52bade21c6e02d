package blocks

import (
	"encoding/json"
	"strings"
)

type Type string

const (
	TypeLink        Type = "LINK"
	TypeHighlight   Type = "HIGHLIGHT"
	TypeMedia       Type = "MEDIA"
	TypeSocialIcons Type = "SOCIAL_ICONS"
	TypeText        Type = "TEXT"
	TypeDivider     Type = "DIVIDER"
	TypeCatalog     Type = "CATALOG"
	TypeForm        Type = "FORM"
)

var Types = []Type{
	TypeLink, TypeHighlight, TypeMedia, TypeSocialIcons,
	TypeText, TypeDivider, TypeCatalog, TypeForm,
}

func ParseType(s string) (Type, bool) {
	t := Type(strings.TrimSpace(s))
	for _, known := range Types {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Content is the payload of one block type. The set of implementations is
// closed; consumers switch over the concrete types.
type Content interface {
	Type() Type
}

type LinkContent struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
	Style string `json:"style,omitempty"`
}

type HighlightContent struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
}

type MediaContent struct {
	MediaType string `json:"mediaType"`
	EmbedURL  string `json:"embedUrl"`
	Title     string `json:"title,omitempty"`
}

type SocialIcon struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type SocialIconsContent struct {
	Icons []SocialIcon `json:"icons"`
}

type TextContent struct {
	Text  string `json:"text"`
	Align string `json:"align,omitempty"`
}

type DividerContent struct {
	Style string `json:"style,omitempty"`
}

type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
}

type CatalogContent struct {
	Items []CatalogItem `json:"items"`
}

type FormField struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type FormContent struct {
	Title       string      `json:"title"`
	Fields      []FormField `json:"fields"`
	SubmitLabel string      `json:"submitLabel"`
}

func (LinkContent) Type() Type        { return TypeLink }
func (HighlightContent) Type() Type   { return TypeHighlight }
func (MediaContent) Type() Type       { return TypeMedia }
func (SocialIconsContent) Type() Type { return TypeSocialIcons }
func (TextContent) Type() Type        { return TypeText }
func (DividerContent) Type() Type     { return TypeDivider }
func (CatalogContent) Type() Type     { return TypeCatalog }
func (FormContent) Type() Type        { return TypeForm }

// Encode serializes content for storage. Nil slices are written as [].
func Encode(c Content) ([]byte, error) {
	switch v := c.(type) {
	case SocialIconsContent:
		if v.Icons == nil {
			v.Icons = []SocialIcon{}
		}
		return json.Marshal(v)
	case CatalogContent:
		if v.Items == nil {
			v.Items = []CatalogItem{}
		}
		return json.Marshal(v)
	case FormContent:
		if v.Fields == nil {
			v.Fields = []FormField{}
		}
		return json.Marshal(v)
	default:
		return json.Marshal(c)
	}
}
