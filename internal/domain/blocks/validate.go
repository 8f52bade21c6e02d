package blocks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"pulse/internal/domain/apperr"
	"pulse/internal/infra/sanitize"
)

// shape lists the keys an object may carry. Keys not listed are rejected.
type shape struct {
	required []string
	optional []string
}

var shapes = map[Type]shape{
	TypeLink:        {required: []string{"url"}, optional: []string{"label", "icon", "style"}},
	TypeHighlight:   {optional: []string{"title", "description", "image", "url"}},
	TypeMedia:       {required: []string{"mediaType", "embedUrl"}, optional: []string{"title"}},
	TypeSocialIcons: {required: []string{"icons"}},
	TypeText:        {required: []string{"text"}, optional: []string{"align"}},
	TypeDivider:     {optional: []string{"style"}},
	TypeCatalog:     {required: []string{"items"}},
	TypeForm:        {required: []string{"title", "fields", "submitLabel"}},
}

var (
	socialIconShape  = shape{required: []string{"platform", "url"}}
	catalogItemShape = shape{required: []string{"id", "name"}, optional: []string{"description", "price", "image", "url"}}
	formFieldShape   = shape{required: []string{"id", "label", "type"}, optional: []string{"required"}}
)

var (
	LinkStyles    = []string{"default", "outline", "gradient"}
	TextAligns    = []string{"left", "center", "right"}
	MediaTypes    = []string{"youtube", "vimeo", "spotify", "soundcloud", "image"}
	DividerStyles = []string{"line", "dots", "space"}
	FormFieldKind = []string{"text", "email", "textarea"}
)

// DecodeContent validates a raw payload against the closed schema of t and
// returns the typed content. Every problem is reported as a field error.
func DecodeContent(t Type, raw []byte) (Content, error) {
	if _, ok := ParseType(string(t)); !ok {
		return nil, apperr.Invalid("unsupported block type", apperr.Field("type", fmt.Sprintf("unsupported block type %q", t)))
	}

	obj, err := object(raw)
	if err != nil {
		return nil, apperr.Invalid("Invalid block content", apperr.Field("content", "must be a JSON object"))
	}
	fields := shapes[t].check("", obj)

	var c Content
	switch t {
	case TypeLink:
		var v LinkContent
		fields = append(fields, decodeInto(raw, &v)...)
		fields = append(fields, oneOf("style", v.Style, LinkStyles)...)
		v.Label = cleanText(v.Label)
		v.URL = strings.TrimSpace(v.URL)
		c = v
	case TypeHighlight:
		var v HighlightContent
		fields = append(fields, decodeInto(raw, &v)...)
		v.Title = cleanText(v.Title)
		v.Description = cleanText(v.Description)
		v.URL = strings.TrimSpace(v.URL)
		v.Image = strings.TrimSpace(v.Image)
		c = v
	case TypeMedia:
		var v MediaContent
		fields = append(fields, decodeInto(raw, &v)...)
		if !containsKey(MediaTypes, v.MediaType) {
			fields = append(fields, apperr.Field("mediaType", "must be one of "+strings.Join(MediaTypes, ", ")))
		}
		v.EmbedURL = strings.TrimSpace(v.EmbedURL)
		v.Title = cleanText(v.Title)
		c = v
	case TypeSocialIcons:
		var v SocialIconsContent
		fields = append(fields, checkList(obj, "icons", socialIconShape)...)
		fields = append(fields, decodeInto(raw, &v)...)
		for i := range v.Icons {
			v.Icons[i].Platform = strings.ToLower(cleanText(v.Icons[i].Platform))
			v.Icons[i].URL = strings.TrimSpace(v.Icons[i].URL)
		}
		c = v
	case TypeText:
		var v TextContent
		fields = append(fields, decodeInto(raw, &v)...)
		fields = append(fields, oneOf("align", v.Align, TextAligns)...)
		v.Text = cleanText(v.Text)
		c = v
	case TypeDivider:
		var v DividerContent
		fields = append(fields, decodeInto(raw, &v)...)
		fields = append(fields, oneOf("style", v.Style, DividerStyles)...)
		c = v
	case TypeCatalog:
		var v CatalogContent
		fields = append(fields, checkList(obj, "items", catalogItemShape)...)
		fields = append(fields, decodeInto(raw, &v)...)
		for i := range v.Items {
			it := &v.Items[i]
			it.Name = cleanText(it.Name)
			it.Description = cleanText(it.Description)
			it.Price = cleanText(it.Price)
			it.URL = strings.TrimSpace(it.URL)
			it.Image = strings.TrimSpace(it.Image)
		}
		c = v
	case TypeForm:
		var v FormContent
		fields = append(fields, checkList(obj, "fields", formFieldShape)...)
		fields = append(fields, decodeInto(raw, &v)...)
		for i := range v.Fields {
			f := &v.Fields[i]
			if !containsKey(FormFieldKind, f.Type) {
				fields = append(fields, apperr.Field(fmt.Sprintf("fields[%d].type", i), "must be one of "+strings.Join(FormFieldKind, ", ")))
			}
			f.Label = cleanText(f.Label)
		}
		v.Title = cleanText(v.Title)
		v.SubmitLabel = cleanText(v.SubmitLabel)
		c = v
	}

	if len(fields) > 0 {
		return nil, apperr.Invalid("Invalid block content", dedupe(fields)...)
	}
	return c, nil
}

func object(raw []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("not an object")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (s shape) check(prefix string, obj map[string]json.RawMessage) []apperr.FieldError {
	var out []apperr.FieldError
	for _, key := range s.required {
		v, ok := obj[key]
		if !ok || isNull(v) {
			out = append(out, apperr.Field(prefix+key, "is required"))
		}
	}
	unknown := make([]string, 0)
	for key := range obj {
		if !containsKey(s.required, key) && !containsKey(s.optional, key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		out = append(out, apperr.Field(prefix+key, "unknown field"))
	}
	return out
}

// checkList validates the element keys of an array-valued field.
func checkList(obj map[string]json.RawMessage, key string, elem shape) []apperr.FieldError {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []apperr.FieldError{apperr.Field(key, "must be an array")}
	}
	var out []apperr.FieldError
	for i, item := range items {
		prefix := fmt.Sprintf("%s[%d]", key, i)
		o, err := object(item)
		if err != nil {
			out = append(out, apperr.Field(prefix, "must be an object"))
			continue
		}
		out = append(out, elem.check(prefix+".", o)...)
	}
	return out
}

func decodeInto(raw []byte, v any) []apperr.FieldError {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []apperr.FieldError{apperr.Field(typeErr.Field, "has the wrong type")}
	}
	return []apperr.FieldError{apperr.Field("content", "is malformed")}
}

func oneOf(field, value string, allowed []string) []apperr.FieldError {
	if value == "" || containsKey(allowed, value) {
		return nil
	}
	return []apperr.FieldError{apperr.Field(field, "must be one of "+strings.Join(allowed, ", "))}
}

func cleanText(s string) string {
	return strings.TrimSpace(sanitize.Text(s))
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func containsKey(list []string, key string) bool {
	for _, k := range list {
		if k == key {
			return true
		}
	}
	return false
}

func dedupe(fields []apperr.FieldError) []apperr.FieldError {
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if seen[f.Field] {
			continue
		}
		seen[f.Field] = true
		out = append(out, f)
	}
	return out
}
