package render

import (
	"strconv"
	"strings"

	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"

	"golang.org/x/net/html"
)

const (
	textUnconfigured = "Media not configured"
	textInvalidURL   = "Invalid URL for "
	textLearnMore    = "Learn more"
)

type theme struct {
	colors pages.ThemeColors
	radius string
}

func newTheme(t pages.ThemeSettings) theme {
	return theme{colors: t.Colors(), radius: t.Radius()}
}

// Block renders one block for a surface. Hidden blocks are only rendered in
// the editor; elsewhere the result is nil. Content that does not decode is
// shown as a placeholder instead of failing.
func Block(b blocks.Block, settings pages.ThemeSettings, ctx Context) *html.Node {
	if !b.Visible && !ctx.editor() {
		return nil
	}
	th := newTheme(settings)

	var body *html.Node
	content, err := b.Decode()
	if err != nil {
		body = placeholder("unknown", "Block "+string(b.Type))
	} else {
		body = renderContent(b, content, th, ctx)
	}

	wrapper := el("div", attrs(
		"class", "pulse-block pulse-block--"+strings.ToLower(string(b.Type)),
		"data-block-id", b.ID,
		"data-block-type", string(b.Type),
	), body)

	if ctx.editor() {
		wrapper.Attr = append(wrapper.Attr,
			html.Attribute{Key: "data-order", Val: strconv.Itoa(b.Order)},
			html.Attribute{Key: "data-visible", Val: strconv.FormatBool(b.Visible)},
		)
		if !b.Visible {
			wrapper.Attr = append(wrapper.Attr, html.Attribute{Key: "style", Val: "opacity:0.5"})
		}
		wrapper.AppendChild(controls(b))
	}
	return wrapper
}

func renderContent(b blocks.Block, c blocks.Content, th theme, ctx Context) *html.Node {
	switch v := c.(type) {
	case blocks.LinkContent:
		return renderLink(b.ID, v, th, ctx)
	case blocks.HighlightContent:
		return renderHighlight(b.ID, v, th, ctx)
	case blocks.MediaContent:
		return renderMedia(v, th)
	case blocks.SocialIconsContent:
		return renderSocial(b.ID, v, th, ctx)
	case blocks.TextContent:
		return renderText(v, th)
	case blocks.DividerContent:
		return renderDivider(v, th)
	case blocks.CatalogContent:
		return renderCatalog(b.ID, v, th, ctx)
	case blocks.FormContent:
		return renderForm(v, th)
	default:
		return placeholder("unknown", "Block "+string(b.Type))
	}
}

func placeholder(kind, msg string) *html.Node {
	return el("div", attrs("class", "pulse-placeholder pulse-placeholder--"+kind),
		el("p", nil, text(msg)))
}

// anchor builds an outbound link, marked for click reporting when tracked.
func anchor(blockID, href, class, css string, ctx Context, children ...*html.Node) *html.Node {
	kv := []string{
		"class", class,
		"href", SafeHref(href),
		"target", "_blank",
		"rel", "noopener noreferrer",
		"style", css,
	}
	if ctx.tracked() {
		kv = append(kv, "data-pulse-click", blockID)
	}
	return el("a", attrs(kv...), children...)
}

func renderLink(id string, v blocks.LinkContent, th theme, ctx Context) *html.Node {
	c := th.colors
	var css string
	switch v.Style {
	case "outline":
		css = style("background-color", "transparent", "border", "2px solid "+c.Primary, "color", c.Primary, "border-radius", th.radius)
	case "gradient":
		css = style("background", "linear-gradient(135deg, "+c.Primary+", "+c.Accent+")", "color", pages.ContrastColor(c.Primary), "border-radius", th.radius)
	default:
		css = style("background-color", c.Primary+"15", "border", "1px solid "+c.Primary+"40", "color", c.Text, "border-radius", th.radius)
	}
	label := v.Label
	if label == "" {
		label = "Link"
	}
	variant := v.Style
	if variant == "" {
		variant = "default"
	}
	children := []*html.Node{}
	if v.Icon != "" {
		children = append(children, el("span", attrs("class", "pulse-link__icon", "data-icon", v.Icon)))
	}
	children = append(children, el("span", attrs("class", "pulse-link__label"), text(label)))
	return anchor(id, v.URL, "pulse-link pulse-link--"+variant, css, ctx, children...)
}

func renderHighlight(id string, v blocks.HighlightContent, th theme, ctx Context) *html.Node {
	c := th.colors
	box := el("div", attrs("class", "pulse-highlight", "style",
		style("background", "linear-gradient(135deg, "+c.Primary+"1A, "+c.Secondary+"1A)", "border-radius", th.radius)))
	if v.Image != "" && isWebURL(v.Image) {
		box.AppendChild(el("img", attrs("class", "pulse-highlight__image", "src", v.Image, "alt", v.Title, "loading", "lazy")))
	}
	title := v.Title
	if title == "" {
		title = "Highlight"
	}
	box.AppendChild(el("h3", attrs("style", style("color", c.Text)), text(title)))
	if v.Description != "" {
		box.AppendChild(el("p", attrs("class", "pulse-highlight__description"), text(v.Description)))
	}
	if v.URL != "" {
		box.AppendChild(anchor(id, v.URL, "pulse-highlight__more", style("color", c.Primary), ctx, text(textLearnMore)))
	}
	return box
}

func renderMedia(v blocks.MediaContent, th theme) *html.Node {
	m := NormalizeMedia(v.MediaType, v.EmbedURL)
	switch m.Kind {
	case MediaUnconfigured:
		return placeholder("unconfigured", textUnconfigured)
	case MediaInvalid:
		return placeholder("invalid", textInvalidURL+v.MediaType)
	case MediaImage:
		return el("img", attrs("class", "pulse-media pulse-media--image", "src", m.Src, "alt", v.Title,
			"loading", "lazy", "style", style("border-radius", th.radius)))
	}

	height := ""
	if v.MediaType == "spotify" {
		height = "152"
	}
	frame := el("iframe", attrs(
		"src", m.Src,
		"title", v.Title,
		"height", height,
		"loading", "lazy",
		"allow", "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture",
	))
	frame.Attr = append(frame.Attr, flag("allowfullscreen"))
	return el("div", attrs("class", "pulse-media pulse-media--"+v.MediaType, "style",
		style("border-radius", th.radius, "overflow", "hidden")), frame)
}

func renderSocial(id string, v blocks.SocialIconsContent, th theme, ctx Context) *html.Node {
	row := el("div", attrs("class", "pulse-social"))
	if len(v.Icons) == 0 {
		row.AppendChild(el("div", attrs("class", "pulse-social__empty"), text("+")))
		return row
	}
	for _, icon := range v.Icons {
		short := []rune(icon.Platform)
		if len(short) > 2 {
			short = short[:2]
		}
		a := anchor(id, icon.URL, "pulse-social__icon", style("border-color", th.colors.Primary, "color", th.colors.Text), ctx,
			el("span", nil, text(strings.ToUpper(string(short)))))
		a.Attr = append(a.Attr, html.Attribute{Key: "aria-label", Val: icon.Platform})
		row.AppendChild(a)
	}
	return row
}

func renderText(v blocks.TextContent, th theme) *html.Node {
	align := v.Align
	if align == "" {
		align = "center"
	}
	return el("div", attrs("class", "pulse-text", "style", style("text-align", align)),
		el("p", attrs("style", style("color", th.colors.Text, "white-space", "pre-wrap")), text(v.Text)))
}

func renderDivider(v blocks.DividerContent, th theme) *html.Node {
	switch v.Style {
	case "space":
		return el("div", attrs("class", "pulse-divider pulse-divider--space", "style", "height:1.5rem"))
	case "dots":
		row := el("div", attrs("class", "pulse-divider pulse-divider--dots"))
		for i := 0; i < 3; i++ {
			row.AppendChild(el("span", attrs("style", style("background-color", th.colors.Text+"4D"))))
		}
		return row
	default:
		return el("hr", attrs("class", "pulse-divider pulse-divider--line", "style", style("border-color", th.colors.Text+"26")))
	}
}

func renderCatalog(id string, v blocks.CatalogContent, th theme, ctx Context) *html.Node {
	list := el("ul", attrs("class", "pulse-catalog"))
	for _, item := range v.Items {
		li := el("li", attrs("class", "pulse-catalog__item", "data-item-id", item.ID, "style", style("border-radius", th.radius)))
		if item.Image != "" && isWebURL(item.Image) {
			li.AppendChild(el("img", attrs("src", item.Image, "alt", item.Name, "loading", "lazy")))
		}
		li.AppendChild(el("h4", nil, text(item.Name)))
		if item.Description != "" {
			li.AppendChild(el("p", nil, text(item.Description)))
		}
		if item.Price != "" {
			li.AppendChild(el("span", attrs("class", "pulse-catalog__price", "style", style("color", th.colors.Primary)), text(item.Price)))
		}
		if item.URL != "" {
			li.AppendChild(anchor(id, item.URL, "pulse-catalog__link", style("color", th.colors.Primary), ctx, text(textLearnMore)))
		}
		list.AppendChild(li)
	}
	return list
}

func renderForm(v blocks.FormContent, th theme) *html.Node {
	form := el("form", attrs("class", "pulse-form", "onsubmit", "return false"))
	if v.Title != "" {
		form.AppendChild(el("h3", nil, text(v.Title)))
	}
	for _, f := range v.Fields {
		name := "field-" + f.ID
		var input *html.Node
		if f.Type == "textarea" {
			input = el("textarea", attrs("name", name, "id", name))
		} else {
			input = el("input", attrs("type", f.Type, "name", name, "id", name))
		}
		if f.Required {
			input.Attr = append(input.Attr, flag("required"))
		}
		form.AppendChild(el("label", attrs("for", name), text(f.Label)))
		form.AppendChild(input)
	}
	label := v.SubmitLabel
	if label == "" {
		label = "Send"
	}
	form.AppendChild(el("button", attrs("type", "submit", "style", style(
		"background-color", th.colors.Primary,
		"color", pages.ContrastColor(th.colors.Primary),
		"border-radius", th.radius,
	)), text(label)))
	return form
}

func controls(b blocks.Block) *html.Node {
	toggle := "Hide"
	if !b.Visible {
		toggle = "Show"
	}
	bar := el("div", attrs("class", "pulse-controls"))
	for _, action := range [][2]string{
		{"move-up", "Up"},
		{"move-down", "Down"},
		{"edit", "Edit"},
		{"toggle", toggle},
		{"delete", "Delete"},
	} {
		bar.AppendChild(el("button", attrs(
			"type", "button",
			"data-action", action[0],
			"data-block-id", b.ID,
		), text(action[1])))
	}
	return bar
}
