package render

import (
	"encoding/json"
	"strings"

	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"

	"golang.org/x/net/html"
)

var fontFamilies = map[string]string{
	"inter":    "'Inter', sans-serif",
	"poppins":  "'Poppins', sans-serif",
	"roboto":   "'Roboto', sans-serif",
	"outfit":   "'Outfit', sans-serif",
	"playfair": "'Playfair Display', serif",
}

// PageOptions carries the per-request parts of a published page.
type PageOptions struct {
	Watermark     bool
	ClickEndpoint string
	HomeURL       string
}

// Fragment renders the ordered blocks of a page inside one container.
func Fragment(list []blocks.Block, settings pages.ThemeSettings, ctx Context) *html.Node {
	c := settings.Colors()
	root := el("div", attrs(
		"class", "pulse-blocks pulse-blocks--"+string(ctx.Surface),
		"style", style(
			"background-color", c.Background,
			"color", c.Text,
			"font-family", fontFamilies[settings.Font],
		),
	))
	for _, b := range list {
		if n := Block(b, settings, ctx); n != nil {
			root.AppendChild(n)
		}
	}
	return root
}

// Page renders a complete HTML document for a published page.
func Page(p pages.Page, list []blocks.Block, settings pages.ThemeSettings, opts PageOptions) *html.Node {
	ctx := Context{Surface: SurfacePublic}
	c := settings.Colors()

	title := p.DisplayName
	if title == "" {
		title = "@" + p.Username
	}
	description := p.Bio
	if description == "" {
		description = "Check out " + title + "'s page"
	}

	head := el("head", nil,
		el("meta", attrs("charset", "utf-8")),
		el("meta", attrs("name", "viewport", "content", "width=device-width, initial-scale=1")),
		el("title", nil, text(title)),
		el("meta", attrs("name", "description", "content", description)),
		el("meta", attrs("property", "og:title", "content", title)),
		el("meta", attrs("property", "og:description", "content", description)),
		el("meta", attrs("property", "og:type", "content", "profile")),
	)

	main := el("main", attrs("class", "pulse-page", "style", "max-width:28rem;margin:0 auto;padding:3rem 1rem"),
		header(p, title, c),
		Fragment(list, settings, ctx),
	)
	if opts.Watermark {
		home := opts.HomeURL
		if home == "" {
			home = "/"
		}
		main.AppendChild(el("footer", attrs("class", "pulse-watermark", "style", "margin-top:3rem;text-align:center;opacity:0.5"),
			el("a", attrs("href", SafeHref(home), "style", style("color", c.Text)), text("Made with Pulse"))))
	}

	bodyStyle := style(
		"background-color", c.Background,
		"color", c.Text,
		"font-family", fontFamilies[settings.Font],
		"min-height", "100vh",
		"margin", "0",
	)
	var dark string
	if settings.DarkMode {
		dark = "dark"
	}
	body := el("body", attrs("style", bodyStyle, "class", dark), main)
	if opts.ClickEndpoint != "" {
		body.AppendChild(el("script", nil, text(clickScript(opts.ClickEndpoint))))
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(el("html", attrs("lang", "en"), head, body))
	return doc
}

func header(p pages.Page, title string, c pages.ThemeColors) *html.Node {
	ring := "0 0 0 4px " + c.Background + ", 0 0 0 6px " + c.Primary + "40"
	var avatar *html.Node
	if p.Avatar != nil && isWebURL(*p.Avatar) {
		avatar = el("img", attrs("class", "pulse-avatar", "src", *p.Avatar, "alt", title,
			"style", style("width", "6rem", "height", "6rem", "border-radius", "9999px", "box-shadow", ring)))
	} else {
		name := p.DisplayName
		if name == "" {
			name = p.Username
		}
		initial := ""
		if r := []rune(name); len(r) > 0 {
			initial = strings.ToUpper(string(r[0]))
		}
		avatar = el("div", attrs("class", "pulse-avatar pulse-avatar--initial", "style", style(
			"width", "6rem", "height", "6rem", "border-radius", "9999px", "box-shadow", ring,
			"background", "linear-gradient(135deg, "+c.Primary+", "+c.Accent+")",
			"color", "#FFFFFF",
		)), text(initial))
	}

	h := el("header", attrs("class", "pulse-header", "style", "text-align:center;margin-bottom:2rem"),
		avatar,
		el("h1", attrs("style", style("color", c.Text)), text(title)),
	)
	if p.Bio != "" {
		h.AppendChild(el("p", attrs("class", "pulse-bio", "style", "opacity:0.7"), text(p.Bio)))
	}
	return h
}

// clickScript reports clicks on marked elements without delaying navigation.
func clickScript(endpoint string) string {
	ep, _ := json.Marshal(endpoint)
	return `(function(){var ep=` + string(ep) + `;` +
		`document.addEventListener("click",function(e){` +
		`try{var t=e.target&&e.target.closest?e.target.closest("[data-pulse-click]"):null;if(!t)return;` +
		`var body=JSON.stringify({blockId:t.getAttribute("data-pulse-click")});` +
		`if(navigator.sendBeacon){navigator.sendBeacon(ep,new Blob([body],{type:"application/json"}));}` +
		`else{fetch(ep,{method:"POST",headers:{"Content-Type":"application/json"},body:body,keepalive:true}).catch(function(){});}` +
		`}catch(err){}},true);})();`
}
