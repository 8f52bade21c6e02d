// Package sanitize cleans user supplied plain text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
)

var strictPolicy = bluemonday.StrictPolicy()

// elements that are markup wherever they appear, closed or not
var activeElements = map[string]bool{
	"script": true, "style": true, "iframe": true, "frame": true, "frameset": true,
	"object": true, "embed": true, "img": true, "svg": true, "math": true,
	"link": true, "meta": true, "base": true, "form": true, "input": true,
	"video": true, "audio": true, "source": true,
}

// Text strips markup from s. Values that only contain stray angle brackets,
// such as "a<b and c>d", are returned as typed.
func Text(s string) string {
	if !ContainsMarkup(s) {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// ContainsMarkup reports whether s carries real HTML: a comment, a self
// closing tag, an active element, an event handler attribute or an element
// that is opened and closed.
func ContainsMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	opened := map[string]bool{}
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return false
		case xhtml.CommentToken, xhtml.SelfClosingTagToken:
			return true
		case xhtml.StartTagToken:
			name, hasAttr := z.TagName()
			tag := strings.ToLower(string(name))
			if activeElements[tag] {
				return true
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if len(val) > 0 && strings.HasPrefix(strings.ToLower(string(key)), "on") {
					return true
				}
			}
			opened[tag] = true
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if opened[strings.ToLower(string(name))] {
				return true
			}
		}
	}
}
