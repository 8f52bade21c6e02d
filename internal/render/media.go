package render

import (
	"net/url"
	"regexp"
	"strings"
)

type MediaKind int

const (
	MediaUnconfigured MediaKind = iota
	MediaInvalid
	MediaEmbed
	MediaImage
)

type Media struct {
	Kind MediaKind
	Src  string
}

var (
	youtubeURL = regexp.MustCompile(`(?:youtube\.com/watch\?(?:[^#]*&)?v=|youtu\.be/|youtube\.com/embed/)([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)
	youtubeID  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	vimeoURL   = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`)
)

// NormalizeMedia turns a user supplied media URL into something embeddable.
func NormalizeMedia(mediaType, embedURL string) Media {
	raw := strings.TrimSpace(embedURL)
	if raw == "" {
		return Media{Kind: MediaUnconfigured}
	}

	switch mediaType {
	case "youtube":
		if m := youtubeURL.FindStringSubmatch(raw); m != nil {
			return Media{Kind: MediaEmbed, Src: "https://www.youtube.com/embed/" + m[1]}
		}
		if youtubeID.MatchString(raw) {
			return Media{Kind: MediaEmbed, Src: "https://www.youtube.com/embed/" + raw}
		}
	case "vimeo":
		if m := vimeoURL.FindStringSubmatch(raw); m != nil {
			return Media{Kind: MediaEmbed, Src: "https://player.vimeo.com/video/" + m[1]}
		}
	case "spotify":
		if strings.Contains(raw, "open.spotify.com/embed") {
			return Media{Kind: MediaEmbed, Src: raw}
		}
		if strings.Contains(raw, "open.spotify.com") {
			return Media{Kind: MediaEmbed, Src: strings.Replace(raw, "open.spotify.com", "open.spotify.com/embed", 1)}
		}
		// other spotify values, including spotify: URIs, are used as given
		if !scriptURL(raw) {
			return Media{Kind: MediaEmbed, Src: raw}
		}
	case "soundcloud":
		u, err := url.Parse(raw)
		if err != nil || !isWebURL(raw) {
			break
		}
		host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		switch {
		case host == "w.soundcloud.com" && strings.HasPrefix(u.Path, "/player"):
			return Media{Kind: MediaEmbed, Src: raw}
		case host == "soundcloud.com" || host == "m.soundcloud.com":
			return Media{Kind: MediaEmbed, Src: "https://w.soundcloud.com/player/?url=" + url.QueryEscape(raw)}
		}
	case "image":
		if isWebURL(raw) {
			return Media{Kind: MediaImage, Src: raw}
		}
	}
	return Media{Kind: MediaInvalid}
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// SafeHref returns raw when it uses a scheme a visitor may follow, "#" otherwise.
// Scheme-less host names are promoted to https.
func SafeHref(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "#"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "tel":
		return raw
	case "":
		if strings.HasPrefix(raw, "/") || strings.ContainsAny(raw, " \t") || !strings.Contains(raw, ".") {
			return "#"
		}
		return "https://" + raw
	default:
		return "#"
	}
}

func scriptURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}
	switch strings.ToLower(u.Scheme) {
	case "javascript", "vbscript", "data":
		return true
	}
	return false
}
