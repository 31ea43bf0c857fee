package input

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"autosheetify/internal/services"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var youtubeHosts = map[string]struct{}{
	"youtube.com":       {},
	"www.youtube.com":   {},
	"m.youtube.com":     {},
	"music.youtube.com": {},
}

// NormalizeURL validates a remote media URL and returns its trimmed form.
// Only YouTube watch, shorts and embed links and youtu.be short links are
// recognised.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: url is empty", services.ErrInvalidURL)
	}
	if _, ok := VideoID(trimmed); !ok {
		return "", fmt.Errorf("%w: %q is not a YouTube video link", services.ErrInvalidURL, trimmed)
	}
	return trimmed, nil
}

// IsMediaURL reports whether raw is a recognised remote media URL.
func IsMediaURL(raw string) bool {
	_, err := NormalizeURL(raw)
	return err == nil
}

// VideoID extracts the 11 character video identifier from a YouTube link.
func VideoID(raw string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(parsed.Hostname())
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")

	var id string
	switch {
	case host == "youtu.be":
		id = segments[0]
	case isYouTubeHost(host):
		switch {
		case len(segments) == 1 && segments[0] == "watch":
			id = parsed.Query().Get("v")
		case len(segments) >= 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live"):
			id = segments[1]
		}
	}
	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func isYouTubeHost(host string) bool {
	_, ok := youtubeHosts[host]
	return ok
}
