// Package catalog expands Spotify links into "title artist" candidates.
package catalog

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindTrack    Kind = "track"
	KindAlbum    Kind = "album"
	KindPlaylist Kind = "playlist"
)

// Link is a classified catalog reference.
type Link struct {
	Kind Kind
	ID   string
}

var linkPatterns = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{KindTrack, regexp.MustCompile(`^(?:https?://open\.spotify\.com/(?:intl-[a-z]{2}/)?track/|spotify:track:)([A-Za-z0-9]+)`)},
	{KindAlbum, regexp.MustCompile(`^(?:https?://open\.spotify\.com/(?:intl-[a-z]{2}/)?album/|spotify:album:)([A-Za-z0-9]+)`)},
	{KindPlaylist, regexp.MustCompile(`^(?:https?://open\.spotify\.com/(?:intl-[a-z]{2}/)?playlist/|spotify:playlist:)([A-Za-z0-9]+)`)},
}

// Classify recognises Spotify track, album and playlist links and URIs.
func Classify(raw string) (Link, bool) {
	raw = strings.TrimSpace(raw)
	for _, p := range linkPatterns {
		if m := p.re.FindStringSubmatch(raw); m != nil {
			return Link{Kind: p.kind, ID: m[1]}, true
		}
	}
	return Link{}, false
}

// IsCatalogLink reports whether raw points at Spotify at all, including
// kinds Classify does not handle (artists, shows).
func IsCatalogLink(raw string) bool {
	raw = strings.TrimSpace(raw)
	return strings.HasPrefix(raw, "spotify:") ||
		strings.HasPrefix(raw, "https://open.spotify.com/") ||
		strings.HasPrefix(raw, "http://open.spotify.com/")
}
