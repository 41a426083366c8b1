package track

import "fmt"

// CatalogOrigin describes where a track was found when it came from a catalog link.
type CatalogOrigin struct {
	Title       string
	Artist      string
	AlbumArtURL string
}

// Track is a single playable item as it sits in a guild queue.
type Track struct {
	Title           string
	DurationSeconds int
	SourceRef       string
	ThumbnailURL    string
	RequestedBy     string
	Catalog         *CatalogOrigin
}

// FormatDuration renders seconds as m:ss (or h:mm:ss). Zero or negative is "Unknown".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "Unknown"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Duration returns the formatted track length.
func (t Track) Duration() string {
	return FormatDuration(t.DurationSeconds)
}

// Thumbnail prefers catalog album art over the video thumbnail.
func (t Track) Thumbnail() string {
	if t.Catalog != nil && t.Catalog.AlbumArtURL != "" {
		return t.Catalog.AlbumArtURL
	}
	return t.ThumbnailURL
}

// DisplayTitle falls back to the source reference when the title is unknown.
func (t Track) DisplayTitle() string {
	switch {
	case t.Title != "":
		return t.Title
	case t.SourceRef != "":
		return t.SourceRef
	default:
		return "Unknown track"
	}
}
