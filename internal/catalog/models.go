package catalog

import "strings"

// Item is one track of a collection.
type Item struct {
	Title       string
	Artist      string
	AlbumArtURL string
	DurationMs  int
}

// Collection is what a catalog link expands to. A track link yields a
// collection of one.
type Collection struct {
	Kind   Kind
	Title  string
	Owner  string
	ArtURL string
	Total  int
	Items  []Item
}

type image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type artist struct {
	Name string `json:"name"`
}

type album struct {
	Name        string   `json:"name"`
	Artists     []artist `json:"artists"`
	Images      []image  `json:"images"`
	TotalTracks int      `json:"total_tracks"`
}

type trackObject struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	DurationMs int      `json:"duration_ms"`
	Artists    []artist `json:"artists"`
	Album      *album   `json:"album,omitempty"`
}

type albumTracksPage struct {
	Items []trackObject `json:"items"`
	Total int           `json:"total"`
}

type playlist struct {
	Name   string  `json:"name"`
	Images []image `json:"images"`
	Owner  struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type playlistTracksPage struct {
	Items []struct {
		Track *trackObject `json:"track"`
	} `json:"items"`
	Total int `json:"total"`
}

func joinArtists(as []artist) string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func firstImage(imgs []image) string {
	if len(imgs) == 0 {
		return ""
	}
	return imgs[0].URL
}

func (t trackObject) item(fallbackArt string) Item {
	art := fallbackArt
	if t.Album != nil {
		if a := firstImage(t.Album.Images); a != "" {
			art = a
		}
	}
	return Item{
		Title:       t.Name,
		Artist:      joinArtists(t.Artists),
		AlbumArtURL: art,
		DurationMs:  t.DurationMs,
	}
}
