package resolver

import (
	"context"
	"errors"

	"github.com/ppalone/ytsearch"
	"github.com/raitonoberu/ytmusic"
)

var errNoResults = errors.New("no results")

// YTSearch searches regular YouTube.
type YTSearch struct {
	client *ytsearch.Client
}

func NewYTSearch(proxyURL string) *YTSearch {
	return &YTSearch{client: ytsearch.NewClient(newHTTPClient(proxyURL))}
}

func (s *YTSearch) Search(ctx context.Context, query string) (string, error) {
	res, err := s.client.Search(ctx, query)
	if err != nil {
		return "", err
	}
	for _, v := range res.Results {
		if v.VideoID != "" {
			return "https://www.youtube.com/watch?v=" + v.VideoID, nil
		}
	}
	return "", errNoResults
}

// YTMusic searches YouTube Music tracks. Catalog "title artist" queries tend
// to land better here when plain search comes back empty.
type YTMusic struct{}

func NewYTMusic() *YTMusic {
	return &YTMusic{}
}

func (YTMusic) Search(ctx context.Context, query string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, err := ytmusic.TrackSearch(query).Next()
	if err != nil {
		return "", err
	}
	for _, v := range res.Tracks {
		if v.VideoID != "" {
			return "https://music.youtube.com/watch?v=" + v.VideoID, nil
		}
	}
	return "", errNoResults
}
