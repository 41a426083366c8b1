package resolver

import (
	"context"
	"errors"
	"fmt"

	youtube "github.com/kkdai/youtube/v2"
)

// YouTube extracts metadata and an audio stream URL with kkdai/youtube.
type YouTube struct {
	client *youtube.Client
}

func NewYouTube(proxyURL string) *YouTube {
	return &YouTube{
		client: &youtube.Client{HTTPClient: newHTTPClient(proxyURL)},
	}
}

func (y *YouTube) Extract(ctx context.Context, link string) (*ResolvedTrack, error) {
	videoID, err := youtube.ExtractVideoID(link)
	if err != nil {
		return nil, newError(NotFound, link, err)
	}

	video, err := y.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, newError(classify(err), link, fmt.Errorf("get video: %w", err))
	}

	formats := video.Formats.Type("audio")
	if len(formats) == 0 {
		formats = video.Formats.WithAudioChannels()
	}
	if len(formats) == 0 {
		return nil, newError(Unplayable, link, errors.New("no audio formats found for video"))
	}

	streamURL, err := y.client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return nil, newError(classify(err), link, fmt.Errorf("get stream url: %w", err))
	}

	res := &ResolvedTrack{
		Title:           video.Title,
		DurationSeconds: int(video.Duration.Seconds()),
		StreamRef:       streamURL,
		SourceRef:       "https://www.youtube.com/watch?v=" + video.ID,
	}
	if n := len(video.Thumbnails); n > 0 {
		res.ThumbnailURL = video.Thumbnails[n-1].URL
	}
	return res, nil
}
