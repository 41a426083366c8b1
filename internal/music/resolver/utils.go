package resolver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	youtube "github.com/kkdai/youtube/v2"
)

var youtubeRegex = regexp.MustCompile(`^(?:https?:\/\/)?(?:www\.|m\.|music\.)?(youtube\.com|youtu\.be)\/\S+`)

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsYouTubeURL reports whether input looks like a YouTube or YouTube Music link.
func IsYouTubeURL(input string) bool {
	return youtubeRegex.MatchString(input)
}

// CleanVideoURL strips everything but the video id from a YouTube watch link.
func CleanVideoURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := u.Hostname()

	switch host {
	case "youtu.be":
		vid := strings.Trim(u.Path, "/")
		if vid == "" {
			return raw
		}
		return fmt.Sprintf("https://youtu.be/%s", vid)

	case "www.youtube.com", "youtube.com", "m.youtube.com", "music.youtube.com":
		if u.Path == "/watch" {
			if vid := u.Query().Get("v"); vid != "" {
				return fmt.Sprintf("https://%s/watch?v=%s", host, vid)
			}
		}
		return raw

	default:
		return raw
	}
}

// parseSeconds parses a yt-dlp duration field ("213", "213.4", "NA").
func parseSeconds(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(math.Round(f))
}

func classify(err error) ErrorKind {
	var netErr net.Error
	switch {
	case err == nil:
		return NotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Transient
	case errors.As(err, &netErr):
		return Transient
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID), errors.Is(err, youtube.ErrVideoIDMinLength):
		return NotFound
	case errors.Is(err, errNoResults):
		return NotFound
	default:
		return Unplayable
	}
}
