package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

const ytdlpPrintFormat = "%(url)s\t%(title)s\t%(duration)s\t%(webpage_url)s\t%(thumbnail)s"

// YTDLP extracts through the yt-dlp binary. It handles YouTube links the
// library client cannot, and most other sites.
type YTDLP struct {
	proxy string
}

func NewYTDLP(proxyURL string) *YTDLP {
	return &YTDLP{proxy: proxyURL}
}

func (y *YTDLP) Extract(ctx context.Context, link string) (*ResolvedTrack, error) {
	cmd := ytdlp.New().
		Print(ytdlpPrintFormat).
		Format("bestaudio/best").
		NoPlaylist().
		NoWarnings().
		IgnoreConfig()
	if y.proxy != "" {
		cmd.Proxy(y.proxy)
	}

	res, err := cmd.Run(ctx, "--skip-download", link)
	if err != nil {
		if ctx.Err() != nil {
			return nil, newError(Transient, link, ctx.Err())
		}
		if res != nil {
			stderr := strings.ToLower(res.Stderr)
			switch {
			case strings.Contains(stderr, "unsupported url"):
				return nil, newError(NotFound, link, err)
			case strings.Contains(stderr, "drm"), strings.Contains(stderr, "private video"),
				strings.Contains(stderr, "sign in"):
				return nil, newError(Unplayable, link, err)
			}
		}
		return nil, newError(Unplayable, link, err)
	}

	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		if t, ok := parseYTDLPLine(line); ok {
			if t.SourceRef == "" {
				t.SourceRef = link
			}
			return t, nil
		}
	}
	return nil, newError(Unplayable, link, errors.New("failed to parse yt-dlp output"))
}

// parseYTDLPLine parses one line printed with ytdlpPrintFormat.
func parseYTDLPLine(line string) (*ResolvedTrack, bool) {
	ps := strings.Split(strings.TrimSpace(line), "\t")
	if len(ps) < 5 || ps[0] == "" || ps[0] == "NA" {
		return nil, false
	}
	return &ResolvedTrack{
		StreamRef:       ps[0],
		Title:           naToEmpty(ps[1]),
		DurationSeconds: parseSeconds(ps[2]),
		SourceRef:       naToEmpty(ps[3]),
		ThumbnailURL:    naToEmpty(ps[4]),
	}, true
}

func naToEmpty(s string) string {
	if s == "NA" {
		return ""
	}
	return s
}
