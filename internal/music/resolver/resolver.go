// Package resolver turns a search term or link into a playable stream.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// ResolvedTrack is what a successful resolution yields. StreamRef is short-lived,
// SourceRef can be resolved again later.
type ResolvedTrack struct {
	Title           string
	DurationSeconds int
	StreamRef       string
	SourceRef       string
	ThumbnailURL    string
}

type ErrorKind int

const (
	NotFound ErrorKind = iota
	Unplayable
	Transient
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Unplayable:
		return "unplayable"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// ResolveError reports why a query could not be resolved.
type ResolveError struct {
	Kind  ErrorKind
	Query string
	Err   error
}

func (e *ResolveError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %q: %s", e.Query, e.Kind)
	}
	return fmt.Sprintf("resolve %q: %s: %v", e.Query, e.Kind, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a ResolveError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *ResolveError
	return errors.As(err, &re) && re.Kind == kind
}

func newError(kind ErrorKind, query string, err error) *ResolveError {
	return &ResolveError{Kind: kind, Query: query, Err: err}
}

// Extractor resolves a direct link.
type Extractor interface {
	Extract(ctx context.Context, link string) (*ResolvedTrack, error)
}

// Searcher maps a free-text query to a video link.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Chain resolves YouTube links with YouTube, everything else (and YouTube
// failures) with Fallback. Free text goes through Searchers in order.
type Chain struct {
	YouTube   Extractor
	Fallback  Extractor
	Searchers []Searcher
}

// NewChain builds the default chain: kkdai for YouTube, ytsearch then
// YouTube Music for search, yt-dlp as the fallback extractor.
func NewChain(proxyURL string) *Chain {
	return &Chain{
		YouTube:  NewYouTube(proxyURL),
		Fallback: NewYTDLP(proxyURL),
		Searchers: []Searcher{
			NewYTSearch(proxyURL),
			NewYTMusic(),
		},
	}
}

// Resolve resolves a search term or link.
func (c *Chain) Resolve(ctx context.Context, query string) (*ResolvedTrack, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newError(NotFound, query, errors.New("empty query"))
	}

	link := query
	if !isURL(query) {
		found, err := c.search(ctx, query)
		if err != nil {
			return nil, err
		}
		link = found
	}

	res, err := c.extract(ctx, link)
	if err != nil {
		var re *ResolveError
		if errors.As(err, &re) {
			re.Query = query
			return nil, re
		}
		return nil, newError(classify(err), query, err)
	}
	return res, nil
}

func (c *Chain) search(ctx context.Context, query string) (string, error) {
	var lastErr error
	for _, s := range c.Searchers {
		if err := ctx.Err(); err != nil {
			return "", newError(Transient, query, err)
		}
		link, err := s.Search(ctx, query)
		if err == nil && link != "" {
			return link, nil
		}
		if err != nil {
			log.Printf("[WARN] [Resolver] search %T failed for %q: %v", s, query, err)
			lastErr = err
		}
	}

	if lastErr != nil && classify(lastErr) == Transient {
		return "", newError(Transient, query, lastErr)
	}
	return "", newError(NotFound, query, lastErr)
}

func (c *Chain) extract(ctx context.Context, link string) (*ResolvedTrack, error) {
	if IsYouTubeURL(link) && c.YouTube != nil {
		link = CleanVideoURL(link)
		res, err := c.YouTube.Extract(ctx, link)
		if err == nil {
			return res, nil
		}
		if c.Fallback == nil || ctx.Err() != nil || IsKind(err, NotFound) {
			return nil, err
		}
		log.Printf("[WARN] [Resolver] youtube extraction failed for %s, trying fallback: %v", link, err)
		res, fbErr := c.Fallback.Extract(ctx, link)
		if fbErr != nil {
			return nil, err
		}
		return res, nil
	}

	if c.Fallback == nil {
		return nil, newError(Unplayable, link, errors.New("unsupported link"))
	}
	return c.Fallback.Extract(ctx, link)
}
