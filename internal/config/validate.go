package config

import (
	"errors"
	"net/url"
	"slices"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Prefix) == "" {
		errs = append(errs, errors.New("prefix must not be blank"))
	}
	if c.MaxQueueSize < 1 {
		errs = append(errs, errors.New("max_queue_size must be positive"))
	}
	if c.MaxSongLength < 0 {
		errs = append(errs, errors.New("max_song_length must be non-negative"))
	}
	if c.DefaultVolume < 0 || c.DefaultVolume > 1 {
		errs = append(errs, errors.New("default_volume must be between 0 and 1"))
	}
	if c.CatalogBatchLimit < 1 || c.CatalogBatchLimit > 50 {
		errs = append(errs, errors.New("catalog_batch_limit must be between 1 and 50"))
	}
	if (c.SpotifyClientID == "") != (c.SpotifyClientSecret == "") {
		errs = append(errs, errors.New("spotify_client_id and spotify_client_secret must be set together"))
	}
	if c.YouTubeProxy != "" {
		u, err := url.Parse(c.YouTubeProxy)
		if err != nil || u.Host == "" {
			errs = append(errs, errors.New("youtube_proxy must be a URL like socks5://host:port"))
		}
	}

	return errors.Join(errs...)
}

// Blacklisted reports whether guildID is on the blacklist.
func (c *Config) Blacklisted(guildID string) bool {
	return slices.Contains(c.GuildBlacklist, guildID)
}
