package config

const (
	DefaultPrefix            = "!"
	DefaultMaxQueueSize      = 50
	DefaultMaxSongLength     = 600 // 10 minutes
	DefaultVolume            = 0.5
	DefaultCatalogBatchLimit = 20
	DefaultStoragePath       = "jukebox.db"
	DefaultFFmpegPath        = "ffmpeg"
)

// Defaults returns a config with every default set. Loading layers the file
// and the environment on top of it, so an explicit 0 (no song length limit,
// muted start volume) survives.
func Defaults() *Config {
	c := &Config{
		MaxSongLength: DefaultMaxSongLength,
		DefaultVolume: DefaultVolume,
	}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills fields whose zero value is never meaningful.
func (c *Config) ApplyDefaults() {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.MaxQueueSize == 0 {
		c.MaxQueueSize = DefaultMaxQueueSize
	}
	if c.CatalogBatchLimit == 0 {
		c.CatalogBatchLimit = DefaultCatalogBatchLimit
	}
	if c.StoragePath == "" {
		c.StoragePath = DefaultStoragePath
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = DefaultFFmpegPath
	}
}
