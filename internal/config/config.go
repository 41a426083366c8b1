package config

import (
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken   string   `toml:"discord_token" env:"DISCORD_TOKEN"`
	Prefix         string   `toml:"prefix" env:"DISCORD_PREFIX"`
	GuildBlacklist []string `toml:"guild_blacklist" env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`

	SpotifyClientID     string `toml:"spotify_client_id" env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `toml:"spotify_client_secret" env:"SPOTIFY_CLIENT_SECRET"`

	MaxQueueSize      int     `toml:"max_queue_size" env:"MAX_QUEUE_SIZE"`
	MaxSongLength     int     `toml:"max_song_length" env:"MAX_SONG_LENGTH"`
	DefaultVolume     float64 `toml:"default_volume" env:"DEFAULT_VOLUME"`
	CatalogBatchLimit int     `toml:"catalog_batch_limit" env:"CATALOG_BATCH_LIMIT"`

	StoragePath  string `toml:"storage_path" env:"STORAGE_PATH"`
	YouTubeProxy string `toml:"youtube_proxy" env:"YOUTUBE_PROXY"`
	FFmpegPath   string `toml:"ffmpeg_path" env:"FFMPEG_PATH"`

	LogFile string `toml:"log_file" env:"LOG_FILE"`
	Debug   bool   `toml:"debug" env:"DEBUG"`
}

// Load reads .env, then the TOML file named by CONFIG_FILE (if any), then
// environment overrides, all on top of Defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom is Load without the .env step. An empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SpotifyConfigured reports whether catalog links can be expanded.
func (c *Config) SpotifyConfigured() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}
