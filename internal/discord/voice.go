package discord

import (
	"fmt"

	"github.com/keshon/jukebox/internal/command/music"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/stream"
)

// sinkFor is the player.SinkFactory: one voice sink per guild.
func (b *Bot) sinkFor(guildID string) player.Sink {
	return b.sink(guildID)
}

func (b *Bot) sink(guildID string) *stream.DiscordSink {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.sinks[guildID]; ok {
		return s
	}
	s := stream.NewDiscordSink(b.dg, guildID, b.cfg.FFmpegPath)
	b.sinks[guildID] = s
	return s
}

// UserChannel finds the voice channel a member is in.
func (b *Bot) UserChannel(guildID, userID string) (string, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs.ChannelID, nil
		}
	}
	return "", music.ErrNotInVoice
}

func (b *Bot) BotChannel(guildID string) string {
	return b.sink(guildID).ChannelID()
}

func (b *Bot) Join(guildID, channelID string) error {
	return b.sink(guildID).Connect(channelID)
}
