package music

import (
	"context"
	"errors"

	"github.com/keshon/jukebox/internal/catalog"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/storage"
)

var (
	ErrNotInVoice       = errors.New("user is not in a voice channel")
	ErrBotNotInVoice    = errors.New("bot is not in a voice channel")
	ErrDifferentChannel = errors.New("user is in a different voice channel")
	ErrJoinFailed       = errors.New("could not join the voice channel")
)

// Players hands out the per-guild players.
type Players interface {
	Get(guildID string) (*player.Player, bool)
	GetOrCreate(guildID string) *player.Player
}

// Voice finds and joins voice channels.
type Voice interface {
	// UserChannel returns the voice channel the user sits in, or ErrNotInVoice.
	UserChannel(guildID, userID string) (string, error)
	// BotChannel returns the channel the bot is connected to, or "".
	BotChannel(guildID string) string
	Join(guildID, channelID string) error
}

// Catalog expands Spotify links.
type Catalog interface {
	Configured() bool
	FetchItems(ctx context.Context, link catalog.Link, limit int) (*catalog.Collection, error)
}

// Store keeps play history and per-guild volume.
type Store interface {
	FetchTrackHistory(guildID string) ([]storage.TrackHistoryRecord, error)
	SetVolume(guildID string, percent int) error
}

// Music holds what the music commands share.
type Music struct {
	Players Players
	Voice   Voice
	Catalog Catalog
	// Store may be nil; history and remembered volume are then unavailable.
	Store Store

	MaxQueueSize  int
	MaxSongLength int
	BatchLimit    int
}

// Commands returns every music command bound to m.
func Commands(m *Music) []command.DiscordCommand {
	return []command.DiscordCommand{
		&PlayCommand{m},
		&PauseCommand{m},
		&ResumeCommand{m},
		&SkipCommand{m},
		&StopCommand{m},
		&QueueCommand{m},
		&NowPlayingCommand{m},
		&ShuffleCommand{m},
		&ClearCommand{m},
		&RemoveCommand{m},
		&VolumeCommand{m},
		&JoinCommand{m},
		&LeaveCommand{m},
		&HistoryCommand{m},
	}
}

// ensureVoice connects the bot to the caller's voice channel when it is not
// connected yet.
func (m *Music) ensureVoice(mc *command.MessageContext) error {
	userChannel, err := m.Voice.UserChannel(mc.GuildID(), mc.AuthorID())
	if err != nil {
		return err
	}

	switch m.Voice.BotChannel(mc.GuildID()) {
	case "":
		if err := m.Voice.Join(mc.GuildID(), userChannel); err != nil {
			return errors.Join(ErrJoinFailed, err)
		}
		return nil
	case userChannel:
		return nil
	default:
		return ErrDifferentChannel
	}
}

// active returns the guild's player when one exists and is not idle.
func (m *Music) active(guildID string) (*player.Player, bool) {
	p, ok := m.Players.Get(guildID)
	if !ok || p.State() == player.StateIdle {
		return nil, false
	}
	return p, true
}
