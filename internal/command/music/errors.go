package music

import (
	"errors"
	"fmt"
	"log"

	"github.com/keshon/jukebox/internal/catalog"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/queue"
	"github.com/keshon/jukebox/internal/music/resolver"
	"github.com/keshon/jukebox/internal/music/track"
)

// errorMessage turns an error into the text shown in the channel.
func (m *Music) errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotInVoice):
		return "❌ You need to be in a voice channel to use this command!"
	case errors.Is(err, ErrBotNotInVoice):
		return "❌ I'm not currently in a voice channel!"
	case errors.Is(err, ErrDifferentChannel):
		return "❌ You need to be in the same voice channel as me!"
	case errors.Is(err, ErrJoinFailed):
		return "❌ I don't have permission to join or speak in that voice channel!"
	case errors.Is(err, player.ErrSinkUnavailable):
		return "❌ There's no song currently playing!"
	case errors.Is(err, queue.ErrQueueFull):
		return fmt.Sprintf("❌ Queue is full! Maximum %d songs allowed.", m.MaxQueueSize)
	case errors.Is(err, queue.ErrNotEnoughTracks):
		return "❌ Need at least 2 songs in queue to shuffle!"
	case errors.Is(err, queue.ErrNoSuchPosition):
		return "❌ There is no song at that position!"
	case errors.Is(err, player.ErrTooLong):
		return fmt.Sprintf("❌ Song is too long! Maximum length is %s.", track.FormatDuration(m.MaxSongLength))
	case errors.Is(err, player.ErrInvalidVolume):
		return "❌ Volume must be between 0 and 100!"
	case errors.Is(err, catalog.ErrNotConfigured):
		return "❌ Spotify API not configured. Please add SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET to your .env file."
	case errors.Is(err, catalog.ErrUnsupported):
		return "❌ Invalid Spotify link!"
	case catalog.IsNotFound(err):
		return "❌ No results found for your search!"
	case resolver.IsKind(err, resolver.NotFound):
		return "❌ No results found for your search!"
	case resolver.IsKind(err, resolver.Unplayable):
		return "❌ That video can't be played here. Try another one!"
	case resolver.IsKind(err, resolver.Transient):
		return "❌ The video service is not answering right now. Try again in a moment."
	}

	log.Printf("[ERROR] [Music] Unexpected error: %v", err)
	return "❌ An unexpected error occurred!"
}
