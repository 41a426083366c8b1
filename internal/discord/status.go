package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/command/music"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/keshon/jukebox/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// listenStatus posts player status changes to the channel each guild last
// used for a command.
func (b *Bot) listenStatus(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-b.players.Events():
			b.announceEvent(ev)
		}
	}
}

func (b *Bot) announceEvent(ev player.Event) {
	pending := 0
	if p, ok := b.players.Get(ev.GuildID); ok {
		_, q := p.Queue()
		pending = len(q)
	}

	embed := statusEmbed(ev, pending)
	if embed == nil {
		return
	}
	channelID, ok := b.announceChannel(ev.GuildID)
	if !ok {
		return
	}
	if err := b.reply.SendEmbed(channelID, embed); err != nil {
		log.Printf("[WARN] Failed to announce %s on guild %s: %v", ev.Status, ev.GuildID, err)
	}
}

// statusEmbed renders the events commands do not answer themselves; nil
// means nothing to post.
func statusEmbed(ev player.Event, pending int) *discordgo.MessageEmbed {
	switch ev.Status {
	case player.StatusPlaying:
		if ev.Track == nil {
			return nil
		}
		return music.NowPlayingEmbed(*ev.Track, pending)
	case player.StatusFailed:
		title := "the song"
		if ev.Track != nil {
			title = "**" + ev.Track.DisplayTitle() + "**"
		}
		return &discordgo.MessageEmbed{
			Color:       command.EmbedColor,
			Description: fmt.Sprintf("%s Error playing %s. Skipping to next...", ev.Status.StringEmoji(), title),
		}
	case player.StatusAllFailed:
		return &discordgo.MessageEmbed{
			Color:       command.EmbedColor,
			Description: fmt.Sprintf("%s None of the queued songs could be played.", ev.Status.StringEmoji()),
		}
	case player.StatusFinished:
		return &discordgo.MessageEmbed{
			Color:       command.EmbedColor,
			Description: fmt.Sprintf("%s Queue finished.", ev.Status.StringEmoji()),
		}
	default:
		return nil
	}
}

// recordPlay stores a started track in the guild's history.
func (b *Bot) recordPlay(guildID string, t track.Track) {
	if b.storage == nil {
		return
	}
	err := b.storage.AppendTrackToHistory(guildID, storage.TrackHistoryRecord{
		Title:       t.DisplayTitle(),
		SourceRef:   t.SourceRef,
		Duration:    t.DurationSeconds,
		RequestedBy: t.RequestedBy,
		PlayedAt:    time.Now(),
	})
	if err != nil {
		log.Printf("[WARN] Failed to record play on guild %s: %v", guildID, err)
	}
}

// rememberedVolume feeds player.Manager.VolumeFor.
func (b *Bot) rememberedVolume(guildID string) (int, bool) {
	if b.storage == nil {
		return 0, false
	}
	v, ok, err := b.storage.GetVolume(guildID)
	if err != nil {
		log.Printf("[WARN] Failed to load volume for guild %s: %v", guildID, err)
		return 0, false
	}
	return v, ok
}
