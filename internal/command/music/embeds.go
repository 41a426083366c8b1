package music

import (
	"fmt"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/track"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

// NowPlayingEmbed describes the track that just started.
func NowPlayingEmbed(t track.Track, pending int) *discordgo.MessageEmbed {
	e := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle("🎵 Now Playing").
		SetDescription(fmt.Sprintf("**%s**\nDuration: %s", t.DisplayTitle(), t.Duration())).
		AddField("Requested by", orUnknown(t.RequestedBy)).
		AddField("Queue", fmt.Sprintf("%d songs", pending))
	if t.Catalog != nil {
		e.AddField("From Spotify", fmt.Sprintf("🎵 %s by %s", t.Catalog.Title, t.Catalog.Artist))
	}
	e.InlineAllFields()
	if thumb := t.Thumbnail(); thumb != "" {
		e.SetThumbnail(thumb)
	}
	return e.MessageEmbed
}

func addedEmbed(t track.Track, position int) *discordgo.MessageEmbed {
	e := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle("✅ Added to Queue").
		SetDescription(fmt.Sprintf("**%s**\nDuration: %s", t.DisplayTitle(), t.Duration())).
		AddField("Position in queue", fmt.Sprintf("%d", position)).
		AddField("Requested by", orUnknown(t.RequestedBy))
	e.InlineAllFields()
	if t.Catalog != nil {
		e.AddField("From Spotify", fmt.Sprintf("🎵 %s by %s", t.Catalog.Title, t.Catalog.Artist))
	}
	if thumb := t.Thumbnail(); thumb != "" {
		e.SetThumbnail(thumb)
	}
	return e.MessageEmbed
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
