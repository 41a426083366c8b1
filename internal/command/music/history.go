package music

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/track"

	embed "github.com/clinet/discordgo-embed"
)

type HistoryCommand struct{ *Music }

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recently played songs" }
func (c *HistoryCommand) Category() string    { return "📜 Queue" }

func (c *HistoryCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	if c.Store == nil {
		return mc.Info("❌ History is not available.")
	}

	records, err := c.Store.FetchTrackHistory(mc.GuildID())
	if err != nil {
		return mc.Info(c.errorMessage(err))
	}
	if len(records) == 0 {
		return mc.Info("❌ Nothing has been played yet!")
	}

	var sb strings.Builder
	for i, r := range records {
		fmt.Fprintf(&sb, "%d. [%s](%s) (%s) <t:%d:R>\n", i+1, r.Title, r.SourceRef, track.FormatDuration(r.Duration), r.PlayedAt.Unix())
	}

	e := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle("🕘 Recently Played").
		SetDescription(sb.String())
	return mc.Embed(e.MessageEmbed)
}
