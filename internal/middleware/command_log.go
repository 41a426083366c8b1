package middleware

import (
	"context"
	"log"
	"time"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/logging"
	"github.com/keshon/jukebox/internal/storage"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// WithCommandLogger records every command run to the guild's command history.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			started := time.Now()
			err := c.Run(ctx, inv)

			v, ok := inv.Data.(*command.MessageContext)
			if !ok {
				return err
			}
			logging.Debugf("[Command] %s ran %s in guild %s (%s)", v.AuthorName(), c.Name(), v.GuildID(), time.Since(started))

			if v.Storage != nil {
				rec := storage.CommandHistoryRecord{
					ChannelID: v.ChannelID(),
					UserID:    v.AuthorID(),
					Username:  v.AuthorName(),
					Command:   c.Name(),
					Param:     v.ArgString(),
					Datetime:  started,
				}
				rec.ChannelName, rec.GuildName = resolveNames(v.Session, v.GuildID(), v.ChannelID())
				if e := v.Storage.AppendCommandToHistory(v.GuildID(), rec); e != nil {
					log.Printf("[WARN] Failed to log command %s: %v", c.Name(), e)
				}
			}
			return err
		})
	}
}

// resolveNames looks up channel and guild names from the session state cache.
func resolveNames(s *discordgo.Session, guildID, channelID string) (channelName, guildName string) {
	if s == nil || s.State == nil {
		return "", ""
	}
	if ch, err := s.State.Channel(channelID); err == nil {
		channelName = ch.Name
	}
	if g, err := s.State.Guild(guildID); err == nil {
		guildName = g.Name
	}
	return channelName, guildName
}
