package middleware

import (
	"context"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/pkg/cmd"
)

// WithGuildOnly drops invocations that do not come from a guild channel.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if v, ok := inv.Data.(*command.MessageContext); ok && v.Event.GuildID == "" {
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithBlacklist ignores commands from guilds the predicate rejects.
func WithBlacklist(blacklisted func(guildID string) bool) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if v, ok := inv.Data.(*command.MessageContext); ok && blacklisted(v.Event.GuildID) {
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}
