package discord

import (
	"fmt"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/command/core"
	"github.com/keshon/jukebox/internal/command/music"
	"github.com/keshon/jukebox/internal/middleware"
	"github.com/keshon/jukebox/pkg/cmd"
)

// registerCommands registers help and the music commands
func (b *Bot) registerCommands() error {
	mws := []cmd.Middleware{
		middleware.WithGuildOnly(),
		middleware.WithBlacklist(b.cfg.Blacklisted),
		middleware.WithCommandLogger(),
	}

	m := &music.Music{
		Players:       b.players,
		Voice:         b,
		Catalog:       b.catalog,
		MaxQueueSize:  b.cfg.MaxQueueSize,
		MaxSongLength: b.cfg.MaxSongLength,
		BatchLimit:    b.cfg.CatalogBatchLimit,
	}
	if b.storage != nil {
		m.Store = b.storage
	}

	all := append(music.Commands(m), &core.HelpCommand{Registry: b.registry})
	for _, c := range all {
		if err := command.RegisterCommand(b.registry, c, mws...); err != nil {
			return fmt.Errorf("register %s: %w", c.Name(), err)
		}
	}
	return nil
}
