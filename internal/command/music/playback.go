package music

import (
	"context"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/player"
)

type PauseCommand struct{ *Music }

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause the current song" }
func (c *PauseCommand) Category() string    { return "🎵 Playback" }

func (c *PauseCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	p, ok := c.active(mc.GuildID())
	if !ok {
		return mc.Info(c.errorMessage(player.ErrSinkUnavailable))
	}
	if err := p.Pause(); err != nil {
		return mc.Info(c.errorMessage(err))
	}
	return mc.Info("⏸️ Paused")
}

type ResumeCommand struct{ *Music }

func (c *ResumeCommand) Name() string        { return "resume" }
func (c *ResumeCommand) Description() string { return "Resume the paused song" }
func (c *ResumeCommand) Category() string    { return "🎵 Playback" }

func (c *ResumeCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	p, ok := c.active(mc.GuildID())
	if !ok || p.Resume() != nil {
		return mc.Info("❌ Nothing is paused!")
	}
	return mc.Info("▶️ Resumed")
}

type SkipCommand struct{ *Music }

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip the current song" }
func (c *SkipCommand) Category() string    { return "🎵 Playback" }
func (c *SkipCommand) Aliases() []string   { return []string{"s"} }

func (c *SkipCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	p, ok := c.active(mc.GuildID())
	if !ok {
		return mc.Info(c.errorMessage(player.ErrSinkUnavailable))
	}
	if err := p.Skip(); err != nil {
		return mc.Info(c.errorMessage(err))
	}
	return mc.Info("⏭️ Skipped")
}

type StopCommand struct{ *Music }

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop music and clear queue" }
func (c *StopCommand) Category() string    { return "🎵 Playback" }

func (c *StopCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	p, ok := c.active(mc.GuildID())
	if !ok {
		return mc.Info(c.errorMessage(player.ErrSinkUnavailable))
	}
	if err := p.Stop(); err != nil {
		return mc.Info(c.errorMessage(err))
	}
	return mc.Info("⏹️ Stopped and cleared queue")
}

type NowPlayingCommand struct{ *Music }

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show current song info" }
func (c *NowPlayingCommand) Category() string    { return "🎵 Playback" }
func (c *NowPlayingCommand) Aliases() []string   { return []string{"np"} }

func (c *NowPlayingCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	p, ok := c.active(mc.GuildID())
	if !ok {
		return mc.Info(c.errorMessage(player.ErrSinkUnavailable))
	}
	current, pending := p.Queue()
	if current == nil {
		return mc.Info(c.errorMessage(player.ErrSinkUnavailable))
	}

	e := NowPlayingEmbed(*current, len(pending))
	if p.State() == player.StatePaused {
		e.Title = "⏸️ Paused"
	}
	return mc.Embed(e)
}
