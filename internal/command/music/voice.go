package music

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/player"
)

type JoinCommand struct{ *Music }

func (c *JoinCommand) Name() string        { return "join" }
func (c *JoinCommand) Description() string { return "Join your voice channel" }
func (c *JoinCommand) Category() string    { return "🔊 Voice" }
func (c *JoinCommand) Aliases() []string   { return []string{"j"} }

func (c *JoinCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	if err := c.ensureVoice(mc); err != nil {
		return mc.Info(c.errorMessage(err))
	}
	return mc.Info(fmt.Sprintf("✅ Joined <#%s>", c.Voice.BotChannel(mc.GuildID())))
}

type LeaveCommand struct{ *Music }

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "Leave voice channel" }
func (c *LeaveCommand) Category() string    { return "🔊 Voice" }
func (c *LeaveCommand) Aliases() []string   { return []string{"dc", "disconnect"} }

func (c *LeaveCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	if c.Voice.BotChannel(mc.GuildID()) == "" {
		return mc.Info(c.errorMessage(ErrBotNotInVoice))
	}
	if err := c.Players.GetOrCreate(mc.GuildID()).Leave(); err != nil {
		log.Printf("[WARN] [Music] Leave on guild %s: %v", mc.GuildID(), err)
	}
	return mc.Info("👋 Left the voice channel")
}

type VolumeCommand struct{ *Music }

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Show or set the volume" }
func (c *VolumeCommand) Category() string    { return "🔊 Voice" }
func (c *VolumeCommand) Aliases() []string   { return []string{"vol"} }
func (c *VolumeCommand) Usage() string       { return "[0-100]" }

func (c *VolumeCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	p := c.Players.GetOrCreate(mc.GuildID())
	if len(mc.Args) == 0 {
		return mc.Info(fmt.Sprintf("🔊 Current volume: %d%%", p.Volume()))
	}

	percent, err := strconv.Atoi(mc.Args[0])
	if err != nil {
		return mc.Info(c.errorMessage(player.ErrInvalidVolume))
	}
	if err := p.SetVolume(percent); err != nil {
		return mc.Info(c.errorMessage(err))
	}

	if c.Store != nil {
		if err := c.Store.SetVolume(mc.GuildID(), percent); err != nil {
			log.Printf("[WARN] [Music] Failed to save volume for guild %s: %v", mc.GuildID(), err)
		}
	}
	return mc.Info(fmt.Sprintf("🔊 Volume set to %d%%", percent))
}
