package music

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/queue"

	embed "github.com/clinet/discordgo-embed"
)

const queuePreview = 10

type QueueCommand struct{ *Music }

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the current queue" }
func (c *QueueCommand) Category() string    { return "📜 Queue" }
func (c *QueueCommand) Aliases() []string   { return []string{"q"} }

func (c *QueueCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	p, ok := c.Players.Get(mc.GuildID())
	if !ok {
		return mc.Info("❌ The queue is empty!")
	}
	current, pending := p.Queue()
	if current == nil && len(pending) == 0 {
		return mc.Info("❌ The queue is empty!")
	}

	e := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle("🎵 Music Queue")

	if current != nil {
		e.AddField("🎵 Now Playing", fmt.Sprintf("**%s**\nDuration: %s", current.DisplayTitle(), current.Duration()))
	}

	if len(pending) > 0 {
		var sb strings.Builder
		for i, t := range pending[:min(len(pending), queuePreview)] {
			fmt.Fprintf(&sb, "%d. **%s** (%s)\n", i+1, t.DisplayTitle(), t.Duration())
		}
		e.AddField("📋 Up Next", sb.String())
	}

	if len(pending) > queuePreview {
		e.SetFooter(fmt.Sprintf("... and %d more songs", len(pending)-queuePreview))
	}
	return mc.Embed(e.MessageEmbed)
}

type ShuffleCommand struct{ *Music }

func (c *ShuffleCommand) Name() string        { return "shuffle" }
func (c *ShuffleCommand) Description() string { return "Shuffle the queue" }
func (c *ShuffleCommand) Category() string    { return "📜 Queue" }

func (c *ShuffleCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	p, ok := c.Players.Get(mc.GuildID())
	if !ok {
		return mc.Info(c.errorMessage(queue.ErrNotEnoughTracks))
	}
	if err := p.Shuffle(); err != nil {
		return mc.Info(c.errorMessage(err))
	}
	return mc.Info("🔀 Queue shuffled!")
}

type ClearCommand struct{ *Music }

func (c *ClearCommand) Name() string        { return "clear" }
func (c *ClearCommand) Description() string { return "Clear the queue" }
func (c *ClearCommand) Category() string    { return "📜 Queue" }

func (c *ClearCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	p, ok := c.Players.Get(mc.GuildID())
	if !ok || p.ClearPending() == 0 {
		return mc.Info("❌ The queue is empty!")
	}
	return mc.Info("🗑️ Queue cleared!")
}

type RemoveCommand struct{ *Music }

func (c *RemoveCommand) Name() string        { return "remove" }
func (c *RemoveCommand) Description() string { return "Remove a song from the queue" }
func (c *RemoveCommand) Category() string    { return "📜 Queue" }
func (c *RemoveCommand) Usage() string       { return "<position>" }

func (c *RemoveCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	if len(mc.Args) != 1 {
		return mc.Info(fmt.Sprintf("❌ Missing required argument: position\nUsage: `%sremove %s`", mc.Prefix, c.Usage()))
	}
	pos, err := strconv.Atoi(mc.Args[0])
	if err != nil {
		return mc.Info("❌ Invalid argument provided!")
	}

	p, ok := c.Players.Get(mc.GuildID())
	if !ok {
		return mc.Info(c.errorMessage(queue.ErrNoSuchPosition))
	}
	t, err := p.Remove(pos)
	if err != nil {
		return mc.Info(c.errorMessage(err))
	}
	return mc.Info(fmt.Sprintf("🗑️ Removed **%s** from the queue", t.DisplayTitle()))
}
