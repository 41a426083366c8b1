package command

import (
	"context"
	"strings"

	"github.com/keshon/jukebox/internal/storage"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

const EmbedColor = 0xb01e66

// Responder posts embeds to a text channel.
type Responder interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// SessionResponder sends through a live Discord session.
type SessionResponder struct {
	Session *discordgo.Session
}

func (r SessionResponder) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := r.Session.ChannelMessageSendEmbed(channelID, embed)
	return err
}

// MessageContext is what the bot passes when a prefixed message runs a command.
type MessageContext struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Storage *storage.Storage
	Reply   Responder
	Prefix  string
	// Name is the command name as typed, alias included.
	Name string
	Args []string
}

func (c *MessageContext) GuildID() string   { return c.Event.GuildID }
func (c *MessageContext) ChannelID() string { return c.Event.ChannelID }

func (c *MessageContext) AuthorID() string {
	if c.Event.Author == nil {
		return ""
	}
	return c.Event.Author.ID
}

func (c *MessageContext) AuthorName() string {
	if c.Event.Author == nil {
		return "unknown"
	}
	return c.Event.Author.Username
}

// Mention renders the author as a Discord mention.
func (c *MessageContext) Mention() string {
	return "<@" + c.AuthorID() + ">"
}

// ArgString joins all arguments back into one string.
func (c *MessageContext) ArgString() string {
	return strings.Join(c.Args, " ")
}

// Embed sends embed to the channel the command came from.
func (c *MessageContext) Embed(embed *discordgo.MessageEmbed) error {
	if embed.Color == 0 {
		embed.Color = EmbedColor
	}
	return c.Reply.SendEmbed(c.ChannelID(), embed)
}

// Info sends a one-line embed.
func (c *MessageContext) Info(description string) error {
	return c.Embed(&discordgo.MessageEmbed{Description: description})
}

// DiscordCommand is what chat commands implement.
type DiscordCommand interface {
	Name() string
	Description() string
	Category() string
	Run(ctx context.Context, mc *MessageContext) error
}

// CategoryProvider exposes the help category through wrappers.
type CategoryProvider interface {
	Category() string
}

// DiscordAdapter adapts a DiscordCommand to cmd.Command, passing through
// aliases, usage and category.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string        { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string { return a.Cmd.Description() }
func (a *DiscordAdapter) Category() string    { return a.Cmd.Category() }

func (a *DiscordAdapter) Aliases() []string {
	if ap, ok := a.Cmd.(cmd.AliasProvider); ok {
		return ap.Aliases()
	}
	return nil
}

func (a *DiscordAdapter) Usage() string {
	if up, ok := a.Cmd.(cmd.UsageProvider); ok {
		return up.Usage()
	}
	return ""
}

func (a *DiscordAdapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, ok := inv.Data.(*MessageContext)
	if !ok {
		return nil
	}
	mc.Name = inv.Name
	mc.Args = inv.Args
	return a.Cmd.Run(ctx, mc)
}

// Category returns the help category of a registered command.
func Category(c cmd.Command) string {
	if cp, ok := cmd.Root(c).(CategoryProvider); ok {
		return cp.Category()
	}
	return ""
}

// RegisterCommand adds a Discord command to reg with middlewares applied.
func RegisterCommand(reg *cmd.Registry, discordCmd DiscordCommand, mws ...cmd.Middleware) error {
	return reg.Register(cmd.Apply(&DiscordAdapter{Cmd: discordCmd}, mws...))
}
