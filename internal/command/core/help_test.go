package core

import (
	"context"
	"testing"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name, category, usage string
	aliases               []string
}

func (c *stubCommand) Name() string        { return c.name }
func (c *stubCommand) Description() string { return c.name + " things" }
func (c *stubCommand) Category() string    { return c.category }
func (c *stubCommand) Aliases() []string   { return c.aliases }
func (c *stubCommand) Usage() string       { return c.usage }
func (c *stubCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	return nil
}

type captureResponder struct{ embeds []*discordgo.MessageEmbed }

func (r *captureResponder) SendEmbed(channelID string, e *discordgo.MessageEmbed) error {
	r.embeds = append(r.embeds, e)
	return nil
}

func TestHelpGroupsByCategory(t *testing.T) {
	reg := cmd.NewRegistry()
	require.NoError(t, command.RegisterCommand(reg, &stubCommand{name: "volume", category: "🔊 Voice", usage: "[0-100]", aliases: []string{"vol"}}))
	require.NoError(t, command.RegisterCommand(reg, &stubCommand{name: "play", category: "🎵 Playback", usage: "<song/url>", aliases: []string{"p"}}))
	require.NoError(t, command.RegisterCommand(reg, &stubCommand{name: "queue", category: "📜 Queue"}))
	help := &HelpCommand{Registry: reg}
	require.NoError(t, command.RegisterCommand(reg, help))

	out := &captureResponder{}
	mc := &command.MessageContext{
		Event:  &discordgo.MessageCreate{Message: &discordgo.Message{GuildID: "g", ChannelID: "c"}},
		Reply:  out,
		Prefix: "!",
	}
	require.NoError(t, help.Run(context.Background(), mc))
	require.Len(t, out.embeds, 1)

	fields := out.embeds[0].Fields
	require.Len(t, fields, 4)
	assert.Equal(t, "🕯️ Information", fields[0].Name)
	assert.Equal(t, "🎵 Playback", fields[1].Name)
	assert.Equal(t, "`!play <song/url>` - play things (p)", fields[1].Value)
	assert.Equal(t, "📜 Queue", fields[2].Name)
	assert.Equal(t, "🔊 Voice", fields[3].Name)
	assert.Equal(t, "`!volume [0-100]` - volume things (vol)", fields[3].Value)
	assert.Equal(t, command.EmbedColor, out.embeds[0].Color)
}
