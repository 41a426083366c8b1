package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/config"
	"github.com/keshon/jukebox/internal/version"
	"github.com/keshon/jukebox/pkg/cmd"

	embed "github.com/clinet/discordgo-embed"
)

type HelpCommand struct {
	Registry *cmd.Registry
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Show all available commands" }
func (c *HelpCommand) Category() string    { return "🕯️ Information" }

func (c *HelpCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	e := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle(fmt.Sprintf("🎵 %s Commands", version.AppName)).
		SetDescription("Here are all the available commands:")

	for _, group := range groupByCategory(c.Registry.GetAll()) {
		var lines []string
		for _, cc := range group.commands {
			lines = append(lines, helpLine(mc.Prefix, cc))
		}
		e.AddField(group.name, strings.Join(lines, "\n"))
	}

	e.SetFooter(version.String())
	return mc.Embed(e.MessageEmbed)
}

type category struct {
	name     string
	weight   int
	commands []cmd.Command
}

// groupByCategory orders categories by config.CategoryWeights, then name.
func groupByCategory(all []cmd.Command) []category {
	byName := make(map[string]*category)
	for _, c := range all {
		name := command.Category(c)
		if name == "" {
			name = "Other"
		}
		cat, ok := byName[name]
		if !ok {
			weight, known := config.CategoryWeights[name]
			if !known {
				weight = 1000
			}
			cat = &category{name: name, weight: weight}
			byName[name] = cat
		}
		cat.commands = append(cat.commands, c)
	}

	out := make([]category, 0, len(byName))
	for _, cat := range byName {
		sort.Slice(cat.commands, func(i, j int) bool { return cat.commands[i].Name() < cat.commands[j].Name() })
		out = append(out, *cat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].weight != out[j].weight {
			return out[i].weight < out[j].weight
		}
		return out[i].name < out[j].name
	})
	return out
}

func helpLine(prefix string, c cmd.Command) string {
	var sb strings.Builder
	sb.WriteString("`" + prefix + c.Name())
	if u := cmd.Usage(c); u != "" {
		sb.WriteString(" " + u)
	}
	sb.WriteString("` - " + c.Description())
	if aliases := cmd.Aliases(c); len(aliases) > 0 {
		sb.WriteString(" (" + strings.Join(aliases, ", ") + ")")
	}
	return sb.String()
}
