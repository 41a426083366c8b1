package music

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/keshon/jukebox/internal/catalog"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/queue"
)

type PlayCommand struct{ *Music }

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a song from YouTube or Spotify" }
func (c *PlayCommand) Category() string    { return "🎵 Playback" }
func (c *PlayCommand) Aliases() []string   { return []string{"p"} }
func (c *PlayCommand) Usage() string       { return "<song/url>" }

func (c *PlayCommand) Run(ctx context.Context, mc *command.MessageContext) error {
	query := mc.ArgString()
	if query == "" {
		return mc.Info(fmt.Sprintf("❌ Missing required argument: query\nUsage: `%splay %s`", mc.Prefix, c.Usage()))
	}

	if err := c.ensureVoice(mc); err != nil {
		return mc.Info(c.errorMessage(err))
	}

	p := c.Players.GetOrCreate(mc.GuildID())
	if _, pending := p.Queue(); len(pending) >= c.MaxQueueSize {
		return mc.Info(c.errorMessage(queue.ErrQueueFull))
	}

	if catalog.IsCatalogLink(query) {
		return c.playCatalog(ctx, mc, p, query)
	}

	if err := mc.Info("🔍 Searching for your song..."); err != nil {
		log.Printf("[WARN] [Music] Failed to send search notice: %v", err)
	}

	t, err := p.Lookup(ctx, query, mc.Mention())
	if err != nil {
		return mc.Info(c.errorMessage(err))
	}

	pos, err := p.Enqueue(t)
	if err != nil {
		return mc.Info(c.errorMessage(err))
	}
	if pos == 0 {
		// started right away; the status listener announces it
		return nil
	}
	return mc.Embed(addedEmbed(t, pos))
}

func (c *PlayCommand) playCatalog(ctx context.Context, mc *command.MessageContext, p *player.Player, raw string) error {
	if c.Catalog == nil || !c.Catalog.Configured() {
		return mc.Info(c.errorMessage(catalog.ErrNotConfigured))
	}

	link, ok := catalog.Classify(raw)
	if !ok {
		return mc.Info(c.errorMessage(catalog.ErrUnsupported))
	}

	col, err := c.Catalog.FetchItems(ctx, link, c.BatchLimit)
	if err != nil {
		log.Printf("[WARN] [Music] Catalog lookup for %s %s failed: %v", link.Kind, link.ID, err)
		if catalog.IsNotFound(err) || errors.Is(err, catalog.ErrNotConfigured) {
			return mc.Info(c.errorMessage(err))
		}
		return mc.Info("❌ Invalid URL or search query!")
	}
	if len(col.Items) == 0 {
		return mc.Info("❌ No results found for your search!")
	}

	candidates := make([]player.Candidate, 0, len(col.Items))
	for _, it := range col.Items {
		candidates = append(candidates, player.Candidate{Title: it.Title, Artist: it.Artist, AlbumArtURL: it.AlbumArtURL})
	}

	if link.Kind == catalog.KindTrack {
		first := candidates[0]
		_ = mc.Info(fmt.Sprintf("🎵 Found on Spotify: **%s** by %s\n🔍 Searching on YouTube...", first.Title, first.Artist))

		t, pos, err := p.EnqueueCandidate(ctx, first, mc.Mention())
		if err != nil {
			return mc.Info(c.errorMessage(err))
		}
		if pos == 0 {
			return nil
		}
		return mc.Embed(addedEmbed(t, pos))
	}

	_ = mc.Info(fmt.Sprintf("🎵 Found %s: **%s** by %s\n🔍 Adding %d songs to queue...", link.Kind, col.Title, orUnknown(col.Owner), len(candidates)))

	res, err := p.EnqueueBatch(ctx, candidates, mc.Mention())
	if err != nil {
		return mc.Info(c.errorMessage(err))
	}

	msg := fmt.Sprintf("✅ Added %d songs from %s **%s** to queue!", res.Added, link.Kind, col.Title)
	if res.Failed > 0 {
		msg += fmt.Sprintf("\n⚠️ %d songs could not be found.", res.Failed)
	}
	if res.QueueFull {
		msg += "\n" + c.errorMessage(queue.ErrQueueFull)
	}
	if col.Total > len(col.Items) {
		msg += fmt.Sprintf("\nOnly the first %d of %d songs were taken.", len(col.Items), col.Total)
	}
	return mc.Info(msg)
}
