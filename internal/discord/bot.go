package discord

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/keshon/jukebox/internal/catalog"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/config"
	"github.com/keshon/jukebox/internal/logging"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/queue"
	"github.com/keshon/jukebox/internal/music/resolver"
	"github.com/keshon/jukebox/internal/music/stream"
	"github.com/keshon/jukebox/internal/storage"
	"github.com/keshon/jukebox/pkg/cmd"
	"github.com/keshon/jukebox/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
)

// commandTimeout bounds one command, catalog batches included.
const commandTimeout = 5 * time.Minute

// Bot is a Discord bot
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	registry *cmd.Registry
	players  *player.Manager
	catalog  *catalog.Client
	reply    command.Responder

	mu       sync.RWMutex
	sinks    map[string]*stream.DiscordSink
	announce map[string]string // guildID -> text channel of the last command
}

// NewBot prepares the session and the music stack. Nothing connects until Run.
func NewBot(cfg *config.Config, store *storage.Storage) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	b := &Bot{
		dg:       dg,
		cfg:      cfg,
		storage:  store,
		registry: cmd.NewRegistry(),
		catalog:  catalog.New(cfg.SpotifyClientID, cfg.SpotifyClientSecret),
		reply:    command.SessionResponder{Session: dg},
		sinks:    make(map[string]*stream.DiscordSink),
		announce: make(map[string]string),
	}

	b.players = player.NewManager(
		queue.New(cfg.MaxQueueSize),
		resolver.NewChain(cfg.YouTubeProxy),
		b.sinkFor,
		player.Options{
			MaxSongLength: cfg.MaxSongLength,
			DefaultVolume: cfg.DefaultVolume,
			BatchLimit:    cfg.CatalogBatchLimit,
			OnPlay:        b.recordPlay,
		},
	)
	b.players.VolumeFor = b.rememberedVolume

	if err := b.registerCommands(); err != nil {
		return nil, err
	}
	return b, nil
}

// Run connects to Discord and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.configureIntents()
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)
	b.dg.AddHandler(b.onMessageCreate)
	b.dg.AddHandler(b.onVoiceStateUpdate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	jobs := jobmgr.NewManager(ctx, func(msg string) {
		logging.Debugf("[Jobs] %s", msg)
	})
	if err := jobs.StartAsync("status-listener", func(ctx context.Context) error {
		b.listenStatus(ctx)
		return nil
	}); err != nil {
		return err
	}

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	b.players.Shutdown()
	jobs.StopAll()
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, g := range r.Guilds {
		b.leaveIfBlacklisted(s, g.ID)
	}

	status := fmt.Sprintf("music | %shelp", b.cfg.Prefix)
	if err := s.UpdateListeningStatus(status); err != nil {
		log.Println("[WARN] Failed to set presence:", err)
	}

	log.Printf("[INFO] ✅ Discord bot %v is running in %d guilds.", r.User.Username, len(r.Guilds))
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)
	b.leaveIfBlacklisted(s, g.Guild.ID)
}

func (b *Bot) leaveIfBlacklisted(s *discordgo.Session, guildID string) {
	if !b.cfg.Blacklisted(guildID) {
		return
	}
	log.Printf("[INFO] Leaving blacklisted guild: %s", guildID)
	if err := s.GuildLeave(guildID); err != nil {
		log.Printf("[ERR] Failed to leave guild %s: %v", guildID, err)
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	b.dispatch(ctx, &command.MessageContext{
		Session: s,
		Event:   m,
		Storage: b.storage,
		Reply:   b.reply,
		Prefix:  b.cfg.Prefix,
	})
}

// dispatch runs the command named in the message, if any.
func (b *Bot) dispatch(ctx context.Context, mc *command.MessageContext) {
	name, args, ok := cmd.Parse(mc.Prefix, mc.Event.Content)
	if !ok {
		return
	}
	c := b.registry.Get(name)
	if c == nil {
		return
	}

	if mc.GuildID() != "" {
		b.mu.Lock()
		b.announce[mc.GuildID()] = mc.ChannelID()
		b.mu.Unlock()
	}

	if err := c.Run(ctx, &cmd.Invocation{Name: name, Args: args, Data: mc}); err != nil {
		log.Printf("[ERR] Error running command %s: %v", c.Name(), err)
		if e := mc.Info("❌ An unexpected error occurred!"); e != nil {
			log.Printf("[WARN] Failed to report error in channel %s: %v", mc.ChannelID(), e)
		}
	}
}

// onVoiceStateUpdate stops the guild's player when the bot is moved out of
// voice by someone else.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if s.State == nil || s.State.User == nil || v.UserID != s.State.User.ID || v.ChannelID != "" {
		return
	}
	if p, ok := b.players.Get(v.GuildID); ok {
		log.Printf("[INFO] [Voice] Disconnected from voice on guild %s", v.GuildID)
		if err := p.Leave(); err != nil {
			log.Printf("[WARN] [Voice] Cleanup after disconnect on guild %s: %v", v.GuildID, err)
		}
	}
}

func (b *Bot) announceChannel(guildID string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ch, ok := b.announce[guildID]
	return ch, ok
}
