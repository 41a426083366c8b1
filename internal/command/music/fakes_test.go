package music

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/keshon/jukebox/internal/catalog"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/queue"
	"github.com/keshon/jukebox/internal/music/resolver"
	"github.com/keshon/jukebox/internal/music/stream"
	"github.com/keshon/jukebox/internal/storage"

	"github.com/bwmarrin/discordgo"
)

const (
	testGuild   = "guild-1"
	testChannel = "text-1"
	testUser    = "user-1"
	testVoice   = "voice-1"
)

type fakeResolver struct {
	mu     sync.Mutex
	tracks map[string]resolver.ResolvedTrack
}

func (f *fakeResolver) add(name string, seconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt := resolver.ResolvedTrack{
		Title:           name,
		DurationSeconds: seconds,
		SourceRef:       "https://www.youtube.com/watch?v=" + name,
		StreamRef:       "stream:" + name,
		ThumbnailURL:    "https://img/" + name + ".jpg",
	}
	f.tracks[name] = rt
	f.tracks[rt.SourceRef] = rt
}

func (f *fakeResolver) Resolve(ctx context.Context, query string) (*resolver.ResolvedTrack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tracks[query]
	if !ok {
		return nil, &resolver.ResolveError{Kind: resolver.NotFound, Query: query, Err: errors.New("no results")}
	}
	return &rt, nil
}

type fakeHandle struct {
	once   sync.Once
	done   chan struct{}
	paused bool
	volume float64
}

func (h *fakeHandle) Pause()              { h.paused = true }
func (h *fakeHandle) Resume()             { h.paused = false }
func (h *fakeHandle) SetVolume(v float64) { h.volume = v }
func (h *fakeHandle) Done() <-chan struct{} {
	return h.done
}
func (h *fakeHandle) Err() error { return nil }
func (h *fakeHandle) Stop()      { h.once.Do(func() { close(h.done) }) }

type fakeSink struct {
	mu      sync.Mutex
	started []string
	closed  int
}

func (s *fakeSink) Start(ctx context.Context, streamRef string, volume float64) (stream.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, streamRef)
	return &fakeHandle{done: make(chan struct{}), volume: volume}, nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

type fakeVoice struct {
	users   map[string]string
	bot     string
	joinErr error
	joins   []string
}

func (v *fakeVoice) UserChannel(guildID, userID string) (string, error) {
	if ch, ok := v.users[userID]; ok {
		return ch, nil
	}
	return "", ErrNotInVoice
}

func (v *fakeVoice) BotChannel(guildID string) string { return v.bot }

func (v *fakeVoice) Join(guildID, channelID string) error {
	if v.joinErr != nil {
		return v.joinErr
	}
	v.joins = append(v.joins, channelID)
	v.bot = channelID
	return nil
}

type fakeCatalog struct {
	configured bool
	col        *catalog.Collection
	err        error
	links      []catalog.Link
}

func (c *fakeCatalog) Configured() bool { return c.configured }

func (c *fakeCatalog) FetchItems(ctx context.Context, link catalog.Link, limit int) (*catalog.Collection, error) {
	c.links = append(c.links, link)
	if c.err != nil {
		return nil, c.err
	}
	return c.col, nil
}

type fakeStore struct {
	history []storage.TrackHistoryRecord
	volumes map[string]int
}

func (s *fakeStore) FetchTrackHistory(guildID string) ([]storage.TrackHistoryRecord, error) {
	return s.history, nil
}

func (s *fakeStore) SetVolume(guildID string, percent int) error {
	s.volumes[guildID] = percent
	return nil
}

type captureResponder struct {
	embeds []*discordgo.MessageEmbed
}

func (r *captureResponder) SendEmbed(channelID string, e *discordgo.MessageEmbed) error {
	r.embeds = append(r.embeds, e)
	return nil
}

// last returns the description of the newest reply, or the title when it has none.
func (r *captureResponder) last() string {
	if len(r.embeds) == 0 {
		return ""
	}
	e := r.embeds[len(r.embeds)-1]
	if e.Description != "" {
		return e.Description
	}
	return e.Title
}

type harness struct {
	music   *Music
	res     *fakeResolver
	sink    *fakeSink
	voice   *fakeVoice
	catalog *fakeCatalog
	store   *fakeStore
	out     *captureResponder
	players *player.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		res:     &fakeResolver{tracks: make(map[string]resolver.ResolvedTrack)},
		sink:    &fakeSink{},
		voice:   &fakeVoice{users: map[string]string{testUser: testVoice}},
		catalog: &fakeCatalog{configured: true},
		store:   &fakeStore{volumes: make(map[string]int)},
		out:     &captureResponder{},
	}
	h.players = player.NewManager(queue.New(15), h.res, func(string) player.Sink { return h.sink }, player.Options{
		MaxSongLength: 600,
		DefaultVolume: 0.5,
		BatchLimit:    20,
	})
	t.Cleanup(h.players.Shutdown)

	h.music = &Music{
		Players:       h.players,
		Voice:         h.voice,
		Catalog:       h.catalog,
		Store:         h.store,
		MaxQueueSize:  15,
		MaxSongLength: 600,
		BatchLimit:    20,
	}
	return h
}

func (h *harness) run(t *testing.T, c command.DiscordCommand, args ...string) string {
	t.Helper()
	mc := &command.MessageContext{
		Event: &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID:   testGuild,
			ChannelID: testChannel,
			Author:    &discordgo.User{ID: testUser, Username: "alice"},
		}},
		Reply:  h.out,
		Prefix: "!",
		Name:   c.Name(),
		Args:   args,
	}
	if err := c.Run(context.Background(), mc); err != nil {
		t.Fatalf("%s: %v", c.Name(), err)
	}
	return h.out.last()
}

// fill starts one song and queues the rest.
func (h *harness) fill(t *testing.T, names ...string) {
	t.Helper()
	for _, n := range names {
		h.res.add(n, 200)
		h.run(t, &PlayCommand{h.music}, n)
	}
}

func songs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("song%d", i+1)
	}
	return out
}
