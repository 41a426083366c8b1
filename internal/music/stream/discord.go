package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

var ErrNotConnected = errors.New("not connected to a voice channel")

// DiscordSink plays into one guild's voice connection.
type DiscordSink struct {
	session    *discordgo.Session
	guildID    string
	ffmpegPath string

	mu       sync.Mutex
	vc       *discordgo.VoiceConnection
	speaking speakingGate
}

// speakingGate orders the speaking flag across back-to-back tracks: only the
// newest track may clear it.
type speakingGate struct {
	mu  sync.Mutex
	seq uint64
}

func (g *speakingGate) begin(set func(bool) error) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return g.seq, set(true)
}

func (g *speakingGate) end(seq uint64, set func(bool) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq != g.seq {
		return nil
	}
	return set(false)
}

func NewDiscordSink(s *discordgo.Session, guildID, ffmpegPath string) *DiscordSink {
	return &DiscordSink{session: s, guildID: guildID, ffmpegPath: ffmpegPath}
}

// Connect joins channelID, or reuses the connection when already there.
func (s *DiscordSink) Connect(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vc != nil && s.vc.ChannelID == channelID {
		return nil
	}

	vc, err := s.session.ChannelVoiceJoin(s.guildID, channelID, false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}
	s.vc = vc
	log.Printf("[INFO] [Voice] Joined voice channel %s on guild %s", channelID, s.guildID)
	return nil
}

// ChannelID returns the connected channel, or "".
func (s *DiscordSink) ChannelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vc == nil {
		return ""
	}
	return s.vc.ChannelID
}

func (s *DiscordSink) Start(ctx context.Context, streamRef string, volume float64) (Handle, error) {
	s.mu.Lock()
	vc := s.vc
	s.mu.Unlock()
	if vc == nil {
		return nil, ErrNotConnected
	}

	enc, err := gopus.NewEncoder(SampleRate, Channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("encoder error: %w", err)
	}

	src, err := OpenPCM(ctx, s.ffmpegPath, streamRef)
	if err != nil {
		return nil, err
	}

	seq, err := s.speaking.begin(vc.Speaking)
	if err != nil {
		log.Printf("[WARN] [Voice] Speaking(true) failed on guild %s: %v", s.guildID, err)
	}

	h := Play(ctx, src, enc, vc.OpusSend, volume)
	go func() {
		<-h.Done()
		_ = s.speaking.end(seq, vc.Speaking)
	}()
	return h, nil
}

// Close leaves the voice channel. Safe to call when not connected.
func (s *DiscordSink) Close() error {
	s.mu.Lock()
	vc := s.vc
	s.vc = nil
	s.mu.Unlock()

	if vc == nil {
		return nil
	}
	if err := vc.Disconnect(); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	log.Printf("[INFO] [Voice] Left voice channel on guild %s", s.guildID)
	return nil
}
