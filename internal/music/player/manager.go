package player

import (
	"log"
	"sync"

	"github.com/keshon/jukebox/internal/music/queue"
)

const eventBuffer = 64

// SinkFactory builds the audio sink for a guild.
type SinkFactory func(guildID string) Sink

// Manager owns one Player per guild. Players share a queue store and one
// status channel.
type Manager struct {
	mu      sync.Mutex
	players map[string]*Player

	store    *queue.Store
	resolver Resolver
	newSink  SinkFactory
	opts     Options
	events   chan Event

	// VolumeFor returns a remembered volume percentage for a guild.
	VolumeFor func(guildID string) (int, bool)
}

func NewManager(store *queue.Store, r Resolver, newSink SinkFactory, opts Options) *Manager {
	return &Manager{
		players:  make(map[string]*Player),
		store:    store,
		resolver: r,
		newSink:  newSink,
		opts:     opts,
		events:   make(chan Event, eventBuffer),
	}
}

// Events delivers status changes of every player.
func (m *Manager) Events() <-chan Event {
	return m.events
}

func (m *Manager) Get(guildID string) (*Player, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[guildID]
	return p, ok
}

func (m *Manager) GetOrCreate(guildID string) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.players[guildID]; ok {
		return p
	}

	p := New(guildID, m.store, m.resolver, m.newSink(guildID), m.opts, m.events)
	if m.VolumeFor != nil {
		if v, ok := m.VolumeFor(guildID); ok {
			_ = p.SetVolume(v)
		}
	}
	m.players[guildID] = p
	log.Printf("[INFO] [Player] Created player for guild %s", guildID)
	return p
}

// Shutdown makes every player leave its voice channel.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	players := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, p)
	}
	m.mu.Unlock()

	for _, p := range players {
		if err := p.Leave(); err != nil {
			log.Printf("[WARN] [Player] Leave on shutdown failed for guild %s: %v", p.guildID, err)
		}
	}
}
