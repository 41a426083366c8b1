// Package queue holds the per-guild pending tracks and the track most recently
// handed to the player. Queues are created on first enqueue and dropped on Clear.
package queue

import (
	"errors"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/keshon/jukebox/internal/music/track"
)

const DefaultMaxSize = 50

var (
	ErrQueueFull       = errors.New("queue is full")
	ErrNotEnoughTracks = errors.New("need at least 2 tracks in queue to shuffle")
	ErrNoSuchPosition  = errors.New("no track at that position")
)

type guildQueue struct {
	pending []track.Track
	current *track.Track
}

// Store keeps one queue per guild.
type Store struct {
	mu      sync.Mutex
	maxSize int
	queues  map[string]*guildQueue
}

// New returns a Store bounded to maxSize pending tracks per guild.
// A non-positive maxSize falls back to DefaultMaxSize.
func New(maxSize int) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Store{
		maxSize: maxSize,
		queues:  make(map[string]*guildQueue),
	}
}

// MaxSize returns the pending bound.
func (s *Store) MaxSize() int {
	return s.maxSize
}

// Enqueue appends t and returns its 1-based position in pending.
func (s *Store) Enqueue(guildID string, t track.Track) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[guildID]
	if ok && len(q.pending) >= s.maxSize {
		return 0, ErrQueueFull
	}
	if !ok {
		q = &guildQueue{}
		s.queues[guildID] = q
	}

	q.pending = append(q.pending, t)
	return len(q.pending), nil
}

// DequeueNext pops the head of pending and makes it current.
// On an empty queue it reports false and leaves current alone.
func (s *Store) DequeueNext(guildID string) (track.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[guildID]
	if !ok || len(q.pending) == 0 {
		return track.Track{}, false
	}

	next := q.pending[0]
	q.pending[0] = track.Track{}
	q.pending = q.pending[1:]
	q.current = &next
	return next, true
}

// PeekAll returns copies of current and pending.
func (s *Store) PeekAll(guildID string) (*track.Track, []track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[guildID]
	if !ok {
		return nil, nil
	}

	var cur *track.Track
	if q.current != nil {
		c := *q.current
		cur = &c
	}
	return cur, slices.Clone(q.pending)
}

// Current returns a copy of the current track, if any.
func (s *Store) Current(guildID string) (*track.Track, bool) {
	cur, _ := s.PeekAll(guildID)
	return cur, cur != nil
}

// Len returns the number of pending tracks.
func (s *Store) Len(guildID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := s.queues[guildID]; ok {
		return len(q.pending)
	}
	return 0
}

// Clear empties pending and drops current by deleting the guild queue.
func (s *Store) Clear(guildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, guildID)
}

// ClearCurrent drops current. A queue left with nothing pending is deleted.
func (s *Store) ClearCurrent(guildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[guildID]
	if !ok {
		return
	}
	q.current = nil
	if len(q.pending) == 0 {
		delete(s.queues, guildID)
	}
}

// ClearPending empties pending but keeps current.
func (s *Store) ClearPending(guildID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[guildID]
	if !ok {
		return 0
	}
	n := len(q.pending)
	q.pending = nil
	return n
}

// Shuffle permutes pending in place with a uniform Fisher-Yates shuffle.
func (s *Store) Shuffle(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[guildID]
	if !ok || len(q.pending) < 2 {
		return ErrNotEnoughTracks
	}

	rand.Shuffle(len(q.pending), func(i, j int) {
		q.pending[i], q.pending[j] = q.pending[j], q.pending[i]
	})
	return nil
}

// Remove drops the pending track at the 1-based position.
func (s *Store) Remove(guildID string, position int) (track.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[guildID]
	if !ok || position < 1 || position > len(q.pending) {
		return track.Track{}, ErrNoSuchPosition
	}

	removed := q.pending[position-1]
	q.pending = slices.Delete(q.pending, position-1, position)
	return removed, nil
}
