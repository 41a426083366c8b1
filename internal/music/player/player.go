package player

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/keshon/jukebox/internal/music/queue"
	"github.com/keshon/jukebox/internal/music/resolver"
	"github.com/keshon/jukebox/internal/music/stream"
	"github.com/keshon/jukebox/internal/music/track"
)

type State int

const (
	StateIdle State = iota
	StateResolving
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

var (
	ErrTooLong         = errors.New("track is too long")
	ErrInvalidVolume   = errors.New("volume must be between 0 and 100")
	ErrSinkUnavailable = errors.New("nothing is playing")
)

// Resolver turns a query or source link into a playable stream.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*resolver.ResolvedTrack, error)
}

// Sink starts audio output.
type Sink interface {
	Start(ctx context.Context, streamRef string, volume float64) (stream.Handle, error)
	Close() error
}

type Options struct {
	// MaxSongLength in seconds; 0 disables the check.
	MaxSongLength int
	DefaultVolume float64
	BatchLimit    int
	// OnPlay is called after a track starts.
	OnPlay func(guildID string, t track.Track)
}

// Player drives playback for one guild.
type Player struct {
	guildID  string
	store    *queue.Store
	resolver Resolver
	sink     Sink
	opts     Options
	events   chan<- Event

	mu     sync.Mutex
	state  State
	gen    uint64
	volume float64
	handle stream.Handle
	cancel context.CancelFunc
	// enqueued while a chain in advance was running; each raises its attempt cap
	late int
}

// New returns an idle player. events may be nil.
func New(guildID string, store *queue.Store, r Resolver, sink Sink, opts Options, events chan<- Event) *Player {
	if opts.BatchLimit <= 0 {
		opts.BatchLimit = DefaultBatchLimit
	}
	return &Player{
		guildID:  guildID,
		store:    store,
		resolver: r,
		sink:     sink,
		opts:     opts,
		events:   events,
		volume:   clamp01(opts.DefaultVolume),
	}
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Volume returns the volume as a percentage.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.volume*100 + 0.5)
}

// Current returns the track being played or resolved.
func (p *Player) Current() (*track.Track, bool) {
	return p.store.Current(p.guildID)
}

// Queue returns the current track and a copy of pending.
func (p *Player) Queue() (*track.Track, []track.Track) {
	return p.store.PeekAll(p.guildID)
}

// Lookup resolves query into a queueable track.
func (p *Player) Lookup(ctx context.Context, query, requestedBy string) (track.Track, error) {
	res, err := p.resolver.Resolve(ctx, query)
	if err != nil {
		return track.Track{}, err
	}
	t := track.Track{
		Title:           res.Title,
		DurationSeconds: res.DurationSeconds,
		SourceRef:       res.SourceRef,
		ThumbnailURL:    res.ThumbnailURL,
		RequestedBy:     requestedBy,
	}
	if t.SourceRef == "" {
		t.SourceRef = query
	}
	if err := p.checkLength(t); err != nil {
		return track.Track{}, err
	}
	return t, nil
}

func (p *Player) checkLength(t track.Track) error {
	if p.opts.MaxSongLength > 0 && t.DurationSeconds > p.opts.MaxSongLength {
		return fmt.Errorf("%w: %s (max %s)", ErrTooLong, t.Duration(), track.FormatDuration(p.opts.MaxSongLength))
	}
	return nil
}

// Enqueue adds t. When idle the track starts right away and the returned
// position is 0; otherwise it is the 1-based position in pending.
func (p *Player) Enqueue(t track.Track) (int, error) {
	if err := p.checkLength(t); err != nil {
		return 0, err
	}

	p.mu.Lock()
	pos, err := p.store.Enqueue(p.guildID, t)
	if err != nil {
		p.mu.Unlock()
		return 0, err
	}
	log.Printf("[INFO] [Player] Enqueued %q on guild %s | position=%d state=%s", t.DisplayTitle(), p.guildID, pos, p.state)

	if p.state != StateIdle {
		p.late++
		p.mu.Unlock()
		p.emit(Event{Status: StatusAdded, Track: &t, Position: pos})
		return pos, nil
	}

	p.state = StateResolving
	gen := p.gen
	p.mu.Unlock()

	p.advance(gen)
	return 0, nil
}

// advance dequeues and starts tracks until one plays or none are left.
// It gives up when gen is superseded by a Skip, Stop or Leave.
func (p *Player) advance(gen uint64) {
	p.mu.Lock()
	limit := p.store.Len(p.guildID) + 1
	p.late = 0
	p.mu.Unlock()
	attempts, failures := 0, 0

	for {
		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return
		}

		var (
			t  track.Track
			ok bool
		)
		if attempts < limit+p.late {
			t, ok = p.store.DequeueNext(p.guildID)
		}
		if !ok {
			p.state = StateIdle
			p.handle = nil
			p.cancel = nil
			p.store.ClearCurrent(p.guildID)
			p.mu.Unlock()

			if failures > 0 && failures == attempts {
				log.Printf("[WARN] [Player] All %d track(s) failed on guild %s", failures, p.guildID)
				p.emit(Event{Status: StatusAllFailed})
			} else {
				log.Printf("[INFO] [Player] Queue finished on guild %s", p.guildID)
				p.emit(Event{Status: StatusFinished})
			}
			return
		}

		attempts++
		ctx, cancel := context.WithCancel(context.Background())
		p.state = StateResolving
		p.cancel = cancel
		vol := p.volume
		p.mu.Unlock()

		h, err := p.start(ctx, t, vol)

		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			cancel()
			if h != nil {
				h.Stop()
			}
			return
		}
		if err != nil {
			cancel()
			p.cancel = nil
			p.mu.Unlock()

			failures++
			log.Printf("[ERR] [Player] Failed to start %q on guild %s: %v", t.DisplayTitle(), p.guildID, err)
			p.emit(Event{Status: StatusFailed, Track: &t, Err: err})
			continue
		}

		p.state = StatePlaying
		p.handle = h
		p.mu.Unlock()

		log.Printf("[INFO] [Player] Now playing %q on guild %s | pending=%d", t.DisplayTitle(), p.guildID, p.store.Len(p.guildID))
		p.emit(Event{Status: StatusPlaying, Track: &t})
		if p.opts.OnPlay != nil {
			p.opts.OnPlay(p.guildID, t)
		}

		go p.watch(gen, h)
		return
	}
}

// start fetches a fresh stream for t and hands it to the sink.
func (p *Player) start(ctx context.Context, t track.Track, volume float64) (stream.Handle, error) {
	res, err := p.resolver.Resolve(ctx, t.SourceRef)
	if err != nil {
		return nil, err
	}
	if res.StreamRef == "" {
		return nil, &resolver.ResolveError{Kind: resolver.Unplayable, Query: t.SourceRef, Err: errors.New("empty stream url")}
	}
	return p.sink.Start(ctx, res.StreamRef, volume)
}

// watch waits for the terminal event of h and moves on if it is still current.
func (p *Player) watch(gen uint64, h stream.Handle) {
	<-h.Done()

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.gen++
	next := p.gen
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.handle = nil
	p.state = StateResolving
	p.mu.Unlock()

	if err := h.Err(); err != nil {
		log.Printf("[ERR] [Player] Playback error on guild %s: %v", p.guildID, err)
		cur, _ := p.store.Current(p.guildID)
		p.emit(Event{Status: StatusFailed, Track: cur, Err: err})
	}

	p.advance(next)
}

// teardownLocked stops whatever is running. Callers hold p.mu.
func (p *Player) teardownLocked() {
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.handle != nil {
		p.handle.Stop()
		p.handle = nil
	}
}

// Skip ends the current track and starts the next one.
func (p *Player) Skip() error {
	p.mu.Lock()
	if p.state == StateIdle {
		p.mu.Unlock()
		return ErrSinkUnavailable
	}
	p.teardownLocked()
	p.state = StateResolving
	gen := p.gen
	p.mu.Unlock()

	log.Printf("[INFO] [Player] Skip on guild %s", p.guildID)
	p.emit(Event{Status: StatusSkipped})
	p.advance(gen)
	return nil
}

// Stop ends playback and clears the queue. Stopping an idle player is a no-op.
func (p *Player) Stop() error {
	p.mu.Lock()
	wasIdle := p.state == StateIdle
	p.teardownLocked()
	p.state = StateIdle
	p.store.Clear(p.guildID)
	p.mu.Unlock()

	if !wasIdle {
		log.Printf("[INFO] [Player] Stopped on guild %s", p.guildID)
		p.emit(Event{Status: StatusStopped})
	}
	return nil
}

// Leave stops playback, clears the queue and disconnects the sink.
func (p *Player) Leave() error {
	_ = p.Stop()
	if err := p.sink.Close(); err != nil {
		return fmt.Errorf("leave: %w", err)
	}
	return nil
}

func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePlaying || p.handle == nil {
		return ErrSinkUnavailable
	}
	p.handle.Pause()
	p.state = StatePaused
	p.emit(Event{Status: StatusPaused})
	return nil
}

func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePaused || p.handle == nil {
		return ErrSinkUnavailable
	}
	p.handle.Resume()
	p.state = StatePlaying
	p.emit(Event{Status: StatusResumed})
	return nil
}

// SetVolume sets the volume from a percentage in [0, 100].
func (p *Player) SetVolume(percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidVolume
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = float64(percent) / 100
	if p.handle != nil {
		p.handle.SetVolume(p.volume)
	}
	return nil
}

// ClearPending drops pending tracks without touching playback.
func (p *Player) ClearPending() int {
	return p.store.ClearPending(p.guildID)
}

func (p *Player) Shuffle() error {
	return p.store.Shuffle(p.guildID)
}

// Remove drops the pending track at the 1-based position.
func (p *Player) Remove(position int) (track.Track, error) {
	return p.store.Remove(p.guildID, position)
}

func (p *Player) emit(ev Event) {
	if p.events == nil {
		return
	}
	ev.GuildID = p.guildID
	select {
	case p.events <- ev:
	default:
		log.Printf("[WARN] [Player] Status signal dropped (channel full) - %s", ev.Status)
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
