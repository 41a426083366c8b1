package player

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keshon/jukebox/internal/music/queue"
	"github.com/keshon/jukebox/internal/music/resolver"
	"github.com/keshon/jukebox/internal/music/stream"
)

const testGuild = "guild-1"

type fakeResolver struct {
	mu     sync.Mutex
	tracks map[string]resolver.ResolvedTrack
	fail   map[string]error
	block  map[string]bool
	calls  []string

	// onResolve runs before each resolution, outside the lock.
	onResolve func(query string)
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		tracks: make(map[string]resolver.ResolvedTrack),
		fail:   make(map[string]error),
		block:  make(map[string]bool),
	}
}

// add registers a song reachable by its name (lookup) and by its source ref (play).
func (f *fakeResolver) add(name string, seconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt := resolver.ResolvedTrack{
		Title:           name,
		DurationSeconds: seconds,
		SourceRef:       "ref:" + name,
		StreamRef:       "stream:" + name,
	}
	f.tracks[name] = rt
	f.tracks["ref:"+name] = rt
}

func (f *fakeResolver) failOn(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[query] = &resolver.ResolveError{Kind: resolver.Unplayable, Query: query, Err: errors.New("unplayable")}
}

func (f *fakeResolver) blockOn(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.block[query] = true
}

func (f *fakeResolver) Resolve(ctx context.Context, query string) (*resolver.ResolvedTrack, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	blocked := f.block[query]
	err := f.fail[query]
	rt, ok := f.tracks[query]
	hook := f.onResolve
	f.mu.Unlock()

	if hook != nil {
		hook(query)
	}

	if blocked {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &resolver.ResolveError{Kind: resolver.NotFound, Query: query}
	}
	return &rt, nil
}

func (f *fakeResolver) callCount(query string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == query {
			n++
		}
	}
	return n
}

func (f *fakeResolver) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeHandle struct {
	mu      sync.Mutex
	ref     string
	volume  float64
	paused  bool
	stopped bool
	err     error
	done    chan struct{}
	once    sync.Once
}

func (h *fakeHandle) Pause() {
	h.mu.Lock()
	h.paused = true
	h.mu.Unlock()
}

func (h *fakeHandle) Resume() {
	h.mu.Lock()
	h.paused = false
	h.mu.Unlock()
}

// Stop only records the call; the terminal event is delivered by finish so
// tests can deliver it late.
func (h *fakeHandle) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
}

func (h *fakeHandle) SetVolume(v float64) {
	h.mu.Lock()
	h.volume = v
	h.mu.Unlock()
}

func (h *fakeHandle) Done() <-chan struct{} { return h.done }

func (h *fakeHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *fakeHandle) finish(err error) {
	h.once.Do(func() {
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		close(h.done)
	})
}

func (h *fakeHandle) snapshot() (paused, stopped bool, volume float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused, h.stopped, h.volume
}

type fakeSink struct {
	mu      sync.Mutex
	handles []*fakeHandle
	fail    map[string]bool
	closed  int
}

func newFakeSink() *fakeSink {
	return &fakeSink{fail: make(map[string]bool)}
}

func (s *fakeSink) Start(_ context.Context, streamRef string, volume float64) (stream.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[streamRef] {
		return nil, errors.New("sink refused " + streamRef)
	}
	h := &fakeHandle{ref: streamRef, volume: volume, done: make(chan struct{})}
	s.handles = append(s.handles, h)
	return h, nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	return nil
}

func (s *fakeSink) started() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.handles))
	for i, h := range s.handles {
		out[i] = h.ref
	}
	return out
}

func (s *fakeSink) handle(i int) *fakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles[i]
}

func (s *fakeSink) last() *fakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles[len(s.handles)-1]
}

type harness struct {
	p      *Player
	store  *queue.Store
	res    *fakeResolver
	sink   *fakeSink
	events chan Event
}

func newHarness(t *testing.T, maxQueue int, opts Options) *harness {
	t.Helper()
	h := &harness{
		store:  queue.New(maxQueue),
		res:    newFakeResolver(),
		sink:   newFakeSink(),
		events: make(chan Event, 256),
	}
	h.p = New(testGuild, h.store, h.res, h.sink, opts, h.events)
	return h
}

// enqueue looks up name and enqueues it, failing the test on error.
func (h *harness) enqueue(t *testing.T, name string) int {
	t.Helper()
	tr, err := h.p.Lookup(context.Background(), name, "<@user>")
	require.NoError(t, err)
	pos, err := h.p.Enqueue(tr)
	require.NoError(t, err)
	return pos
}

func (h *harness) currentTitle() string {
	cur, ok := h.p.Current()
	if !ok {
		return ""
	}
	return cur.Title
}

func (h *harness) pendingTitles() []string {
	_, pending := h.p.Queue()
	out := make([]string, 0, len(pending))
	for _, tr := range pending {
		out = append(out, tr.Title)
	}
	return out
}

func (h *harness) statuses() []Status {
	var out []Status
	for {
		select {
		case ev := <-h.events:
			out = append(out, ev.Status)
		default:
			return out
		}
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}
