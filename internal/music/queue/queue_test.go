package queue

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/jukebox/internal/music/track"
)

const guild = "guild-1"

func tr(title string) track.Track {
	return track.Track{Title: title, DurationSeconds: 200, SourceRef: "https://youtu.be/" + title}
}

func titles(ts []track.Track) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Title
	}
	return out
}

func TestEnqueueReturnsPosition(t *testing.T) {
	s := New(5)

	pos, err := s.Enqueue(guild, tr("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = s.Enqueue(guild, tr("b"))
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	_, pending := s.PeekAll(guild)
	assert.Equal(t, []string{"a", "b"}, titles(pending))
}

func TestEnqueueRejectsBeyondBound(t *testing.T) {
	s := New(DefaultMaxSize)

	for i := 0; i < DefaultMaxSize; i++ {
		_, err := s.Enqueue(guild, tr(fmt.Sprintf("t%d", i)))
		require.NoError(t, err)
		assert.LessOrEqual(t, s.Len(guild), DefaultMaxSize)
	}

	_, before := s.PeekAll(guild)
	_, err := s.Enqueue(guild, tr("overflow"))
	assert.ErrorIs(t, err, ErrQueueFull)

	_, after := s.PeekAll(guild)
	assert.Equal(t, titles(before), titles(after))
	assert.Equal(t, DefaultMaxSize, s.Len(guild))
}

func TestNewFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxSize, New(0).MaxSize())
	assert.Equal(t, 3, New(3).MaxSize())
}

func TestDequeueNext(t *testing.T) {
	s := New(10)
	_, _ = s.Enqueue(guild, tr("a"))
	_, _ = s.Enqueue(guild, tr("b"))

	got, ok := s.DequeueNext(guild)
	require.True(t, ok)
	assert.Equal(t, "a", got.Title)

	cur, pending := s.PeekAll(guild)
	require.NotNil(t, cur)
	assert.Equal(t, "a", cur.Title)
	assert.Equal(t, []string{"b"}, titles(pending))
}

func TestDequeueNextOnEmptyKeepsCurrent(t *testing.T) {
	s := New(10)

	_, ok := s.DequeueNext(guild)
	assert.False(t, ok)
	cur, _ := s.PeekAll(guild)
	assert.Nil(t, cur)

	_, _ = s.Enqueue(guild, tr("a"))
	_, _ = s.DequeueNext(guild)

	for i := 0; i < 3; i++ {
		_, ok = s.DequeueNext(guild)
		assert.False(t, ok)
		cur, pending := s.PeekAll(guild)
		require.NotNil(t, cur)
		assert.Equal(t, "a", cur.Title)
		assert.Empty(t, pending)
	}
}

func TestPeekAllDoesNotMutate(t *testing.T) {
	s := New(10)
	_, _ = s.Enqueue(guild, tr("a"))
	_, _ = s.Enqueue(guild, tr("b"))

	_, pending := s.PeekAll(guild)
	pending[0].Title = "changed"

	_, again := s.PeekAll(guild)
	assert.Equal(t, []string{"a", "b"}, titles(again))
}

func TestClear(t *testing.T) {
	s := New(10)
	_, _ = s.Enqueue(guild, tr("a"))
	_, _ = s.Enqueue(guild, tr("b"))
	_, _ = s.DequeueNext(guild)

	s.Clear(guild)

	cur, pending := s.PeekAll(guild)
	assert.Nil(t, cur)
	assert.Empty(t, pending)

	// clearing a guild that never had a queue is fine
	s.Clear("other")
	assert.Equal(t, 0, s.Len("other"))
}

func TestClearPendingKeepsCurrent(t *testing.T) {
	s := New(10)
	_, _ = s.Enqueue(guild, tr("a"))
	_, _ = s.Enqueue(guild, tr("b"))
	_, _ = s.Enqueue(guild, tr("c"))
	_, _ = s.DequeueNext(guild)

	assert.Equal(t, 2, s.ClearPending(guild))

	cur, pending := s.PeekAll(guild)
	require.NotNil(t, cur)
	assert.Equal(t, "a", cur.Title)
	assert.Empty(t, pending)
}

func TestClearCurrent(t *testing.T) {
	s := New(10)
	_, _ = s.Enqueue(guild, tr("a"))
	_, _ = s.Enqueue(guild, tr("b"))
	_, _ = s.DequeueNext(guild)

	s.ClearCurrent(guild)
	cur, pending := s.PeekAll(guild)
	assert.Nil(t, cur)
	assert.Equal(t, []string{"b"}, titles(pending))

	_, _ = s.DequeueNext(guild)
	s.ClearCurrent(guild)
	_, ok := s.Current(guild)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(guild))
}

func TestGuildsAreIsolated(t *testing.T) {
	s := New(1)
	_, err := s.Enqueue("g1", tr("a"))
	require.NoError(t, err)
	_, err = s.Enqueue("g2", tr("b"))
	require.NoError(t, err)

	_, err = s.Enqueue("g1", tr("c"))
	assert.ErrorIs(t, err, ErrQueueFull)

	s.Clear("g1")
	assert.Equal(t, 1, s.Len("g2"))
}

func TestShufflePreservesMultiset(t *testing.T) {
	s := New(DefaultMaxSize)
	want := []string{"a", "b", "c", "d", "e", "f"}
	for _, title := range want {
		_, _ = s.Enqueue(guild, tr(title))
	}

	for i := 0; i < 20; i++ {
		require.NoError(t, s.Shuffle(guild))
		_, pending := s.PeekAll(guild)
		assert.ElementsMatch(t, want, titles(pending))
	}
}

func TestShuffleNeedsTwoTracks(t *testing.T) {
	s := New(10)
	assert.ErrorIs(t, s.Shuffle(guild), ErrNotEnoughTracks)

	_, _ = s.Enqueue(guild, tr("only"))
	assert.ErrorIs(t, s.Shuffle(guild), ErrNotEnoughTracks)

	_, pending := s.PeekAll(guild)
	assert.Equal(t, []string{"only"}, titles(pending))

	_, _ = s.Enqueue(guild, tr("second"))
	assert.NoError(t, s.Shuffle(guild))
}

func TestShuffleIsUniform(t *testing.T) {
	const rounds = 6000
	s := New(10)
	for _, title := range []string{"a", "b", "c"} {
		_, _ = s.Enqueue(guild, tr(title))
	}

	counts := make(map[string]int)
	for i := 0; i < rounds; i++ {
		require.NoError(t, s.Shuffle(guild))
		_, pending := s.PeekAll(guild)
		counts[strings.Join(titles(pending), "")]++
	}

	// 3! permutations, each expected rounds/6 = 1000 times (sd ~29)
	assert.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, rounds/6, n, 200, "permutation %s", perm)
	}
}

func TestRemove(t *testing.T) {
	s := New(10)
	for _, title := range []string{"a", "b", "c"} {
		_, _ = s.Enqueue(guild, tr(title))
	}

	removed, err := s.Remove(guild, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Title)

	_, pending := s.PeekAll(guild)
	assert.Equal(t, []string{"a", "c"}, titles(pending))

	_, err = s.Remove(guild, 0)
	assert.ErrorIs(t, err, ErrNoSuchPosition)
	_, err = s.Remove(guild, 3)
	assert.ErrorIs(t, err, ErrNoSuchPosition)
	_, err = s.Remove("missing", 1)
	assert.ErrorIs(t, err, ErrNoSuchPosition)
}
