package music

import (
	"errors"
	"testing"
	"time"

	"github.com/keshon/jukebox/internal/catalog"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayStartsWhenIdle(t *testing.T) {
	h := newHarness(t)
	h.res.add("rick", 213)

	reply := h.run(t, &PlayCommand{h.music}, "rick")

	assert.Equal(t, "🔍 Searching for your song...", reply)
	assert.Equal(t, []string{testVoice}, h.voice.joins)
	assert.Equal(t, []string{"stream:rick"}, h.sink.started)

	p, ok := h.players.Get(testGuild)
	require.True(t, ok)
	assert.Equal(t, player.StatePlaying, p.State())
	cur, _ := p.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "<@"+testUser+">", cur.RequestedBy)
}

func TestPlayQueuesWhenBusy(t *testing.T) {
	h := newHarness(t)
	h.fill(t, "first")
	h.res.add("second", 100)

	h.run(t, &PlayCommand{h.music}, "second")

	e := h.out.embeds[len(h.out.embeds)-1]
	assert.Equal(t, "✅ Added to Queue", e.Title)
	assert.Contains(t, e.Description, "**second**")
	assert.Contains(t, e.Description, "1:40")
	require.NotEmpty(t, e.Fields)
	assert.Equal(t, "Position in queue", e.Fields[0].Name)
	assert.Equal(t, "1", e.Fields[0].Value)
	require.NotNil(t, e.Thumbnail)
	assert.Equal(t, "https://img/second.jpg", e.Thumbnail.URL)
}

func TestPlayRequiresQuery(t *testing.T) {
	h := newHarness(t)
	reply := h.run(t, &PlayCommand{h.music})
	assert.Contains(t, reply, "Missing required argument")
	assert.Contains(t, reply, "!play <song/url>")
}

func TestPlayVoiceChecks(t *testing.T) {
	h := newHarness(t)
	h.res.add("rick", 213)

	delete(h.voice.users, testUser)
	assert.Equal(t, "❌ You need to be in a voice channel to use this command!", h.run(t, &PlayCommand{h.music}, "rick"))

	h.voice.users[testUser] = testVoice
	h.voice.bot = "elsewhere"
	assert.Equal(t, "❌ You need to be in the same voice channel as me!", h.run(t, &PlayCommand{h.music}, "rick"))

	h.voice.bot = ""
	h.voice.joinErr = errors.New("403 Forbidden")
	assert.Equal(t, "❌ I don't have permission to join or speak in that voice channel!", h.run(t, &PlayCommand{h.music}, "rick"))
	assert.Empty(t, h.sink.started)
}

func TestPlayErrors(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "❌ No results found for your search!", h.run(t, &PlayCommand{h.music}, "nothing", "here"))

	h.res.add("epic", 3600)
	assert.Equal(t, "❌ Song is too long! Maximum length is 10:00.", h.run(t, &PlayCommand{h.music}, "epic"))
	assert.Empty(t, h.sink.started)
}

func TestPlayQueueFull(t *testing.T) {
	h := newHarness(t)
	h.fill(t, songs(16)...)

	h.res.add("overflow", 100)
	assert.Equal(t, "❌ Queue is full! Maximum 15 songs allowed.", h.run(t, &PlayCommand{h.music}, "overflow"))
}

func TestPlaySpotifyNotConfigured(t *testing.T) {
	h := newHarness(t)
	h.catalog.configured = false

	reply := h.run(t, &PlayCommand{h.music}, "https://open.spotify.com/track/abc")
	assert.Contains(t, reply, "Spotify API not configured")
	assert.Empty(t, h.catalog.links)
}

func TestPlaySpotifyUnsupportedLink(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "❌ Invalid Spotify link!", h.run(t, &PlayCommand{h.music}, "https://open.spotify.com/artist/abc"))
}

func TestPlaySpotifyNotFound(t *testing.T) {
	h := newHarness(t)
	apiErr := &catalog.APIError{}
	apiErr.ErrorInfo.Status = 404
	h.catalog.err = apiErr

	assert.Equal(t, "❌ No results found for your search!", h.run(t, &PlayCommand{h.music}, "spotify:track:missing"))
}

func TestPlaySpotifyTrack(t *testing.T) {
	h := newHarness(t)
	h.fill(t, "first")
	h.res.add("Song Band", 180)
	h.catalog.col = &catalog.Collection{
		Kind:  catalog.KindTrack,
		Title: "Song",
		Total: 1,
		Items: []catalog.Item{{Title: "Song", Artist: "Band", AlbumArtURL: "https://img/album.jpg"}},
	}

	h.run(t, &PlayCommand{h.music}, "https://open.spotify.com/track/t1")

	require.Equal(t, []catalog.Link{{Kind: catalog.KindTrack, ID: "t1"}}, h.catalog.links)
	e := h.out.embeds[len(h.out.embeds)-1]
	assert.Equal(t, "✅ Added to Queue", e.Title)
	assert.Equal(t, "https://img/album.jpg", e.Thumbnail.URL)
	assert.Equal(t, "From Spotify", e.Fields[len(e.Fields)-1].Name)
	assert.Equal(t, "🎵 Song by Band", e.Fields[len(e.Fields)-1].Value)
}

func TestPlaySpotifyPlaylist(t *testing.T) {
	h := newHarness(t)
	items := []catalog.Item{
		{Title: "A", Artist: "x"},
		{Title: "B", Artist: "x"},
		{Title: "C", Artist: "x"},
	}
	h.res.add("A x", 100)
	h.res.add("C x", 100)
	h.catalog.col = &catalog.Collection{Kind: catalog.KindPlaylist, Title: "Mix", Owner: "dj", Total: 40, Items: items}

	reply := h.run(t, &PlayCommand{h.music}, "https://open.spotify.com/playlist/p1")

	assert.Contains(t, reply, "✅ Added 2 songs from playlist **Mix** to queue!")
	assert.Contains(t, reply, "1 songs could not be found")
	assert.Contains(t, reply, "Only the first 3 of 40 songs were taken.")
	assert.Contains(t, h.out.embeds[len(h.out.embeds)-2].Description, "Found playlist: **Mix** by dj")

	p, _ := h.players.Get(testGuild)
	cur, pending := p.Queue()
	require.NotNil(t, cur)
	assert.Equal(t, "A x", cur.Title)
	require.Len(t, pending, 1)
	assert.Equal(t, "C x", pending[0].Title)
	require.NotNil(t, pending[0].Catalog)
}

func TestControlsWithNothingPlaying(t *testing.T) {
	h := newHarness(t)
	const none = "❌ There's no song currently playing!"

	assert.Equal(t, none, h.run(t, &PauseCommand{h.music}))
	assert.Equal(t, "❌ Nothing is paused!", h.run(t, &ResumeCommand{h.music}))
	assert.Equal(t, none, h.run(t, &SkipCommand{h.music}))
	assert.Equal(t, none, h.run(t, &StopCommand{h.music}))
	assert.Equal(t, none, h.run(t, &NowPlayingCommand{h.music}))
	assert.Equal(t, "❌ The queue is empty!", h.run(t, &QueueCommand{h.music}))
	assert.Equal(t, "❌ The queue is empty!", h.run(t, &ClearCommand{h.music}))
}

func TestPauseResumeSkipStop(t *testing.T) {
	h := newHarness(t)
	h.fill(t, "one", "two")

	assert.Equal(t, "⏸️ Paused", h.run(t, &PauseCommand{h.music}))
	h.run(t, &NowPlayingCommand{h.music})
	assert.Equal(t, "⏸️ Paused", h.out.embeds[len(h.out.embeds)-1].Title)
	assert.Equal(t, "▶️ Resumed", h.run(t, &ResumeCommand{h.music}))
	assert.Equal(t, "❌ Nothing is paused!", h.run(t, &ResumeCommand{h.music}))

	assert.Equal(t, "⏭️ Skipped", h.run(t, &SkipCommand{h.music}))
	assert.Equal(t, []string{"stream:one", "stream:two"}, h.sink.started)

	assert.Equal(t, "⏹️ Stopped and cleared queue", h.run(t, &StopCommand{h.music}))
	p, _ := h.players.Get(testGuild)
	assert.Equal(t, player.StateIdle, p.State())
}

func TestNowPlaying(t *testing.T) {
	h := newHarness(t)
	h.fill(t, "one", "two")

	h.run(t, &NowPlayingCommand{h.music})
	e := h.out.embeds[len(h.out.embeds)-1]
	assert.Equal(t, "🎵 Now Playing", e.Title)
	assert.Contains(t, e.Description, "**one**")
	assert.Equal(t, "1 songs", e.Fields[1].Value)
}

func TestQueueListing(t *testing.T) {
	h := newHarness(t)
	h.fill(t, songs(13)...)

	h.run(t, &QueueCommand{h.music})
	e := h.out.embeds[len(h.out.embeds)-1]
	assert.Equal(t, "🎵 Music Queue", e.Title)
	require.Len(t, e.Fields, 2)
	assert.Contains(t, e.Fields[0].Value, "**song1**")
	assert.Contains(t, e.Fields[1].Value, "1. **song2** (3:20)")
	assert.Contains(t, e.Fields[1].Value, "10. **song11** (3:20)")
	assert.NotContains(t, e.Fields[1].Value, "song12")
	require.NotNil(t, e.Footer)
	assert.Equal(t, "... and 2 more songs", e.Footer.Text)
}

func TestShuffleClearRemove(t *testing.T) {
	h := newHarness(t)
	h.fill(t, "one", "two")

	assert.Equal(t, "❌ Need at least 2 songs in queue to shuffle!", h.run(t, &ShuffleCommand{h.music}))

	h.fill(t, "three", "four")
	assert.Equal(t, "🔀 Queue shuffled!", h.run(t, &ShuffleCommand{h.music}))

	assert.Contains(t, h.run(t, &RemoveCommand{h.music}), "Missing required argument")
	assert.Equal(t, "❌ Invalid argument provided!", h.run(t, &RemoveCommand{h.music}, "x"))
	assert.Equal(t, "❌ There is no song at that position!", h.run(t, &RemoveCommand{h.music}, "9"))
	assert.Contains(t, h.run(t, &RemoveCommand{h.music}, "1"), "🗑️ Removed **")

	assert.Equal(t, "🗑️ Queue cleared!", h.run(t, &ClearCommand{h.music}))
	p, _ := h.players.Get(testGuild)
	cur, pending := p.Queue()
	assert.NotNil(t, cur, "clear keeps the current song")
	assert.Empty(t, pending)
}

func TestVolume(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "🔊 Current volume: 50%", h.run(t, &VolumeCommand{h.music}))
	assert.Equal(t, "🔊 Volume set to 30%", h.run(t, &VolumeCommand{h.music}, "30"))
	assert.Equal(t, 30, h.store.volumes[testGuild])
	assert.Equal(t, "🔊 Current volume: 30%", h.run(t, &VolumeCommand{h.music}))

	assert.Equal(t, "❌ Volume must be between 0 and 100!", h.run(t, &VolumeCommand{h.music}, "150"))
	assert.Equal(t, "❌ Volume must be between 0 and 100!", h.run(t, &VolumeCommand{h.music}, "loud"))
	assert.Equal(t, 30, h.store.volumes[testGuild])
}

func TestJoinLeave(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "❌ I'm not currently in a voice channel!", h.run(t, &LeaveCommand{h.music}))
	assert.Equal(t, "✅ Joined <#"+testVoice+">", h.run(t, &JoinCommand{h.music}))

	h.fill(t, "one", "two")
	assert.Equal(t, "👋 Left the voice channel", h.run(t, &LeaveCommand{h.music}))
	assert.Equal(t, 1, h.sink.closed)

	p, _ := h.players.Get(testGuild)
	cur, pending := p.Queue()
	assert.Nil(t, cur)
	assert.Empty(t, pending)
}

func TestHistory(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "❌ Nothing has been played yet!", h.run(t, &HistoryCommand{h.music}))

	h.store.history = []storage.TrackHistoryRecord{
		{Title: "one", SourceRef: "https://www.youtube.com/watch?v=one", Duration: 65, PlayedAt: time.Unix(1700000000, 0)},
	}
	reply := h.run(t, &HistoryCommand{h.music})
	assert.Equal(t, "1. [one](https://www.youtube.com/watch?v=one) (1:05) <t:1700000000:R>\n", reply)

	h.music.Store = nil
	assert.Equal(t, "❌ History is not available.", h.run(t, &HistoryCommand{h.music}))
}

func TestCommandsHaveUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Commands(&Music{}) {
		require.False(t, seen[c.Name()], c.Name())
		seen[c.Name()] = true
		assert.NotEmpty(t, c.Description())
		assert.NotEmpty(t, c.Category())
	}
	assert.Len(t, seen, 14)
}
