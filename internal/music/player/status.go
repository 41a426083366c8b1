package player

import "github.com/keshon/jukebox/internal/music/track"

type Status string

const (
	StatusPlaying   Status = "Now Playing"
	StatusAdded     Status = "Track Added"
	StatusStopped   Status = "Playback Stopped"
	StatusPaused    Status = "Playback Paused"
	StatusResumed   Status = "Playback Resumed"
	StatusSkipped   Status = "Track Skipped"
	StatusFinished  Status = "Queue Finished"
	StatusFailed    Status = "Track Failed"
	StatusAllFailed Status = "All Tracks Failed"
)

func (status Status) StringEmoji() string {
	m := map[Status]string{
		StatusPlaying:   "▶️",
		StatusAdded:     "🎶",
		StatusStopped:   "⏹",
		StatusPaused:    "⏸",
		StatusResumed:   "▶️",
		StatusSkipped:   "⏭",
		StatusFinished:  "🏁",
		StatusFailed:    "❌",
		StatusAllFailed: "❌",
	}
	return m[status]
}

// Event is a status change of one guild's player.
type Event struct {
	GuildID  string
	Status   Status
	Track    *track.Track
	Position int
	Err      error
}
