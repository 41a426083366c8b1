package player

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/keshon/jukebox/internal/music/queue"
	"github.com/keshon/jukebox/internal/music/track"
)

const DefaultBatchLimit = 20

// Candidate is one catalog item to look up on the video platform.
type Candidate struct {
	Title       string
	Artist      string
	AlbumArtURL string
}

// Query is the search string used to find the item on the video platform.
func (c Candidate) Query() string {
	return strings.TrimSpace(c.Title + " " + c.Artist)
}

type BatchResult struct {
	Added     int
	Failed    int
	QueueFull bool
}

// EnqueueCandidate looks up one catalog item and enqueues it with its
// catalog origin. The position follows Enqueue.
func (p *Player) EnqueueCandidate(ctx context.Context, c Candidate, requestedBy string) (track.Track, int, error) {
	t, err := p.Lookup(ctx, c.Query(), requestedBy)
	if err != nil {
		return track.Track{}, 0, err
	}
	t.Catalog = &track.CatalogOrigin{Title: c.Title, Artist: c.Artist, AlbumArtURL: c.AlbumArtURL}

	pos, err := p.Enqueue(t)
	if err != nil {
		return track.Track{}, 0, err
	}
	return t, pos, nil
}

// EnqueueBatch looks up and enqueues candidates one by one, in order. At most
// BatchLimit candidates are attempted; failures are skipped and a full queue
// ends the batch early.
func (p *Player) EnqueueBatch(ctx context.Context, candidates []Candidate, requestedBy string) (BatchResult, error) {
	var res BatchResult

	if len(candidates) > p.opts.BatchLimit {
		candidates = candidates[:p.opts.BatchLimit]
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if _, _, err := p.EnqueueCandidate(ctx, c, requestedBy); err != nil {
			if errors.Is(err, queue.ErrQueueFull) {
				res.QueueFull = true
				break
			}
			res.Failed++
			log.Printf("[WARN] [Player] Batch item %q skipped: %v", c.Query(), err)
			continue
		}
		res.Added++
	}

	log.Printf("[INFO] [Player] Batch on guild %s | added=%d failed=%d full=%v", p.guildID, res.Added, res.Failed, res.QueueFull)
	return res, nil
}
