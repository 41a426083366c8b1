package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// PruneCommands drops command log rows older than maxAge.
func (s *Storage) PruneCommands(maxAge time.Duration) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM command_history WHERE datetime < ?`, time.Now().Add(-maxAge).UTC())
	if err != nil {
		return 0, fmt.Errorf("prune commands: %w", err)
	}
	return res.RowsAffected()
}

// RunPruner prunes stale command log rows every interval until ctx is done.
func RunPruner(ctx context.Context, store *Storage, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PruneCommands(maxAge)
			if err != nil {
				log.Println("[ERROR] [Storage] Error pruning command history:", err)
				continue
			}
			if n > 0 {
				log.Printf("[INFO] [Storage] Pruned %d old command records", n)
			}
		}
	}
}
