package storage

import (
	"fmt"
	"time"
)

type TrackHistoryRecord struct {
	Title       string
	SourceRef   string
	Duration    int
	RequestedBy string
	PlayedAt    time.Time
}

// AppendTrackToHistory records a track that started playing.
func (s *Storage) AppendTrackToHistory(guildID string, r TrackHistoryRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO track_history (guild_id, title, source_ref, duration, requested_by, played_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		guildID, r.Title, r.SourceRef, r.Duration, r.RequestedBy, r.PlayedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert track: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM track_history WHERE guild_id = ? AND id NOT IN (
			SELECT id FROM track_history WHERE guild_id = ? ORDER BY id DESC LIMIT ?
		)`, guildID, guildID, tracksHistoryLimit,
	); err != nil {
		return fmt.Errorf("trim track history: %w", err)
	}

	return tx.Commit()
}

// FetchTrackHistory returns recently played tracks, newest first.
func (s *Storage) FetchTrackHistory(guildID string) ([]TrackHistoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT title, source_ref, duration, requested_by, played_at
		FROM track_history WHERE guild_id = ? ORDER BY id DESC`, guildID)
	if err != nil {
		return nil, fmt.Errorf("query track history: %w", err)
	}
	defer rows.Close()

	var out []TrackHistoryRecord
	for rows.Next() {
		var r TrackHistoryRecord
		if err := rows.Scan(&r.Title, &r.SourceRef, &r.Duration, &r.RequestedBy, &r.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
