package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// SetVolume remembers a guild's volume percentage.
func (s *Storage) SetVolume(guildID string, percent int) error {
	_, err := s.db.Exec(`
		INSERT INTO guild_settings (guild_id, volume) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET volume = excluded.volume`, guildID, percent)
	if err != nil {
		return fmt.Errorf("save volume: %w", err)
	}
	return nil
}

// GetVolume returns the stored volume; ok is false when none was saved.
func (s *Storage) GetVolume(guildID string) (percent int, ok bool, err error) {
	var v sql.NullInt64
	err = s.db.QueryRow(`SELECT volume FROM guild_settings WHERE guild_id = ?`, guildID).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load volume: %w", err)
	}
	if !v.Valid {
		return 0, false, nil
	}
	return int(v.Int64), true, nil
}
