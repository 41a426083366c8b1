package storage

import (
	"fmt"
	"time"
)

type CommandHistoryRecord struct {
	ChannelID   string
	ChannelName string
	GuildName   string
	UserID      string
	Username    string
	Command     string
	Param       string
	Datetime    time.Time
}

// AppendCommandToHistory stores a command invocation, keeping the newest
// commandHistoryLimit rows per guild.
func (s *Storage) AppendCommandToHistory(guildID string, r CommandHistoryRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO command_history (guild_id, channel_id, channel_name, guild_name, user_id, username, command, param, datetime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		guildID, r.ChannelID, r.ChannelName, r.GuildName, r.UserID, r.Username, r.Command, r.Param, r.Datetime.UTC(),
	); err != nil {
		return fmt.Errorf("insert command: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM command_history WHERE guild_id = ? AND id NOT IN (
			SELECT id FROM command_history WHERE guild_id = ? ORDER BY id DESC LIMIT ?
		)`, guildID, guildID, commandHistoryLimit,
	); err != nil {
		return fmt.Errorf("trim command history: %w", err)
	}

	return tx.Commit()
}

// FetchCommandHistory returns the guild's commands, oldest first.
func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT channel_id, channel_name, guild_name, user_id, username, command, param, datetime
		FROM command_history WHERE guild_id = ? ORDER BY id ASC`, guildID)
	if err != nil {
		return nil, fmt.Errorf("query command history: %w", err)
	}
	defer rows.Close()

	var out []CommandHistoryRecord
	for rows.Next() {
		var r CommandHistoryRecord
		if err := rows.Scan(&r.ChannelID, &r.ChannelName, &r.GuildName, &r.UserID, &r.Username, &r.Command, &r.Param, &r.Datetime); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
