package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	commandHistoryLimit int = 20
	tracksHistoryLimit  int = 12
)

type Storage struct {
	db *sql.DB
}

// New opens or creates the database at filePath.
func New(filePath string) (*Storage, error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", filePath+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer keeps sqlite from returning SQLITE_BUSY under load
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS command_history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id     TEXT NOT NULL,
			channel_id   TEXT NOT NULL,
			channel_name TEXT DEFAULT '',
			guild_name   TEXT DEFAULT '',
			user_id      TEXT NOT NULL,
			username     TEXT DEFAULT '',
			command      TEXT NOT NULL,
			param        TEXT DEFAULT '',
			datetime     DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_command_history_guild ON command_history(guild_id, id);
	`); err != nil {
		return fmt.Errorf("create command history table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS track_history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id     TEXT NOT NULL,
			title        TEXT NOT NULL,
			source_ref   TEXT NOT NULL,
			duration     INTEGER DEFAULT 0,
			requested_by TEXT DEFAULT '',
			played_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_track_history_guild ON track_history(guild_id, id);
	`); err != nil {
		return fmt.Errorf("create track history table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS guild_settings (
			guild_id TEXT PRIMARY KEY,
			volume   INTEGER
		);
	`); err != nil {
		return fmt.Errorf("create guild settings table: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
