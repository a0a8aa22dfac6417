// Package storage provides SQLite-based persistence for engine settings,
// per-channel volumes and play session history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is where the CLI keeps its database.
const DefaultPath = "~/.firedays/firedays.db"

// Setting keys.
const (
	keyMasterVolume = "master_volume"
	keyWindowWidth  = "window_width"
	keyWindowHeight = "window_height"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Settings are the user adjustments that outlive a session.
type Settings struct {
	MasterVolume float64
	WindowWidth  int
	WindowHeight int
}

// SessionRecord is one run of a scene.
type SessionRecord struct {
	ID         int64
	SceneID    string
	Backend    string // window, term or ssh
	Frames     int64
	AudioSkips int64 // Frames whose audio was dropped after a device error
	Duration   time.Duration
	CreatedAt  time.Time
}

// SceneStats aggregates sessions of one scene.
type SceneStats struct {
	SceneID    string
	Sessions   int
	TotalTime  time.Duration
	Frames     int64
	AudioSkips int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS channel_volumes (
			name TEXT PRIMARY KEY,
			volume REAL NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			backend TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			audio_skips INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_scene_id ON sessions(scene_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadSettings returns the stored settings. Fields that were never saved
// keep the values from defaults.
func (s *Store) LoadSettings(defaults Settings) (Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return defaults, fmt.Errorf("storage: cannot query settings: %w", err)
	}
	defer rows.Close()

	out := defaults
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return defaults, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if err := out.set(key, value); err != nil {
			return defaults, fmt.Errorf("storage: bad setting %s=%q: %w", key, value, err)
		}
	}
	if err := rows.Err(); err != nil {
		return defaults, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

func (st *Settings) set(key, value string) error {
	var err error
	switch key {
	case keyMasterVolume:
		st.MasterVolume, err = strconv.ParseFloat(value, 64)
	case keyWindowWidth:
		st.WindowWidth, err = strconv.Atoi(value)
	case keyWindowHeight:
		st.WindowHeight, err = strconv.Atoi(value)
	}
	return err
}

// SaveSettings stores every field of st.
func (s *Store) SaveSettings(st Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	values := map[string]string{
		keyMasterVolume: strconv.FormatFloat(st.MasterVolume, 'g', -1, 64),
		keyWindowWidth:  strconv.Itoa(st.WindowWidth),
		keyWindowHeight: strconv.Itoa(st.WindowHeight),
	}
	for key, value := range values {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit settings: %w", err)
	}
	return nil
}

// ChannelVolume returns the stored volume for a channel and whether one exists.
func (s *Store) ChannelVolume(name string) (float64, bool, error) {
	var v float64
	err := s.db.QueryRow("SELECT volume FROM channel_volumes WHERE name = ?", name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query channel volume: %w", err)
	}
	return v, true, nil
}

// SetChannelVolume stores the volume for a channel.
func (s *Store) SetChannelVolume(name string, v float64) error {
	_, err := s.db.Exec(
		`INSERT INTO channel_volumes (name, volume) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET volume = excluded.volume, updated_at = CURRENT_TIMESTAMP`,
		name, v,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save channel volume: %w", err)
	}
	return nil
}

// ChannelVolumes returns every stored channel volume.
func (s *Store) ChannelVolumes() (map[string]float64, error) {
	rows, err := s.db.Query("SELECT name, volume FROM channel_volumes")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query channel volumes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var name string
		var v float64
		if err := rows.Scan(&name, &v); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out[name] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ResetSettings deletes all settings and channel volumes. Session history is kept.
func (s *Store) ResetSettings() error {
	if _, err := s.db.Exec("DELETE FROM settings; DELETE FROM channel_volumes;"); err != nil {
		return fmt.Errorf("storage: cannot reset settings: %w", err)
	}
	return nil
}

// SaveSession records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (scene_id, backend, frames, audio_skips, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.SceneID, rec.Backend, rec.Frames, rec.AudioSkips, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentSessions returns the latest sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, backend, frames, audio_skips, duration_ms, created_at
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.SceneID, &r.Backend, &r.Frames, &r.AudioSkips, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// AllSceneStats aggregates sessions per scene.
func (s *Store) AllSceneStats() (map[string]*SceneStats, error) {
	rows, err := s.db.Query(
		`SELECT scene_id, COUNT(*), SUM(duration_ms), SUM(frames), SUM(audio_skips), MAX(created_at)
		 FROM sessions
		 GROUP BY scene_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SceneStats)
	for rows.Next() {
		var st SceneStats
		var durationMS int64
		var lastPlayed any
		if err := rows.Scan(&st.SceneID, &st.Sessions, &durationMS, &st.Frames, &st.AudioSkips, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.TotalTime = time.Duration(durationMS) * time.Millisecond
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.SceneID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
