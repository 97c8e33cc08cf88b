package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schemaVersion is the current project database schema version. Bump this
// when the schema changes; mismatched databases are rejected rather than
// silently migrated.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
    id          INTEGER PRIMARY KEY,
    topic       TEXT NOT NULL,
    title       TEXT NOT NULL DEFAULT '',
    hashtags    TEXT NOT NULL DEFAULT '',
    scenes_json TEXT NOT NULL,
    audio_data  TEXT NOT NULL
);
`

// Store persists saved projects in a local SQLite database. It is the single
// owner of durable project records; the Library keeps an in-memory mirror.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (creating on first use) the project database. All failures
// wrap ErrStoreUnavailable so callers can degrade persistence features
// without killing generation.
func OpenStore(dataDir string) (*Store, error) {
	if err := EnsureDirs(dataDir); err != nil {
		return nil, fmt.Errorf("%w: ensure data dir: %v", ErrStoreUnavailable, err)
	}

	dbPath := filepath.Join(dataDir, "projects.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStoreUnavailable, dbPath, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: apply pragma %q: %v", ErrStoreUnavailable, pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("database has schema version %d, expected %d (delete %s to reset)", version, schemaVersion, s.path)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// List returns all saved projects ordered by id, so listing is deterministic
// for a given store state.
func (s *Store) List(ctx context.Context) ([]SavedProject, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, topic, title, hashtags, scenes_json, audio_data FROM projects ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []SavedProject
	for rows.Next() {
		var p SavedProject
		var scenesJSON string
		if err := rows.Scan(&p.ID, &p.Topic, &p.Title, &p.Hashtags, &scenesJSON, &p.AudioData); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if err := json.Unmarshal([]byte(scenesJSON), &p.Scenes); err != nil {
			return nil, fmt.Errorf("parse scenes for project %d: %w", p.ID, err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Put upserts a project by id, replacing the record wholesale if present.
func (s *Store) Put(ctx context.Context, p SavedProject) error {
	scenesJSON, err := json.Marshal(p.Scenes)
	if err != nil {
		return fmt.Errorf("marshal scenes: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, topic, title, hashtags, scenes_json, audio_data)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
            topic = excluded.topic,
            title = excluded.title,
            hashtags = excluded.hashtags,
            scenes_json = excluded.scenes_json,
            audio_data = excluded.audio_data`,
		p.ID, p.Topic, p.Title, p.Hashtags, string(scenesJSON), p.AudioData)
	if err != nil {
		return fmt.Errorf("put project %d: %w", p.ID, err)
	}
	return nil
}

// Delete removes a project by id. Deleting an absent id is a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	return nil
}
