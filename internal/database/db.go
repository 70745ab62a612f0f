package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// DB wraps the sql connection pool
type DB struct {
	*sql.DB
}

// New opens a postgres connection pool and verifies connectivity
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// EnsureSchema creates the tables if they do not exist yet. The app targets a
// single local postgres instance, so schema setup runs at startup instead of
// through a separate migration tool.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			analysis JSONB,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date TIMESTAMPTZ,
			priority TEXT NOT NULL DEFAULT 'medium',
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			tags TEXT[] NOT NULL DEFAULT '{}',
			source_note_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS calendar_events (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			location TEXT NOT NULL DEFAULT '',
			attendees TEXT[] NOT NULL DEFAULT '{}',
			all_day BOOLEAN NOT NULL DEFAULT FALSE,
			source_note_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			source_note_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'planning',
			progress INTEGER NOT NULL DEFAULT 0,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			team TEXT[] NOT NULL DEFAULT '{}',
			tags TEXT[] NOT NULL DEFAULT '{}',
			budget INTEGER,
			source_note_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS assistant_actions (
			id TEXT PRIMARY KEY,
			note_id UUID NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			data JSONB NOT NULL,
			executed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_status ON notes(status)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_source_note ON tasks(source_note_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_source_note ON calendar_events(source_note_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_source_note ON contacts(source_note_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_source_note ON projects(source_note_id)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_note ON assistant_actions(note_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
