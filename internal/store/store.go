// Package store provides the SQLite persistence layer for flux-notes:
// schema ownership, full-text search indexes, and the notes, todos, tags,
// links, and focus-session stores over a single shared handle.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/Jericoz-JC/flux-notes/internal/apperr"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'in_progress', 'completed')),
	priority    TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high')),
	due_date    INTEGER,
	note_id     TEXT REFERENCES notes(id) ON DELETE SET NULL,
	parent_id   TEXT REFERENCES todos(id) ON DELETE CASCADE,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	id   TEXT PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS note_tags (
	note_id TEXT REFERENCES notes(id) ON DELETE CASCADE,
	tag_id  TEXT REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (note_id, tag_id)
);

CREATE TABLE IF NOT EXISTS links (
	id          TEXT PRIMARY KEY,
	source_type TEXT NOT NULL CHECK(source_type IN ('note', 'todo')),
	source_id   TEXT NOT NULL,
	target_type TEXT NOT NULL CHECK(target_type IN ('note', 'todo')),
	target_id   TEXT NOT NULL,
	link_type   TEXT NOT NULL DEFAULT 'related' CHECK(link_type IN ('related', 'contains', 'references')),
	created_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS focus_sessions (
	id              TEXT PRIMARY KEY,
	start_time      INTEGER NOT NULL,
	end_time        INTEGER,
	duration        INTEGER NOT NULL,
	actual_duration INTEGER NOT NULL DEFAULT 0,
	status          TEXT NOT NULL DEFAULT 'running' CHECK(status IN ('running', 'completed', 'cancelled')),
	todo_id         TEXT REFERENCES todos(id) ON DELETE SET NULL,
	created_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_todos_status ON todos(status);
CREATE INDEX IF NOT EXISTS idx_todos_priority ON todos(priority);
CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date);
CREATE INDEX IF NOT EXISTS idx_todos_note_id ON todos(note_id);
CREATE INDEX IF NOT EXISTS idx_todos_parent_id ON todos(parent_id);
CREATE INDEX IF NOT EXISTS idx_links_source ON links(source_type, source_id);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(target_type, target_id);
CREATE INDEX IF NOT EXISTS idx_focus_sessions_status ON focus_sessions(status);
CREATE INDEX IF NOT EXISTS idx_focus_sessions_start ON focus_sessions(start_time DESC);
`

// DB wraps the single shared sql.DB handle. All stores operate through it;
// no component holds a second, divergent handle.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// Safe to call on every startup: all objects are created IF NOT EXISTS.
// WAL mode keeps readers unblocked by the serialized writer.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database connection is alive.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// wrapErr surfaces SQLite constraint failures as apperr.ErrConstraint so
// callers can distinguish enum/uniqueness violations from plumbing errors.
func wrapErr(op string, err error) error {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("store: %s: %w: %v", op, apperr.ErrConstraint, err)
	}
	return fmt.Errorf("store: %s: %w", op, err)
}
