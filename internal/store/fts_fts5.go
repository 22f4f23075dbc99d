//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
)

// The FTS tables are external-content mirrors of notes and todos; the
// triggers keep them current (retract the old row text, then index the new).
const ftsSchemaSQL = `
CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
	title,
	body,
	content='notes',
	content_rowid='rowid',
	tokenize='porter unicode61'
);

CREATE VIRTUAL TABLE IF NOT EXISTS todos_fts USING fts5(
	title,
	description,
	content='todos',
	content_rowid='rowid',
	tokenize='porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS notes_ai AFTER INSERT ON notes BEGIN
	INSERT INTO notes_fts(rowid, title, body) VALUES (NEW.rowid, NEW.title, NEW.body);
END;

CREATE TRIGGER IF NOT EXISTS notes_ad AFTER DELETE ON notes BEGIN
	INSERT INTO notes_fts(notes_fts, rowid, title, body) VALUES('delete', OLD.rowid, OLD.title, OLD.body);
END;

CREATE TRIGGER IF NOT EXISTS notes_au AFTER UPDATE ON notes BEGIN
	INSERT INTO notes_fts(notes_fts, rowid, title, body) VALUES('delete', OLD.rowid, OLD.title, OLD.body);
	INSERT INTO notes_fts(rowid, title, body) VALUES (NEW.rowid, NEW.title, NEW.body);
END;

CREATE TRIGGER IF NOT EXISTS todos_ai AFTER INSERT ON todos BEGIN
	INSERT INTO todos_fts(rowid, title, description) VALUES (NEW.rowid, NEW.title, NEW.description);
END;

CREATE TRIGGER IF NOT EXISTS todos_ad AFTER DELETE ON todos BEGIN
	INSERT INTO todos_fts(todos_fts, rowid, title, description) VALUES('delete', OLD.rowid, OLD.title, OLD.description);
END;

CREATE TRIGGER IF NOT EXISTS todos_au AFTER UPDATE ON todos BEGIN
	INSERT INTO todos_fts(todos_fts, rowid, title, description) VALUES('delete', OLD.rowid, OLD.title, OLD.description);
	INSERT INTO todos_fts(rowid, title, description) VALUES (NEW.rowid, NEW.title, NEW.description);
END;
`

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(ftsSchemaSQL)
	return err
}

// searchNoteRows matches the cleaned term against the notes index with a
// prefix wildcard, ranked by relevance.
func (db *DB) searchNoteRows(term string, limit int) (*sql.Rows, error) {
	return db.conn.Query(`
		SELECT notes.id, notes.title, notes.body, notes.created_at, notes.updated_at
		FROM notes
		JOIN notes_fts ON notes.rowid = notes_fts.rowid
		WHERE notes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, term+"*", limit)
}

func (db *DB) searchTodoRows(term string, limit int) (*sql.Rows, error) {
	return db.conn.Query(`
		SELECT todos.id, todos.title, todos.description, todos.status, todos.priority,
		       todos.due_date, todos.note_id, todos.parent_id, todos.created_at, todos.updated_at
		FROM todos
		JOIN todos_fts ON todos.rowid = todos_fts.rowid
		WHERE todos_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, term+"*", limit)
}

// RebuildSearchIndex recreates both FTS indexes from their source tables.
func (db *DB) RebuildSearchIndex() error {
	if _, err := db.conn.Exec(`INSERT INTO notes_fts(notes_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("store: rebuild notes fts: %w", err)
	}
	if _, err := db.conn.Exec(`INSERT INTO todos_fts(todos_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("store: rebuild todos fts: %w", err)
	}
	return nil
}
