//go:build !sqlite_fts5

package store

import "database/sql"

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; search uses LIKE over the primary tables.
	return nil
}

func (db *DB) searchNoteRows(term string, limit int) (*sql.Rows, error) {
	like := "%" + term + "%"
	return db.conn.Query(`
		SELECT id, title, body, created_at, updated_at
		FROM notes
		WHERE title LIKE ? OR body LIKE ?
		ORDER BY updated_at DESC
		LIMIT ?
	`, like, like, limit)
}

func (db *DB) searchTodoRows(term string, limit int) (*sql.Rows, error) {
	like := "%" + term + "%"
	return db.conn.Query(`
		SELECT id, title, description, status, priority,
		       due_date, note_id, parent_id, created_at, updated_at
		FROM todos
		WHERE title LIKE ? OR description LIKE ?
		ORDER BY updated_at DESC
		LIMIT ?
	`, like, like, limit)
}

// RebuildSearchIndex is a no-op without FTS5; there is no derived index.
func (db *DB) RebuildSearchIndex() error { return nil }
