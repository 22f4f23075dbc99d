package store

import (
	"strings"

	"github.com/Jericoz-JC/flux-notes/internal/models"
	"github.com/Jericoz-JC/flux-notes/internal/parser"
)

// SyncNoteTags rebuilds the tag associations for a note from its body in a
// single transaction: all existing associations are replaced by the tags
// extracted from body. Tag rows are created lazily and never deleted, so
// tags orphaned by the resync persist with zero usage.
func (db *DB) SyncNoteTags(noteID, body string) error {
	names := parser.ExtractTags(body)

	tx, err := db.conn.Begin()
	if err != nil {
		return wrapErr("sync tags: begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ?`, noteID); err != nil {
		return wrapErr("sync tags: clear", err)
	}

	for _, name := range names {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO tags (id, name) VALUES (?, ?)`, NewID(), name); err != nil {
			return wrapErr("sync tags: upsert tag", err)
		}
		var tagID string
		if err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID); err != nil {
			return wrapErr("sync tags: lookup tag", err)
		}
		if _, err := tx.Exec(`INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)`, noteID, tagID); err != nil {
			return wrapErr("sync tags: link", err)
		}
	}

	return tx.Commit()
}

// AllTags returns every tag with its usage count, most used first, ties
// broken by name.
func (db *DB) AllTags() ([]models.TagCount, error) {
	rows, err := db.conn.Query(`
		SELECT tags.name, COUNT(note_tags.note_id) AS count
		FROM tags
		LEFT JOIN note_tags ON tags.id = note_tags.tag_id
		GROUP BY tags.id
		ORDER BY count DESC, tags.name ASC
	`)
	if err != nil {
		return nil, wrapErr("all tags", err)
	}
	defer rows.Close()

	var out []models.TagCount
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// NotesByTag returns the notes carrying the named tag (case-insensitive),
// most recently updated first.
func (db *DB) NotesByTag(name string) ([]models.Note, error) {
	rows, err := db.conn.Query(`
		SELECT notes.id, notes.title, notes.body, notes.created_at, notes.updated_at
		FROM notes
		JOIN note_tags ON notes.id = note_tags.note_id
		JOIN tags ON note_tags.tag_id = tags.id
		WHERE tags.name = ?
		ORDER BY notes.updated_at DESC
	`, strings.ToLower(name))
	if err != nil {
		return nil, wrapErr("notes by tag", err)
	}
	return collectNotes(rows)
}
