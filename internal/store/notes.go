package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/Jericoz-JC/flux-notes/internal/models"
)

// searchLimit caps full-text search results for both notes and todos.
const searchLimit = 100

// NoteInput carries the fields for creating a note. Body defaults to empty.
type NoteInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// UpdateNoteInput carries a partial note update; nil fields are left as-is.
type UpdateNoteInput struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// CreateNote inserts a new note. CreatedAt and UpdatedAt start equal.
func (db *DB) CreateNote(input NoteInput) (*models.Note, error) {
	id := NewID()
	now := time.Now()

	_, err := db.conn.Exec(`
		INSERT INTO notes (id, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, input.Title, input.Body, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, wrapErr("create note", err)
	}

	return &models.Note{
		ID:        id,
		Title:     input.Title,
		Body:      input.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Note returns the note with the given id, or nil if absent.
func (db *DB) Note(id string) (*models.Note, error) {
	row := db.conn.QueryRow(`
		SELECT id, title, body, created_at, updated_at FROM notes WHERE id = ?
	`, id)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get note", err)
	}
	return n, nil
}

// ListNotes returns all notes, most recently updated first.
func (db *DB) ListNotes() ([]models.Note, error) {
	rows, err := db.conn.Query(`
		SELECT id, title, body, created_at, updated_at FROM notes ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, wrapErr("list notes", err)
	}
	return collectNotes(rows)
}

// UpdateNote applies a partial update. Absent fields are preserved; with no
// fields at all the current state is returned and updated_at is untouched.
// Returns nil when the note does not exist.
func (db *DB) UpdateNote(id string, input UpdateNoteInput) (*models.Note, error) {
	var sets []string
	var args []any

	if input.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *input.Title)
	}
	if input.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *input.Body)
	}
	if len(sets) == 0 {
		return db.Note(id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UnixMilli(), id)

	res, err := db.conn.Exec(`UPDATE notes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, wrapErr("update note", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return db.Note(id)
}

// DeleteNote removes a note. Reports whether a row was deleted. Link-graph
// cleanup is the caller's responsibility (see service.DeleteNote).
func (db *DB) DeleteNote(id string) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, wrapErr("delete note", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SearchNotes runs a prefix full-text search over note titles and bodies,
// ranked by relevance, capped at 100 results. A query that is empty after
// cleaning returns no results without touching the index.
func (db *DB) SearchNotes(query string) ([]models.Note, error) {
	term := cleanQuery(query)
	if term == "" {
		return nil, nil
	}
	rows, err := db.searchNoteRows(term, searchLimit)
	if err != nil {
		return nil, wrapErr("search notes", err)
	}
	return collectNotes(rows)
}

// cleanQuery strips quote characters (which break the match syntax) and
// surrounding whitespace.
func cleanQuery(q string) string {
	return strings.TrimSpace(strings.NewReplacer(`'`, "", `"`, "").Replace(q))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (*models.Note, error) {
	var n models.Note
	var created, updated int64
	if err := r.Scan(&n.ID, &n.Title, &n.Body, &created, &updated); err != nil {
		return nil, err
	}
	n.CreatedAt = time.UnixMilli(created)
	n.UpdatedAt = time.UnixMilli(updated)
	return &n, nil
}

func collectNotes(rows *sql.Rows) ([]models.Note, error) {
	defer rows.Close()
	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}
