package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/Jericoz-JC/flux-notes/internal/models"
)

// TodoInput carries the fields for creating a todo. Zero values fall back
// to the defaults: status=pending, priority=medium, empty description.
type TodoInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TodoStatus   `json:"status"`
	Priority    models.TodoPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	NoteID      *string             `json:"note_id"`
	ParentID    *string             `json:"parent_id"`
}

// UpdateTodoInput carries a partial todo update. Pointer fields are left
// as-is when nil; the Optional fields distinguish "clear" from "untouched".
type UpdateTodoInput struct {
	Title       *string                    `json:"title"`
	Description *string                    `json:"description"`
	Status      *models.TodoStatus         `json:"status"`
	Priority    *models.TodoPriority       `json:"priority"`
	DueDate     models.Optional[time.Time] `json:"due_date"`
	NoteID      models.Optional[string]    `json:"note_id"`
	ParentID    models.Optional[string]    `json:"parent_id"`
}

// TodoFilter narrows ListTodos; predicates combine with AND. ParentID set
// to an explicit null selects root todos (no parent), which is distinct
// from the filter being absent.
type TodoFilter struct {
	Status     []models.TodoStatus     `json:"status"`
	Priority   []models.TodoPriority   `json:"priority"`
	NoteID     string                  `json:"note_id"`
	ParentID   models.Optional[string] `json:"parent_id"`
	HasDueDate *bool                   `json:"has_due_date"`
	Overdue    bool                    `json:"overdue"`
	DueToday   bool                    `json:"due_today"`
	DueSoon    int                     `json:"due_soon"`
}

// CreateTodo inserts a new todo with defaults applied.
func (db *DB) CreateTodo(input TodoInput) (*models.Todo, error) {
	if input.Status == "" {
		input.Status = models.StatusPending
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	id := NewID()
	now := time.Now()

	_, err := db.conn.Exec(`
		INSERT INTO todos (id, title, description, status, priority, due_date, note_id, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, input.Title, input.Description, input.Status, input.Priority,
		msOrNil(input.DueDate), input.NoteID, input.ParentID, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, wrapErr("create todo", err)
	}

	return &models.Todo{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		NoteID:      input.NoteID,
		ParentID:    input.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Todo returns the todo with the given id, or nil if absent.
func (db *DB) Todo(id string) (*models.Todo, error) {
	row := db.conn.QueryRow(`
		SELECT id, title, description, status, priority, due_date, note_id, parent_id, created_at, updated_at
		FROM todos WHERE id = ?
	`, id)
	t, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get todo", err)
	}
	return t, nil
}

// ListTodos returns todos matching the filter, ordered by status rank
// (in_progress, pending, completed), then priority rank (high, medium,
// low), then due date with undated todos last, then newest first.
func (db *DB) ListTodos(filter *TodoFilter) ([]models.Todo, error) {
	query := `SELECT id, title, description, status, priority, due_date, note_id, parent_id, created_at, updated_at
		FROM todos WHERE 1=1`
	var args []any

	if filter != nil {
		if len(filter.Status) > 0 {
			query += ` AND status IN (` + placeholders(len(filter.Status)) + `)`
			for _, s := range filter.Status {
				args = append(args, s)
			}
		}
		if len(filter.Priority) > 0 {
			query += ` AND priority IN (` + placeholders(len(filter.Priority)) + `)`
			for _, p := range filter.Priority {
				args = append(args, p)
			}
		}
		if filter.NoteID != "" {
			query += ` AND note_id = ?`
			args = append(args, filter.NoteID)
		}
		if filter.ParentID.Set {
			if filter.ParentID.Value == nil {
				query += ` AND parent_id IS NULL`
			} else {
				query += ` AND parent_id = ?`
				args = append(args, *filter.ParentID.Value)
			}
		}
		if filter.HasDueDate != nil {
			if *filter.HasDueDate {
				query += ` AND due_date IS NOT NULL`
			} else {
				query += ` AND due_date IS NULL`
			}
		}
		if filter.Overdue {
			query += ` AND due_date < ? AND status != ?`
			args = append(args, time.Now().UnixMilli(), models.StatusCompleted)
		}
		if filter.DueToday {
			start, end := todayBounds(time.Now())
			query += ` AND due_date >= ? AND due_date <= ?`
			args = append(args, start.UnixMilli(), end.UnixMilli())
		}
		if filter.DueSoon > 0 {
			now := time.Now()
			query += ` AND due_date > ? AND due_date <= ?`
			args = append(args, now.UnixMilli(), now.AddDate(0, 0, filter.DueSoon).UnixMilli())
		}
	}

	query += ` ORDER BY CASE status WHEN 'in_progress' THEN 0 WHEN 'pending' THEN 1 ELSE 2 END,
		CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
		due_date ASC NULLS LAST, created_at DESC`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, wrapErr("list todos", err)
	}
	return collectTodos(rows)
}

// UpdateTodo applies a partial update; updated_at is touched only when at
// least one field is supplied. Returns nil when the todo does not exist.
func (db *DB) UpdateTodo(id string, input UpdateTodoInput) (*models.Todo, error) {
	var sets []string
	var args []any

	if input.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *input.Title)
	}
	if input.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *input.Description)
	}
	if input.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *input.Status)
	}
	if input.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *input.Priority)
	}
	if input.DueDate.Set {
		sets = append(sets, "due_date = ?")
		args = append(args, msOrNil(input.DueDate.Value))
	}
	if input.NoteID.Set {
		sets = append(sets, "note_id = ?")
		args = append(args, input.NoteID.Value)
	}
	if input.ParentID.Set {
		sets = append(sets, "parent_id = ?")
		args = append(args, input.ParentID.Value)
	}
	if len(sets) == 0 {
		return db.Todo(id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UnixMilli(), id)

	res, err := db.conn.Exec(`UPDATE todos SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, wrapErr("update todo", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return db.Todo(id)
}

// DeleteTodo removes a todo. The parent_id foreign key cascades, so the
// entire subtask subtree goes with it.
func (db *DB) DeleteTodo(id string) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return false, wrapErr("delete todo", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Subtasks returns the direct children of a todo.
func (db *DB) Subtasks(parentID string) ([]models.Todo, error) {
	return db.ListTodos(&TodoFilter{ParentID: models.Some(parentID)})
}

// TodosByNote returns the todos attached to a note.
func (db *DB) TodosByNote(noteID string) ([]models.Todo, error) {
	return db.ListTodos(&TodoFilter{NoteID: noteID})
}

// SearchTodos runs a prefix full-text search over todo titles and
// descriptions; same contract as SearchNotes.
func (db *DB) SearchTodos(query string) ([]models.Todo, error) {
	term := cleanQuery(query)
	if term == "" {
		return nil, nil
	}
	rows, err := db.searchTodoRows(term, searchLimit)
	if err != nil {
		return nil, wrapErr("search todos", err)
	}
	return collectTodos(rows)
}

// TodoStats computes the count snapshot in one query so the totals are
// mutually consistent.
func (db *DB) TodoStats() (*models.TodoStats, error) {
	var s models.TodoStats
	err := db.conn.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN due_date < ? AND status != 'completed' THEN 1 ELSE 0 END), 0)
		FROM todos
	`, time.Now().UnixMilli()).Scan(&s.Total, &s.Pending, &s.InProgress, &s.Completed, &s.Overdue)
	if err != nil {
		return nil, wrapErr("todo stats", err)
	}
	return &s, nil
}

func placeholders(n int) string {
	return strings.Repeat("?, ", n-1) + "?"
}

func msOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

// todayBounds returns the local-calendar-day window [midnight, midnight+24h-1ms].
func todayBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

func scanTodo(r rowScanner) (*models.Todo, error) {
	var t models.Todo
	var created, updated int64
	var due sql.NullInt64
	var noteID, parentID sql.NullString
	if err := r.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&due, &noteID, &parentID, &created, &updated); err != nil {
		return nil, err
	}
	if due.Valid {
		d := time.UnixMilli(due.Int64)
		t.DueDate = &d
	}
	if noteID.Valid {
		t.NoteID = &noteID.String
	}
	if parentID.Valid {
		t.ParentID = &parentID.String
	}
	t.CreatedAt = time.UnixMilli(created)
	t.UpdatedAt = time.UnixMilli(updated)
	return &t, nil
}

func collectTodos(rows *sql.Rows) ([]models.Todo, error) {
	defer rows.Close()
	var out []models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
