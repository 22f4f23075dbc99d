// Package models defines the domain types for flux-notes.
package models

import "time"

// Note is a free-form text note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TodoStatus is the closed set of todo states, enforced by a CHECK
// constraint at the storage boundary.
type TodoStatus string

const (
	StatusPending    TodoStatus = "pending"
	StatusInProgress TodoStatus = "in_progress"
	StatusCompleted  TodoStatus = "completed"
)

// TodoPriority is the closed set of todo priorities.
type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

// Todo is a task, optionally attached to a note and optionally nested
// under a parent todo (subtask tree).
type Todo struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TodoStatus   `json:"status"`
	Priority    TodoPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	NoteID      *string      `json:"note_id"`
	ParentID    *string      `json:"parent_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Tag is a lazily created, case-normalised label derived from note bodies.
// Tags are never deleted; an unreferenced tag simply has zero usage.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagCount pairs a tag name with the number of notes using it.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EntityType discriminates the two kinds of link endpoints.
type EntityType string

const (
	EntityNote EntityType = "note"
	EntityTodo EntityType = "todo"
)

// LinkType is the closed set of edge kinds.
type LinkType string

const (
	LinkRelated    LinkType = "related"
	LinkContains   LinkType = "contains"
	LinkReferences LinkType = "references"
)

// Link is a directed, typed edge between two entities. No two links may
// share the same unordered endpoint pair regardless of direction.
type Link struct {
	ID         string     `json:"id"`
	SourceType EntityType `json:"source_type"`
	SourceID   string     `json:"source_id"`
	TargetType EntityType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	LinkType   LinkType   `json:"link_type"`
	CreatedAt  time.Time  `json:"created_at"`
}

// GraphNode is one entity in the full graph snapshot.
type GraphNode struct {
	ID    string     `json:"id"`
	Type  EntityType `json:"type"`
	Label string     `json:"label"`
}

// GraphEdge is one link in the full graph snapshot. Edges whose endpoint
// entity was deleted without link cleanup are not pruned.
type GraphEdge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   LinkType `json:"type"`
}

// FocusStatus is the closed set of focus-session states. A session is
// terminal once completed or cancelled.
type FocusStatus string

const (
	FocusRunning   FocusStatus = "running"
	FocusCompleted FocusStatus = "completed"
	FocusCancelled FocusStatus = "cancelled"
)

// FocusSession records one timer run. Duration is the requested target in
// seconds; ActualDuration is the elapsed focused time in seconds, mutable
// while running and recomputed from wall-clock time on completion.
type FocusSession struct {
	ID             string      `json:"id"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        *time.Time  `json:"end_time"`
	Duration       int         `json:"duration"`
	ActualDuration int         `json:"actual_duration"`
	Status         FocusStatus `json:"status"`
	TodoID         *string     `json:"todo_id"`
	CreatedAt      time.Time   `json:"created_at"`
}

// TodoStats is a single consistent snapshot of todo counts.
type TodoStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// FocusStats aggregates focus sessions. Time sums are seconds and count
// only completed sessions; streaks are consecutive local calendar days.
type FocusStats struct {
	TotalSessions        int     `json:"total_sessions"`
	CompletedSessions    int     `json:"completed_sessions"`
	TotalFocusTime       int     `json:"total_focus_time"`
	AverageSessionLength float64 `json:"average_session_length"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_streak"`
	TodayFocusTime       int     `json:"today_focus_time"`
	ThisWeekFocusTime    int     `json:"this_week_focus_time"`
}
