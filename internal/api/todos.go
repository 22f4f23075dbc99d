package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Jericoz-JC/flux-notes/internal/models"
	"github.com/Jericoz-JC/flux-notes/internal/store"
)

// ListTodos handles GET /todos with the filter expressed as query params:
// status and priority accept comma-separated sets, parent_id accepts a
// value or the literal "null" for root todos, due_soon is a day count.
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	filter := todoFilterFromQuery(r)
	todos, err := h.svc.Store().ListTodos(filter)
	if err != nil {
		writeStoreError(w, "list todos", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(todos))
}

func todoFilterFromQuery(r *http.Request) *store.TodoFilter {
	q := r.URL.Query()
	var f store.TodoFilter

	for _, s := range splitList(q.Get("status")) {
		f.Status = append(f.Status, models.TodoStatus(s))
	}
	for _, p := range splitList(q.Get("priority")) {
		f.Priority = append(f.Priority, models.TodoPriority(p))
	}
	f.NoteID = q.Get("note_id")
	if v := q.Get("parent_id"); v != "" {
		if v == "null" {
			f.ParentID = models.Null[string]()
		} else {
			f.ParentID = models.Some(v)
		}
	}
	if v := q.Get("has_due_date"); v != "" {
		has := v == "true"
		f.HasDueDate = &has
	}
	f.Overdue = q.Get("overdue") == "true"
	f.DueToday = q.Get("due_today") == "true"
	if v := q.Get("due_soon"); v != "" {
		f.DueSoon, _ = strconv.Atoi(v)
	}
	return &f
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreateTodo handles POST /todos.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var input store.TodoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if input.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	todo, err := h.svc.CreateTodo(r.Context(), input)
	if err != nil {
		writeStoreError(w, "create todo", err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// GetTodo handles GET /todos/{id}.
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.svc.Store().Todo(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "get todo", err)
		return
	}
	if todo == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// UpdateTodo handles PATCH /todos/{id}. Fields absent from the payload are
// untouched; due_date, note_id, and parent_id may be set to JSON null to
// clear them.
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var input store.UpdateTodoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	todo, err := h.svc.UpdateTodo(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeStoreError(w, "update todo", err)
		return
	}
	if todo == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// DeleteTodo handles DELETE /todos/{id}. Subtasks go with the parent.
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeleteTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "delete todo", err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subtasks handles GET /todos/{id}/subtasks.
func (h *Handler) Subtasks(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.Store().Subtasks(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "subtasks", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(todos))
}

// SearchTodos handles GET /todos/search?q=.
func (h *Handler) SearchTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.Store().SearchTodos(r.URL.Query().Get("q"))
	if err != nil {
		writeStoreError(w, "search todos", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(todos))
}

// TodoStats handles GET /todos/stats.
func (h *Handler) TodoStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Store().TodoStats()
	if err != nil {
		writeStoreError(w, "todo stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
