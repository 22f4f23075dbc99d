package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// StartSession handles POST /focus.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Duration int     `json:"duration"`
		TodoID   *string `json:"todo_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Duration <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("duration must be positive"))
		return
	}
	session, err := h.svc.Store().StartSession(req.Duration, req.TodoID)
	if err != nil {
		writeStoreError(w, "start session", err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// RunningSession handles GET /focus/running.
func (h *Handler) RunningSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Store().RunningSession()
	if err != nil {
		writeStoreError(w, "running session", err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no running session"))
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// ListSessions handles GET /focus?limit=.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions, err := h.svc.Store().ListSessions(limit)
	if err != nil {
		writeStoreError(w, "list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(sessions))
}

// SessionsForTodo handles GET /todos/{id}/sessions.
func (h *Handler) SessionsForTodo(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.Store().SessionsForTodo(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "sessions for todo", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(sessions))
}

// UpdateSessionDuration handles PATCH /focus/{id}/duration.
func (h *Handler) UpdateSessionDuration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActualDuration int `json:"actual_duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	session, err := h.svc.Store().UpdateSessionDuration(chi.URLParam(r, "id"), req.ActualDuration)
	if err != nil {
		writeStoreError(w, "update session duration", err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CompleteSession handles POST /focus/{id}/complete.
func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.CompleteSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "complete session", err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CancelSession handles POST /focus/{id}/cancel.
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.CancelSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "cancel session", err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// FocusStats handles GET /focus/stats.
func (h *Handler) FocusStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Store().FocusStats()
	if err != nil {
		writeStoreError(w, "focus stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
