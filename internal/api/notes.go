package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Jericoz-JC/flux-notes/internal/store"
)

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.Store().ListNotes()
	if err != nil {
		writeStoreError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(notes))
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var input store.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if input.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), input)
	if err != nil {
		writeStoreError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Store().Note(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "get note", err)
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PATCH /notes/{id}. An optional If-Match header holds
// the SHA-256 of the body the client last saw; a mismatch yields 409.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var input store.UpdateNoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	note, err := h.svc.UpdateNote(r.Context(), chi.URLParam(r, "id"), input, ifMatch)
	if err != nil {
		writeStoreError(w, "update note", err)
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeleteNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "delete note", err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchNotes handles GET /notes/search?q=.
func (h *Handler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.Store().SearchNotes(r.URL.Query().Get("q"))
	if err != nil {
		writeStoreError(w, "search notes", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(notes))
}

// ListTags handles GET /tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Store().AllTags()
	if err != nil {
		writeStoreError(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(tags))
}

// NotesByTag handles GET /tags/{name}/notes.
func (h *Handler) NotesByTag(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.Store().NotesByTag(chi.URLParam(r, "name"))
	if err != nil {
		writeStoreError(w, "notes by tag", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(notes))
}
