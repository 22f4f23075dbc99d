package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jericoz-JC/flux-notes/internal/models"
	"github.com/Jericoz-JC/flux-notes/internal/store"
)

// CreateLink handles POST /links.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var input store.LinkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if input.SourceID == "" || input.TargetID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("source_id and target_id are required"))
		return
	}
	link, err := h.svc.Store().CreateLink(input)
	if err != nil {
		writeStoreError(w, "create link", err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// DeleteLink handles DELETE /links/{id}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.Store().DeleteLink(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "delete link", err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entityParams(r *http.Request) (models.EntityType, string) {
	return models.EntityType(chi.URLParam(r, "type")), chi.URLParam(r, "id")
}

// LinksFrom handles GET /links/from/{type}/{id}.
func (h *Handler) LinksFrom(w http.ResponseWriter, r *http.Request) {
	et, id := entityParams(r)
	links, err := h.svc.Store().LinksFrom(et, id)
	if err != nil {
		writeStoreError(w, "links from", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(links))
}

// Backlinks handles GET /links/to/{type}/{id}.
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	et, id := entityParams(r)
	links, err := h.svc.Store().Backlinks(et, id)
	if err != nil {
		writeStoreError(w, "backlinks", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(links))
}

// AllLinks handles GET /links/of/{type}/{id} (both directions).
func (h *Handler) AllLinks(w http.ResponseWriter, r *http.Request) {
	et, id := entityParams(r)
	links, err := h.svc.Store().AllLinks(et, id)
	if err != nil {
		writeStoreError(w, "all links", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilSlice(links))
}

// Graph handles GET /graph.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	nodes, edges, err := h.svc.Store().GraphData()
	if err != nil {
		writeStoreError(w, "graph", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes": nonNilSlice(nodes),
		"edges": nonNilSlice(edges),
	})
}
