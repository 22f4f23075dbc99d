package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jericoz-JC/flux-notes/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *service.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/search", h.SearchNotes)
	r.Get("/notes/{id}", h.GetNote)
	r.Patch("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Tags (derived from note bodies).
	r.Get("/tags", h.ListTags)
	r.Get("/tags/{name}/notes", h.NotesByTag)

	// Todos.
	r.Get("/todos", h.ListTodos)
	r.Post("/todos", h.CreateTodo)
	r.Get("/todos/search", h.SearchTodos)
	r.Get("/todos/stats", h.TodoStats)
	r.Get("/todos/{id}", h.GetTodo)
	r.Patch("/todos/{id}", h.UpdateTodo)
	r.Delete("/todos/{id}", h.DeleteTodo)
	r.Get("/todos/{id}/subtasks", h.Subtasks)
	r.Get("/todos/{id}/sessions", h.SessionsForTodo)

	// Link graph.
	r.Post("/links", h.CreateLink)
	r.Delete("/links/{id}", h.DeleteLink)
	r.Get("/links/from/{type}/{id}", h.LinksFrom)
	r.Get("/links/to/{type}/{id}", h.Backlinks)
	r.Get("/links/of/{type}/{id}", h.AllLinks)
	r.Get("/graph", h.Graph)

	// Focus sessions.
	r.Post("/focus", h.StartSession)
	r.Get("/focus", h.ListSessions)
	r.Get("/focus/running", h.RunningSession)
	r.Get("/focus/stats", h.FocusStats)
	r.Patch("/focus/{id}/duration", h.UpdateSessionDuration)
	r.Post("/focus/{id}/complete", h.CompleteSession)
	r.Post("/focus/{id}/cancel", h.CancelSession)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// Handler holds the API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}
