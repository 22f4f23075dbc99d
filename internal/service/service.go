// Package service orchestrates the multi-store invariants that sit above
// the row-level stores: tag resync on body changes, wiki-link resolution,
// and link-graph cleanup before entity deletion.
package service

import (
	"context"
	"errors"

	"github.com/Jericoz-JC/flux-notes/internal/apperr"
	"github.com/Jericoz-JC/flux-notes/internal/checksum"
	"github.com/Jericoz-JC/flux-notes/internal/models"
	"github.com/Jericoz-JC/flux-notes/internal/store"
)

// Publisher receives entity change notifications after successful mutations.
type Publisher interface {
	PublishEntityEvent(entity, kind, id string)
}

type nopPublisher struct{}

func (nopPublisher) PublishEntityEvent(string, string, string) {}

// Service wraps the shared store handle with mutation orchestration.
type Service struct {
	db     *store.DB
	events Publisher
}

// New creates a Service. events may be nil.
func New(db *store.DB, events Publisher) *Service {
	if events == nil {
		events = nopPublisher{}
	}
	return &Service{db: db, events: events}
}

// Store exposes the underlying handle for read-only pass-through calls.
func (s *Service) Store() *store.DB {
	return s.db
}

// CreateNote creates a note and derives its tag associations from the body.
func (s *Service) CreateNote(_ context.Context, input store.NoteInput) (*models.Note, error) {
	note, err := s.db.CreateNote(input)
	if err != nil {
		return nil, err
	}
	if err := s.db.SyncNoteTags(note.ID, note.Body); err != nil {
		return nil, err
	}
	s.events.PublishEntityEvent("note", "created", note.ID)
	return note, nil
}

// UpdateNote applies a partial update. When the body changed, tags are
// resynced and [[wiki-links]] in the new body are resolved into edges.
// ifMatch, when non-empty, must equal the SHA-256 of the current body or
// the update fails with apperr.ErrConflict.
func (s *Service) UpdateNote(_ context.Context, id string, input store.UpdateNoteInput, ifMatch string) (*models.Note, error) {
	if ifMatch != "" {
		current, err := s.db.Note(id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, apperr.ErrNotFound
		}
		if ifMatch != checksum.Sum(current.Body) {
			return nil, apperr.ErrConflict
		}
	}

	note, err := s.db.UpdateNote(id, input)
	if err != nil || note == nil {
		return note, err
	}
	if input.Body != nil {
		if err := s.db.SyncNoteTags(note.ID, note.Body); err != nil {
			return nil, err
		}
		if _, err := s.db.ResolveBodyLinks(note.ID, note.Body); err != nil {
			return nil, err
		}
	}
	s.events.PublishEntityEvent("note", "updated", note.ID)
	return note, nil
}

// DeleteNote removes the note's link-graph edges, then the note itself.
// The graph store has no cascade of its own, so the order matters.
func (s *Service) DeleteNote(_ context.Context, id string) (bool, error) {
	if _, err := s.db.DeleteLinksForEntity(models.EntityNote, id); err != nil {
		return false, err
	}
	deleted, err := s.db.DeleteNote(id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.events.PublishEntityEvent("note", "deleted", id)
	}
	return deleted, nil
}

// CreateTodo creates a todo with defaults applied.
func (s *Service) CreateTodo(_ context.Context, input store.TodoInput) (*models.Todo, error) {
	todo, err := s.db.CreateTodo(input)
	if err != nil {
		return nil, err
	}
	s.events.PublishEntityEvent("todo", "created", todo.ID)
	return todo, nil
}

// UpdateTodo applies a partial todo update.
func (s *Service) UpdateTodo(_ context.Context, id string, input store.UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.db.UpdateTodo(id, input)
	if err != nil || todo == nil {
		return todo, err
	}
	s.events.PublishEntityEvent("todo", "updated", todo.ID)
	return todo, nil
}

// DeleteTodo removes the todo's link-graph edges, then the todo and its
// subtask subtree.
func (s *Service) DeleteTodo(_ context.Context, id string) (bool, error) {
	if _, err := s.db.DeleteLinksForEntity(models.EntityTodo, id); err != nil {
		return false, err
	}
	deleted, err := s.db.DeleteTodo(id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.events.PublishEntityEvent("todo", "deleted", id)
	}
	return deleted, nil
}

// CompleteSession finishes a running focus session.
func (s *Service) CompleteSession(_ context.Context, id string) (*models.FocusSession, error) {
	session, err := s.db.CompleteSession(id)
	if err != nil || session == nil {
		return session, err
	}
	s.events.PublishEntityEvent("focus", "completed", session.ID)
	return session, nil
}

// CancelSession cancels a running focus session.
func (s *Service) CancelSession(_ context.Context, id string) (*models.FocusSession, error) {
	session, err := s.db.CancelSession(id)
	if err != nil || session == nil {
		return session, err
	}
	s.events.PublishEntityEvent("focus", "cancelled", session.ID)
	return session, nil
}

// IsConflict reports whether err is the optimistic-concurrency failure.
func IsConflict(err error) bool {
	return errors.Is(err, apperr.ErrConflict)
}
