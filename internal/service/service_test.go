package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Jericoz-JC/flux-notes/internal/apperr"
	"github.com/Jericoz-JC/flux-notes/internal/checksum"
	"github.com/Jericoz-JC/flux-notes/internal/models"
	"github.com/Jericoz-JC/flux-notes/internal/store"
	"github.com/Jericoz-JC/flux-notes/internal/testutil"
)

type recordingPublisher struct {
	events []string
}

func (r *recordingPublisher) PublishEntityEvent(entity, kind, _ string) {
	r.events = append(r.events, entity+"."+kind)
}

func testService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return New(testutil.TestDB(t), pub), pub
}

func TestCreateNote_SyncsTags(t *testing.T) {
	svc, pub := testService(t)
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, store.NoteInput{Title: "T", Body: "tagged #alpha"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	notes, err := svc.Store().NotesByTag("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].ID != note.ID {
		t.Errorf("tag alpha should be attached, got %+v", notes)
	}
	if len(pub.events) != 1 || pub.events[0] != "note.created" {
		t.Errorf("events = %v", pub.events)
	}
}

func TestUpdateNote_BodyChangeResyncsTagsAndLinks(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	target, _ := svc.CreateNote(ctx, store.NoteInput{Title: "Target"})
	source, _ := svc.CreateNote(ctx, store.NoteInput{Title: "Source", Body: "#old"})

	_, err := svc.UpdateNote(ctx, source.ID, store.UpdateNoteInput{
		Body: strPtr("now #new and [[Target]]"),
	}, "")
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}

	if notes, _ := svc.Store().NotesByTag("old"); len(notes) != 0 {
		t.Error("old tag should be detached after body change")
	}
	if notes, _ := svc.Store().NotesByTag("new"); len(notes) != 1 {
		t.Error("new tag should be attached")
	}

	links, err := svc.Store().LinksFrom(models.EntityNote, source.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 || links[0].TargetID != target.ID {
		t.Errorf("wiki link not resolved, links = %+v", links)
	}
}

func TestUpdateNote_TitleOnlySkipsResync(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	note, _ := svc.CreateNote(ctx, store.NoteInput{Title: "T", Body: "#keep"})

	if _, err := svc.UpdateNote(ctx, note.ID, store.UpdateNoteInput{Title: strPtr("T2")}, ""); err != nil {
		t.Fatal(err)
	}
	if notes, _ := svc.Store().NotesByTag("keep"); len(notes) != 1 {
		t.Error("tags must survive a title-only update")
	}
}

func TestUpdateNote_ChecksumMismatchConflicts(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	note, _ := svc.CreateNote(ctx, store.NoteInput{Title: "T", Body: "v1"})

	_, err := svc.UpdateNote(ctx, note.ID, store.UpdateNoteInput{Body: strPtr("v2")}, "stale-checksum")
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Matching checksum goes through.
	updated, err := svc.UpdateNote(ctx, note.ID, store.UpdateNoteInput{Body: strPtr("v2")},
		checksum.Sum("v1"))
	if err != nil {
		t.Fatalf("matching checksum rejected: %v", err)
	}
	if updated.Body != "v2" {
		t.Errorf("body = %q, want v2", updated.Body)
	}
}

func TestUpdateNote_ChecksumAgainstMissingNote(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.UpdateNote(context.Background(), "no-such-id",
		store.UpdateNoteInput{Body: strPtr("v2")}, "anything")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteNote_CleansLinkGraph(t *testing.T) {
	svc, pub := testService(t)
	ctx := context.Background()

	a, _ := svc.CreateNote(ctx, store.NoteInput{Title: "A"})
	b, _ := svc.CreateNote(ctx, store.NoteInput{Title: "B"})
	_, _ = svc.Store().CreateLink(store.LinkInput{
		SourceType: models.EntityNote, SourceID: a.ID,
		TargetType: models.EntityNote, TargetID: b.ID,
	})

	deleted, err := svc.DeleteNote(ctx, a.ID)
	if err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if !deleted {
		t.Fatal("expected deletion")
	}

	links, _ := svc.Store().AllLinks(models.EntityNote, b.ID)
	if len(links) != 0 {
		t.Errorf("edges touching the deleted note should be gone, got %+v", links)
	}

	last := pub.events[len(pub.events)-1]
	if last != "note.deleted" {
		t.Errorf("last event = %q, want note.deleted", last)
	}
}

func TestDeleteTodo_CleansLinkGraph(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	n, _ := svc.CreateNote(ctx, store.NoteInput{Title: "N"})
	todo, _ := svc.CreateTodo(ctx, store.TodoInput{Title: "T"})
	_, _ = svc.Store().CreateLink(store.LinkInput{
		SourceType: models.EntityTodo, SourceID: todo.ID,
		TargetType: models.EntityNote, TargetID: n.ID,
	})

	if _, err := svc.DeleteTodo(ctx, todo.ID); err != nil {
		t.Fatal(err)
	}
	links, _ := svc.Store().AllLinks(models.EntityNote, n.ID)
	if len(links) != 0 {
		t.Errorf("edges touching the deleted todo should be gone, got %+v", links)
	}
}

func TestSessionLifecycleEvents(t *testing.T) {
	svc, pub := testService(t)
	ctx := context.Background()

	s, err := svc.Store().StartSession(1500, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteSession(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	s2, _ := svc.Store().StartSession(1500, nil)
	if _, err := svc.CancelSession(ctx, s2.ID); err != nil {
		t.Fatal(err)
	}

	want := []string{"focus.completed", "focus.cancelled"}
	if len(pub.events) != 2 || pub.events[0] != want[0] || pub.events[1] != want[1] {
		t.Errorf("events = %v, want %v", pub.events, want)
	}
}

func strPtr(s string) *string { return &s }
