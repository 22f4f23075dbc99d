package store

import (
	"testing"
	"time"
)

func TestCreateAndGetNote(t *testing.T) {
	db := testDB(t)

	created, err := db.CreateNote(NoteInput{Title: "Hello", Body: "World"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Error("created_at and updated_at should start equal")
	}

	got, err := db.Note(created.ID)
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if got == nil {
		t.Fatal("note not found after create")
	}
	if got.Title != "Hello" || got.Body != "World" {
		t.Errorf("got %q/%q, want Hello/World", got.Title, got.Body)
	}
}

func TestNote_NotFound(t *testing.T) {
	db := testDB(t)
	got, err := db.Note("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing note, got %+v", got)
	}
}

func TestListNotes_OrderedByUpdatedDesc(t *testing.T) {
	db := testDB(t)

	a, _ := db.CreateNote(NoteInput{Title: "A"})
	b, _ := db.CreateNote(NoteInput{Title: "B"})

	// Push A ahead of B by touching it with a later updated_at.
	later := time.Now().Add(time.Minute).UnixMilli()
	if _, err := db.conn.Exec(`UPDATE notes SET updated_at = ? WHERE id = ?`, later, a.ID); err != nil {
		t.Fatal(err)
	}

	notes, err := db.ListNotes()
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].ID != a.ID || notes[1].ID != b.ID {
		t.Errorf("order = [%s, %s], want [A, B]", notes[0].Title, notes[1].Title)
	}
}

func TestUpdateNote_Partial(t *testing.T) {
	db := testDB(t)
	n, _ := db.CreateNote(NoteInput{Title: "Old", Body: "Body"})

	updated, err := db.UpdateNote(n.ID, UpdateNoteInput{Title: strPtr("New")})
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Title != "New" {
		t.Errorf("title = %q, want New", updated.Title)
	}
	if updated.Body != "Body" {
		t.Errorf("body = %q, unset field should be preserved", updated.Body)
	}
}

func TestUpdateNote_EmptyInputLeavesTimestamp(t *testing.T) {
	db := testDB(t)
	n, _ := db.CreateNote(NoteInput{Title: "T"})

	got, err := db.UpdateNote(n.ID, UpdateNoteInput{})
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if got == nil {
		t.Fatal("expected current note back")
	}
	if got.UpdatedAt.UnixMilli() != n.UpdatedAt.UnixMilli() {
		t.Error("updated_at should be untouched when no fields are supplied")
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	db := testDB(t)
	got, err := db.UpdateNote("missing", UpdateNoteInput{Title: strPtr("x")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing note, got %+v", got)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	n, _ := db.CreateNote(NoteInput{Title: "Del"})

	ok, err := db.DeleteNote(n.ID)
	if err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if !ok {
		t.Error("expected delete to report a removed row")
	}

	ok, err = db.DeleteNote(n.ID)
	if err != nil {
		t.Fatalf("second DeleteNote: %v", err)
	}
	if ok {
		t.Error("second delete should report nothing removed")
	}
}

func TestSearchNotes_Prefix(t *testing.T) {
	db := testDB(t)
	_, _ = db.CreateNote(NoteInput{Title: "Getting Started", Body: "welcome"})
	_, _ = db.CreateNote(NoteInput{Title: "Unrelated", Body: "nothing here"})

	results, err := db.SearchNotes("get")
	if err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Getting Started" {
		t.Errorf("results = %+v, want 1 hit for Getting Started", results)
	}
}

func TestSearchNotes_BodyMatch(t *testing.T) {
	db := testDB(t)
	n, _ := db.CreateNote(NoteInput{Title: "Plain", Body: "the xylophone project"})

	results, err := db.SearchNotes("xylophone")
	if err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	if len(results) != 1 || results[0].ID != n.ID {
		t.Errorf("results = %+v, want body match", results)
	}
}

func TestSearchNotes_EmptyQuery(t *testing.T) {
	db := testDB(t)
	_, _ = db.CreateNote(NoteInput{Title: "Anything"})

	for _, q := range []string{"", "   ", `'"'`} {
		results, err := db.SearchNotes(q)
		if err != nil {
			t.Fatalf("SearchNotes(%q): %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("SearchNotes(%q) = %d results, want 0", q, len(results))
		}
	}
}

func TestSearchNotes_QuotesStripped(t *testing.T) {
	db := testDB(t)
	_, _ = db.CreateNote(NoteInput{Title: "Quoted", Body: "alpha"})

	results, err := db.SearchNotes(`"alpha"`)
	if err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected quotes stripped and 1 hit, got %d", len(results))
	}
}

func TestSearchNotes_ReflectsUpdates(t *testing.T) {
	db := testDB(t)
	n, _ := db.CreateNote(NoteInput{Title: "Draft", Body: "original"})

	if _, err := db.UpdateNote(n.ID, UpdateNoteInput{Body: strPtr("replacement zanzibar")}); err != nil {
		t.Fatal(err)
	}

	results, err := db.SearchNotes("zanzibar")
	if err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected updated body to be searchable, got %d hits", len(results))
	}

	results, err = db.SearchNotes("original")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("old body should no longer match, got %d hits", len(results))
	}
}
