package store

import (
	"testing"
	"time"

	"github.com/Jericoz-JC/flux-notes/internal/models"
)

func TestCreateTodo_Defaults(t *testing.T) {
	db := testDB(t)

	todo, err := db.CreateTodo(TodoInput{Title: "Task"})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if todo.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", todo.Status)
	}
	if todo.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", todo.Priority)
	}
	if todo.DueDate != nil || todo.NoteID != nil || todo.ParentID != nil {
		t.Error("optional fields should start unset")
	}
}

func TestListTodos_Ordering(t *testing.T) {
	db := testDB(t)

	done, _ := db.CreateTodo(TodoInput{Title: "done", Status: models.StatusCompleted, Priority: models.PriorityHigh})
	pendingLow, _ := db.CreateTodo(TodoInput{Title: "pending-low", Priority: models.PriorityLow})
	pendingHigh, _ := db.CreateTodo(TodoInput{Title: "pending-high", Priority: models.PriorityHigh})
	active, _ := db.CreateTodo(TodoInput{Title: "active", Status: models.StatusInProgress, Priority: models.PriorityLow})

	todos, err := db.ListTodos(nil)
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 4 {
		t.Fatalf("expected 4 todos, got %d", len(todos))
	}

	want := []string{active.ID, pendingHigh.ID, pendingLow.ID, done.ID}
	for i, id := range want {
		if todos[i].ID != id {
			t.Errorf("position %d = %q, want %q", i, todos[i].Title, id)
		}
	}
}

func TestListTodos_UndatedSortLast(t *testing.T) {
	db := testDB(t)

	soon := time.Now().Add(time.Hour)
	later := time.Now().Add(48 * time.Hour)
	dated1, _ := db.CreateTodo(TodoInput{Title: "soon", DueDate: &soon})
	dated2, _ := db.CreateTodo(TodoInput{Title: "later", DueDate: &later})
	undated, _ := db.CreateTodo(TodoInput{Title: "undated"})

	todos, err := db.ListTodos(nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{dated1.ID, dated2.ID, undated.ID}
	for i, id := range want {
		if todos[i].ID != id {
			t.Errorf("position %d = %q", i, todos[i].Title)
		}
	}
}

func TestListTodos_StatusAndPriorityFilters(t *testing.T) {
	db := testDB(t)

	_, _ = db.CreateTodo(TodoInput{Title: "a", Status: models.StatusPending, Priority: models.PriorityHigh})
	_, _ = db.CreateTodo(TodoInput{Title: "b", Status: models.StatusInProgress, Priority: models.PriorityLow})
	_, _ = db.CreateTodo(TodoInput{Title: "c", Status: models.StatusCompleted, Priority: models.PriorityHigh})

	todos, err := db.ListTodos(&TodoFilter{
		Status: []models.TodoStatus{models.StatusPending, models.StatusInProgress},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 2 {
		t.Errorf("status filter: got %d todos, want 2", len(todos))
	}

	todos, err = db.ListTodos(&TodoFilter{Priority: []models.TodoPriority{models.PriorityHigh}})
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 2 {
		t.Errorf("priority filter: got %d todos, want 2", len(todos))
	}
}

func TestListTodos_ParentFilter(t *testing.T) {
	db := testDB(t)

	root, _ := db.CreateTodo(TodoInput{Title: "root"})
	child, _ := db.CreateTodo(TodoInput{Title: "child", ParentID: &root.ID})

	roots, err := db.ListTodos(&TodoFilter{ParentID: models.Null[string]()})
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 || roots[0].ID != root.ID {
		t.Errorf("root filter = %+v, want only root", roots)
	}

	children, err := db.Subtasks(root.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 1 || children[0].ID != child.ID {
		t.Errorf("subtasks = %+v, want only child", children)
	}
}

func TestListTodos_DueWindows(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	past := now.Add(-48 * time.Hour)
	today := now.Add(time.Minute)
	if _, end := todayBounds(now); today.After(end) {
		// Right at midnight; stay inside the current day.
		today = end
	}
	nextWeek := now.Add(5 * 24 * time.Hour)
	farFuture := now.Add(30 * 24 * time.Hour)

	overdueTodo, _ := db.CreateTodo(TodoInput{Title: "overdue", DueDate: &past})
	todayTodo, _ := db.CreateTodo(TodoInput{Title: "today", DueDate: &today})
	soonTodo, _ := db.CreateTodo(TodoInput{Title: "soon", DueDate: &nextWeek})
	_, _ = db.CreateTodo(TodoInput{Title: "far", DueDate: &farFuture})
	_, _ = db.CreateTodo(TodoInput{Title: "undated"})

	got, err := db.ListTodos(&TodoFilter{Overdue: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != overdueTodo.ID {
		t.Errorf("overdue = %+v, want only overdue todo", got)
	}

	got, err = db.ListTodos(&TodoFilter{DueToday: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != todayTodo.ID {
		t.Errorf("due today = %+v, want only today todo", got)
	}

	got, err = db.ListTodos(&TodoFilter{DueSoon: 7})
	if err != nil {
		t.Fatal(err)
	}
	// (now, now+7d]: the todo due in a minute and the one in five days.
	if len(got) != 2 {
		t.Errorf("due soon = %d todos, want 2", len(got))
	}
	for _, todo := range got {
		if todo.ID != todayTodo.ID && todo.ID != soonTodo.ID {
			t.Errorf("unexpected due-soon todo %q", todo.Title)
		}
	}
}

func TestListTodos_OverdueExcludesCompleted(t *testing.T) {
	db := testDB(t)
	past := time.Now().Add(-time.Hour)

	_, _ = db.CreateTodo(TodoInput{Title: "done late", Status: models.StatusCompleted, DueDate: &past})

	got, err := db.ListTodos(&TodoFilter{Overdue: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("completed todos are never overdue, got %+v", got)
	}
}

func TestListTodos_HasDueDate(t *testing.T) {
	db := testDB(t)
	due := time.Now()
	dated, _ := db.CreateTodo(TodoInput{Title: "dated", DueDate: &due})
	undated, _ := db.CreateTodo(TodoInput{Title: "undated"})

	yes := true
	got, err := db.ListTodos(&TodoFilter{HasDueDate: &yes})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != dated.ID {
		t.Errorf("has_due_date=true = %+v", got)
	}

	no := false
	got, err = db.ListTodos(&TodoFilter{HasDueDate: &no})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != undated.ID {
		t.Errorf("has_due_date=false = %+v", got)
	}
}

func TestUpdateTodo_ClearDueDate(t *testing.T) {
	db := testDB(t)
	due := time.Now().Add(time.Hour)
	todo, _ := db.CreateTodo(TodoInput{Title: "T", DueDate: &due})

	// Untouched field stays.
	updated, err := db.UpdateTodo(todo.ID, UpdateTodoInput{Title: strPtr("T2")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.DueDate == nil {
		t.Fatal("due date should survive an unrelated update")
	}

	// Explicit null clears.
	updated, err = db.UpdateTodo(todo.ID, UpdateTodoInput{DueDate: models.Null[time.Time]()})
	if err != nil {
		t.Fatal(err)
	}
	if updated.DueDate != nil {
		t.Errorf("due date = %v, want cleared", updated.DueDate)
	}
}

func TestUpdateTodo_StatusAndPriority(t *testing.T) {
	db := testDB(t)
	todo, _ := db.CreateTodo(TodoInput{Title: "T"})

	updated, err := db.UpdateTodo(todo.ID, UpdateTodoInput{
		Status:   statusPtr(models.StatusInProgress),
		Priority: priorityPtr(models.PriorityHigh),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.StatusInProgress || updated.Priority != models.PriorityHigh {
		t.Errorf("got %q/%q, want in_progress/high", updated.Status, updated.Priority)
	}
	// Same-millisecond updates are possible; just ensure it did not go backwards.
	if updated.UpdatedAt.Before(todo.UpdatedAt) {
		t.Error("updated_at went backwards")
	}
}

func TestDeleteTodo_CascadesSubtree(t *testing.T) {
	db := testDB(t)

	root, _ := db.CreateTodo(TodoInput{Title: "root"})
	child, _ := db.CreateTodo(TodoInput{Title: "child", ParentID: &root.ID})
	grandchild, _ := db.CreateTodo(TodoInput{Title: "grandchild", ParentID: &child.ID})

	ok, err := db.DeleteTodo(root.ID)
	if err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if !ok {
		t.Fatal("expected a deleted row")
	}

	for _, id := range []string{root.ID, child.ID, grandchild.ID} {
		got, err := db.Todo(id)
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Errorf("todo %q should be gone with the subtree", got.Title)
		}
	}
}

func TestDeleteNote_NullsTodoReference(t *testing.T) {
	db := testDB(t)

	n, _ := db.CreateNote(NoteInput{Title: "N"})
	todo, _ := db.CreateTodo(TodoInput{Title: "T", NoteID: &n.ID})

	if _, err := db.DeleteNote(n.ID); err != nil {
		t.Fatal(err)
	}

	got, err := db.Todo(todo.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("todo should survive note deletion")
	}
	if got.NoteID != nil {
		t.Errorf("note_id = %v, want NULL after note deletion", *got.NoteID)
	}
}

func TestTodosByNote(t *testing.T) {
	db := testDB(t)
	n, _ := db.CreateNote(NoteInput{Title: "N"})
	attached, _ := db.CreateTodo(TodoInput{Title: "attached", NoteID: &n.ID})
	_, _ = db.CreateTodo(TodoInput{Title: "loose"})

	got, err := db.TodosByNote(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != attached.ID {
		t.Errorf("todos by note = %+v", got)
	}
}

func TestSearchTodos(t *testing.T) {
	db := testDB(t)
	_, _ = db.CreateTodo(TodoInput{Title: "Refactor parser", Description: "tokenizer cleanup"})
	_, _ = db.CreateTodo(TodoInput{Title: "Water plants"})

	got, err := db.SearchTodos("refact")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Refactor parser" {
		t.Errorf("search = %+v", got)
	}

	got, err = db.SearchTodos("tokeniz")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("description should be searchable, got %d hits", len(got))
	}
}

func TestTodoStats(t *testing.T) {
	db := testDB(t)
	past := time.Now().Add(-time.Hour)

	_, _ = db.CreateTodo(TodoInput{Title: "p1"})
	_, _ = db.CreateTodo(TodoInput{Title: "p2", DueDate: &past})
	_, _ = db.CreateTodo(TodoInput{Title: "active", Status: models.StatusInProgress})
	_, _ = db.CreateTodo(TodoInput{Title: "done", Status: models.StatusCompleted, DueDate: &past})

	stats, err := db.TodoStats()
	if err != nil {
		t.Fatalf("TodoStats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if stats.Pending != 2 || stats.InProgress != 1 || stats.Completed != 1 {
		t.Errorf("breakdown = %d/%d/%d, want 2/1/1", stats.Pending, stats.InProgress, stats.Completed)
	}
	if stats.Overdue != 1 {
		t.Errorf("overdue = %d, want 1 (completed never counts)", stats.Overdue)
	}
}
