package tui

import (
	"context"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/taskboard/internal/board"
	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/slot"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestApp(t *testing.T) (*App, *board.Store, *board.Tracker) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	st := board.Open(ctx, slot.NewMemory(nil), board.Options{Logger: logger})
	tr := board.NewTracker(st, 0)
	return New(ctx, st, tr), st, tr
}

func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = a.Update(msg)
	}
	return cmd
}

func taskIDs(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestDragAndDropMovesTask(t *testing.T) {
	a, st, tr := newTestApp(t)

	press(a, "m")
	s, ok := tr.Active()
	if !ok || s.Task.ID != "1" || s.Source != models.ColumnPending {
		t.Fatalf("expected drag of task 1 from pending, got %+v %v", s, ok)
	}

	press(a, "l")
	if hover, ok := tr.Hover(); !ok || hover != models.ColumnDoing {
		t.Errorf("expected hover on doing, got %q %v", hover, ok)
	}

	press(a, "m")
	c := st.Collection()
	if got := taskIDs(c.Pending); !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("unexpected pending: %v", got)
	}
	if got := taskIDs(c.Doing); !reflect.DeepEqual(got, []string{"3", "1"}) {
		t.Errorf("unexpected doing: %v", got)
	}
	if _, ok := tr.Active(); ok {
		t.Error("session should clear after drop")
	}
	if a.cursor[1] != 1 {
		t.Errorf("cursor should follow the dropped task, got %d", a.cursor[1])
	}
	if !strings.Contains(a.message, "Moved") {
		t.Errorf("unexpected message: %q", a.message)
	}
}

func TestDropOnSourceColumnIsNoOp(t *testing.T) {
	a, st, tr := newTestApp(t)

	press(a, "j", "m", "m")
	if !reflect.DeepEqual(st.Collection(), models.Seed()) {
		t.Errorf("board changed: %+v", st.Collection())
	}
	if _, ok := tr.Active(); ok {
		t.Error("session should clear even without a move")
	}
}

func TestEscCancelsDrag(t *testing.T) {
	a, st, tr := newTestApp(t)

	press(a, "m", "l", "l", "esc")
	if _, ok := tr.Active(); ok {
		t.Fatal("esc should cancel the drag")
	}
	if !strings.Contains(a.message, "cancelled") {
		t.Errorf("unexpected message: %q", a.message)
	}

	press(a, "h", "m")
	s, ok := tr.Active()
	if !ok {
		t.Fatal("expected a fresh drag from the focused column")
	}
	if s.Source != models.ColumnDoing || s.Task.ID != "3" {
		t.Errorf("expected task 3 from doing, got %+v", s)
	}
	if !reflect.DeepEqual(st.Collection(), models.Seed()) {
		t.Error("cancel must not change the board")
	}
}

func TestPickUpFromEmptyColumn(t *testing.T) {
	a, _, tr := newTestApp(t)

	press(a, "l", "l", "m")
	if _, ok := tr.Active(); ok {
		t.Error("nothing to pick up in an empty column")
	}
	if !strings.Contains(a.message, "No task") {
		t.Errorf("unexpected message: %q", a.message)
	}
}

func TestAddTaskToggle(t *testing.T) {
	a, st, tr := newTestApp(t)

	press(a, "a")
	if !a.adding {
		t.Fatal("expected add-task overlay")
	}
	if !strings.Contains(a.View(), "Add Task") {
		t.Error("overlay should render")
	}

	// Board keys are ignored while the overlay is open.
	press(a, "m")
	if _, ok := tr.Active(); ok {
		t.Error("drag should not start behind the overlay")
	}

	press(a, "esc")
	if a.adding {
		t.Error("esc should close the overlay")
	}
	if !reflect.DeepEqual(st.Collection(), models.Seed()) {
		t.Error("overlay must not change the board")
	}
}

func TestReturnToSourceClearsHover(t *testing.T) {
	a, _, tr := newTestApp(t)

	press(a, "m", "l")
	if _, ok := tr.Hover(); !ok {
		t.Fatal("expected hover after leaving the source column")
	}
	press(a, "h")
	if _, ok := tr.Hover(); ok {
		t.Error("hover should clear back on the source column")
	}
	if _, ok := tr.Active(); !ok {
		t.Error("drag should still be active")
	}
}

func TestQuit(t *testing.T) {
	a, _, _ := newTestApp(t)

	cmd := press(a, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestViewShowsColumnsAndTasks(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	view := a.View()
	for _, want := range []string{"Pending", "Doing", "Done", "Task 1", "Task 3", "high", "No tasks"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCursorStaysInRange(t *testing.T) {
	a, _, _ := newTestApp(t)

	press(a, "j", "j", "j", "j")
	if a.cursor[0] != 1 {
		t.Errorf("cursor should stop at the last task, got %d", a.cursor[0])
	}
	press(a, "k", "k", "k")
	if a.cursor[0] != 0 {
		t.Errorf("cursor should stop at the first task, got %d", a.cursor[0])
	}
	press(a, "h", "h")
	if a.focus != 0 {
		t.Errorf("focus should stop at the first column, got %d", a.focus)
	}
}

func TestPriorityStyle(t *testing.T) {
	if !reflect.DeepEqual(priorityStyle("HIGH"), priorityHigh) {
		t.Error("HIGH should use the high style")
	}
	if !reflect.DeepEqual(priorityStyle("unknown"), priorityLow) {
		t.Error("unknown priorities render like low")
	}
}

func TestCardMetaDueDate(t *testing.T) {
	meta := cardMeta(models.Task{DueDate: "2024-03-15", Priority: "medium"})
	if !strings.Contains(meta, "Mar 15, 2024") || !strings.Contains(meta, "medium") {
		t.Errorf("unexpected meta: %q", meta)
	}
}
