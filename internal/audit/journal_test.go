package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/store"
)

func TestJournalRecord(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	j := NewJournal(s)
	ctx := context.Background()
	task := models.Task{ID: "1", Title: "Task 1"}

	move, err := j.Record(ctx, task, models.ColumnPending, models.ColumnDoing)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if move.TaskID != "1" || move.From != models.ColumnPending || move.To != models.ColumnDoing {
		t.Errorf("Unexpected move: %+v", move)
	}
	if len(move.InputHash) != 64 {
		t.Errorf("Expected sha256 hex hash, got %q", move.InputHash)
	}

	moves, err := s.ListMoves(ctx, "1", 0)
	if err != nil {
		t.Fatalf("ListMoves failed: %v", err)
	}
	if len(moves) != 1 {
		t.Fatalf("Expected 1 journaled move, got %d", len(moves))
	}
	if moves[0].InputHash != move.InputHash {
		t.Errorf("Hash mismatch: %s vs %s", moves[0].InputHash, move.InputHash)
	}
}

func TestHashInputsIsStable(t *testing.T) {
	a := hashInputs(map[string]string{"task": "1", "to": "done"})
	b := hashInputs(map[string]string{"to": "done", "task": "1"})
	if a != b {
		t.Errorf("Expected identical hashes, got %s and %s", a, b)
	}
	if c := hashInputs(map[string]string{"task": "2"}); c == a {
		t.Error("Different inputs should hash differently")
	}
}
