// Package audit records completed board moves for later review.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/taskboard/internal/models"
)

// MoveRecorder persists move entries.
type MoveRecorder interface {
	RecordMove(ctx context.Context, taskID string, from, to models.Column, inputHash string) (*models.Move, error)
}

// Journal writes a move entry for every completed drag-and-drop.
type Journal struct {
	recorder MoveRecorder
}

// NewJournal creates a journal backed by recorder.
func NewJournal(r MoveRecorder) *Journal {
	return &Journal{recorder: r}
}

// Record writes an entry for task moving from one column to another.
func (j *Journal) Record(ctx context.Context, task models.Task, from, to models.Column) (*models.Move, error) {
	inputs := struct {
		Task models.Task   `json:"task"`
		From models.Column `json:"from"`
		To   models.Column `json:"to"`
	}{task, from, to}
	return j.recorder.RecordMove(ctx, task.ID, from, to, hashInputs(inputs))
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
