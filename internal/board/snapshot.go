package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fentz26/taskboard/internal/models"
)

// ErrNotObject indicates a snapshot whose top-level value is not a JSON object.
var ErrNotObject = errors.New("snapshot is not a JSON object")

// RawSnapshot is a decoded snapshot whose column values are not yet validated.
type RawSnapshot map[string]json.RawMessage

// Report describes what Normalize found wrong with a snapshot.
type Report struct {
	// Invalid lists columns that were missing or not a sequence.
	Invalid []models.Column
	// Dropped counts sequence entries that were not JSON objects.
	Dropped int
	// Duplicates lists task ids stored more than once. They are kept.
	Duplicates []string
}

// Clean reports whether the snapshot needed no repair.
func (r Report) Clean() bool {
	return len(r.Invalid) == 0 && r.Dropped == 0 && len(r.Duplicates) == 0
}

// Structural reports whether any column itself was unusable.
func (r Report) Structural() bool {
	return len(r.Invalid) > 0
}

// DecodeSnapshot parses data into per-column raw values.
func DecodeSnapshot(data []byte) (RawSnapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	var raw RawSnapshot
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return raw, nil
}

// EncodeSnapshot serializes the full collection.
func EncodeSnapshot(c models.Collection) ([]byte, error) {
	data, err := json.Marshal(c.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Normalize builds a collection from raw column values. A column that is
// absent or not a sequence becomes empty; sequence columns are kept with
// every record they hold, whatever its field types. Only entries that are
// not JSON objects are dropped. Repeated ids are reported, not removed.
func Normalize(raw RawSnapshot) (models.Collection, Report) {
	out := models.NewCollection()
	var report Report
	seen := make(map[string]bool)

	for _, col := range models.Columns {
		entries, ok := sequence(raw[string(col)])
		if !ok {
			report.Invalid = append(report.Invalid, col)
			continue
		}

		tasks := make([]models.Task, 0, len(entries))
		for _, entry := range entries {
			task, ok := taskRecord(entry)
			if !ok {
				report.Dropped++
				continue
			}
			if seen[task.ID] {
				report.Duplicates = append(report.Duplicates, task.ID)
			}
			seen[task.ID] = true
			tasks = append(tasks, task)
		}
		out.Set(col, tasks)
	}
	return out, report
}

func sequence(v json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func taskRecord(v json.RawMessage) (models.Task, bool) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return models.Task{}, false
	}
	var t models.Task
	if err := json.Unmarshal(trimmed, &t); err != nil {
		return models.Task{}, false
	}
	return t, true
}
