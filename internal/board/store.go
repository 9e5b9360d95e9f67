// Package board holds the task collection, its move rules and the drag
// session that drives moves.
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/slot"
	log "github.com/sirupsen/logrus"
)

// Recovery selects how a structurally invalid snapshot is restored.
type Recovery string

const (
	// RecoverSeed replaces a structurally invalid snapshot with the seed.
	RecoverSeed Recovery = "seed"
	// RecoverNormalize keeps the usable columns and empties the rest.
	RecoverNormalize Recovery = "normalize"
)

// ParseRecovery validates a recovery mode name. Empty means RecoverSeed.
func ParseRecovery(s string) (Recovery, error) {
	switch Recovery(s) {
	case "", RecoverSeed:
		return RecoverSeed, nil
	case RecoverNormalize:
		return RecoverNormalize, nil
	}
	return "", fmt.Errorf("unknown recovery mode %q", s)
}

// Recorder is notified of every completed move.
type Recorder interface {
	Record(ctx context.Context, task models.Task, from, to models.Column) (*models.Move, error)
}

// Options configures a Store.
type Options struct {
	Recovery Recovery
	Logger   log.FieldLogger
	Recorder Recorder
}

// Store owns the task collection and keeps the slot in sync with it.
type Store struct {
	slot     slot.Slot
	tasks    models.Collection
	recovery Recovery
	logger   log.FieldLogger
	recorder Recorder
}

// Open restores the collection from s. Missing, unreadable or malformed
// snapshots are recovered locally and logged; Open never fails.
func Open(ctx context.Context, s slot.Slot, opts Options) *Store {
	st := &Store{
		slot:     s,
		recovery: opts.Recovery,
		logger:   opts.Logger,
		recorder: opts.Recorder,
	}
	if st.recovery == "" {
		st.recovery = RecoverSeed
	}
	if st.logger == nil {
		st.logger = log.StandardLogger()
	}
	st.tasks = st.load(ctx)
	return st
}

func (s *Store) load(ctx context.Context) models.Collection {
	data, err := s.slot.Read(ctx)
	if errors.Is(err, slot.ErrEmpty) {
		s.logger.Debug("no stored snapshot, using seed")
		return models.Seed()
	}
	if err != nil {
		s.logger.WithError(err).Warn("read stored tasks failed, using seed")
		return models.Seed()
	}

	raw, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.WithError(err).Warn("error parsing stored tasks, using seed")
		return models.Seed()
	}

	tasks, report := Normalize(raw)
	if report.Clean() {
		return tasks
	}

	entry := s.logger.WithFields(log.Fields{
		"invalid_columns": report.Invalid,
		"dropped":         report.Dropped,
		"duplicates":      report.Duplicates,
		"recovery":        s.recovery,
	})
	if report.Structural() && s.recovery == RecoverSeed {
		entry.Warn("stored tasks are structurally invalid, using seed")
		return models.Seed()
	}
	entry.Warn("stored tasks loaded with repairs")
	return tasks
}

// Collection returns a copy of the current tasks.
func (s *Store) Collection() models.Collection {
	return s.tasks.Clone()
}

// Find returns the task with id and the column holding it.
func (s *Store) Find(id string) (models.Task, models.Column, bool) {
	col, idx, ok := s.tasks.Locate(id)
	if !ok {
		return models.Task{}, "", false
	}
	return s.tasks.Get(col)[idx], col, true
}

// MoveTask removes task id from source and appends it to target, then
// persists the full snapshot. It reports whether anything moved; same-column,
// unknown-column and unknown-id requests leave the board untouched.
func (s *Store) MoveTask(ctx context.Context, id string, source, target models.Column) bool {
	if source == target || !source.Valid() || !target.Valid() {
		return false
	}

	from := s.tasks.Get(source)
	idx := -1
	for i, t := range from {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	moved := from[idx]
	remaining := make([]models.Task, 0, len(from)-1)
	remaining = append(remaining, from[:idx]...)
	remaining = append(remaining, from[idx+1:]...)

	to := s.tasks.Get(target)
	appended := make([]models.Task, 0, len(to)+1)
	appended = append(appended, to...)
	appended = append(appended, moved)

	s.tasks.Set(source, remaining)
	s.tasks.Set(target, appended)

	if err := s.Persist(ctx); err != nil {
		s.logger.WithError(err).WithField("task_id", id).Error("persist tasks failed")
	}
	if s.recorder != nil {
		if _, err := s.recorder.Record(ctx, moved, source, target); err != nil {
			s.logger.WithError(err).WithField("task_id", id).Warn("record move failed")
		}
	}

	s.logger.WithFields(log.Fields{
		"task_id": id,
		"from":    source,
		"to":      target,
	}).Debug("task moved")
	return true
}

// Persist writes the full collection to the slot, overwriting any prior value.
func (s *Store) Persist(ctx context.Context) error {
	data, err := EncodeSnapshot(s.tasks)
	if err != nil {
		return err
	}
	if err := s.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the serialized collection.
func (s *Store) Snapshot() ([]byte, error) {
	return EncodeSnapshot(s.tasks)
}

// Reset replaces the collection with the seed and persists it.
func (s *Store) Reset(ctx context.Context) error {
	s.tasks = models.Seed()
	return s.Persist(ctx)
}
