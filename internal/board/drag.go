package board

import (
	"context"
	"time"

	"github.com/fentz26/taskboard/internal/models"
)

// Mover performs a move between columns.
type Mover interface {
	MoveTask(ctx context.Context, id string, source, target models.Column) bool
}

// Session is the in-flight drag gesture.
type Session struct {
	Task      models.Task
	Source    models.Column
	StartedAt time.Time
}

// Tracker holds at most one drag session. A zero Timeout disables expiry.
type Tracker struct {
	mover   Mover
	session *Session
	hover   models.Column
	timeout time.Duration
	now     func() time.Time
}

// NewTracker creates an idle tracker that delegates drops to m.
func NewTracker(m Mover, timeout time.Duration) *Tracker {
	return &Tracker{mover: m, timeout: timeout, now: time.Now}
}

// BeginDrag starts a session, replacing any previous one.
func (t *Tracker) BeginDrag(task models.Task, source models.Column) {
	t.session = &Session{Task: task, Source: source, StartedAt: t.now()}
	t.hover = ""
}

// DragOver records the column currently under the gesture. It is a display
// hint only.
func (t *Tracker) DragOver(target models.Column) {
	if _, ok := t.Active(); !ok {
		return
	}
	t.hover = target
}

// DragLeave clears the hover hint.
func (t *Tracker) DragLeave() {
	t.hover = ""
}

// Hover returns the hinted drop column.
func (t *Tracker) Hover() (models.Column, bool) {
	if _, ok := t.Active(); !ok || t.hover == "" {
		return "", false
	}
	return t.hover, true
}

// Active returns the current session. Expired sessions are cleared.
func (t *Tracker) Active() (Session, bool) {
	if t.session == nil {
		return Session{}, false
	}
	if t.timeout > 0 && t.now().Sub(t.session.StartedAt) > t.timeout {
		t.clear()
		return Session{}, false
	}
	return *t.session, true
}

// CompleteDrag drops the active session on target. The session is cleared
// whether or not the move itself happened. It reports whether a task moved.
func (t *Tracker) CompleteDrag(ctx context.Context, target models.Column) bool {
	s, ok := t.Active()
	if !ok {
		return false
	}
	t.clear()
	return t.mover.MoveTask(ctx, s.Task.ID, s.Source, target)
}

// CancelDrag abandons the active session. It reports whether one was active.
func (t *Tracker) CancelDrag() bool {
	_, ok := t.Active()
	t.clear()
	return ok
}

func (t *Tracker) clear() {
	t.session = nil
	t.hover = ""
}
