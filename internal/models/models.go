// Package models defines the core domain types for the task board.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Column names one of the three fixed board buckets.
type Column string

const (
	ColumnPending Column = "pending"
	ColumnDoing   Column = "doing"
	ColumnDone    Column = "done"
)

// Columns lists the board columns in display order.
var Columns = []Column{ColumnPending, ColumnDoing, ColumnDone}

// Title returns the human label for a column.
func (c Column) Title() string {
	switch c {
	case ColumnPending:
		return "Pending"
	case ColumnDoing:
		return "Doing"
	case ColumnDone:
		return "Done"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the fixed columns.
func (c Column) Valid() bool {
	switch c {
	case ColumnPending, ColumnDoing, ColumnDone:
		return true
	}
	return false
}

// ParseColumn resolves a column name case-insensitively.
func ParseColumn(s string) (Column, bool) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Priority is the optional urgency of a task. The stored spelling is kept
// as-is; comparisons go through Level.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Level returns the canonical lower-case priority. Unknown values map to low.
func (p Priority) Level() Priority {
	switch Priority(strings.ToLower(string(p))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Task represents a unit of work on the board. Stored records are decoded
// leniently and written back with any fields Task does not model.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"` // ISO-8601 or epoch milliseconds

	// extra holds stored values that are not plain strings under a known
	// key, plus every unknown key, exactly as read.
	extra map[string]json.RawMessage
}

// Due parses DueDate as a plain date, an RFC 3339 timestamp or epoch
// milliseconds.
func (t Task) Due() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse("2006-01-02", t.DueDate); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, t.DueDate); err == nil {
		return d, true
	}
	if ms, err := strconv.ParseInt(t.DueDate, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

// Extra returns the stored value of a field Task does not model.
func (t Task) Extra(key string) (json.RawMessage, bool) {
	v := t.extra[key]
	return v, v != nil
}

type taskField struct {
	key       string
	value     *string
	omitEmpty bool
}

func (t *Task) fields() []taskField {
	return []taskField{
		{"id", &t.ID, false},
		{"title", &t.Title, false},
		{"description", &t.Description, true},
		{"priority", (*string)(&t.Priority), true},
		{"dueDate", &t.DueDate, true},
	}
}

// UnmarshalJSON accepts strings or numbers for every known field. Other
// values and unknown keys are kept verbatim for MarshalJSON.
func (t *Task) UnmarshalJSON(data []byte) error {
	var stored map[string]json.RawMessage
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	if stored == nil {
		return errors.New("task record is null")
	}

	*t = Task{}
	known := make(map[string]*string)
	for _, f := range t.fields() {
		known[f.key] = f.value
	}
	for key, v := range stored {
		dst, ok := known[key]
		if ok {
			if s, isString := stringValue(v); isString {
				*dst = s
				continue
			}
			*dst = scalarText(v)
		}
		t.keep(key, v)
	}
	// A nil entry marks a required key the record did not have.
	for _, f := range t.fields() {
		if _, ok := stored[f.key]; !ok && !f.omitEmpty {
			t.keep(f.key, nil)
		}
	}
	return nil
}

func (t *Task) keep(key string, v json.RawMessage) {
	if t.extra == nil {
		t.extra = make(map[string]json.RawMessage)
	}
	t.extra[key] = v
}

// MarshalJSON writes the known fields in a fixed order followed by the
// unknown ones. A stored value is reused while the field still holds what
// was read from it.
func (t Task) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	write := func(key string, v []byte) {
		if n > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		n++
	}

	known := make(map[string]bool)
	for _, f := range t.fields() {
		known[f.key] = true
		if v, ok := t.extra[f.key]; ok && scalarText(v) == *f.value {
			if v != nil {
				write(f.key, v)
			}
			continue
		}
		if *f.value == "" && f.omitEmpty {
			continue
		}
		v, err := json.Marshal(*f.value)
		if err != nil {
			return nil, err
		}
		write(f.key, v)
	}

	keys := make([]string, 0, len(t.extra))
	for k := range t.extra {
		if !known[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		write(k, t.extra[k])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func stringValue(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// scalarText returns the text of a JSON string or number, and "" for
// anything else.
func scalarText(v json.RawMessage) string {
	if s, ok := stringValue(v); ok {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

// Collection holds the ordered tasks of every column.
type Collection struct {
	Pending []Task `json:"pending"`
	Doing   []Task `json:"doing"`
	Done    []Task `json:"done"`
}

// NewCollection returns a collection with all three columns present and empty.
func NewCollection() Collection {
	return Collection{Pending: []Task{}, Doing: []Task{}, Done: []Task{}}
}

// Seed returns the built-in collection used when nothing usable is persisted.
func Seed() Collection {
	return Collection{
		Pending: []Task{
			{ID: "1", Title: "Task 1", Description: "Sample task 1", Priority: PriorityHigh},
			{ID: "2", Title: "Task 2", Description: "Sample task 2", Priority: PriorityMedium},
		},
		Doing: []Task{
			{ID: "3", Title: "Task 3", Description: "Sample task 3", Priority: PriorityLow},
		},
		Done: []Task{},
	}
}

// Get returns the tasks of column c. Unknown columns yield nil.
func (c *Collection) Get(col Column) []Task {
	switch col {
	case ColumnPending:
		return c.Pending
	case ColumnDoing:
		return c.Doing
	case ColumnDone:
		return c.Done
	}
	return nil
}

// Set replaces the tasks of column col. A nil slice is stored as empty.
func (c *Collection) Set(col Column, tasks []Task) {
	if tasks == nil {
		tasks = []Task{}
	}
	switch col {
	case ColumnPending:
		c.Pending = tasks
	case ColumnDoing:
		c.Doing = tasks
	case ColumnDone:
		c.Done = tasks
	}
}

// Clone returns a deep copy with every column non-nil.
func (c Collection) Clone() Collection {
	out := NewCollection()
	for _, col := range Columns {
		src := c.Get(col)
		dst := make([]Task, len(src))
		copy(dst, src)
		out.Set(col, dst)
	}
	return out
}

// Len returns the total number of tasks across all columns.
func (c Collection) Len() int {
	return len(c.Pending) + len(c.Doing) + len(c.Done)
}

// Locate returns the column and index holding task id.
func (c Collection) Locate(id string) (Column, int, bool) {
	for _, col := range Columns {
		for i, t := range c.Get(col) {
			if t.ID == id {
				return col, i, true
			}
		}
	}
	return "", -1, false
}

// Move records a completed move between columns.
type Move struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	From      Column    `json:"from"`
	To        Column    `json:"to"`
	InputHash string    `json:"input_hash"`
	MovedAt   time.Time `json:"moved_at"`
}
