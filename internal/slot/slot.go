// Package slot provides the key-value location the board snapshot lives in.
package slot

import (
	"context"
	"errors"
	"sync"
)

// DefaultKey is the fixed key the board snapshot is stored under.
const DefaultKey = "tasks"

// ErrEmpty indicates that nothing has been written to the slot yet.
var ErrEmpty = errors.New("slot is empty")

// Slot reads and writes one serialized value under a fixed key.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, value []byte) error
}

// Memory is an in-process Slot. The zero value is an empty slot.
type Memory struct {
	mu    sync.Mutex
	value []byte
	set   bool
}

// NewMemory returns a memory slot, optionally pre-filled with value.
func NewMemory(value []byte) *Memory {
	m := &Memory{}
	if value != nil {
		m.value = append([]byte(nil), value...)
		m.set = true
	}
	return m
}

// Read returns a copy of the stored value or ErrEmpty.
func (m *Memory) Read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, ErrEmpty
	}
	return append([]byte(nil), m.value...), nil
}

// Write overwrites the stored value.
func (m *Memory) Write(ctx context.Context, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = append([]byte(nil), value...)
	m.set = true
	return nil
}
