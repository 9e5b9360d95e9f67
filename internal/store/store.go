// Package store provides SQLite-backed persistence for the task board.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/slot"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrSlotKeyRequired is returned when a slot is requested without a key.
var ErrSlotKeyRequired = errors.New("slot key is required")

// Store provides access to the board SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS moves (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		from_column TEXT NOT NULL,
		to_column TEXT NOT NULL,
		input_hash TEXT NOT NULL,
		moved_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_moves_task_id ON moves(task_id);
	CREATE INDEX IF NOT EXISTS idx_moves_moved_at ON moves(moved_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Slot Operations ---

// ReadSlot returns the value stored under key, or slot.ErrEmpty.
func (s *Store) ReadSlot(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, slot.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("query slot: %w", err)
	}
	return value, nil
}

// WriteSlot overwrites the value stored under key.
func (s *Store) WriteSlot(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

// SlotUpdatedAt returns when key was last written.
func (s *Store) SlotUpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM slots WHERE key = ?`, key).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, slot.ErrEmpty
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query slot: %w", err)
	}
	return updatedAt, nil
}

// Slot binds key to a slot.Slot backed by this database.
func (s *Store) Slot(key string) (slot.Slot, error) {
	if key == "" {
		return nil, ErrSlotKeyRequired
	}
	return &sqliteSlot{store: s, key: key}, nil
}

type sqliteSlot struct {
	store *Store
	key   string
}

func (k *sqliteSlot) Read(ctx context.Context) ([]byte, error) {
	return k.store.ReadSlot(ctx, k.key)
}

func (k *sqliteSlot) Write(ctx context.Context, value []byte) error {
	return k.store.WriteSlot(ctx, k.key, value)
}

// --- Move Operations ---

// RecordMove inserts a journal entry for a completed move.
func (s *Store) RecordMove(ctx context.Context, taskID string, from, to models.Column, inputHash string) (*models.Move, error) {
	move := &models.Move{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		From:      from,
		To:        to,
		InputHash: inputHash,
		MovedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO moves (id, task_id, from_column, to_column, input_hash, moved_at) VALUES (?, ?, ?, ?, ?, ?)`,
		move.ID, move.TaskID, string(move.From), string(move.To), move.InputHash, move.MovedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert move: %w", err)
	}
	return move, nil
}

// ListMoves returns the most recent moves first, optionally filtered by task.
func (s *Store) ListMoves(ctx context.Context, taskID string, limit int) ([]models.Move, error) {
	query := `SELECT id, task_id, from_column, to_column, input_hash, moved_at FROM moves`
	var args []interface{}

	if taskID != "" {
		query += ` WHERE task_id = ?`
		args = append(args, taskID)
	}
	query += ` ORDER BY moved_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var moves []models.Move
	for rows.Next() {
		var m models.Move
		var from, to string
		if err := rows.Scan(&m.ID, &m.TaskID, &from, &to, &m.InputHash, &m.MovedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		m.From = models.Column(from)
		m.To = models.Column(to)
		moves = append(moves, m)
	}
	return moves, rows.Err()
}
