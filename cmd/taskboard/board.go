package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fentz26/taskboard/internal/audit"
	"github.com/fentz26/taskboard/internal/board"
	"github.com/fentz26/taskboard/internal/config"
	"github.com/fentz26/taskboard/internal/slot"
	"github.com/fentz26/taskboard/internal/store"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// backend is an opened board plus the resources behind its slot.
type backend struct {
	board *board.Store
	db    *store.Store // nil unless the sqlite driver is in use
	close func()
}

// openBoard opens the configured slot and restores the board from it.
func openBoard(ctx context.Context, c *config.Config) (*backend, error) {
	recovery, err := board.ParseRecovery(c.Board.Recovery)
	if err != nil {
		return nil, err
	}

	b := &backend{close: func() {}}
	opts := board.Options{
		Recovery: recovery,
		Logger:   log.WithField("driver", c.Storage.Driver),
	}

	var s slot.Slot
	switch c.Storage.Driver {
	case config.DriverSQLite:
		db, err := store.New(c.SQLitePath())
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to reach store: %w", err)
		}
		s, err = db.Slot(c.Storage.Key)
		if err != nil {
			db.Close()
			return nil, err
		}
		b.db = db
		b.close = func() { db.Close() }
		opts.Recorder = audit.NewJournal(db)

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.Storage.Redis.Addr,
			Password: c.Storage.Redis.Password,
			DB:       c.Storage.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", c.Storage.Redis.Addr, err)
		}
		rs := slot.NewRedis(client, c.Storage.Redis.Prefix, c.Storage.Key)
		log.WithField("key", rs.Key()).Debug("using redis slot")
		s = rs
		b.close = func() { client.Close() }

	case config.DriverMemory:
		log.Warn("memory driver selected, the board will not outlive this process")
		s = slot.NewMemory(nil)

	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownDriver, c.Storage.Driver)
	}

	b.board = board.Open(ctx, s, opts)
	return b, nil
}
