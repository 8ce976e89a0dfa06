// Package control holds the global scheduler pause flag. The flag
// gates generation and publishing jobs; analysis jobs ignore it.
package control

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/mystylekpop/snsbot/internal/logger"
	"github.com/mystylekpop/snsbot/internal/storage"
)

const (
	// Collection and Key locate the persisted flag in the store.
	Collection = "bot_settings"
	Key        = "scheduler_state"
)

type state struct {
	Paused    bool      `json:"paused"`
	ChangedAt time.Time `json:"changedAt"`
}

// Controller is the pause flag. IsPaused is a plain atomic read so it
// can sit inside cron dispatch without blocking.
type Controller struct {
	paused atomic.Bool
	store  storage.DocumentStore
	now    func() time.Time
}

// New returns a Controller backed by the given store.
func New(store storage.DocumentStore) *Controller {
	return &Controller{store: store, now: time.Now}
}

// IsPaused reports whether scheduled generation/publishing is paused.
func (c *Controller) IsPaused() bool {
	return c.paused.Load()
}

// Pause sets the flag immediately and persists it best-effort.
func (c *Controller) Pause(ctx context.Context) {
	c.paused.Store(true)
	c.persist(ctx, true)
}

// Resume clears the flag immediately and persists it best-effort.
func (c *Controller) Resume(ctx context.Context) {
	c.paused.Store(false)
	c.persist(ctx, false)
}

// Restore loads the persisted flag into memory.
func (c *Controller) Restore(ctx context.Context) error {
	value, ok, err := c.store.Get(ctx, Collection, Key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	var st state
	if err := json.Unmarshal(value, &st); err != nil {
		return err
	}
	c.paused.Store(st.Paused)
	if st.Paused {
		logger.Info(ctx, "control: restored paused state")
	}
	return nil
}

func (c *Controller) persist(ctx context.Context, paused bool) {
	value, err := json.Marshal(state{Paused: paused, ChangedAt: c.now().UTC()})
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, Collection, Key, value); err != nil {
		logger.Error(ctx, "control: store write failed", "err", err)
	}
}
