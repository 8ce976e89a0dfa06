// Package pending tracks drafts that were shown to a reviewer and are
// not yet decided. Entries expire after a TTL; silent timeout is an
// implicit rejection. Terminal transitions leave the live registry but
// keep the durable record as history.
package pending

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/logger"
	"github.com/mystylekpop/snsbot/internal/storage"
)

// Collection is the document store collection for pending drafts.
const Collection = "pending_drafts"

const (
	// DefaultTTL is how long a draft waits for a reviewer decision.
	DefaultTTL = 30 * time.Minute

	// sweepInterval is how often expired entries are collected.
	sweepInterval = 5 * time.Minute
)

// Handle is the opaque chat message id a pending draft is keyed by.
type Handle int64

func (h Handle) String() string {
	return strconv.FormatInt(int64(h), 10)
}

// record is the durable form of a pending entry, including terminal
// status updates kept for history.
type record struct {
	Draft     draft.Draft  `json:"draft"`
	Status    draft.Status `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
	UpdatedAt time.Time    `json:"updatedAt,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Registry is the live map of drafts under review.
type Registry struct {
	mu      sync.RWMutex
	entries map[Handle]draft.PendingEntry

	store storage.DocumentStore
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL overrides the review TTL.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New returns a Registry backed by the given store.
func New(store storage.DocumentStore, opts ...Option) *Registry {
	r := &Registry{
		entries: map[Handle]draft.PendingEntry{},
		store:   store,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register stores a draft under the given handle with status pending
// and writes it through to the store best-effort.
func (r *Registry) Register(ctx context.Context, handle Handle, d draft.Draft) {
	now := r.now().UTC()
	entry := draft.PendingEntry{
		Draft:     d,
		Status:    draft.StatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	r.mu.Lock()
	r.entries[handle] = entry
	r.mu.Unlock()

	r.persist(ctx, handle, record{
		Draft:     d,
		Status:    draft.StatusPending,
		CreatedAt: entry.CreatedAt,
		ExpiresAt: entry.ExpiresAt,
	})
}

// Get returns the live entry for a handle.
func (r *Registry) Get(handle Handle) (draft.PendingEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[handle]
	return entry, ok
}

// FindBySlotKey scans the live registry for a draft tagged with the
// given slot. The registry is bounded by the daily slot count, so a
// linear scan is fine.
func (r *Registry) FindBySlotKey(key draft.SlotKey) (Handle, draft.Draft, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for handle, entry := range r.entries {
		if entry.Draft.SlotKey != nil && *entry.Draft.SlotKey == key {
			return handle, entry.Draft, true
		}
	}
	return 0, draft.Draft{}, false
}

// Transition moves an entry to a terminal status. The entry leaves the
// live map so sweeps and lookups no longer see it; the durable record
// is updated in place, preserving history.
func (r *Registry) Transition(ctx context.Context, handle Handle, status draft.Status, transitionErr error) {
	r.mu.Lock()
	entry, ok := r.entries[handle]
	delete(r.entries, handle)
	r.mu.Unlock()

	if !ok {
		return
	}

	rec := record{
		Draft:     entry.Draft,
		Status:    status,
		CreatedAt: entry.CreatedAt,
		ExpiresAt: entry.ExpiresAt,
		UpdatedAt: r.now().UTC(),
	}
	if transitionErr != nil {
		rec.Error = transitionErr.Error()
	}
	r.persist(ctx, handle, rec)
}

// Remove drops an entry from memory and deletes its durable record.
// Used for TTL expiry, where no history is kept.
func (r *Registry) Remove(ctx context.Context, handle Handle) {
	r.mu.Lock()
	delete(r.entries, handle)
	r.mu.Unlock()

	if err := r.store.Delete(ctx, Collection, handle.String()); err != nil {
		logger.Error(ctx, "pending: store delete failed", "handle", handle, "err", err)
	}
}

// Sweep removes every entry past its TTL and returns how many were
// dropped.
func (r *Registry) Sweep(ctx context.Context) int {
	now := r.now().UTC()

	r.mu.Lock()
	var expired []Handle
	for handle, entry := range r.entries {
		if now.After(entry.ExpiresAt) {
			expired = append(expired, handle)
		}
	}
	r.mu.Unlock()

	for _, handle := range expired {
		r.Remove(ctx, handle)
		logger.Info(ctx, "pending: draft expired unreviewed", "handle", handle)
	}
	return len(expired)
}

// StartSweeper runs Sweep every 5 minutes until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Restore reloads entries that are still pending and unexpired from
// the store into the live map.
func (r *Registry) Restore(ctx context.Context) error {
	nowStr := r.now().UTC().Format(time.RFC3339Nano)
	docs, err := r.store.QueryByField(ctx, Collection, "expiresAt", storage.OpGt, nowStr)
	if err != nil {
		return err
	}

	restored := 0
	for _, doc := range docs {
		var rec record
		if err := json.Unmarshal(doc.Value, &rec); err != nil {
			logger.Error(ctx, "pending: corrupt row skipped", "key", doc.Key, "err", err)
			continue
		}
		if rec.Status != draft.StatusPending {
			continue
		}
		handle, err := strconv.ParseInt(doc.Key, 10, 64)
		if err != nil {
			continue
		}

		r.mu.Lock()
		r.entries[Handle(handle)] = draft.PendingEntry{
			Draft:     rec.Draft,
			Status:    rec.Status,
			CreatedAt: rec.CreatedAt,
			ExpiresAt: rec.ExpiresAt,
		}
		r.mu.Unlock()
		restored++
	}

	if restored > 0 {
		logger.Info(ctx, "pending: restored drafts under review", "count", restored)
	}
	return nil
}

func (r *Registry) persist(ctx context.Context, handle Handle, rec record) {
	value, err := json.Marshal(rec)
	if err != nil {
		logger.Error(ctx, "pending: marshal failed", "handle", handle, "err", err)
		return
	}
	if err := r.store.Set(ctx, Collection, handle.String(), value); err != nil {
		logger.Error(ctx, "pending: store write failed", "handle", handle, "err", err)
	}
}
