// Package queue holds reviewer-approved drafts until their scheduled
// publish time. The in-memory map is authoritative; the document store
// is written through best-effort for crash recovery.
package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/logger"
	"github.com/mystylekpop/snsbot/internal/storage"
)

// Collection is the document store collection for approved drafts.
const Collection = "draft_queue"

// restoreWindowDays bounds Restore to today through D+2, matching the
// two-day generation lead time. Older rows are purged as stale.
const restoreWindowDays = 2

// Queue is the approval store keyed by slot key.
type Queue struct {
	mu      sync.RWMutex
	entries map[draft.SlotKey]draft.QueueEntry

	store storage.DocumentStore
	loc   *time.Location
	now   func() time.Time
}

// Option configures a Queue.
type Option func(*Queue)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// New returns a Queue backed by the given store. loc is the reference
// timezone used for the restore validity window.
func New(store storage.DocumentStore, loc *time.Location, opts ...Option) *Queue {
	q := &Queue{
		entries: map[draft.SlotKey]draft.QueueEntry{},
		store:   store,
		loc:     loc,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue inserts or overwrites the approved draft for a slot and
// writes it through to the store. Persistence failures are logged, not
// returned: the in-memory entry is already live.
func (q *Queue) Enqueue(ctx context.Context, key draft.SlotKey, d draft.Draft) {
	entry := draft.QueueEntry{
		Draft:         d,
		ScheduledHour: key.Hour,
		Platform:      key.Platform,
		FormatKey:     d.FormatKey,
		ApprovedAt:    q.now().UTC(),
	}

	q.mu.Lock()
	q.entries[key] = entry
	q.mu.Unlock()

	q.persist(ctx, key, entry)
}

// Peek returns the entry for a slot without removing it.
func (q *Queue) Peek(key draft.SlotKey) (draft.QueueEntry, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	entry, ok := q.entries[key]
	return entry, ok
}

// Dequeue removes the entry for a slot from memory and the store.
// Removing an absent key is a no-op.
func (q *Queue) Dequeue(ctx context.Context, key draft.SlotKey) {
	q.mu.Lock()
	delete(q.entries, key)
	q.mu.Unlock()

	if err := q.store.Delete(ctx, Collection, key.String()); err != nil {
		logger.Error(ctx, "queue: store delete failed", "slot", key.String(), "err", err)
	}
}

// ClearForDate removes every entry whose slot belongs to dateStr
// ("YYYY-MM-DD"). Used before regenerating a day's drafts so stale
// approvals do not bleed into the new batch.
func (q *Queue) ClearForDate(ctx context.Context, dateStr string) int {
	q.mu.Lock()
	var removed []draft.SlotKey
	for key := range q.entries {
		if key.DatePrefix(dateStr) {
			delete(q.entries, key)
			removed = append(removed, key)
		}
	}
	q.mu.Unlock()

	for _, key := range removed {
		if err := q.store.Delete(ctx, Collection, key.String()); err != nil {
			logger.Error(ctx, "queue: store delete failed", "slot", key.String(), "err", err)
		}
	}
	return len(removed)
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries)
}

// Keys returns all queued slot keys.
func (q *Queue) Keys() []draft.SlotKey {
	q.mu.RLock()
	defer q.mu.RUnlock()

	keys := make([]draft.SlotKey, 0, len(q.entries))
	for key := range q.entries {
		keys = append(keys, key)
	}
	return keys
}

// Restore repopulates the queue from the store. Only slots dated today
// through D+2 in the reference timezone are restored; anything outside
// the window is deleted from the store as stale.
func (q *Queue) Restore(ctx context.Context) error {
	keys, err := q.store.Keys(ctx, Collection)
	if err != nil {
		return err
	}

	valid := map[string]bool{}
	today := q.now().In(q.loc)
	for i := 0; i <= restoreWindowDays; i++ {
		valid[today.AddDate(0, 0, i).Format("2006-01-02")] = true
	}

	restored := 0
	for _, rawKey := range keys {
		key, err := draft.ParseSlotKey(rawKey)
		if err != nil || !valid[key.Date] {
			if err := q.store.Delete(ctx, Collection, rawKey); err != nil {
				logger.Error(ctx, "queue: stale row delete failed", "key", rawKey, "err", err)
			}
			continue
		}

		value, ok, err := q.store.Get(ctx, Collection, rawKey)
		if err != nil || !ok {
			continue
		}
		var entry draft.QueueEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			logger.Error(ctx, "queue: corrupt row skipped", "key", rawKey, "err", err)
			continue
		}

		q.mu.Lock()
		q.entries[key] = entry
		q.mu.Unlock()
		restored++
	}

	if restored > 0 {
		logger.Info(ctx, "queue: restored approved drafts", "count", restored)
	}
	return nil
}

func (q *Queue) persist(ctx context.Context, key draft.SlotKey, entry draft.QueueEntry) {
	value, err := json.Marshal(entry)
	if err != nil {
		logger.Error(ctx, "queue: marshal failed", "slot", key.String(), "err", err)
		return
	}
	if err := q.store.Set(ctx, Collection, key.String(), value); err != nil {
		logger.Error(ctx, "queue: store write failed", "slot", key.String(), "err", err)
	}
}
