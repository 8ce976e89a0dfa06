package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

var _ DocumentStore = (*MemoryStore)(nil)

// MemoryStore is a map-backed DocumentStore. It backs tests and
// store-less operation (running without a database configured).
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string]map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, collection, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.collections[collection][key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = map[string][]byte{}
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.collections[collection][key] = cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], key)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, collection string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.collections[collection]))
	for k := range s.collections[collection] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) QueryByField(_ context.Context, collection, field string, op Op, value string) ([]Document, error) {
	if err := validateOp(op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for key, raw := range s.collections[collection] {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("document %s/%s is not valid JSON: %w", collection, key, err)
		}
		fieldValue, ok := fields[field].(string)
		if !ok {
			continue
		}
		if compare(op, fieldValue, value) {
			cp := make([]byte, len(raw))
			copy(cp, raw)
			docs = append(docs, Document{Key: key, Value: cp})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
