// Package storage provides the durable document store behind the draft
// queue, pending registry and scheduler settings. The in-memory state
// of those components is authoritative at runtime; the store exists for
// process-restart recovery, so writes are best-effort from the caller's
// point of view.
package storage

import (
	"context"
	"fmt"
)

// Op is a comparison operator for field queries.
type Op string

const (
	OpEq Op = "=="
	OpGt Op = ">"
	OpLt Op = "<"
)

// Document is one stored record.
type Document struct {
	Key   string
	Value []byte
}

// DocumentStore is a generic JSON document store keyed by
// (collection, key).
type DocumentStore interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, collection, key string) ([]byte, bool, error)

	// Set inserts or overwrites a document.
	Set(ctx context.Context, collection, key string, value []byte) error

	// Delete removes a document. Deleting an absent key is a no-op.
	Delete(ctx context.Context, collection, key string) error

	// Keys lists all keys in a collection.
	Keys(ctx context.Context, collection string) ([]string, error)

	// QueryByField returns documents whose top-level JSON field
	// compares true against value. Values are compared as strings;
	// RFC 3339 timestamps order correctly under string comparison.
	QueryByField(ctx context.Context, collection, field string, op Op, value string) ([]Document, error)

	// Close releases underlying resources.
	Close() error
}

func validateOp(op Op) error {
	switch op {
	case OpEq, OpGt, OpLt:
		return nil
	default:
		return fmt.Errorf("unsupported query op %q", op)
	}
}

func compare(op Op, a, b string) bool {
	switch op {
	case OpEq:
		return a == b
	case OpGt:
		return a > b
	case OpLt:
		return a < b
	default:
		return false
	}
}
