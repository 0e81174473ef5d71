// Package store exposes the document-store surface the portal depends on.
// The backing service is a managed single-table key-value store; nothing
// above this package issues raw wire-protocol calls.
package store

import (
	"context"
	"errors"
)

// Item is a schemaless document keyed by the table's partition attribute.
type Item = map[string]any

var (
	// ErrNotFound is returned when the requested key has no item.
	ErrNotFound = errors.New("store: item not found")

	// ErrConditionFailed is returned by PutItemIfAbsent when the key is
	// already taken.
	ErrConditionFailed = errors.New("store: conditional write failed")
)

// Store is the five-operation access surface plus the conditional write the
// identifier allocator reserves display IDs with.
type Store interface {
	// Scan returns every item in the table, optionally narrowed to items
	// whose attributes equal all of the given filters.
	Scan(ctx context.Context, table string, filters Item) ([]Item, error)

	// GetItem fetches one item by partition key. ErrNotFound when absent.
	GetItem(ctx context.Context, table, key string) (Item, error)

	// PutItem writes a full item, silently replacing any existing item
	// under the same key.
	PutItem(ctx context.Context, table string, item Item) error

	// PutItemIfAbsent writes a full item only if the key is not taken.
	// ErrConditionFailed when it is.
	PutItemIfAbsent(ctx context.Context, table string, item Item) error

	// UpdateItem merges a partial update into an existing item and returns
	// ErrNotFound when the key has no item.
	UpdateItem(ctx context.Context, table, key string, updates Item) error

	// DeleteItem removes an item by key. Removing an absent key is not an
	// error.
	DeleteItem(ctx context.Context, table, key string) error
}
