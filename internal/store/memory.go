package store

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
)

// MemoryStore is an in-process Store used by unit tests and local
// development without a database. Semantics mirror PostgresStore.
type MemoryStore struct {
	mu      sync.RWMutex
	keyAttr string
	tables  map[string]map[string]Item
}

func NewMemoryStore(keyAttr string) *MemoryStore {
	return &MemoryStore{
		keyAttr: keyAttr,
		tables:  make(map[string]map[string]Item),
	}
}

// cloneItem deep-copies through JSON so callers never share maps with the
// store, matching the value semantics of a remote document store.
func cloneItem(item Item) Item {
	data, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	var clone Item
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return clone
}

func matches(item, filters Item) bool {
	for k, want := range filters {
		if !reflect.DeepEqual(item[k], want) {
			return false
		}
	}
	return true
}

func (s *MemoryStore) itemKey(item Item) (string, bool) {
	key, ok := item[s.keyAttr].(string)
	return key, ok && key != ""
}

func (s *MemoryStore) Scan(_ context.Context, table string, filters Item) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []Item
	for _, item := range s.tables[table] {
		if matches(item, filters) {
			items = append(items, cloneItem(item))
		}
	}
	return items, nil
}

func (s *MemoryStore) GetItem(_ context.Context, table, key string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.tables[table][key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneItem(item), nil
}

func (s *MemoryStore) PutItem(_ context.Context, table string, item Item) error {
	key, ok := s.itemKey(item)
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables[table] == nil {
		s.tables[table] = make(map[string]Item)
	}
	s.tables[table][key] = cloneItem(item)
	return nil
}

func (s *MemoryStore) PutItemIfAbsent(_ context.Context, table string, item Item) error {
	key, ok := s.itemKey(item)
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables[table] == nil {
		s.tables[table] = make(map[string]Item)
	}
	if _, exists := s.tables[table][key]; exists {
		return ErrConditionFailed
	}
	s.tables[table][key] = cloneItem(item)
	return nil
}

func (s *MemoryStore) UpdateItem(_ context.Context, table, key string, updates Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.tables[table][key]
	if !ok {
		return ErrNotFound
	}
	merged := cloneItem(item)
	for k, v := range cloneItem(updates) {
		merged[k] = v
	}
	s.tables[table][key] = merged
	return nil
}

func (s *MemoryStore) DeleteItem(_ context.Context, table, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tables[table], key)
	return nil
}
