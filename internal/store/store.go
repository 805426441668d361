// Package store is the swappable data layer. Memory keeps records in process
// and is safe for concurrent use; a database-backed Repository can replace it.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Repository is the CRUD contract the domain services depend on.
type Repository[T any] interface {
	Create(v T) (T, error)
	Get(id string) (T, error)
	List(filter func(T) bool) []T
	Update(id string, fn func(*T) error) (T, error)
	Delete(id string) error
	DeleteWhere(pred func(T) bool) int
	Len() int
}

// IDFunc returns a pointer to the record's ID field.
type IDFunc[T any] func(*T) *string

// Memory is an in-memory Repository preserving insertion order.
type Memory[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	id    IDFunc[T]
}

// NewMemory returns an empty store using id to read and assign record IDs.
func NewMemory[T any](id IDFunc[T]) *Memory[T] {
	return &Memory[T]{items: make(map[string]T), id: id}
}

// Create stores v. An empty ID is replaced by a new UUID.
func (m *Memory[T]) Create(v T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.id(&v)
	if *key == "" {
		*key = uuid.NewString()
	}
	if _, ok := m.items[*key]; ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrDuplicate, *key)
	}
	m.items[*key] = v
	m.order = append(m.order, *key)
	return v, nil
}

// Get returns the record with the given ID.
func (m *Memory[T]) Get(id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, nil
}

// List returns matching records in insertion order. A nil filter matches all.
func (m *Memory[T]) List(filter func(T) bool) []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.order))
	for _, k := range m.order {
		v := m.items[k]
		if filter == nil || filter(v) {
			out = append(out, v)
		}
	}
	return out
}

// Update applies fn to a copy of the record and stores the result unless fn fails.
// The record keeps its ID whatever fn does.
func (m *Memory[T]) Update(id string, fn func(*T) error) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	v, ok := m.items[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := fn(&v); err != nil {
		return zero, err
	}
	*m.id(&v) = id
	m.items[id] = v
	return v, nil
}

// Delete removes a record.
func (m *Memory[T]) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.items, id)
	m.order = remove(m.order, id)
	return nil
}

// DeleteWhere removes every matching record and returns how many were removed.
func (m *Memory[T]) DeleteWhere(pred func(T) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.order[:0]
	n := 0
	for _, k := range m.order {
		if pred(m.items[k]) {
			delete(m.items, k)
			n++
			continue
		}
		kept = append(kept, k)
	}
	m.order = kept
	return n
}

// Len returns the number of records.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func remove(keys []string, id string) []string {
	for i, k := range keys {
		if k == id {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}

var _ Repository[struct{ ID string }] = (*Memory[struct{ ID string }])(nil)
