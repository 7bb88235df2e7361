// Package cache holds the in-memory entity lists mirrored from the backend.
//
// Each list is a full snapshot replaced wholesale on fetch. The list enforces
// nothing beyond "is an ordered sequence": identifier uniqueness is the
// caller's concern, matching the backend's own contract.
package cache

import "sync"

// List is an ordered snapshot of one entity kind. The id function extracts
// the record's numeric identifier for the replace/remove mutators.
type List[T any] struct {
	mu    sync.RWMutex
	id    func(T) int64
	items []T
}

// NewList creates an empty list keyed by the given identifier function.
func NewList[T any](id func(T) int64) *List[T] {
	return &List[T]{id: id}
}

// Items returns a copy of the current snapshot.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of cached records.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Replace swaps the whole snapshot for the fetched one.
func (l *List[T]) Replace(items []T) {
	next := make([]T, len(items))
	copy(next, items)
	l.mu.Lock()
	l.items = next
	l.mu.Unlock()
}

// Append adds a server-confirmed record after a create.
func (l *List[T]) Append(item T) {
	l.mu.Lock()
	l.items = append(l.items, item)
	l.mu.Unlock()
}

// Update replaces the record with the same identifier, reporting whether a
// match was found.
func (l *List[T]) Update(item T) bool {
	id := l.id(item)
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items[i] = item
			return true
		}
	}
	return false
}

// Remove drops the record with the given identifier, reporting whether a
// match was found.
func (l *List[T]) Remove(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the snapshot.
func (l *List[T]) Clear() {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()
}
