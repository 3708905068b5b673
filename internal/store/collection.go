// Package store holds the client's in-memory view of the backend's entity
// collections. Each entity type gets one Collection: an ordered list of the
// last-known server truth plus loading and error flags for the presentation
// layer. Collections are memory-only; nothing here survives process exit.
package store

import "sync"

// Record is any entity with a server-assigned integer id.
type Record interface {
	GetID() int64
}

// Unscoped marks a collection's contents as not fetched for any particular
// company. ReplaceForScope always applies against an Unscoped collection.
const Unscoped int64 = 0

// Collection is the cached list of one entity type. All methods are safe
// for concurrent use. Mutations are atomic: no reader observes a partially
// applied write.
//
// The invariant throughout: at most one record per id. SetAll trusts the
// server to uphold it; Add enforces it by replacing on id collision.
type Collection[T Record] struct {
	mu       sync.RWMutex
	records  []T
	scope    int64
	loading  bool
	err      error
	selected int64
	hasSel   bool
}

// NewCollection returns an empty, unscoped collection.
func NewCollection[T Record]() *Collection[T] {
	return &Collection[T]{}
}

// SetAll replaces the entire collection with records, preserving their
// order. Anything not in records disappears from the local view. A current
// selection pointing at a record that is replaced away is dropped.
func (c *Collection[T]) SetAll(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setAllLocked(records)
}

// SetScope declares which company the collection's contents belong to.
// Callers switch scope before issuing a scoped fetch; any in-flight fetch
// for the previous scope will then be rejected by ReplaceForScope.
func (c *Collection[T]) SetScope(companyID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scope = companyID
}

// Scope returns the company id the collection is currently scoped to,
// or Unscoped.
func (c *Collection[T]) Scope() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scope
}

// ReplaceForScope applies SetAll(records) only if scope still matches the
// collection's current scope; a mismatched result is discarded and
// ErrStaleScope returned. Unscoped results always apply.
func (c *Collection[T]) ReplaceForScope(scope int64, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if scope != Unscoped && scope != c.scope {
		return ErrStaleScope
	}
	c.setAllLocked(records)
	return nil
}

// Add appends one record, typically the canonical representation returned
// by a create. If a record with the same id already exists it is replaced
// in place (last wins) so the one-record-per-id invariant holds even
// against a misbehaving caller.
func (c *Collection[T]) Add(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].GetID() == record.GetID() {
			c.records[i] = record
			return
		}
	}
	c.records = append(c.records, record)
}

// Update replaces the record whose id matches. Returns ErrNoSuchRecord,
// leaving the collection unchanged, when no record matches.
func (c *Collection[T]) Update(record T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].GetID() == record.GetID() {
			c.records[i] = record
			return nil
		}
	}
	return ErrNoSuchRecord
}

// Remove deletes the record with this id. Returns ErrNoSuchRecord, leaving
// the collection unchanged, when no record matches. A selection pointing at
// the removed record is dropped.
func (c *Collection[T]) Remove(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].GetID() == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			if c.hasSel && c.selected == id {
				c.hasSel = false
			}
			return nil
		}
	}
	return ErrNoSuchRecord
}

// All returns a copy of the collection in its stored order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Get returns the record with this id by linear lookup.
func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.records {
		if c.records[i].GetID() == id {
			return c.records[i], true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of cached records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// SetLoading sets the loading flag consulted by the presentation layer.
func (c *Collection[T]) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// Loading reports whether a fetch for this collection is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// SetError records the last fetch error; nil clears it.
func (c *Collection[T]) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Err returns the last recorded fetch error, if any.
func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Select points the collection's selected-record pointer at id. Returns
// ErrNoSuchRecord if the id is not present.
func (c *Collection[T]) Select(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].GetID() == id {
			c.selected = id
			c.hasSel = true
			return nil
		}
	}
	return ErrNoSuchRecord
}

// Selected returns the currently selected record, if any.
func (c *Collection[T]) Selected() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	if !c.hasSel {
		return zero, false
	}
	for i := range c.records {
		if c.records[i].GetID() == c.selected {
			return c.records[i], true
		}
	}
	return zero, false
}

// ClearSelection drops the selected-record pointer.
func (c *Collection[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasSel = false
}

// Clear empties the collection entirely: records, scope, selection, flags.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.scope = Unscoped
	c.loading = false
	c.err = nil
	c.hasSel = false
}

func (c *Collection[T]) setAllLocked(records []T) {
	c.records = make([]T, len(records))
	copy(c.records, records)
	if c.hasSel {
		found := false
		for i := range c.records {
			if c.records[i].GetID() == c.selected {
				found = true
				break
			}
		}
		if !found {
			c.hasSel = false
		}
	}
}
