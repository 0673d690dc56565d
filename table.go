package tokendi

import (
	"sync"
)

// table maps identities to registrations. It keeps insertion order so
// that tag queries are stable, and it is frozen once a container is
// built from it.
type table struct {
	entries map[Identity]Registration
	order   []Identity
	frozen  bool
	mu      sync.RWMutex
}

func newTable() *table {
	return &table{
		entries: make(map[Identity]Registration),
	}
}

// set stores reg under id, replacing any previous registration.
// A replaced identity keeps its original position.
func (t *table) set(id Identity, reg Registration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		return ErrImmutableTable
	}

	if _, exists := t.entries[id]; !exists {
		t.order = append(t.order, id)
	}
	t.entries[id] = reg
	return nil
}

func (t *table) freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

func (t *table) isFrozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

func (t *table) get(id Identity) (Registration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	reg, ok := t.entries[id]
	return reg, ok
}

func (t *table) has(id Identity) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[id]
	return ok
}

func (t *table) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// identities returns all identities in insertion order.
func (t *table) identities() []Identity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]Identity, len(t.order))
	copy(ids, t.order)
	return ids
}

// tagged returns the identities whose registration carries tag, in
// insertion order.
func (t *table) tagged(tag string) []Identity {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var ids []Identity
	for _, id := range t.order {
		if t.entries[id].HasTag(tag) {
			ids = append(ids, id)
		}
	}
	return ids
}
