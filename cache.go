package tokendi

import (
	"sync"
)

// cachedInstance pairs a singleton with the identity it was built for.
type cachedInstance struct {
	identity Identity
	instance any
}

// instanceCache holds the singletons of one container in construction
// order, plus one construction lock per identity.
type instanceCache struct {
	instances map[Identity]any
	order     []Identity
	locks     map[Identity]*sync.Mutex
	closed    bool
	mu        sync.RWMutex
}

// newInstanceCache creates a new instance cache
func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[Identity]any),
		locks:     make(map[Identity]*sync.Mutex),
	}
}

// get retrieves an instance from the cache
func (c *instanceCache) get(id Identity) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.instances[id]
	return instance, ok
}

// set stores an instance. The first value stored for an identity wins.
// It reports false once the cache has been drained.
func (c *instanceCache) set(id Identity, instance any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if _, exists := c.instances[id]; exists {
		return true
	}
	c.instances[id] = instance
	c.order = append(c.order, id)
	return true
}

// lock acquires the construction lock for id and returns its release.
func (c *instanceCache) lock(id Identity) func() {
	c.mu.Lock()
	m, ok := c.locks[id]
	if !ok {
		m = &sync.Mutex{}
		c.locks[id] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// len returns the number of cached instances.
func (c *instanceCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}

// drain empties the cache, refuses later sets and returns its instances
// in construction order.
func (c *instanceCache) drain() []cachedInstance {
	c.mu.Lock()
	defer c.mu.Unlock()

	drained := make([]cachedInstance, 0, len(c.order))
	for _, id := range c.order {
		drained = append(drained, cachedInstance{identity: id, instance: c.instances[id]})
	}

	c.instances = make(map[Identity]any)
	c.order = nil
	c.closed = true
	return drained
}
