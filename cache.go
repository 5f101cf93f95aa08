package godi

import (
	"sync"
)

// instanceCache holds the instances a scope created, by registration id
type instanceCache struct {
	slots map[int]*slot
	mu    sync.Mutex
}

// slot holds the cached instance of one registration. Its mutex serializes
// creation so a scope never builds the same instance twice.
type slot struct {
	mu       sync.Mutex
	created  bool
	instance any
}

// newInstanceCache creates a new instance cache
func newInstanceCache() *instanceCache {
	return &instanceCache{
		slots: make(map[int]*slot),
	}
}

// slot returns the slot of a registration, creating it if needed. It returns
// false once the cache has been cleared.
func (c *instanceCache) slot(id int) (*slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.slots == nil {
		return nil, false
	}

	sl, ok := c.slots[id]
	if !ok {
		sl = &slot{}
		c.slots[id] = sl
	}

	return sl, true
}

// len returns the number of created instances
func (c *instanceCache) len() int {
	c.mu.Lock()
	slots := make([]*slot, 0, len(c.slots))
	for _, sl := range c.slots {
		slots = append(slots, sl)
	}
	c.mu.Unlock()

	n := 0
	for _, sl := range slots {
		sl.mu.Lock()
		if sl.created {
			n++
		}
		sl.mu.Unlock()
	}
	return n
}

// clear drops every instance; later lookups fail
func (c *instanceCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = nil
}
