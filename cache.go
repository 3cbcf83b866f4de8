package loom

import (
	"sync"
)

// instanceKey identifies one cache slot: a service key plus chain index.
type instanceKey struct {
	key   string
	index int
}

// instanceRecord tracks one built instance for caching, startup, and
// disposal. Only non-transient records occupy a cache slot; the record list
// holds every instance with a lifecycle capability, transients included.
type instanceRecord struct {
	key      string
	index    int
	instance any
	start    *startState
}

// instanceCache provides thread-safe instance tracking for one container.
type instanceCache struct {
	instances map[instanceKey]*instanceRecord
	records   []*instanceRecord
	mu        sync.RWMutex
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[instanceKey]*instanceRecord),
	}
}

// get retrieves a cached record for a (key, index) slot.
func (c *instanceCache) get(key instanceKey) (*instanceRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.instances[key]
	return record, ok
}

// add tracks a freshly built record. Cached records fill their slot; records
// whose instance exposes a lifecycle capability join the startup/disposal
// walk — keyed by instance, not by cache slot, so disposable transients are
// tracked too.
func (c *instanceCache) add(record *instanceRecord, cache bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hasLifecycleCapability(record.instance) {
		c.records = append(c.records, record)
	}
	if cache {
		c.instances[instanceKey{key: record.key, index: record.index}] = record
	}
}

func hasLifecycleCapability(instance any) bool {
	switch instance.(type) {
	case Disposable, DisposableWithContext, Startable, StartableWithContext:
		return true
	}
	return false
}

// drain returns every record ever tracked and clears all state. The caches
// are gone regardless of what the caller does with the records.
func (c *instanceCache) drain() []*instanceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.records
	c.records = nil
	c.instances = make(map[instanceKey]*instanceRecord)
	return records
}

// all returns a snapshot of every tracked record.
func (c *instanceCache) all() []*instanceRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := make([]*instanceRecord, len(c.records))
	copy(records, c.records)
	return records
}
