package cache

import (
	"container/list"
	"sync"
	"time"
)

// VectorCache memoizes query embeddings so repeated variants of the same
// question do not re-embed.
type VectorCache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vec []float32, ttl time.Duration)
	Purge()
}

type entry struct {
	key     string
	vec     []float32
	expires time.Time
	element *list.Element
}

type lruVectorCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry
	order    *list.List
}

// NewLRU creates an LRU vector cache with capacity and default TTL.
func NewLRU(capacity int, ttl time.Duration) VectorCache {
	if capacity <= 0 {
		capacity = 512
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &lruVectorCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		order:    list.New(),
	}
}

func (c *lruVectorCache) Get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		if ent.expires.IsZero() || time.Now().Before(ent.expires) {
			c.order.MoveToFront(ent.element)
			return ent.vec, true
		}
		c.removeEntry(ent)
	}
	return nil, false
}

func (c *lruVectorCache) Set(key string, vec []float32, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.vec = vec
		ent.expires = time.Now().Add(ttl)
		c.order.MoveToFront(ent.element)
		return
	}

	ent := &entry{key: key, vec: vec, expires: time.Now().Add(ttl)}
	ent.element = c.order.PushFront(ent)
	c.items[key] = ent

	for len(c.items) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeEntry(oldest.Value.(*entry))
	}
}

func (c *lruVectorCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry, c.capacity)
	c.order.Init()
}

func (c *lruVectorCache) removeEntry(ent *entry) {
	c.order.Remove(ent.element)
	delete(c.items, ent.key)
}
