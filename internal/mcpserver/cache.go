package mcpserver

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type lruItem[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

func (it *lruItem[V]) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// lruCache is a size-bounded, TTL-aware cache. The most recently used
// entry sits at the front of order.
type lruCache[V any] struct {
	mu       sync.Mutex
	maxSize  int
	order    *list.List
	index    map[string]*list.Element
	sweeping atomic.Bool
}

func newLRUCache[V any](maxSize int) *lruCache[V] {
	return &lruCache[V]{
		maxSize: maxSize,
		order:   list.New(),
		index:   make(map[string]*list.Element),
	}
}

// get returns the cached value and whether it was present and live.
func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.index[key]
	if !ok {
		return zero, false
	}
	it := el.Value.(*lruItem[V])
	if it.expired(time.Now()) {
		c.removeLocked(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return it.value, true
}

// put stores value for ttl, evicting the least recently used entry when full.
func (c *lruCache[V]) put(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it := &lruItem[V]{key: key, value: value, expiresAt: time.Now().Add(ttl)}
	if el, ok := c.index[key]; ok {
		el.Value = it
		c.order.MoveToFront(el)
		return
	}
	if c.maxSize > 0 && c.order.Len() >= c.maxSize {
		if back := c.order.Back(); back != nil {
			c.removeLocked(back)
		}
	}
	c.index[key] = c.order.PushFront(it)
}

func (c *lruCache[V]) removeLocked(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*lruItem[V]).key)
}

// sweep drops every expired entry.
func (c *lruCache[V]) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*lruItem[V]).expired(now) {
			c.removeLocked(el)
		}
		el = next
	}
}

// startSweeper runs sweep every interval until ctx is done. Only one
// sweeper runs at a time.
func (c *lruCache[V]) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeping.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeping.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *lruCache[V]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.index)
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
