package gocas

import (
	"container/list"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// ============================================================
// Simplification cache
// ============================================================

// simplifyCache is a bounded LRU from input trees to their simplified form.
// Buckets are keyed by structural hash and confirmed with Equal, so a hash
// collision costs a miss and never a wrong answer. Concurrent misses on the
// same tree share one computation.
type simplifyCache struct {
	mu      sync.Mutex
	cap     int
	order   *list.List
	buckets map[uint64][]*list.Element
	group   singleflight.Group
}

type cacheEntry struct {
	in, out Expr
}

func newSimplifyCache(capacity int) *simplifyCache {
	return &simplifyCache{
		cap:     capacity,
		order:   list.New(),
		buckets: make(map[uint64][]*list.Element),
	}
}

func (c *simplifyCache) get(e Expr) (Expr, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, el := range c.buckets[e.Hash()] {
		ent := el.Value.(*cacheEntry)
		if ent.in.Equal(e) {
			c.order.MoveToFront(el)
			return ent.out, true
		}
	}
	return nil, false
}

func (c *simplifyCache) put(in, out Expr) {
	if c.cap <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	h := in.Hash()
	for _, el := range c.buckets[h] {
		if el.Value.(*cacheEntry).in.Equal(in) {
			c.order.MoveToFront(el)
			return
		}
	}
	c.buckets[h] = append(c.buckets[h], c.order.PushFront(&cacheEntry{in: in, out: out}))
	for c.order.Len() > c.cap {
		c.evict(c.order.Back())
	}
}

func (c *simplifyCache) evict(el *list.Element) {
	ent := c.order.Remove(el).(*cacheEntry)
	h := ent.in.Hash()
	bucket := c.buckets[h]
	for i, b := range bucket {
		if b == el {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(c.buckets, h)
	} else {
		c.buckets[h] = bucket
	}
	cacheEvictions.Inc()
}

func (c *simplifyCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// do returns the cached result for e or computes it with f. A shared
// in-flight result is used only when its input is Equal to e.
func (c *simplifyCache) do(e Expr, f func(Expr) Expr) Expr {
	if out, ok := c.get(e); ok {
		cacheLookups.WithLabelValues("memory", "hit").Inc()
		return out
	}
	cacheLookups.WithLabelValues("memory", "miss").Inc()
	key := strconv.FormatUint(e.Hash(), 16)
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		out := f(e)
		c.put(e, out)
		return &cacheEntry{in: e, out: out}, nil
	})
	if ent := v.(*cacheEntry); ent.in.Equal(e) {
		return ent.out
	}
	out := f(e)
	c.put(e, out)
	return out
}

var memo atomic.Pointer[simplifyCache]

// activeCache returns the installed cache, or nil when caching is off.
func activeCache() *simplifyCache {
	if c := memo.Load(); c != nil {
		return c
	}
	cfg := currentConfig().Simplify
	if !cfg.CacheEnabled {
		return nil
	}
	fresh := newSimplifyCache(cfg.CacheSize)
	if memo.CompareAndSwap(nil, fresh) {
		return fresh
	}
	return memo.Load()
}

func resetCache(cfg SimplifyConfig) {
	if !cfg.CacheEnabled {
		memo.Store(nil)
		return
	}
	memo.Store(newSimplifyCache(cfg.CacheSize))
}

// ClearCache empties the in-memory simplification cache.
func ClearCache() {
	resetCache(currentConfig().Simplify)
}

// CacheLen reports the number of cached simplifications.
func CacheLen() int {
	if c := activeCache(); c != nil {
		return c.len()
	}
	return 0
}
