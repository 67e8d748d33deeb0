package hashjoin

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/heavyql/qkernel/sql/plan"
	"github.com/mitchellh/hashstructure"
)

// CacheKey identifies a build result for the recycler: the DAG hash of the
// join node plus the inner column, join kind, and chunk keys it was built
// over, with a fallback "alternative key" for callers that don't have a DAG
// node at hand.
type CacheKey struct {
	DAGHash   uint64
	InnerCol  int
	Kind      plan.JoinKind
	ChunkKeys string
	AltKey    string
}

// NewCacheKey computes a CacheKey from a join node's structural hash
// (mitchellh/hashstructure over describeForHash's shape of the node) plus
// the build parameters named.
func NewCacheKey(node plan.Node, innerCol int, kind plan.JoinKind, chunkKeys string) (CacheKey, error) {
	h, err := hashstructure.Hash(describeForHash(node), nil)
	if err != nil {
		return CacheKey{}, err
	}
	return CacheKey{DAGHash: h, InnerCol: innerCol, Kind: kind, ChunkKeys: chunkKeys}, nil
}

// NewAlternativeCacheKey builds a cache key for a build that isn't driven
// by a plan.Node.
func NewAlternativeCacheKey(altKey string, innerCol int, kind plan.JoinKind, chunkKeys string) CacheKey {
	return CacheKey{AltKey: altKey, InnerCol: innerCol, Kind: kind, ChunkKeys: chunkKeys}
}

func (k CacheKey) String() string {
	if k.AltKey != "" {
		return fmt.Sprintf("alt(%s)/%d/%s/%s", k.AltKey, k.InnerCol, k.Kind, k.ChunkKeys)
	}
	return fmt.Sprintf("dag(%x)/%d/%s/%s", k.DAGHash, k.InnerCol, k.Kind, k.ChunkKeys)
}

// describeForHash reduces a plan.Node to a hashstructure-friendly shape:
// its own string rendering plus its children's, recursively. Node isn't
// hashed by pointer (hashstructure would happily walk an interface's
// underlying struct, but two structurally identical DAGs built from
// different JSON parses must still collide to hit the cache).
func describeForHash(n plan.Node) any {
	children := make([]any, len(n.Children()))
	for i, c := range n.Children() {
		children[i] = describeForHash(c)
	}
	return struct {
		Shape    string
		Children []any
	}{Shape: n.String(), Children: children}
}

// Cache is the process-wide recycler for completed hash-join build
// tables: entries keyed by CacheKey, evicted LRU once the resident byte
// budget is exceeded. Grounded on a map-plus-mutex cache keyed by a
// composite key, extended with a container/list LRU ring and
// byte-budget eviction since build tables can't be cached unboundedly.
type Cache struct {
	mu     sync.Mutex
	budget int64
	used   int64
	items  map[CacheKey]*list.Element
	order  *list.List // front = most recently used
}

type cacheEntry struct {
	key   CacheKey
	table *HashTable
}

// NewCache builds a recycler with the given resident-byte budget
// (sql.CompilationOptions.HashTableCacheBudgetBytes).
func NewCache(budgetBytes int64) *Cache {
	return &Cache{
		budget: budgetBytes,
		items:  make(map[CacheKey]*list.Element),
		order:  list.New(),
	}
}

// Get returns the cached table for key, promoting it to most-recently-used.
func (c *Cache) Get(key CacheKey) (*HashTable, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).table, true
}

// Put inserts table under key, evicting least-recently-used entries until
// the budget is satisfied. A single table larger than the whole budget is
// still stored, since the cache's job is only to bound steady-state
// residency, not to reject oversized entries; eviction simply can't make
// room below it.
func (c *Cache) Put(key CacheKey, table *HashTable) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.used -= el.Value.(*cacheEntry).table.Bytes()
		c.order.Remove(el)
		delete(c.items, key)
	}

	el := c.order.PushFront(&cacheEntry{key: key, table: table})
	c.items[key] = el
	c.used += table.Bytes()

	for c.used > c.budget && c.order.Len() > 1 {
		back := c.order.Back()
		entry := back.Value.(*cacheEntry)
		c.order.Remove(back)
		delete(c.items, entry.key)
		c.used -= entry.table.Bytes()
	}
}

// Evict drops key explicitly, used when a caller knows a cached table's
// backing data changed underneath it.
func (c *Cache) Evict(key CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return
	}
	c.order.Remove(el)
	delete(c.items, key)
	c.used -= el.Value.(*cacheEntry).table.Bytes()
}

// UsedBytes reports current resident bytes, for tests and monitoring.
func (c *Cache) UsedBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}
