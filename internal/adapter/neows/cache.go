package neows

import (
	"container/list"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/snapshot"
	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
)

// SnapshotStore persists the last good result per date range.
type SnapshotStore interface {
	Put(ctx context.Context, snap snapshot.Snapshot) error
	Get(ctx context.Context, key string) (snapshot.Snapshot, error)
}

// CacheConfig controls a CachedFeed.
type CacheConfig struct {
	Size  int
	TTL   time.Duration
	Store SnapshotStore   // optional
	Clock clockwork.Clock // defaults to the real clock
}

// CachedFeed wraps a NEOFeed with an in-memory LRU cache whose entries expire
// after a TTL. Concurrent misses for the same range share one upstream call.
type CachedFeed struct {
	inner   domain.NEOFeed
	ttl     time.Duration
	store   SnapshotStore
	clock   clockwork.Clock
	cache   *lruCache
	group   singleflight.Group
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedFeed creates a cache decorator around a feed.
func NewCachedFeed(inner domain.NEOFeed, cfg CacheConfig, metrics *observability.Metrics, logger *slog.Logger) *CachedFeed {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	size := cfg.Size
	if size <= 0 {
		size = 1
	}
	return &CachedFeed{
		inner:   inner,
		ttl:     cfg.TTL,
		store:   cfg.Store,
		clock:   clock,
		cache:   newLRUCache(size),
		metrics: metrics,
		logger:  logger,
	}
}

// Asteroids returns the cached list for the range, fetching on miss or expiry.
func (c *CachedFeed) Asteroids(ctx context.Context, start, end time.Time) ([]domain.Asteroid, error) {
	key := rangeKey(start, end)
	if e, ok := c.cache.get(key); ok && c.clock.Now().Before(e.expires) {
		c.metrics.FeedCache.WithLabelValues("hit").Inc()
		return slices.Clone(e.asteroids), nil
	}
	c.metrics.FeedCache.WithLabelValues("miss").Inc()
	return c.load(ctx, key, start, end)
}

// Refresh fetches the range from upstream regardless of cache state.
func (c *CachedFeed) Refresh(ctx context.Context, start, end time.Time) ([]domain.Asteroid, error) {
	return c.load(ctx, rangeKey(start, end), start, end)
}

// Invalidate drops every cached range. Snapshots are kept.
func (c *CachedFeed) Invalidate() {
	c.cache.clear()
}

// FindAsteroid resolves id against the cached feed for day.
func (c *CachedFeed) FindAsteroid(ctx context.Context, day time.Time, id string) (domain.Asteroid, error) {
	return domain.FindAsteroid(ctx, c, day, id)
}

func (c *CachedFeed) load(ctx context.Context, key string, start, end time.Time) ([]domain.Asteroid, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, key, start, end)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]domain.Asteroid)), nil
}

func (c *CachedFeed) fetch(ctx context.Context, key string, start, end time.Time) ([]domain.Asteroid, error) {
	asteroids, err := c.inner.Asteroids(ctx, start, end)
	if err != nil {
		if stale, ok := c.stale(ctx, key); ok {
			c.logger.Warn("neo feed unavailable, serving snapshot", "range", key, "error", err)
			c.metrics.FeedCache.WithLabelValues("stale").Inc()
			return stale, nil
		}
		return nil, err
	}

	now := c.clock.Now()
	c.cache.put(key, cacheEntry{asteroids: asteroids, expires: now.Add(c.ttl)})

	if c.store != nil {
		snap := snapshot.Snapshot{Key: key, FetchedAt: now.UTC(), Asteroids: asteroids}
		if err := c.store.Put(ctx, snap); err != nil {
			c.logger.Warn("snapshot write failed", "range", key, "error", err)
		}
	}
	return asteroids, nil
}

func (c *CachedFeed) stale(ctx context.Context, key string) ([]domain.Asteroid, bool) {
	if c.store == nil {
		return nil, false
	}
	snap, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			c.logger.Warn("snapshot read failed", "range", key, "error", err)
		}
		return nil, false
	}
	return snap.Asteroids, true
}

func rangeKey(start, end time.Time) string {
	return start.Format(domain.FeedDateLayout) + ".." + end.Format(domain.FeedDateLayout)
}

type cacheEntry struct {
	asteroids []domain.Asteroid
	expires   time.Time
}

// lruCache holds at most maxEntries ranges, evicting the least recently used.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type lruItem struct {
	key   string
	value cacheEntry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return cacheEntry{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruItem).value, true
}

func (c *lruCache) put(key string, value cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*lruItem).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&lruItem{key: key, value: value})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*lruItem).key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *lruCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}
