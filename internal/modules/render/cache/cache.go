package cache

import (
	"fmt"
	"image"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"bookshelf/internal/modules/render/domain"
	"bookshelf/internal/platform/logging"
)

// Bitmap is a fully rendered page image owned by the cache. Consumers get it
// as a borrowed read-only view for the duration of one frame; the cache may
// evict it on the next insert, after which the buffer lives only as long as
// outstanding borrows keep it reachable.
type Bitmap struct {
	Key domain.CacheKey
	Img *image.RGBA
}

// PageCache is a bounded LRU of rendered page bitmaps. It guarantees at most
// one producer invocation per key even under concurrent requests: a second
// request for an in-flight key waits for the first instead of rasterizing
// twice. A key maps either to nothing or to a complete bitmap, never to a
// partial one.
type PageCache struct {
	mu      sync.Mutex
	entries *lru.Cache[domain.CacheKey, *Bitmap]
	group   singleflight.Group
}

// New creates a PageCache bounded to capacity entries; the least recently
// used entry is evicted when the bound is hit. Eviction only drops the
// cache's reference: a consumer still borrowing the bitmap keeps its pixels
// intact until the borrow ends.
func New(capacity int) (*PageCache, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	entries, err := lru.NewWithEvict(capacity, func(key domain.CacheKey, _ *Bitmap) {
		logging.Debug("page cache evict", "page", key.Request.PageIndex, "width", key.Request.WidthPx)
	})
	if err != nil {
		return nil, fmt.Errorf("new lru: %w", err)
	}
	return &PageCache{entries: entries}, nil
}

// Producer renders the bitmap for a key on a miss.
type Producer func() (*image.RGBA, error)

// GetOrRender returns the cached bitmap for key, invoking produce exactly
// once per key on a miss regardless of how many callers race. A failed
// producer caches nothing; the error is returned to every waiting caller.
func (c *PageCache) GetOrRender(key domain.CacheKey, produce Producer) (*Bitmap, error) {
	c.mu.Lock()
	if bmp, ok := c.entries.Get(key); ok {
		c.mu.Unlock()
		return bmp, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(flightKey(key), func() (interface{}, error) {
		// Re-check under the flight: a previous flight for this key may
		// have landed between our miss and Do.
		c.mu.Lock()
		if bmp, ok := c.entries.Get(key); ok {
			c.mu.Unlock()
			return bmp, nil
		}
		c.mu.Unlock()

		img, err := produce()
		if err != nil {
			return nil, err
		}
		bmp := &Bitmap{Key: key, Img: img}
		c.mu.Lock()
		c.entries.Add(key, bmp)
		c.mu.Unlock()
		return bmp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Bitmap), nil
}

// Peek reports whether a complete bitmap exists for key without touching
// recency.
func (c *PageCache) Peek(key domain.CacheKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries.Peek(key)
	return ok
}

// Len returns the number of cached bitmaps.
func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Purge drops every entry. Used when the document generation changes.
func (c *PageCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

func flightKey(key domain.CacheKey) string {
	r := key.Request
	return fmt.Sprintf("%d/%d/%dx%d/%d", key.Generation, r.PageIndex, r.WidthPx, r.HeightPx, r.Mode)
}
