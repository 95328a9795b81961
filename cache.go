package thinkme

import (
	"sync"
	"time"

	"github.com/namravamja/thinkme/views"
)

// BlogCache is an in-memory cache of the full blog collection with TTL.
// List and detail pages read through it; write handlers call Invalidate.
type BlogCache struct {
	mu      sync.RWMutex
	blogs   []views.Blog
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewBlogCache creates a BlogCache backed by the given Store.
func NewBlogCache(s *Store, ttl time.Duration) *BlogCache {
	return &BlogCache{store: s, ttl: ttl}
}

func (c *BlogCache) valid() bool {
	return c.blogs != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *BlogCache) Invalidate() {
	c.mu.Lock()
	c.blogs = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached collection, reloading it when stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *BlogCache) ensureLoaded() ([]views.Blog, error) {
	c.mu.RLock()
	if c.valid() {
		blogs := c.blogs
		c.mu.RUnlock()
		return blogs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.blogs, nil
	}
	blogs, err := c.store.ListBlogs()
	if err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []views.Blog{}
	}
	c.blogs = blogs
	c.fetched = time.Now()
	return c.blogs, nil
}

// ListBlogs returns the full collection, newest id first.
func (c *BlogCache) ListBlogs() ([]views.Blog, error) {
	return c.ensureLoaded()
}

// GetBlog returns a single blog by id from the cache.
func (c *BlogCache) GetBlog(id int) (views.Blog, error) {
	blogs, err := c.ensureLoaded()
	if err != nil {
		return views.Blog{}, err
	}
	for _, b := range blogs {
		if b.ID == id {
			return b, nil
		}
	}
	return views.Blog{}, ErrNotFound
}
