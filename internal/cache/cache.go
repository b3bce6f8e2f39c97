// Package cache provides a time-boxed read-through cache over the booking store.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dhillsview/frontdesk/internal/booking"
)

// DefaultTTL is how long a read stays fresh.
const DefaultTTL = 30 * time.Second

type entry struct {
	value   any
	expires time.Time
}

// Cache wraps a booking.Reader. Concurrent misses for the same key share one
// store read. Values returned from ListBookings are shared and must be treated
// as read-only.
type Cache struct {
	reader booking.Reader
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	gen     uint64

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache in front of reader. A non-positive ttl uses DefaultTTL.
func New(reader booking.Reader, ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		reader:  reader,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate drops every cached value. Reads already in flight do not
// repopulate the cache.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.gen++
	c.mu.Unlock()
}

// ListBookings returns the cached listing for opts, reading through on a miss.
func (c *Cache) ListBookings(ctx context.Context, opts booking.ListOptions) ([]*booking.Booking, error) {
	key := fmt.Sprintf("bookings:%t:%s", opts.ActiveOnly, opts.Status)
	v, err := c.get(ctx, key, func(ctx context.Context) (any, error) {
		return c.reader.ListBookings(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*booking.Booking), nil
}

// GetSettings returns a copy of the cached settings, reading through on a miss.
func (c *Cache) GetSettings(ctx context.Context) (*booking.Settings, error) {
	v, err := c.get(ctx, "settings", func(ctx context.Context) (any, error) {
		return c.reader.GetSettings(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*booking.Settings).Clone(), nil
}

func (c *Cache) get(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
		c.mu.Unlock()
		return e.value, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do(fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = entry{value: v, expires: c.now().Add(c.ttl)}
		}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}
