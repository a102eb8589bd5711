// ABOUTME: Reference-counted keyed cache with TTL expiry and single-flight builds
// ABOUTME: Entries are built lazily and destroyed via callback once unreferenced

package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by GetAndRef after Close.
var ErrClosed = errors.New("cache closed")

// BuildFunc constructs the value for a key. At most one build per key runs
// at a time; concurrent callers for that key share its outcome.
type BuildFunc func(ctx context.Context, key string) (any, error)

// DestroyFunc releases a value once it has been evicted and the last
// reference has been dropped, or when the cache is closed.
type DestroyFunc func(value any)

// Cache is a keyed cache with lazy construction, TTL-bounded reuse and
// reference-counted teardown. Expiry is checked at access time rather than
// swept: the access that observes a stale entry evicts it and triggers a
// fresh build, while the stale value survives until its readers release it.
type Cache struct {
	build   BuildFunc
	destroy DestroyFunc
	ttl     time.Duration

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

type entry struct {
	value     any
	created   time.Time
	refs      int
	evicted   bool // removed from entries; destroy once refs hits zero
	destroyed bool
}

// New creates a cache. Values older than ttl are not served again; a ttl of
// zero disables expiry.
func New(ttl time.Duration, build BuildFunc, destroy DestroyFunc) *Cache {
	return &Cache{
		build:   build,
		destroy: destroy,
		ttl:     ttl,
		entries: make(map[string]*entry),
	}
}

// Ref is a live reference to a cached value. Callers must Release it when
// done and must not retain the value past the Release.
type Ref struct {
	cache *Cache
	entry *entry
	once  sync.Once
}

// Value returns the referenced value.
func (r *Ref) Value() any { return r.entry.value }

// Release drops the reference. Release is idempotent.
func (r *Ref) Release() {
	r.once.Do(func() {
		r.cache.mu.Lock()
		r.entry.refs--
		dead := r.entry.evicted && r.entry.refs == 0 && !r.entry.destroyed
		if dead {
			r.entry.destroyed = true
		}
		r.cache.mu.Unlock()

		if dead {
			r.cache.destroy(r.entry.value)
		}
	})
}

// GetAndRef returns a referenced value for key, building one if no live
// value exists. Concurrent callers for an absent key wait on the single
// in-flight build and observe the same success or failure. A caller whose
// ctx is canceled while waiting unblocks with ctx.Err(); the build itself
// and the other waiters are unaffected. Failed builds install nothing, so
// the next access retries.
func (c *Cache) GetAndRef(ctx context.Context, key string) (*Ref, error) {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return nil, ErrClosed
		}

		if e, ok := c.entries[key]; ok {
			if c.ttl == 0 || time.Since(e.created) < c.ttl {
				e.refs++
				c.mu.Unlock()
				return &Ref{cache: c, entry: e}, nil
			}

			// Stale: evict now so nobody else is served this value, then
			// fall through to a fresh build. The value is destroyed here
			// only if no reader still holds it.
			delete(c.entries, key)
			e.evicted = true
			dead := e.refs == 0 && !e.destroyed
			if dead {
				e.destroyed = true
			}
			c.mu.Unlock()
			if dead {
				c.destroy(e.value)
			}
		} else {
			c.mu.Unlock()
		}

		ch := c.group.DoChan(key, func() (any, error) {
			// The build runs detached from any single waiter's ctx so one
			// canceled request cannot fail the flight for the others.
			v, err := c.build(context.WithoutCancel(ctx), key)
			if err != nil {
				return nil, err
			}

			e, err := c.install(key, v)
			if err != nil {
				return nil, err
			}
			return e, nil
		})

		select {
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}

			e := res.Val.(*entry)
			c.mu.Lock()
			if e.evicted {
				// Expired between install and ref; go around again.
				c.mu.Unlock()
				continue
			}
			e.refs++
			c.mu.Unlock()
			return &Ref{cache: c, entry: e}, nil

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// install publishes a freshly built value under key. A caller can reach its
// flight after another flight already installed an entry for the same key
// (its map miss predates that install), so any entry found here is displaced
// exactly like the stale-evict path: marked evicted, destroyed once
// unreferenced. Without that, the displaced entry would leave the map with
// evicted unset and neither Release nor Close would ever destroy it.
func (c *Cache) install(key string, v any) (*entry, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.destroy(v)
		return nil, ErrClosed
	}

	e := &entry{value: v, created: time.Now()}
	old, displaced := c.entries[key]
	c.entries[key] = e

	var dead bool
	if displaced {
		old.evicted = true
		dead = old.refs == 0 && !old.destroyed
		if dead {
			old.destroyed = true
		}
	}
	c.mu.Unlock()

	if dead {
		c.destroy(old.value)
	}
	return e, nil
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close destroys every cached value and marks the cache closed. Entries are
// destroyed even if references remain: at process shutdown no secret
// material may outlive the cache.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true

	doomed := make([]*entry, 0, len(c.entries))
	for k, e := range c.entries {
		delete(c.entries, k)
		e.evicted = true
		if !e.destroyed {
			e.destroyed = true
			doomed = append(doomed, e)
		}
	}
	c.mu.Unlock()

	for _, e := range doomed {
		c.destroy(e.value)
	}
}
