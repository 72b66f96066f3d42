package catalog

import (
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cached wraps a Catalog with a TTL cache so a busy service does not
// hit the backing catalog for every line item on every order.
type Cached struct {
	inner Catalog
	cache *gocache.Cache
}

// NewCached wraps inner with a cache of the given TTL. Negative lookups
// (ErrNotFound) are not cached so a newly added dish shows up right away.
func NewCached(inner Catalog, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *Cached) PriceOf(dishRef string) (Price, error) {
	if v, ok := c.cache.Get(dishRef); ok {
		return v.(Price), nil
	}
	p, err := c.inner.PriceOf(dishRef)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			// Availability flips are operational events. Drop any stale
			// positive entry so the next enable is picked up.
			c.cache.Delete(dishRef)
		}
		return Price{}, err
	}
	c.cache.Set(dishRef, p, gocache.DefaultExpiration)
	return p, nil
}

// Invalidate drops a single cached entry.
func (c *Cached) Invalidate(dishRef string) {
	c.cache.Delete(dishRef)
}
