package client

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

// Default TTLs for the name cache. Positive entries live for hours; failed
// lookups are remembered briefly so a deleted entity referenced by old trips
// doesn't trigger a batch call on every render.
const (
	DefaultNameTTL         = 6 * time.Hour
	DefaultNegativeNameTTL = 10 * time.Minute
	DefaultResolveDebounce = time.Second
)

// Resolver is the network half of name resolution, one batched call for all
// kinds at once.
type Resolver interface {
	ResolveNames(ctx context.Context, req models.ResolveRequest) (models.ResolveResponse, error)
}

type nameEntry struct {
	name      string
	fetchedAt time.Time
}

// NameCache is the TTL-bounded id→display-name cache. Lookups are
// synchronous against current contents; misses are filled by ResolveTrips,
// which collects every unknown id on the rendering page and issues one
// batched call. Expired entries are treated as absent and refetched lazily —
// there is no background refresh timer.
type NameCache struct {
	mu       sync.Mutex
	resolver Resolver
	log      *logrus.Entry

	ttl         time.Duration
	negativeTTL time.Duration
	debounce    time.Duration
	now         func() time.Time

	entries  map[models.EntityKind]map[string]nameEntry
	negative map[models.EntityKind]map[string]time.Time

	lastResolve time.Time
}

// NewNameCache creates a cache with the default TTLs.
func NewNameCache(resolver Resolver) *NameCache {
	c := &NameCache{
		resolver:    resolver,
		log:         logrus.WithField("component", "namecache"),
		ttl:         DefaultNameTTL,
		negativeTTL: DefaultNegativeNameTTL,
		debounce:    DefaultResolveDebounce,
		now:         time.Now,
	}
	c.clearLocked()
	return c
}

func (c *NameCache) clearLocked() {
	c.entries = make(map[models.EntityKind]map[string]nameEntry)
	c.negative = make(map[models.EntityKind]map[string]time.Time)
}

// Lookup returns the cached display name for an id, if present and fresh.
func (c *NameCache) Lookup(kind models.EntityKind, id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(kind, id)
}

func (c *NameCache) lookupLocked(kind models.EntityKind, id string) (string, bool) {
	e, ok := c.entries[kind][id]
	if !ok || c.now().Sub(e.fetchedAt) > c.ttl {
		return "", false
	}
	return e.name, true
}

// DisplayName is Lookup with the degraded-render fallback: an unresolved id
// shows as "Unknown <Kind>" rather than failing the render.
func (c *NameCache) DisplayName(kind models.EntityKind, id string) string {
	if name, ok := c.Lookup(kind, id); ok {
		return name
	}
	switch kind {
	case models.KindBroker:
		return "Unknown Broker"
	case models.KindDriver:
		return "Unknown Driver"
	case models.KindDispatcher:
		return "Unknown Dispatcher"
	case models.KindTruck:
		return "Unknown Truck"
	default:
		return "Unknown Trailer"
	}
}

// ResolveTrips collects every id referenced by the given page of trips that
// is neither cached, negatively cached, nor recently attempted, and issues
// one batched resolve call. A call landing within the debounce window of the
// previous one is dropped; callers render with whatever the cache has.
func (c *NameCache) ResolveTrips(ctx context.Context, trips []models.Trip) error {
	c.mu.Lock()
	missing := c.collectMissingLocked(trips)
	if len(missing) == 0 {
		c.mu.Unlock()
		return nil
	}
	if c.now().Sub(c.lastResolve) < c.debounce {
		c.mu.Unlock()
		return nil
	}
	c.lastResolve = c.now()
	c.mu.Unlock()

	resp, err := c.resolver.ResolveNames(ctx, missing)
	if err != nil {
		c.log.WithError(err).Warn("batch name resolve failed")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fetched := c.now()
	for kind, ids := range missing {
		for _, id := range ids {
			name, ok := resp[kind][id]
			if !ok || name == "" {
				// Remember the failure, briefly.
				if c.negative[kind] == nil {
					c.negative[kind] = make(map[string]time.Time)
				}
				c.negative[kind][id] = fetched
				continue
			}
			if c.entries[kind] == nil {
				c.entries[kind] = make(map[string]nameEntry)
			}
			c.entries[kind][id] = nameEntry{name: name, fetchedAt: fetched}
		}
	}
	return nil
}

func (c *NameCache) collectMissingLocked(trips []models.Trip) models.ResolveRequest {
	missing := models.ResolveRequest{}
	seen := map[models.EntityKind]map[string]bool{}

	collect := func(kind models.EntityKind, id string) {
		if id == "" {
			return
		}
		if _, ok := c.lookupLocked(kind, id); ok {
			return
		}
		if at, ok := c.negative[kind][id]; ok && c.now().Sub(at) <= c.negativeTTL {
			return
		}
		if seen[kind] == nil {
			seen[kind] = make(map[string]bool)
		}
		if seen[kind][id] {
			return
		}
		seen[kind][id] = true
		missing[kind] = append(missing[kind], id)
	}

	for i := range trips {
		t := &trips[i]
		collect(models.KindBroker, t.BrokerID)
		collect(models.KindDriver, t.DriverID)
		collect(models.KindDispatcher, t.DispatcherID)
		collect(models.KindTruck, t.TruckID)
		collect(models.KindTrailer, t.TrailerID)
	}
	return missing
}

// Clear drops the whole cache; the next render refills it lazily.
func (c *NameCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.lastResolve = time.Time{}
}
