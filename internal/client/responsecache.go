package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/haulhub-io/haulhub-backend/internal/models"
)

// DefaultResponseTTL bounds how stale a memoized dashboard response may be.
const DefaultResponseTTL = 2 * time.Minute

type cachedResponse struct {
	resp     *models.DashboardResponse
	cachedAt time.Time
}

// ResponseCache is a short-TTL memo of full dashboard responses keyed by the
// structural fingerprint of filter plus page index and page size.
// Continuation tokens are excluded from the key: they are a consequence of
// filter+page, not an independent dimension.
//
// Any successful trip write invalidates the entire cache — aggregates derive
// from the whole filtered set, so one mutation can shift counts and rankings
// in every cached entry.
type ResponseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cachedResponse
}

// NewResponseCache creates a cache with the default TTL.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		ttl:     DefaultResponseTTL,
		now:     time.Now,
		entries: make(map[string]cachedResponse),
	}
}

func responseKey(f models.TripFilter, page, pageSize int) string {
	return fmt.Sprintf("%s#%d#%d", f.Fingerprint(), page, pageSize)
}

// Get returns the memoized response for the request shape, if fresh.
func (c *ResponseCache) Get(f models.TripFilter, page, pageSize int) (*models.DashboardResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[responseKey(f, page, pageSize)]
	if !ok || c.now().Sub(e.cachedAt) > c.ttl {
		return nil, false
	}
	// Hand out a copy so callers mutating the page don't corrupt the entry.
	cp := *e.resp
	cp.Trips = append([]models.Trip(nil), e.resp.Trips...)
	return &cp, true
}

// Set memoizes a response for the request shape.
func (c *ResponseCache) Set(f models.TripFilter, page, pageSize int, resp *models.DashboardResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[responseKey(f, page, pageSize)] = cachedResponse{resp: resp, cachedAt: c.now()}
}

// InvalidateAll drops every entry. Called after any trip mutation.
func (c *ResponseCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cachedResponse)
}
