package cache

import (
	"context"
	"sync"
	"time"

	appreport "github.com/agency/backend/internal/application/report"
	"github.com/agency/backend/internal/domain/report"
)

// DefaultDashboardTTL is used when no TTL is configured
const DefaultDashboardTTL = 5 * time.Minute

type dashboardEntry struct {
	dashboard *report.Dashboard
	expiresAt time.Time
}

// InMemoryDashboardCache implements DashboardCache with a process-local map.
// Suitable for single-instance deployments and tests.
type InMemoryDashboardCache struct {
	mu      sync.RWMutex
	entries map[int]dashboardEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryDashboardCache creates a new in-memory dashboard cache
func NewInMemoryDashboardCache(ttl time.Duration) *InMemoryDashboardCache {
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	return &InMemoryDashboardCache{
		entries: make(map[int]dashboardEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached dashboard if present and not expired
func (c *InMemoryDashboardCache) Get(_ context.Context, year int) (*report.Dashboard, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[year]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[year]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, year)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.dashboard, true, nil
}

// Set stores the dashboard for a year
func (c *InMemoryDashboardCache) Set(_ context.Context, year int, d *report.Dashboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[year] = dashboardEntry{dashboard: d, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate drops every cached year
func (c *InMemoryDashboardCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]dashboardEntry)
	return nil
}

// Size returns the number of cached entries (for testing)
func (c *InMemoryDashboardCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close is a no-op
func (c *InMemoryDashboardCache) Close() error { return nil }

var _ appreport.DashboardCache = (*InMemoryDashboardCache)(nil)
