// Package menu fetches the orderable catalog. It feeds both the
// selection surface (available items only) and order-detail assembly
// (id-indexed lookup for joining historical line items).
package menu

import (
	"context"
	"sync"
	"time"

	"github.com/foodworks/orderflow/core"
)

// CatalogAPI is the slice of the API client the lookup needs.
type CatalogAPI interface {
	ListMenuItems(ctx context.Context) ([]core.MenuItem, error)
}

// Lookup fetches and caches the menu catalog.
type Lookup struct {
	api      CatalogAPI
	cacheTTL time.Duration
	logger   core.Logger

	mu        sync.RWMutex
	cached    []core.MenuItem
	fetchedAt time.Time
}

// NewLookup creates a Lookup. A cacheTTL of 0 disables caching and
// every call hits the API.
func NewLookup(api CatalogAPI, cacheTTL time.Duration) *Lookup {
	return &Lookup{
		api:      api,
		cacheTTL: cacheTTL,
		logger:   &core.NoOpLogger{},
	}
}

// SetLogger configures the logger for this lookup.
func (l *Lookup) SetLogger(logger core.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Catalog returns the full catalog, served from cache while fresh.
func (l *Lookup) Catalog(ctx context.Context) ([]core.MenuItem, error) {
	if l.cacheTTL > 0 {
		l.mu.RLock()
		if l.cached != nil && time.Since(l.fetchedAt) < l.cacheTTL {
			items := l.cached
			l.mu.RUnlock()
			l.logger.Debug("Catalog cache hit", map[string]interface{}{
				"items": len(items),
			})
			return items, nil
		}
		l.mu.RUnlock()
	}

	items, err := l.api.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	if l.cacheTTL > 0 {
		l.mu.Lock()
		l.cached = items
		l.fetchedAt = time.Now()
		l.mu.Unlock()
	}

	l.logger.Debug("Catalog fetched", map[string]interface{}{
		"items": len(items),
	})
	return items, nil
}

// Available returns only the items offered for selection.
func (l *Lookup) Available(ctx context.Context) ([]core.MenuItem, error) {
	items, err := l.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]core.MenuItem, 0, len(items))
	for _, item := range items {
		if item.Available {
			available = append(available, item)
		}
	}
	return available, nil
}

// Index returns the catalog keyed by item id. Unavailable items are
// kept: order history joins must still resolve them.
func (l *Lookup) Index(ctx context.Context) (map[int]core.MenuItem, error) {
	items, err := l.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[int]core.MenuItem, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index, nil
}

// Invalidate drops the cached catalog.
func (l *Lookup) Invalidate() {
	l.mu.Lock()
	l.cached = nil
	l.fetchedAt = time.Time{}
	l.mu.Unlock()
}
