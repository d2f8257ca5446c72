package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/storeapi"
)

type catalogFetcher interface {
	Catalog(ctx context.Context) ([]storeapi.Product, error)
}

// Cache holds the product catalog fetched from the store backend, indexed
// by product id. Cart sanitization resolves every line against this index,
// so the cache always has content: the embedded fallback list covers the
// window before the first successful fetch.
type Cache struct {
	mu       sync.RWMutex
	fetcher  catalogFetcher
	logger   *logger.Logger
	products []storeapi.Product
	index    map[int]storeapi.Product
	version  uint64
}

// NewCache seeds the cache with the fallback products.
func NewCache(fetcher catalogFetcher, logg *logger.Logger) *Cache {
	c := &Cache{
		fetcher: fetcher,
		logger:  logg,
	}
	c.replace(fallbackProducts)
	return c
}

// Refresh pulls the catalog from the backend. Failures and empty payloads
// keep the previous snapshot; the cart stays usable either way.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.fetcher == nil {
		return nil
	}
	products, err := c.fetcher.Catalog(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn(c.logger.WithField(ctx, "error", err.Error()), "catalog refresh failed, keeping previous snapshot")
		}
		return err
	}

	sanitized := make([]storeapi.Product, 0, len(products))
	for _, product := range products {
		if product.ID <= 0 || strings.TrimSpace(product.Name) == "" || product.Price < 0 {
			continue
		}
		sanitized = append(sanitized, product)
	}
	if len(sanitized) == 0 {
		if c.logger != nil {
			c.logger.Warn(ctx, "catalog refresh returned no usable products")
		}
		return nil
	}

	c.replace(sanitized)
	if c.logger != nil {
		ctx = c.logger.WithField(ctx, "products", len(sanitized))
		c.logger.Info(ctx, "catalog snapshot refreshed")
	}
	return nil
}

func (c *Cache) replace(products []storeapi.Product) {
	index := make(map[int]storeapi.Product, len(products))
	for _, product := range products {
		index[product.ID] = product
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.index = index
	c.version++
}

// Lookup resolves a product id against the current snapshot.
func (c *Cache) Lookup(id int) (storeapi.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	product, ok := c.index[id]
	return product, ok
}

// Snapshot returns a copy of the current product list.
func (c *Cache) Snapshot() []storeapi.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]storeapi.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Version increases on every snapshot replacement. Cart stores use it to
// decide whether a persisted cart needs re-sanitizing.
func (c *Cache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
