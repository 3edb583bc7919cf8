package market

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const defaultRefreshInterval = 5 * time.Minute

// Catalog keeps an in-memory snapshot of the asset list with id and symbol
// indexes, refreshed in the background so pickers and symbol search never hit
// the API per click.
type Catalog struct {
	client          *Client
	log             *slog.Logger
	refreshInterval time.Duration

	mu       sync.RWMutex
	assets   []Asset
	byID     map[string]Asset
	bySymbol map[string]Asset
}

// NewCatalog builds a catalog over the provider client.
func NewCatalog(client *Client, refreshInterval time.Duration, log *slog.Logger) *Catalog {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	if log == nil {
		log = slog.Default()
	}

	return &Catalog{
		client:          client,
		log:             log,
		refreshInterval: refreshInterval,
		byID:            make(map[string]Asset),
		bySymbol:        make(map[string]Asset),
	}
}

// Refresh fetches the asset list and rebuilds both indexes.
func (c *Catalog) Refresh(ctx context.Context) error {
	assets, err := c.client.Assets(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}

	byID := make(map[string]Asset, len(assets))
	bySymbol := make(map[string]Asset, len(assets))
	for _, asset := range assets {
		byID[asset.ID] = asset
		// Keep the highest-ranked asset when symbols collide.
		symbol := strings.ToUpper(asset.Symbol)
		if _, ok := bySymbol[symbol]; !ok {
			bySymbol[symbol] = asset
		}
	}

	c.mu.Lock()
	c.assets = assets
	c.byID = byID
	c.bySymbol = bySymbol
	c.mu.Unlock()

	c.log.Debug("catalog refreshed", slog.Int("assets", len(assets)))
	return nil
}

// Run refreshes the catalog on the configured interval until ctx is cancelled.
func (c *Catalog) Run(ctx context.Context) {
	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.log.Error("catalog refresh failed", slog.Any("error", err))
			}
		}
	}
}

// List returns the current asset snapshot in rank order.
func (c *Catalog) List() []Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]Asset, len(c.assets))
	copy(snapshot, c.assets)
	return snapshot
}

// ByID looks up an asset by its id slug.
func (c *Catalog) ByID(id string) (Asset, error) {
	c.mu.RLock()
	asset, ok := c.byID[id]
	c.mu.RUnlock()

	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return asset, nil
}

// BySymbol looks up an asset by its ticker symbol, case-insensitively.
func (c *Catalog) BySymbol(symbol string) (Asset, error) {
	c.mu.RLock()
	asset, ok := c.bySymbol[strings.ToUpper(symbol)]
	c.mu.RUnlock()

	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	return asset, nil
}
