package market_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3r1v3/Cryptifica/internal/market"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCatalogRefreshAndLookup(t *testing.T) {
	server := newTestServer(t)
	client := market.NewClient(server.URL, time.Second, testLogger())
	catalog := market.NewCatalog(client, time.Minute, testLogger())

	require.NoError(t, catalog.Refresh(context.Background()))

	assets := catalog.List()
	require.Len(t, assets, 2)
	assert.Equal(t, "bitcoin", assets[0].ID, "rank order must be preserved")

	byID, err := catalog.ByID("ethereum")
	require.NoError(t, err)
	assert.Equal(t, "ETH", byID.Symbol)

	bySymbol, err := catalog.BySymbol("btc")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", bySymbol.ID, "symbol lookup is case-insensitive")
}

func TestCatalogUnknownLookups(t *testing.T) {
	server := newTestServer(t)
	client := market.NewClient(server.URL, time.Second, testLogger())
	catalog := market.NewCatalog(client, time.Minute, testLogger())

	require.NoError(t, catalog.Refresh(context.Background()))

	_, err := catalog.ByID("no-such-coin")
	assert.ErrorIs(t, err, market.ErrNotFound)

	_, err = catalog.BySymbol("ZZZ")
	assert.ErrorIs(t, err, market.ErrNotFound)
}

func TestAssetFormatting(t *testing.T) {
	up := market.Asset{PriceUSD: "64123.5512", ChangePercent24h: "1.2345"}
	assert.Equal(t, "64123.55", up.DisplayPrice())
	assert.Equal(t, "+1.23", up.DisplayChange())
	assert.Equal(t, "📈", up.Trend())

	down := market.Asset{PriceUSD: "0.00012345", ChangePercent24h: "-2.5"}
	assert.Equal(t, "0.000123", down.DisplayPrice())
	assert.Equal(t, "-2.50", down.DisplayChange())
	assert.Equal(t, "📉", down.Trend())
}
