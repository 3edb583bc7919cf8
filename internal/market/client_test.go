package market_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3r1v3/Cryptifica/internal/market"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/assets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":"bitcoin","rank":"1","symbol":"BTC","name":"Bitcoin","priceUsd":"64123.5512","changePercent24Hr":"1.2345"},
			{"id":"ethereum","rank":"2","symbol":"ETH","name":"Ethereum","priceUsd":"3211.0021","changePercent24Hr":"-0.5512"}
		]}`))
	})
	mux.HandleFunc("/v2/assets/bitcoin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"bitcoin","rank":"1","symbol":"BTC","name":"Bitcoin","priceUsd":"64123.5512","changePercent24Hr":"1.2345"}}`))
	})
	mux.HandleFunc("/v2/assets/bitcoin/history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"priceUsd":"63000.10","time":1756000000000},
			{"priceUsd":"64000.20","time":1756086400000},
			{"priceUsd":"not-a-number","time":1756172800000}
		]}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientAssets(t *testing.T) {
	server := newTestServer(t)
	client := market.NewClient(server.URL, time.Second, testLogger())

	assets, err := client.Assets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "bitcoin", assets[0].ID)
	assert.Equal(t, "BTC", assets[0].Symbol)
	assert.Equal(t, "ethereum", assets[1].ID)
}

func TestClientAsset(t *testing.T) {
	server := newTestServer(t)
	client := market.NewClient(server.URL, time.Second, testLogger())

	asset, err := client.Asset(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", asset.Name)
	assert.Equal(t, "64123.5512", asset.PriceUSD)
}

func TestClientAssetNotFound(t *testing.T) {
	server := newTestServer(t)
	client := market.NewClient(server.URL, time.Second, testLogger())

	_, err := client.Asset(context.Background(), "no-such-coin")
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrNotFound)
}

func TestClientHistorySkipsBadPoints(t *testing.T) {
	server := newTestServer(t)
	client := market.NewClient(server.URL, time.Second, testLogger())

	dates, prices, err := client.History(context.Background(), "bitcoin", 30)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	require.Len(t, prices, 2)
	assert.Equal(t, 63000.10, prices[0])
	assert.True(t, dates[0].Before(dates[1]))
}

func TestClientServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := market.NewClient(server.URL, time.Second, testLogger())

	_, err := client.Assets(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrUnavailable)
}
