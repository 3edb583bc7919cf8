package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	errs "github.com/m3r1v3/Cryptifica/internal/errors"
	"github.com/m3r1v3/Cryptifica/pkg/metrics"
)

var (
	// ErrNotFound indicates that the requested asset id or symbol is unknown to the provider.
	ErrNotFound = errors.New("cryptocurrency not found")
	// ErrUnavailable indicates a transport or server-side provider failure.
	ErrUnavailable = errors.New("market data provider unavailable")
)

const defaultTimeout = 15 * time.Second

// Client is an HTTP client for a CoinCap-compatible asset API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient builds a provider client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type assetsEnvelope struct {
	Data []Asset `json:"data"`
}

type assetEnvelope struct {
	Data Asset `json:"data"`
}

type historyEnvelope struct {
	Data []historyPoint `json:"data"`
}

type historyPoint struct {
	PriceUSD string `json:"priceUsd"`
	Time     int64  `json:"time"`
}

// Assets returns the full asset catalog ordered by rank.
func (c *Client) Assets(ctx context.Context) ([]Asset, error) {
	var envelope assetsEnvelope
	if err := c.getJSON(ctx, "assets", "/v2/assets?limit=2000", &envelope); err != nil {
		return nil, err
	}

	return envelope.Data, nil
}

// Asset returns a fresh quote for a single asset id.
func (c *Client) Asset(ctx context.Context, id string) (Asset, error) {
	var envelope assetEnvelope
	endpoint := "/v2/assets/" + url.PathEscape(id)
	if err := c.getJSON(ctx, "asset", endpoint, &envelope); err != nil {
		return Asset{}, err
	}

	return envelope.Data, nil
}

// History returns daily close prices for the trailing number of days.
func (c *Client) History(ctx context.Context, id string, days int) ([]time.Time, []float64, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	endpoint := fmt.Sprintf(
		"/v2/assets/%s/history?interval=d1&start=%d&end=%d",
		url.PathEscape(id),
		start.UnixMilli(),
		end.UnixMilli(),
	)

	var envelope historyEnvelope
	if err := c.getJSON(ctx, "history", endpoint, &envelope); err != nil {
		return nil, nil, err
	}

	dates := make([]time.Time, 0, len(envelope.Data))
	prices := make([]float64, 0, len(envelope.Data))
	for _, point := range envelope.Data {
		price, err := strconv.ParseFloat(point.PriceUSD, 64)
		if err != nil {
			c.log.Warn("skipping unparsable history point", slog.String("asset_id", id), slog.String("price", point.PriceUSD))
			continue
		}

		dates = append(dates, time.UnixMilli(point.Time).UTC())
		prices = append(prices, price)
	}

	return dates, prices, nil
}

// getJSON fetches endpoint with retries on transient failures. Not-found
// responses are returned immediately.
func (c *Client) getJSON(ctx context.Context, name, endpoint string, out any) error {
	var lastErr error

	err := errs.WithRetry(ctx, func() error {
		lastErr = c.doOnce(ctx, name, endpoint, out)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrUnavailable) {
			return errs.NewProviderError(lastErr)
		}
		return lastErr
	})
	if err == nil {
		return nil
	}

	return lastErr
}

func (c *Client) doOnce(ctx context.Context, name, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordProviderRequest(name, "error")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordProviderRequest(name, "not_found")
		return fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	default:
		metrics.RecordProviderRequest(name, "error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordProviderRequest(name, "error")
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	metrics.RecordProviderRequest(name, "ok")
	return nil
}
