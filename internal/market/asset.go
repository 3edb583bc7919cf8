// Package market implements the CoinCap-backed market data provider: a REST
// client for live quotes and daily history, plus a refreshing in-memory
// catalog with id and symbol indexes.
package market

import (
	"strconv"
	"strings"
)

// Asset is a single cryptocurrency record as served by the provider. Price
// fields stay decimal strings on the wire; parsing happens at render time.
type Asset struct {
	ID               string `json:"id"`
	Rank             string `json:"rank"`
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	PriceUSD         string `json:"priceUsd"`
	ChangePercent24h string `json:"changePercent24Hr"`
}

// Trend returns the glyph matching the sign of the 24h change.
func (a Asset) Trend() string {
	if strings.HasPrefix(strings.TrimSpace(a.ChangePercent24h), "-") {
		return "📉"
	}
	return "📈"
}

// DisplayPrice renders the USD price with sensible precision: two decimals
// for prices at or above one dollar, six below.
func (a Asset) DisplayPrice() string {
	value, err := strconv.ParseFloat(a.PriceUSD, 64)
	if err != nil {
		return a.PriceUSD
	}

	if value >= 1 || value <= -1 {
		return strconv.FormatFloat(value, 'f', 2, 64)
	}
	return strconv.FormatFloat(value, 'f', 6, 64)
}

// DisplayChange renders the sign-prefixed 24h change percentage with two decimals.
func (a Asset) DisplayChange() string {
	value, err := strconv.ParseFloat(a.ChangePercent24h, 64)
	if err != nil {
		return a.ChangePercent24h
	}

	formatted := strconv.FormatFloat(value, 'f', 2, 64)
	if value >= 0 {
		formatted = "+" + formatted
	}
	return formatted
}
