package keyboard_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3r1v3/Cryptifica/internal/bot/keyboard"
	"github.com/m3r1v3/Cryptifica/internal/callback"
	"github.com/m3r1v3/Cryptifica/internal/market"
)

func makeAssets(n int) []market.Asset {
	assets := make([]market.Asset, 0, n)
	for i := 0; i < n; i++ {
		assets = append(assets, market.Asset{
			ID:   fmt.Sprintf("asset-%d", i),
			Name: fmt.Sprintf("Asset %d", i),
		})
	}
	return assets
}

func navRow(rows [][]keyboard.Button) []keyboard.Button {
	return rows[len(rows)-1]
}

func tokens(row []keyboard.Button) []string {
	out := make([]string, 0, len(row))
	for _, btn := range row {
		out = append(out, btn.Token.String())
	}
	return out
}

func TestListPageSinglePage(t *testing.T) {
	items := makeAssets(7)

	visible, rows := keyboard.ListPage(callback.ActionPrice, items, 0, 11)

	assert.Len(t, visible, 7)
	assert.Equal(t, []string{"home"}, tokens(navRow(rows)))
}

func TestListPageFirstOfMany(t *testing.T) {
	items := makeAssets(15)

	visible, rows := keyboard.ListPage(callback.ActionPrice, items, 0, 11)

	require.Len(t, visible, 10, "11 requested, 10 rendered")
	assert.Equal(t, "asset-0", visible[0].ID)
	assert.Equal(t, []string{"search", "home", "price#11-22"}, tokens(navRow(rows)))
}

func TestListPageLastPage(t *testing.T) {
	items := makeAssets(15)

	visible, rows := keyboard.ListPage(callback.ActionPrice, items, 11, 22)

	require.Len(t, visible, 4)
	assert.Equal(t, "asset-11", visible[0].ID)
	assert.Equal(t, []string{"price#0-11", "search", "home"}, tokens(navRow(rows)))
}

func TestListPageMiddlePage(t *testing.T) {
	items := makeAssets(30)

	visible, rows := keyboard.ListPage(callback.ActionChart, items, 11, 22)

	require.Len(t, visible, 10)
	assert.Equal(t, []string{"chart#0-11", "search", "home", "chart#22-33"}, tokens(navRow(rows)))
}

func TestListPageBoundaryLaw(t *testing.T) {
	for _, n := range []int{0, 1, 10, 11, 12, 22, 23, 50} {
		items := makeAssets(n)
		for start := 0; start <= n; start += keyboard.ListWindow {
			end := start + keyboard.ListWindow
			visible, rows := keyboard.ListPage(callback.ActionPrice, items, start, end)

			wantLen := n - start
			if wantLen > keyboard.ListPageSize {
				wantLen = keyboard.ListPageSize
			}
			assert.Len(t, visible, wantLen, "n=%d start=%d", n, start)

			nav := tokens(navRow(rows))
			wantNext := end < n
			wantBack := start > 0
			assert.Equal(t, wantNext, contains(nav, fmt.Sprintf("price#%d-%d", end, end+keyboard.ListWindow)), "next n=%d start=%d", n, start)
			assert.Equal(t, wantBack, contains(nav, fmt.Sprintf("price#%d-%d", start-keyboard.ListWindow, start)), "back n=%d start=%d", n, start)
		}
	}
}

func TestListPageItemRowsOfFive(t *testing.T) {
	items := makeAssets(15)

	_, rows := keyboard.ListPage(callback.ActionPrice, items, 0, 11)

	require.Len(t, rows, 3, "two item rows plus navigation")
	assert.Len(t, rows[0], 5)
	assert.Len(t, rows[1], 5)
}

func TestRemovalPageBelowThreshold(t *testing.T) {
	items := makeAssets(8)

	visible, rows := keyboard.RemovalPage(items, 0)

	require.Len(t, visible, 8)
	require.Len(t, rows, 3, "two rows of four plus navigation")
	assert.Len(t, rows[0], 4)
	assert.Len(t, rows[1], 4)
	assert.Equal(t, []string{"home"}, tokens(navRow(rows)), "8 favorites do not reach the continuation threshold")
}

func TestRemovalPageAtThreshold(t *testing.T) {
	items := makeAssets(9)

	visible, rows := keyboard.RemovalPage(items, 0)

	require.Len(t, visible, 8)
	assert.Equal(t, []string{"home", "favorites-remove#8-16"}, tokens(navRow(rows)))
}

func TestRemovalPageSecondPage(t *testing.T) {
	items := makeAssets(9)

	visible, rows := keyboard.RemovalPage(items, 8)

	require.Len(t, visible, 1)
	assert.Equal(t, "asset-8", visible[0].ID)
	assert.Equal(t, []string{"favorites-remove#0-8", "home"}, tokens(navRow(rows)))
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
