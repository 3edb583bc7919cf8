package keyboard

import (
	"github.com/m3r1v3/Cryptifica/internal/callback"
	"github.com/m3r1v3/Cryptifica/internal/market"
)

// Generic list screens request windows of 11 but render at most 10 items in
// rows of 5. The favorites-removal screen below keeps its own, independently
// evolved policy; the two are deliberately not unified.
const (
	ListWindow   = 11
	ListPageSize = 10
	listRowSize  = 5

	RemovalPageSize  = 8
	removalRowSize   = 4
	removalThreshold = 9
)

// ListPage slices the catalog for a generic picker screen and builds the item
// rows plus the navigation row.
//
// Navigation composition: Next appears iff items remain past the window, Back
// iff the window does not start at zero, Search and Home fill the middle, and
// a single page collapses to Home alone.
func ListPage(action callback.Action, items []market.Asset, start, end int) ([]market.Asset, [][]Button) {
	if start < 0 {
		start = 0
	}
	if end <= start {
		end = start + ListWindow
	}

	visibleEnd := end
	if visibleEnd > len(items) {
		visibleEnd = len(items)
	}

	var visible []market.Asset
	if start < len(items) {
		visible = items[start:visibleEnd]
		if len(visible) > ListPageSize {
			visible = visible[:ListPageSize]
		}
	}

	rows := itemRows(action, visible, listRowSize)

	hasNext := end < len(items)
	hasBack := start > 0

	var nav []Button
	switch {
	case !hasBack && !hasNext:
		nav = []Button{homeButton()}
	case !hasBack:
		nav = []Button{
			searchButton(),
			homeButton(),
			Btn("➡️", callback.Paged(action, end, end+ListWindow)),
		}
	case !hasNext:
		nav = []Button{
			Btn("⬅️", callback.Paged(action, backStart(start, ListWindow), start)),
			searchButton(),
			homeButton(),
		}
	default:
		nav = []Button{
			Btn("⬅️", callback.Paged(action, backStart(start, ListWindow), start)),
			searchButton(),
			homeButton(),
			Btn("➡️", callback.Paged(action, end, end+ListWindow)),
		}
	}

	return visible, append(rows, nav)
}

// RemovalPage slices the user's favorites for the removal picker: 8 per page
// in rows of 4, continuing while at least 9 items are reachable from the
// window start.
func RemovalPage(items []market.Asset, start int) ([]market.Asset, [][]Button) {
	if start < 0 {
		start = 0
	}

	visibleEnd := start + RemovalPageSize
	if visibleEnd > len(items) {
		visibleEnd = len(items)
	}

	var visible []market.Asset
	if start < len(items) {
		visible = items[start:visibleEnd]
	}

	rows := itemRows(callback.ActionFavoritesRemove, visible, removalRowSize)

	var nav []Button
	if start > 0 {
		nav = append(nav, Btn("⬅️", callback.Paged(
			callback.ActionFavoritesRemove,
			backStart(start, RemovalPageSize),
			start,
		)))
	}
	nav = append(nav, homeButton())
	if len(items) >= start+removalThreshold {
		nav = append(nav, Btn("➡️", callback.Paged(
			callback.ActionFavoritesRemove,
			start+RemovalPageSize,
			start+2*RemovalPageSize,
		)))
	}

	return visible, append(rows, nav)
}

func itemRows(action callback.Action, items []market.Asset, rowSize int) [][]Button {
	var rows [][]Button
	for i := 0; i < len(items); i += rowSize {
		end := i + rowSize
		if end > len(items) {
			end = len(items)
		}

		row := make([]Button, 0, end-i)
		for _, asset := range items[i:end] {
			row = append(row, Btn(asset.Name, callback.Targeted(action, asset.ID)))
		}
		rows = append(rows, row)
	}

	return rows
}

func backStart(start, step int) int {
	back := start - step
	if back < 0 {
		back = 0
	}
	return back
}
