package alarm

import (
	"fmt"
	"strings"

	"github.com/m3r1v3/Cryptifica/internal/market"
)

const (
	// NoFavoritesMessage is delivered when the user has nothing in favorites yet.
	NoFavoritesMessage = "You have no favorite cryptocurrencies yet ⭐\nAdd some to get your daily review 💬"
	// UnavailableMessage is delivered when no quote could be fetched.
	UnavailableMessage = "Couldn't fetch prices for your daily review, will try again tomorrow 🔁"
)

// FormatLine renders one digest line for an asset.
func FormatLine(asset market.Asset) string {
	return fmt.Sprintf(
		"%s (%s) — $%s (%s%%) %s",
		asset.Name,
		asset.Symbol,
		asset.DisplayPrice(),
		asset.DisplayChange(),
		asset.Trend(),
	)
}

// BuildDigest renders the daily review body, one line per favorite in
// insertion order. The review screen reuses the same formatting.
func BuildDigest(assets []market.Asset) string {
	var b strings.Builder
	b.WriteString("📝 Daily review\n\n")
	for _, asset := range assets {
		b.WriteString(FormatLine(asset))
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}
