package bot

import (
	"fmt"
	"strings"

	"github.com/m3r1v3/Cryptifica/internal/market"
)

// Static screen texts. Every screen is plain text with an inline keyboard, in
// the same emoji register throughout.
const (
	welcomeText = "Welcome to Cryptifica 👋🏻\n\n" +
		"Your personal cryptocurrency checker bot 🤖💰\n\n" +
		"Select option 💬\n\n" +
		"💲 Show current price\n" +
		"🔔 Notify about the cost\n" +
		"⭐ Favorite cryptocurrencies\n" +
		"📈 Show price chart\n" +
		"📝 Daily reviews\n" +
		"ℹ About Cryptifica"

	infoText = "ℹ About Cryptifica\n\n" +
		"Cryptifica shows live cryptocurrency prices, 30-day charts and daily " +
		"reviews of your favorite coins 💬\n\n" +
		"Prices are provided by CoinCap and refresh continuously 🔄"

	priceListText    = "💲 Current price\n\nSelect cryptocurrency 💬"
	chartListText    = "📈 Price chart\n\nSelect cryptocurrency 💬"
	favoritesText    = "⭐ Favorite cryptocurrencies\n\nAdd or remove cryptocurrencies 💬"
	addListText      = "➕ Add to favorites\n\nSelect cryptocurrency 💬"
	removeListText   = "➖ Remove from favorites\n\nSelect cryptocurrency 💬"
	alarmText        = "🔔 Notify\n\nTurn daily reviews on or off 💬"
	hourPickerText   = "🔔 Notify\n\nSelect the hour for your daily review (UTC) 🕐"
	searchPromptText = "🔍 Search\n\nSend a ticker like $BTC 💬"

	searchHintText    = "Send a ticker like $BTC, uppercase letters only 💬"
	alarmOffText      = "🔕 Daily reviews are off"
	noActiveAlarmText = "You have no active daily review to turn off 🔕"
	noFavoritesText   = "You have no favorite cryptocurrencies yet ⭐\nAdd some first 💬"
	reviewEmptyText   = "You have no favorite cryptocurrencies yet ⭐\nAdd some to get your daily review 💬"
)

func priceCardText(asset market.Asset) string {
	return fmt.Sprintf(
		"%s (%s) 💰\n\nPrice: $%s\n24h change: %s%% %s",
		asset.Name,
		asset.Symbol,
		asset.DisplayPrice(),
		asset.DisplayChange(),
		asset.Trend(),
	)
}

func chartCaptionText(asset market.Asset) string {
	return fmt.Sprintf("%s (%s) price, last 30 days 📈", asset.Name, asset.Symbol)
}

func favoriteAddedText(asset market.Asset, added bool) string {
	if !added {
		return fmt.Sprintf("%s (%s) is already in your favorites ⭐", asset.Name, asset.Symbol)
	}
	return fmt.Sprintf("%s (%s) added to favorites ⭐", asset.Name, asset.Symbol)
}

func favoriteRemovedText(asset market.Asset, removed bool) string {
	if !removed {
		return fmt.Sprintf("%s (%s) is not in your favorites 🤷", asset.Name, asset.Symbol)
	}
	return fmt.Sprintf("%s (%s) removed from favorites 🗑", asset.Name, asset.Symbol)
}

func alarmOnText(hour int) string {
	return fmt.Sprintf("🔔 Daily review is on, every day at %02d:00 UTC", hour)
}

func symbolNotFoundText(symbol string) string {
	return fmt.Sprintf("Couldn't find %s, check the spelling and try again 🔍", strings.ToUpper(symbol))
}
