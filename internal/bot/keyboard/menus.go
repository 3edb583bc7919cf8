package keyboard

import (
	"fmt"

	"github.com/m3r1v3/Cryptifica/internal/callback"
)

// Main builds the top menu shown by /start and the home action.
func Main() [][]Button {
	return [][]Button{
		{
			Btn("💲", callback.Paged(callback.ActionPrice, 0, ListWindow)),
			Btn("🔔", callback.Plain(callback.ActionAlarm)),
			Btn("⭐", callback.Plain(callback.ActionFavorites)),
		},
		{
			Btn("📈", callback.Paged(callback.ActionChart, 0, ListWindow)),
			Btn("📝", callback.Plain(callback.ActionReview)),
			Btn("ℹ", callback.Plain(callback.ActionInfo)),
		},
	}
}

// HomeRow builds the single-button row returning to the top menu.
func HomeRow() [][]Button {
	return [][]Button{{homeButton()}}
}

// FavoritesMenu builds the favorites sub-menu.
func FavoritesMenu() [][]Button {
	return [][]Button{
		{
			Btn("➕ Add", callback.Paged(callback.ActionFavoritesAdd, 0, ListWindow)),
			Btn("➖ Remove", callback.Paged(callback.ActionFavoritesRemove, 0, RemovalPageSize)),
		},
		{homeButton()},
	}
}

// AlarmMenu builds the alarm sub-menu.
func AlarmMenu() [][]Button {
	return [][]Button{
		{
			Btn("🔔 On", callback.Plain(callback.ActionAlarmOn)),
			Btn("🔕 Off", callback.Plain(callback.ActionAlarmOff)),
		},
		{homeButton()},
	}
}

// alarmHours are the offered digest hours, UTC.
var alarmHours = []int{0, 8, 12, 20}

// HourPicker builds the hour selection row for enabling the alarm.
func HourPicker() [][]Button {
	row := make([]Button, 0, len(alarmHours))
	for _, hour := range alarmHours {
		row = append(row, Btn(
			fmt.Sprintf("%02d:00", hour),
			callback.Targeted(callback.ActionAlarmOn, fmt.Sprintf("%d", hour)),
		))
	}

	return [][]Button{row, {homeButton()}}
}

// AssetActions builds the shortcut row rendered under a symbol search hit.
func AssetActions(assetID string) [][]Button {
	return [][]Button{
		{
			Btn("💲", callback.Targeted(callback.ActionPrice, assetID)),
			Btn("📈", callback.Targeted(callback.ActionChart, assetID)),
			Btn("⭐", callback.Targeted(callback.ActionFavoritesAdd, assetID)),
		},
		{homeButton()},
	}
}

func homeButton() Button {
	return Btn("🏠", callback.Plain(callback.ActionHome))
}

func searchButton() Button {
	return Btn("🔍", callback.Plain(callback.ActionSearch))
}
