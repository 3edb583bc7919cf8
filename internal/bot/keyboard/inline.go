// Package keyboard builds the inline keyboards for every bot screen and owns
// the pagination policies for list screens.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/m3r1v3/Cryptifica/internal/callback"
)

// Button is one inline keyboard button: a label and the token delivered back
// when it is pressed.
type Button struct {
	Label string
	Token callback.Token
}

// Btn is a shorthand constructor.
func Btn(label string, token callback.Token) Button {
	return Button{Label: label, Token: token}
}

// Markup converts button rows into telebot inline markup.
func Markup(rows [][]Button) *telebot.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}

	inline := make([][]telebot.InlineButton, len(rows))
	for i, row := range rows {
		inline[i] = make([]telebot.InlineButton, len(row))
		for j, btn := range row {
			inline[i][j] = telebot.InlineButton{
				Text: btn.Label,
				Data: btn.Token.String(),
			}
		}
	}

	return &telebot.ReplyMarkup{InlineKeyboard: inline}
}
