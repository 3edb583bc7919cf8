package bot

import (
	"fmt"
	"log/slog"
	"strconv"

	telebot "gopkg.in/telebot.v3"

	"github.com/m3r1v3/Cryptifica/internal/alarm"
	"github.com/m3r1v3/Cryptifica/internal/bot/keyboard"
	"github.com/m3r1v3/Cryptifica/internal/chart"
)

// Presenter is the chat transport surface the router renders through.
type Presenter interface {
	SendText(chatID int64, text string, rows [][]keyboard.Button) (messageID int, err error)
	SendPhoto(chatID int64, photo *chart.Handle, caption string, rows [][]keyboard.Button) (messageID int, err error)
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID string) error
}

// TelebotPresenter implements Presenter over a telebot instance.
type TelebotPresenter struct {
	bot *telebot.Bot
	log *slog.Logger
}

// NewTelebotPresenter builds the production presenter.
func NewTelebotPresenter(bot *telebot.Bot, log *slog.Logger) *TelebotPresenter {
	if log == nil {
		log = slog.Default()
	}

	return &TelebotPresenter{bot: bot, log: log}
}

// SendText delivers a text message with an optional inline keyboard.
func (p *TelebotPresenter) SendText(chatID int64, text string, rows [][]keyboard.Button) (int, error) {
	msg, err := p.bot.Send(&telebot.Chat{ID: chatID}, text, sendOptions(rows)...)
	if err != nil {
		return 0, fmt.Errorf("send text to chat %d: %w", chatID, err)
	}

	return msg.ID, nil
}

// SendPhoto delivers a photo from the rendered chart handle.
func (p *TelebotPresenter) SendPhoto(chatID int64, photo *chart.Handle, caption string, rows [][]keyboard.Button) (int, error) {
	tphoto := &telebot.Photo{
		File:    telebot.FromDisk(photo.Path()),
		Caption: caption,
	}

	msg, err := p.bot.Send(&telebot.Chat{ID: chatID}, tphoto, sendOptions(rows)...)
	if err != nil {
		return 0, fmt.Errorf("send photo to chat %d: %w", chatID, err)
	}

	return msg.ID, nil
}

// DeleteMessage removes a previously sent message.
func (p *TelebotPresenter) DeleteMessage(chatID int64, messageID int) error {
	return p.bot.Delete(telebot.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	})
}

// AnswerCallback acknowledges a callback query so the client stops its spinner.
func (p *TelebotPresenter) AnswerCallback(callbackID string) error {
	return p.bot.Respond(&telebot.Callback{ID: callbackID})
}

func sendOptions(rows [][]keyboard.Button) []interface{} {
	markup := keyboard.Markup(rows)
	if markup == nil {
		return nil
	}
	return []interface{}{markup}
}

// presenterNotifier adapts a Presenter into the scheduler's Notifier.
type presenterNotifier struct {
	presenter Presenter
}

// NotifierFromPresenter lets the alarm scheduler deliver digests through the
// same transport the router renders with.
func NotifierFromPresenter(p Presenter) alarm.Notifier {
	return &presenterNotifier{presenter: p}
}

func (n *presenterNotifier) Notify(chatID int64, text string) error {
	_, err := n.presenter.SendText(chatID, text, nil)
	return err
}
