// Package bot implements the chat surface: the callback router, the screen
// texts and keyboards, and the telebot wiring.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/m3r1v3/Cryptifica/internal/alarm"
	"github.com/m3r1v3/Cryptifica/internal/bot/keyboard"
	"github.com/m3r1v3/Cryptifica/internal/callback"
	"github.com/m3r1v3/Cryptifica/internal/chart"
	errs "github.com/m3r1v3/Cryptifica/internal/errors"
	"github.com/m3r1v3/Cryptifica/internal/favorites"
	"github.com/m3r1v3/Cryptifica/internal/market"
	"github.com/m3r1v3/Cryptifica/internal/session"
)

const historyDays = 30

// symbolPattern matches the free-text search input: a dollar sign followed by
// uppercase letters, nothing else.
var symbolPattern = regexp.MustCompile(`^\$([A-Z]+)$`)

// MarketData is the catalog surface the router browses and searches.
type MarketData interface {
	List() []market.Asset
	ByID(id string) (market.Asset, error)
	BySymbol(symbol string) (market.Asset, error)
}

// QuoteProvider serves fresh quotes and price history.
type QuoteProvider interface {
	Asset(ctx context.Context, id string) (market.Asset, error)
	History(ctx context.Context, id string, days int) ([]time.Time, []float64, error)
}

// ChartRenderer draws price history into a sendable image.
type ChartRenderer interface {
	Render(dates []time.Time, prices []float64) (*chart.Handle, error)
}

// AlarmControl is the scheduler surface the router drives.
type AlarmControl interface {
	Enable(ctx context.Context, chatID, userID int64, hour int) error
	Disable(ctx context.Context, chatID int64) error
}

// Router maps incoming callbacks and free text to screen transitions. It holds
// no per-message state: the callback token is the entire request.
type Router struct {
	presenter Presenter
	catalog   MarketData
	quotes    QuoteProvider
	charts    ChartRenderer
	alarms    AlarmControl
	favorites favorites.Store
	sessions  session.Storage
	errors    *errs.Handler
	log       *slog.Logger
}

// NewRouter wires the dispatch core.
func NewRouter(
	presenter Presenter,
	catalog MarketData,
	quotes QuoteProvider,
	charts ChartRenderer,
	alarms AlarmControl,
	favs favorites.Store,
	sessions session.Storage,
	errHandler *errs.Handler,
	log *slog.Logger,
) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		presenter: presenter,
		catalog:   catalog,
		quotes:    quotes,
		charts:    charts,
		alarms:    alarms,
		favorites: favs,
		sessions:  sessions,
		errors:    errHandler,
		log:       log,
	}
}

// HandleStart renders the welcome screen for /start.
func (r *Router) HandleStart(ctx context.Context, chatID int64) error {
	_, err := r.presenter.SendText(chatID, welcomeText, keyboard.Main())
	return err
}

// HandleCallback processes one inline button press: acknowledge the callback,
// decode the token, record it as the user's session marker, replace the
// previous screen with the next one.
//
// Malformed and unknown tokens are logged and ignored; buttons from messages
// delivered before a redeploy must never crash the chat.
func (r *Router) HandleCallback(ctx context.Context, chatID, userID int64, messageID int, callbackID, data string) error {
	if err := r.presenter.AnswerCallback(callbackID); err != nil {
		r.log.Debug("failed to answer callback", slog.String("callback_id", callbackID), slog.Any("error", err))
	}

	token, err := callback.Parse(data)
	if err != nil {
		r.log.Warn("ignoring callback", slog.String("data", data), slog.Any("error", err))
		return nil
	}

	if err := r.sessions.Set(ctx, userID, string(token.Action)); err != nil {
		r.log.Error("failed to set session marker", slog.Int64("user_id", userID), slog.Any("error", err))
	}

	// Screen transitions delete the old message and send a new one. Edits
	// cannot cross the text/photo boundary, so delete-and-send is used
	// everywhere. A message that is already gone is fine.
	if err := r.presenter.DeleteMessage(chatID, messageID); err != nil {
		r.log.Debug("failed to delete previous screen", slog.Int("message_id", messageID), slog.Any("error", err))
	}

	switch token.Action {
	case callback.ActionHome:
		return r.send(ctx, chatID, welcomeText, keyboard.Main())
	case callback.ActionInfo:
		return r.send(ctx, chatID, infoText, keyboard.HomeRow())
	case callback.ActionSearch:
		return r.send(ctx, chatID, searchPromptText, keyboard.HomeRow())
	case callback.ActionPrice:
		if token.Target != "" {
			return r.showPrice(ctx, chatID, token.Target)
		}
		return r.showList(ctx, chatID, callback.ActionPrice, priceListText, token)
	case callback.ActionChart:
		if token.Target != "" {
			return r.showChart(ctx, chatID, token.Target)
		}
		return r.showList(ctx, chatID, callback.ActionChart, chartListText, token)
	case callback.ActionFavorites:
		return r.send(ctx, chatID, favoritesText, keyboard.FavoritesMenu())
	case callback.ActionFavoritesAdd:
		if token.Target != "" {
			return r.addFavorite(ctx, chatID, userID, token.Target)
		}
		return r.showList(ctx, chatID, callback.ActionFavoritesAdd, addListText, token)
	case callback.ActionFavoritesRemove:
		if token.Target != "" {
			return r.removeFavorite(ctx, chatID, userID, token.Target)
		}
		return r.showRemovalList(ctx, chatID, userID, token)
	case callback.ActionAlarm:
		return r.send(ctx, chatID, alarmText, keyboard.AlarmMenu())
	case callback.ActionAlarmOn:
		if token.Target != "" {
			return r.enableAlarm(ctx, chatID, userID, token.Target)
		}
		return r.send(ctx, chatID, hourPickerText, keyboard.HourPicker())
	case callback.ActionAlarmOff:
		return r.disableAlarm(ctx, chatID)
	case callback.ActionReview:
		return r.showReview(ctx, chatID, userID)
	}

	r.log.Warn("no screen for action", slog.String("action", string(token.Action)))
	return nil
}

// HandleText processes a free-text message. The only recognized input is a
// $SYMBOL ticker, and only while the user's session marker is the search
// prompt; everything else is ignored so group chatter never triggers the bot.
func (r *Router) HandleText(ctx context.Context, chatID, userID int64, text string) error {
	marker, err := r.sessions.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, session.ErrMarkerNotFound) {
			r.log.Error("failed to read session marker", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return nil
	}

	if marker.Command != string(callback.ActionSearch) {
		return nil
	}

	match := symbolPattern.FindStringSubmatch(text)
	if match == nil {
		return r.send(ctx, chatID, searchHintText, keyboard.HomeRow())
	}

	symbol := match[1]
	asset, err := r.catalog.BySymbol(symbol)
	if err != nil {
		// Keep the marker: the user can correct the spelling and try again
		// without pressing the search button anew.
		if errors.Is(err, market.ErrNotFound) {
			return r.send(ctx, chatID, symbolNotFoundText(symbol), keyboard.HomeRow())
		}
		return r.renderError(ctx, chatID, err)
	}

	if err := r.sessions.Clear(ctx, userID); err != nil {
		r.log.Error("failed to clear session marker", slog.Int64("user_id", userID), slog.Any("error", err))
	}

	return r.send(ctx, chatID, priceCardText(asset), keyboard.AssetActions(asset.ID))
}

func (r *Router) showList(ctx context.Context, chatID int64, action callback.Action, title string, token callback.Token) error {
	start, end := token.Start, token.End
	if !token.HasWindow {
		start, end = 0, keyboard.ListWindow
	}

	_, rows := keyboard.ListPage(action, r.catalog.List(), start, end)
	return r.send(ctx, chatID, title, rows)
}

func (r *Router) showPrice(ctx context.Context, chatID int64, assetID string) error {
	asset, err := r.quotes.Asset(ctx, assetID)
	if err != nil {
		return r.renderError(ctx, chatID, marketErr(err, assetID))
	}

	return r.send(ctx, chatID, priceCardText(asset), keyboard.HomeRow())
}

func (r *Router) showChart(ctx context.Context, chatID int64, assetID string) error {
	asset, err := r.catalog.ByID(assetID)
	if err != nil {
		return r.renderError(ctx, chatID, marketErr(err, assetID))
	}

	dates, prices, err := r.quotes.History(ctx, assetID, historyDays)
	if err != nil {
		return r.renderError(ctx, chatID, marketErr(err, assetID))
	}

	handle, err := r.charts.Render(dates, prices)
	if err != nil {
		return r.renderError(ctx, chatID, err)
	}
	defer func() {
		if err := handle.Release(); err != nil {
			r.log.Warn("failed to remove chart file", slog.String("path", handle.Path()), slog.Any("error", err))
		}
	}()

	if _, err := r.presenter.SendPhoto(chatID, handle, chartCaptionText(asset), keyboard.HomeRow()); err != nil {
		return errs.NewDeliveryError(err)
	}
	return nil
}

func (r *Router) addFavorite(ctx context.Context, chatID, userID int64, assetID string) error {
	asset, err := r.catalog.ByID(assetID)
	if err != nil {
		return r.renderError(ctx, chatID, marketErr(err, assetID))
	}

	added, err := r.favorites.Add(ctx, userID, assetID)
	if err != nil {
		return r.renderError(ctx, chatID, errs.NewDatabaseError(err))
	}

	return r.send(ctx, chatID, favoriteAddedText(asset, added), keyboard.HomeRow())
}

func (r *Router) removeFavorite(ctx context.Context, chatID, userID int64, assetID string) error {
	asset, err := r.catalog.ByID(assetID)
	if err != nil {
		return r.renderError(ctx, chatID, marketErr(err, assetID))
	}

	removed, err := r.favorites.Remove(ctx, userID, assetID)
	if err != nil {
		return r.renderError(ctx, chatID, errs.NewDatabaseError(err))
	}

	return r.send(ctx, chatID, favoriteRemovedText(asset, removed), keyboard.HomeRow())
}

func (r *Router) showRemovalList(ctx context.Context, chatID, userID int64, token callback.Token) error {
	ids, err := r.favorites.List(ctx, userID)
	if err != nil {
		return r.renderError(ctx, chatID, errs.NewDatabaseError(err))
	}

	if len(ids) == 0 {
		return r.send(ctx, chatID, noFavoritesText, keyboard.HomeRow())
	}

	assets := make([]market.Asset, 0, len(ids))
	for _, id := range ids {
		asset, err := r.catalog.ByID(id)
		if err != nil {
			// A favorite can outlive its catalog entry; still offer it for
			// removal under its id.
			asset = market.Asset{ID: id, Name: id}
		}
		assets = append(assets, asset)
	}

	start := 0
	if token.HasWindow {
		start = token.Start
	}

	_, rows := keyboard.RemovalPage(assets, start)
	return r.send(ctx, chatID, removeListText, rows)
}

func (r *Router) enableAlarm(ctx context.Context, chatID, userID int64, target string) error {
	hour, err := strconv.Atoi(target)
	if err != nil {
		return r.renderError(ctx, chatID, errs.NewValidationError("The selected hour is not recognized."))
	}

	if err := r.alarms.Enable(ctx, chatID, userID, hour); err != nil {
		if errors.Is(err, alarm.ErrInvalidHour) {
			return r.renderError(ctx, chatID, errs.NewValidationError("The hour must be between 0 and 23."))
		}
		return r.renderError(ctx, chatID, err)
	}

	return r.send(ctx, chatID, alarmOnText(hour), keyboard.HomeRow())
}

func (r *Router) disableAlarm(ctx context.Context, chatID int64) error {
	if err := r.alarms.Disable(ctx, chatID); err != nil {
		if errors.Is(err, alarm.ErrNoActiveAlarm) {
			return r.send(ctx, chatID, noActiveAlarmText, keyboard.HomeRow())
		}
		return r.renderError(ctx, chatID, err)
	}

	return r.send(ctx, chatID, alarmOffText, keyboard.HomeRow())
}

func (r *Router) showReview(ctx context.Context, chatID, userID int64) error {
	ids, err := r.favorites.List(ctx, userID)
	if err != nil {
		return r.renderError(ctx, chatID, errs.NewDatabaseError(err))
	}

	if len(ids) == 0 {
		return r.send(ctx, chatID, reviewEmptyText, keyboard.HomeRow())
	}

	assets := make([]market.Asset, 0, len(ids))
	for _, id := range ids {
		asset, err := r.quotes.Asset(ctx, id)
		if err != nil {
			r.log.Warn("skipping favorite in review", slog.String("asset_id", id), slog.Any("error", err))
			continue
		}
		assets = append(assets, asset)
	}

	if len(assets) == 0 {
		return r.renderError(ctx, chatID, errs.NewProviderError(market.ErrUnavailable))
	}

	return r.send(ctx, chatID, alarm.BuildDigest(assets), keyboard.HomeRow())
}

func (r *Router) send(ctx context.Context, chatID int64, text string, rows [][]keyboard.Button) error {
	if _, err := r.presenter.SendText(chatID, text, rows); err != nil {
		return errs.NewDeliveryError(err)
	}
	return nil
}

// renderError funnels every failed transition through the error handler and
// shows the resulting user text with a way back home.
func (r *Router) renderError(ctx context.Context, chatID int64, err error) error {
	userMsg := r.userMessage(ctx, err)
	if userMsg == "" {
		return nil
	}

	if _, sendErr := r.presenter.SendText(chatID, userMsg, keyboard.HomeRow()); sendErr != nil {
		r.log.Error("failed to render error screen", slog.Int64("chat_id", chatID), slog.Any("error", sendErr))
	}
	return nil
}

func (r *Router) userMessage(ctx context.Context, err error) string {
	msg, _ := r.errors.Handle(ctx, err)
	return msg
}

// marketErr lifts provider sentinels into user-presentable application errors.
func marketErr(err error, query string) error {
	switch {
	case errors.Is(err, market.ErrNotFound):
		return errs.NewNotFoundError(query)
	case errors.Is(err, market.ErrUnavailable):
		return errs.NewProviderError(err)
	}
	return err
}
