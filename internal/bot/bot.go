package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	errs "github.com/m3r1v3/Cryptifica/internal/errors"
	"github.com/m3r1v3/Cryptifica/internal/ratelimit"
	"github.com/m3r1v3/Cryptifica/pkg/config"
	"github.com/m3r1v3/Cryptifica/pkg/logger"
)

const (
	defaultPollTimeout = 10 * time.Second

	// Per-user interaction budget. Generous enough for real navigation,
	// tight enough to stop a button-mashing loop.
	rateLimit       = 20
	rateLimitWindow = 10 * time.Second
)

// Bot wires the router into the Telegram long-polling transport.
type Bot struct {
	telebot *telebot.Bot
	router  *Router
	log     *slog.Logger
}

// New builds a telegram bot instance configured according to the application settings.
//
// The router is constructed by the caller so its collaborators (catalog,
// quotes, alarms) can be wired and tested independently of the transport.
func New(cfg config.BotConfig, makeRouter func(Presenter) *Router, errHandler *errs.Handler, log *slog.Logger) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}

	tb, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	router := makeRouter(NewTelebotPresenter(tb, log))

	b := &Bot{
		telebot: tb,
		router:  router,
		log:     log,
	}

	b.registerHandlers(errHandler)
	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	b.log.Info("starting telegram bot")
	b.telebot.Start()
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Router exposes the dispatch core, used by the alarm notifier wiring.
func (b *Bot) Router() *Router {
	return b.router
}

func (b *Bot) registerHandlers(errHandler *errs.Handler) {
	limiter := ratelimit.NewMemoryLimiter()

	wrap := func(h Handler) Handler {
		return Chain(h,
			RecoveryMiddleware(b.log, errHandler),
			RateLimitMiddleware(limiter, rateLimit, rateLimitWindow, b.log),
			LoggingMiddleware(b.log),
			MetricsMiddleware,
		)
	}

	b.telebot.Handle("/start", func(c telebot.Context) error {
		return wrap(b.handleStart)(c)
	})
	b.telebot.Handle(telebot.OnCallback, func(c telebot.Context) error {
		return wrap(b.handleCallback)(c)
	})
	b.telebot.Handle(telebot.OnText, func(c telebot.Context) error {
		return wrap(b.handleText)(c)
	})
}

func (b *Bot) handleStart(c telebot.Context) error {
	if c.Chat() == nil {
		return nil
	}

	ctx, _ := logger.WithCorrelationID(context.Background())
	return b.router.HandleStart(ctx, c.Chat().ID)
}

func (b *Bot) handleCallback(c telebot.Context) error {
	cb := c.Callback()
	if cb == nil || c.Chat() == nil || c.Sender() == nil {
		return nil
	}

	messageID := 0
	if cb.Message != nil {
		messageID = cb.Message.ID
	}

	// Telebot prefixes callback data with "\f<unique>|", raw buttons carry
	// the token directly.
	data := strings.TrimPrefix(cb.Data, "\f")

	ctx, _ := logger.WithCorrelationID(context.Background())
	return b.router.HandleCallback(ctx, c.Chat().ID, c.Sender().ID, messageID, cb.ID, data)
}

func (b *Bot) handleText(c telebot.Context) error {
	if c.Chat() == nil || c.Sender() == nil {
		return nil
	}

	ctx, _ := logger.WithCorrelationID(context.Background())
	return b.router.HandleText(ctx, c.Chat().ID, c.Sender().ID, strings.TrimSpace(c.Text()))
}
