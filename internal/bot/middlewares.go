package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	errs "github.com/m3r1v3/Cryptifica/internal/errors"
	"github.com/m3r1v3/Cryptifica/internal/ratelimit"
	"github.com/m3r1v3/Cryptifica/pkg/metrics"
)

// Handler processes one telebot update.
type Handler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Chain applies middlewares to h, the first listed running outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

// RecoveryMiddleware catches panics, reports them via the centralized handler,
// and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errs.Handler) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					userMsg := "Something went wrong, please try again later 🔁"
					if errHandler != nil {
						appErr := errs.NewDatabaseError(fmt.Errorf("panic recovered: %v", r))
						if msg, _ := errHandler.Handle(context.Background(), appErr); msg != "" {
							userMsg = msg
						}
					}

					if c != nil {
						if sendErr := c.Send(userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			userID := senderID(c)
			action := updateAction(c)

			log.Info("handling update", slog.Int64("user_id", userID), slog.String("action", action))
			err := next(c)
			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("action", action),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// MetricsMiddleware records callback counters and handling duration.
func MetricsMiddleware(next Handler) Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RecordCallback(metricAction(c), status, time.Since(start))

		return err
	}
}

// RateLimitMiddleware drops updates from users over the per-window budget.
// The callback is still answered so the client does not keep a stuck spinner.
func RateLimitMiddleware(limiter ratelimit.Limiter, limit int, window time.Duration, log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if limiter == nil || c == nil || c.Sender() == nil {
				return next(c)
			}

			key := fmt.Sprintf("user:%d", c.Sender().ID)
			result, err := limiter.Check(context.Background(), key, limit, window)
			if err != nil && !errors.Is(err, ratelimit.ErrLimitExceeded) {
				log.Error("rate limiter failed, letting update through", slog.Any("error", err))
				return next(c)
			}

			if result != nil && !result.Allowed {
				log.Warn("rate limit exceeded, dropping update", slog.Int64("user_id", c.Sender().ID))
				if cb := c.Callback(); cb != nil {
					_ = c.Respond(&telebot.CallbackResponse{Text: "Too many requests, slow down 🐢"})
				}
				return nil
			}

			return next(c)
		}
	}
}

func senderID(c telebot.Context) int64 {
	if c == nil || c.Sender() == nil {
		return 0
	}
	return c.Sender().ID
}

func updateAction(c telebot.Context) string {
	if c == nil {
		return ""
	}
	if cb := c.Callback(); cb != nil {
		return cb.Data
	}
	return c.Text()
}

// metricAction strips the window and target from callback data so the label
// set stays bounded; free-text updates all share one label.
func metricAction(c telebot.Context) string {
	if c == nil {
		return ""
	}

	cb := c.Callback()
	if cb == nil {
		return "text"
	}

	raw := cb.Data
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' || raw[i] == '_' {
			return raw[:i]
		}
	}
	return raw
}
