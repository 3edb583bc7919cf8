// Package alarm maintains the per-chat recurring daily price digest.
package alarm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cron "github.com/robfig/cron/v3"

	"github.com/m3r1v3/Cryptifica/internal/favorites"
	"github.com/m3r1v3/Cryptifica/internal/market"
	"github.com/m3r1v3/Cryptifica/pkg/metrics"
)

var (
	// ErrNoActiveAlarm indicates a disable request for a chat with nothing armed.
	ErrNoActiveAlarm = errors.New("no active alarm for this chat")
	// ErrInvalidHour indicates an hour outside 0-23.
	ErrInvalidHour = errors.New("alarm hour must be between 0 and 23")
)

const fireTimeout = time.Minute

// Schedule describes one armed daily alarm.
type Schedule struct {
	ChatID int64
	UserID int64
	Hour   int
}

// Notifier delivers digest text to a chat.
type Notifier interface {
	Notify(chatID int64, text string) error
}

// Quoter returns a fresh quote for an asset id.
type Quoter interface {
	Asset(ctx context.Context, id string) (market.Asset, error)
}

// Scheduler keeps at most one live recurring job per chat, firing daily at
// the chosen UTC hour.
type Scheduler struct {
	cron      *cron.Cron
	favorites favorites.Store
	quotes    Quoter
	notifier  Notifier
	repo      Repository
	log       *slog.Logger

	mu      sync.Mutex
	entries map[int64]*entry
}

type entry struct {
	schedule Schedule
	entryID  cron.EntryID
	// firing guards against an overlapping fire for the same chat. With a
	// daily cadence this cannot trigger in practice, the guarantee is still
	// explicit.
	firing sync.Mutex
}

// NewScheduler builds a scheduler. repo may be nil for setups without
// persistence (the registry then lives only in memory).
func NewScheduler(store favorites.Store, quotes Quoter, notifier Notifier, repo Repository, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		favorites: store,
		quotes:    quotes,
		notifier:  notifier,
		repo:      repo,
		log:       log,
		entries:   make(map[int64]*entry),
	}
}

// Start begins running armed jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the trigger loop and waits for any in-flight fire to complete.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Enable arms (or re-arms) the daily alarm for chatID at the given UTC hour.
// An existing job for the chat is replaced atomically: the old trigger is
// removed under the registry lock before the new one is installed, so there
// is no double-fire window.
func (s *Scheduler) Enable(ctx context.Context, chatID, userID int64, hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: got %d", ErrInvalidHour, hour)
	}

	schedule := Schedule{ChatID: chatID, UserID: userID, Hour: hour}

	if s.repo != nil {
		if err := s.repo.Save(ctx, schedule); err != nil {
			return fmt.Errorf("persist alarm for chat %d: %w", chatID, err)
		}
	}

	if err := s.arm(schedule); err != nil {
		return err
	}

	s.log.Info("alarm armed", slog.Int64("chat_id", chatID), slog.Int("hour", hour))
	return nil
}

// Disable removes the armed alarm for chatID. A fire already in flight at the
// moment of cancellation completes; no further fires happen after return.
func (s *Scheduler) Disable(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	e, ok := s.entries[chatID]
	if !ok {
		s.mu.Unlock()
		return ErrNoActiveAlarm
	}

	s.cron.Remove(e.entryID)
	delete(s.entries, chatID)
	count := len(s.entries)
	s.mu.Unlock()

	metrics.SetActiveAlarms(count)

	if s.repo != nil {
		if err := s.repo.Delete(ctx, chatID); err != nil {
			return fmt.Errorf("delete persisted alarm for chat %d: %w", chatID, err)
		}
	}

	s.log.Info("alarm disarmed", slog.Int64("chat_id", chatID))
	return nil
}

// Restore re-arms every persisted alarm. Called once at startup, before Start.
func (s *Scheduler) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	schedules, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load persisted alarms: %w", err)
	}

	for _, schedule := range schedules {
		if err := s.arm(schedule); err != nil {
			s.log.Error("failed to restore alarm", slog.Int64("chat_id", schedule.ChatID), slog.Any("error", err))
		}
	}

	s.log.Info("alarms restored", slog.Int("count", len(schedules)))
	return nil
}

// Armed reports the schedule currently installed for chatID.
func (s *Scheduler) Armed(chatID int64) (Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[chatID]
	if !ok {
		return Schedule{}, false
	}
	return e.schedule, true
}

func (s *Scheduler) arm(schedule Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[schedule.ChatID]; ok {
		s.cron.Remove(old.entryID)
		delete(s.entries, schedule.ChatID)
	}

	e := &entry{schedule: schedule}
	spec := fmt.Sprintf("0 %d * * *", schedule.Hour)
	entryID, err := s.cron.AddFunc(spec, func() { s.fire(e) })
	if err != nil {
		return fmt.Errorf("schedule alarm for chat %d: %w", schedule.ChatID, err)
	}

	e.entryID = entryID
	s.entries[schedule.ChatID] = e
	metrics.SetActiveAlarms(len(s.entries))
	return nil
}

// fire builds and delivers the digest for one chat. Delivery failures are
// logged and counted but never disarm the schedule.
func (s *Scheduler) fire(e *entry) {
	if !e.firing.TryLock() {
		s.log.Warn("previous alarm fire still in flight, skipping", slog.Int64("chat_id", e.schedule.ChatID))
		return
	}
	defer e.firing.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()

	text := s.buildDigest(ctx, e.schedule.UserID)

	if err := s.notifier.Notify(e.schedule.ChatID, text); err != nil {
		metrics.RecordAlarmFire("error")
		s.log.Error("failed to deliver daily review", slog.Int64("chat_id", e.schedule.ChatID), slog.Any("error", err))
		return
	}

	metrics.RecordAlarmFire("ok")
}

func (s *Scheduler) buildDigest(ctx context.Context, userID int64) string {
	ids, err := s.favorites.List(ctx, userID)
	if err != nil {
		s.log.Error("failed to load favorites for digest", slog.Int64("user_id", userID), slog.Any("error", err))
		return UnavailableMessage
	}

	if len(ids) == 0 {
		return NoFavoritesMessage
	}

	assets := make([]market.Asset, 0, len(ids))
	for _, id := range ids {
		asset, err := s.quotes.Asset(ctx, id)
		if err != nil {
			s.log.Warn("skipping favorite in digest", slog.String("asset_id", id), slog.Any("error", err))
			continue
		}
		assets = append(assets, asset)
	}

	if len(assets) == 0 {
		return UnavailableMessage
	}

	return BuildDigest(assets)
}
