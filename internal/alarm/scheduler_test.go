package alarm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3r1v3/Cryptifica/internal/favorites"
	"github.com/m3r1v3/Cryptifica/internal/market"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeQuoter struct {
	assets map[string]market.Asset
}

func (q *fakeQuoter) Asset(_ context.Context, id string) (market.Asset, error) {
	asset, ok := q.assets[id]
	if !ok {
		return market.Asset{}, market.ErrNotFound
	}
	return asset, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	chats []int64
	err   error
}

func (n *fakeNotifier) Notify(chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}

	n.chats = append(n.chats, chatID)
	n.sent = append(n.sent, text)
	return nil
}

type fakeRepo struct {
	mu       sync.Mutex
	saved    []Schedule
	deleted  []int64
	existing []Schedule
}

func (r *fakeRepo) Save(_ context.Context, schedule Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, schedule)
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, chatID)
	return nil
}

func (r *fakeRepo) List(_ context.Context) ([]Schedule, error) {
	return r.existing, nil
}

func newTestScheduler(notifier *fakeNotifier, repo Repository) (*Scheduler, *favorites.MemoryStore) {
	store := favorites.NewMemoryStore()
	quoter := &fakeQuoter{assets: map[string]market.Asset{
		"bitcoin":  {ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", PriceUSD: "64123.55", ChangePercent24h: "1.23"},
		"ethereum": {ID: "ethereum", Symbol: "ETH", Name: "Ethereum", PriceUSD: "3211.00", ChangePercent24h: "-0.55"},
	}}

	return NewScheduler(store, quoter, notifier, repo, testLogger()), store
}

func TestEnableValidatesHour(t *testing.T) {
	scheduler, _ := newTestScheduler(&fakeNotifier{}, nil)

	err := scheduler.Enable(context.Background(), 1, 1, 24)
	assert.ErrorIs(t, err, ErrInvalidHour)

	err = scheduler.Enable(context.Background(), 1, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidHour)

	_, armed := scheduler.Armed(1)
	assert.False(t, armed)
}

func TestEnableReplacesExistingJob(t *testing.T) {
	scheduler, _ := newTestScheduler(&fakeNotifier{}, nil)
	ctx := context.Background()

	require.NoError(t, scheduler.Enable(ctx, 1, 10, 8))
	require.NoError(t, scheduler.Enable(ctx, 1, 10, 20))

	schedule, armed := scheduler.Armed(1)
	require.True(t, armed)
	assert.Equal(t, 20, schedule.Hour, "later enable must win")
	assert.Len(t, scheduler.cron.Entries(), 1, "exactly one live trigger per chat")
}

func TestDisable(t *testing.T) {
	scheduler, _ := newTestScheduler(&fakeNotifier{}, nil)
	ctx := context.Background()

	require.NoError(t, scheduler.Enable(ctx, 1, 10, 8))
	require.NoError(t, scheduler.Enable(ctx, 2, 20, 12))

	require.NoError(t, scheduler.Disable(ctx, 1))

	_, armed := scheduler.Armed(1)
	assert.False(t, armed)

	_, armed = scheduler.Armed(2)
	assert.True(t, armed, "other chats must be unaffected")
	assert.Len(t, scheduler.cron.Entries(), 1)
}

func TestDisableWithoutAlarm(t *testing.T) {
	scheduler, _ := newTestScheduler(&fakeNotifier{}, nil)

	err := scheduler.Disable(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNoActiveAlarm)
}

func TestFireDeliversDigestInInsertionOrder(t *testing.T) {
	notifier := &fakeNotifier{}
	scheduler, store := newTestScheduler(notifier, nil)
	ctx := context.Background()

	_, err := store.Add(ctx, 10, "bitcoin")
	require.NoError(t, err)
	_, err = store.Add(ctx, 10, "ethereum")
	require.NoError(t, err)

	require.NoError(t, scheduler.Enable(ctx, 1, 10, 8))
	e, ok := scheduler.entries[1]
	require.True(t, ok)

	scheduler.fire(e)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, []int64{1}, notifier.chats)

	text := notifier.sent[0]
	btc := "Bitcoin (BTC) — $64123.55 (+1.23%) 📈"
	eth := "Ethereum (ETH) — $3211.00 (-0.55%) 📉"
	assert.Contains(t, text, btc)
	assert.Contains(t, text, eth)
	assert.Less(t, strings.Index(text, btc), strings.Index(text, eth), "bitcoin was added first")
}

func TestFireWithoutFavorites(t *testing.T) {
	notifier := &fakeNotifier{}
	scheduler, _ := newTestScheduler(notifier, nil)
	ctx := context.Background()

	require.NoError(t, scheduler.Enable(ctx, 1, 10, 8))
	scheduler.fire(scheduler.entries[1])

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, NoFavoritesMessage, notifier.sent[0])
}

func TestFireDeliveryFailureKeepsAlarmArmed(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	scheduler, _ := newTestScheduler(notifier, nil)
	ctx := context.Background()

	require.NoError(t, scheduler.Enable(ctx, 1, 10, 8))
	scheduler.fire(scheduler.entries[1])

	_, armed := scheduler.Armed(1)
	assert.True(t, armed, "a failed delivery must not disarm the schedule")
}

func TestEnableAndDisablePersist(t *testing.T) {
	repo := &fakeRepo{}
	scheduler, _ := newTestScheduler(&fakeNotifier{}, repo)
	ctx := context.Background()

	require.NoError(t, scheduler.Enable(ctx, 1, 10, 8))
	require.NoError(t, scheduler.Disable(ctx, 1))

	require.Len(t, repo.saved, 1)
	assert.Equal(t, Schedule{ChatID: 1, UserID: 10, Hour: 8}, repo.saved[0])
	assert.Equal(t, []int64{1}, repo.deleted)
}

func TestRestoreArmsPersistedAlarms(t *testing.T) {
	repo := &fakeRepo{existing: []Schedule{
		{ChatID: 1, UserID: 10, Hour: 8},
		{ChatID: 2, UserID: 20, Hour: 20},
	}}
	scheduler, _ := newTestScheduler(&fakeNotifier{}, repo)

	require.NoError(t, scheduler.Restore(context.Background()))

	first, armed := scheduler.Armed(1)
	require.True(t, armed)
	assert.Equal(t, 8, first.Hour)

	second, armed := scheduler.Armed(2)
	require.True(t, armed)
	assert.Equal(t, 20, second.Hour)

	assert.Empty(t, repo.saved, "restore must not re-persist")
}
