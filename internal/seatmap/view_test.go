package seatmap_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"seatmap-client/internal/data/entity"
	"seatmap-client/internal/dto/response"
	"seatmap-client/internal/push"
	"seatmap-client/internal/seatmap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const messagePattern = "seat:events:*_*"

type viewFixture struct {
	view    *seatmap.View
	catalog *fakeCatalog
	locker  *fakeLocker
	channel *fakeChannel
}

func newViewFixture(t *testing.T, releaseOnFirst bool, log *zap.Logger, seats ...entity.Seat) *viewFixture {
	t.Helper()

	f := &viewFixture{
		catalog: &fakeCatalog{seats: seats},
		locker:  &fakeLocker{},
		channel: newFakeChannel(),
	}
	f.view = seatmap.NewView("view-1", seatmap.Config{
		EventID:                1,
		VenueID:                2,
		GuestID:                "me",
		Event:                  &entity.EventCard{ID: 1, Name: "Opening night", VenueID: 2},
		ReleaseOnFirstTeardown: releaseOnFirst,
	}, seatmap.Deps{
		Catalog: f.catalog,
		Locker:  f.locker,
		Channel: f.channel,
		Decoder: push.NewDecoder(messagePattern),
	}, log)
	return f
}

func (f *viewFixture) push(channel, message string) {
	f.channel.publish(push.Notification{Channel: channel, Pattern: messagePattern, Message: message})
}

func findSeat(t *testing.T, v response.SeatMapView, row, number string) response.SeatView {
	t.Helper()
	for _, r := range v.Rows {
		for _, s := range r.Seats {
			if s.RowNumber == row && s.SeatNumber == number {
				return s
			}
		}
	}
	t.Fatalf("seat %s%s not projected", row, number)
	return response.SeatView{}
}

func TestView_ClickWaitsForPushConfirmation(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(),
		seat("B", "3", entity.SeatStatusAvailable, ""),
		seat("B", "4", entity.SeatStatusAvailable, ""),
	)
	ctx := context.Background()
	require.NoError(t, f.view.Mount(ctx))

	action, err := f.view.Click(ctx, key("B", "3"))
	require.NoError(t, err)
	assert.Equal(t, response.SeatActionLock, action)
	require.Len(t, f.locker.locks, 1)
	assert.Equal(t, "me", f.locker.locks[0].GuestID)

	b3 := findSeat(t, f.view.Projection(), "B", "3")
	assert.Equal(t, entity.SeatStatusAvailable, b3.StatusID, "no optimistic flip")
	assert.Equal(t, response.SeatClassAvailable, b3.Class)

	f.push("seat:events:1_2", `[2, "B", "3", "me"]`)

	projection := f.view.Projection()
	b3 = findSeat(t, projection, "B", "3")
	assert.Equal(t, response.SeatClassMine, b3.Class)
	assert.False(t, b3.Disabled)
	assert.Equal(t, response.SeatActionUnlock, b3.Action)
	assert.True(t, projection.CanOrder)
	require.Len(t, projection.MySeats, 1)

	action, err = f.view.Click(ctx, key("B", "3"))
	require.NoError(t, err)
	assert.Equal(t, response.SeatActionUnlock, action)
	assert.Len(t, f.locker.unlocks, 1)
}

func TestView_DisconnectedDisablesAllSeats(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(),
		seat("A", "1", entity.SeatStatusAvailable, ""),
		seat("A", "2", entity.SeatStatusLocked, "me"),
	)
	ctx := context.Background()
	require.NoError(t, f.view.Mount(ctx))
	f.channel.connected.Store(false)

	projection := f.view.Projection()
	assert.False(t, projection.Connected)
	for _, row := range projection.Rows {
		for _, s := range row.Seats {
			assert.True(t, s.Disabled)
			assert.Contains(t, s.Title, "(No connection)")
		}
	}

	_, err := f.view.Click(ctx, key("A", "1"))
	assert.ErrorIs(t, err, seatmap.ErrSeatDisabled)
	assert.Empty(t, f.locker.locks)
}

func TestView_MalformedMessageLogsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := newViewFixture(t, true, zap.New(core), seat("A", "1", entity.SeatStatusAvailable, ""))
	require.NoError(t, f.view.Mount(context.Background()))
	before := f.view.Projection().Rows
	logs.TakeAll()

	require.NotPanics(t, func() {
		f.push("seat:events:1_2", `[2, "A", `)
	})

	assert.Equal(t, before, f.view.Projection().Rows)
	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestView_IgnoresOtherSeatMaps(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(), seat("A", "1", entity.SeatStatusAvailable, ""))
	require.NoError(t, f.view.Mount(context.Background()))
	before := f.view.Projection().Rows

	f.push("seat:events:1_3", `[2, "A", "1", "other"]`)
	f.push("seat:events:9_2", `[3, "A", "1", null]`)
	f.push("garbage", `[3, "A", "1", null]`)
	f.channel.publish(push.Notification{Channel: "seat:events:1_2", Pattern: "other:*", Message: `[3, "A", "1", null]`})

	assert.Equal(t, before, f.view.Projection().Rows)
}

func TestView_FailedLoadCanBeRetried(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(), seat("A", "1", entity.SeatStatusAvailable, ""))
	f.catalog.setErr(errors.New("booking service down"))
	ctx := context.Background()

	err := f.view.Mount(ctx)
	require.Error(t, err)

	projection := f.view.Projection()
	assert.Equal(t, string(seatmap.LoadStateFailed), projection.State)
	assert.Contains(t, projection.Error, "booking service down")
	assert.Empty(t, projection.Rows, "a failed fetch applies nothing")

	_, err = f.view.Click(ctx, key("A", "1"))
	assert.ErrorIs(t, err, seatmap.ErrSeatMapNotReady)

	f.catalog.setErr(nil)
	require.NoError(t, f.view.Retry(ctx))
	assert.Equal(t, seatmap.LoadStateReady, f.view.State())
	assert.Len(t, f.view.Projection().Rows, 1)

	assert.ErrorIs(t, f.view.Retry(ctx), seatmap.ErrRetryUnavailable)
	assert.Equal(t, 2, f.catalog.calls)
}

func TestView_CommandFailureLeavesDismissibleNotice(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(), seat("A", "1", entity.SeatStatusAvailable, ""))
	f.locker.lockErr = errors.New("seat already locked")
	ctx := context.Background()
	require.NoError(t, f.view.Mount(ctx))

	_, err := f.view.Click(ctx, key("A", "1"))
	require.Error(t, err)

	projection := f.view.Projection()
	require.Len(t, projection.Notices, 1)
	assert.Contains(t, projection.Notices[0].Message, "seat already locked")
	assert.Equal(t, entity.SeatStatusAvailable, findSeat(t, projection, "A", "1").StatusID)

	assert.True(t, f.view.DismissNotice(projection.Notices[0].ID))
	assert.False(t, f.view.DismissNotice(projection.Notices[0].ID))
	assert.Empty(t, f.view.Projection().Notices)
}

func TestView_CloseReleasesHeldSeats(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(),
		seat("A", "1", entity.SeatStatusLocked, "me"),
		seat("A", "2", entity.SeatStatusLocked, "other"),
		seat("A", "3", entity.SeatStatusAvailable, ""),
	)
	ctx := context.Background()
	require.NoError(t, f.view.Mount(ctx))
	f.push("seat:events:1_2", `[2, "A", "3", "me"]`)

	released, err := f.view.Close(ctx)

	require.NoError(t, err)
	assert.True(t, released)
	assert.ElementsMatch(t, []string{"A1", "A3"}, f.locker.unlockedSeats())
	assert.Zero(t, f.channel.subscribers())
	assert.Equal(t, seatmap.LoadStateClosed, f.view.State())

	released, err = f.view.Close(ctx)
	require.NoError(t, err)
	assert.True(t, released)
	assert.Len(t, f.locker.unlockedSeats(), 2, "release runs once")
}

func TestView_TeardownGuardSkipsFirstRelease(t *testing.T) {
	f := newViewFixture(t, false, zap.NewNop(), seat("A", "1", entity.SeatStatusLocked, "me"))
	ctx := context.Background()
	require.NoError(t, f.view.Mount(ctx))

	released, err := f.view.Close(ctx)
	require.NoError(t, err)
	assert.False(t, released)
	assert.Empty(t, f.locker.unlockedSeats())
	assert.Zero(t, f.channel.subscribers(), "unsubscribe is not guarded")

	released, err = f.view.Close(ctx)
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, []string{"A1"}, f.locker.unlockedSeats())
}

func TestView_ClosedViewIgnoresLateEvents(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(), seat("A", "1", entity.SeatStatusAvailable, ""))
	ctx := context.Background()
	require.NoError(t, f.view.Mount(ctx))
	_, err := f.view.Close(ctx)
	require.NoError(t, err)

	_, err = f.view.Click(ctx, key("A", "1"))
	assert.ErrorIs(t, err, seatmap.ErrViewClosed)
	assert.ErrorIs(t, f.view.Mount(ctx), seatmap.ErrViewClosed)
	assert.Equal(t, 1, f.channel.unsubscribed)
}

func TestView_ProceedToOrderCarriesHeldSeats(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(),
		seat("A", "1", entity.SeatStatusLocked, "me"),
		seat("A", "2", entity.SeatStatusLocked, "me"),
		seat("A", "3", entity.SeatStatusAvailable, ""),
	)
	ctx := context.Background()
	require.NoError(t, f.view.Mount(ctx))

	order, err := f.view.ProceedToOrder(ctx, "order-1")
	require.NoError(t, err)

	summary := order.Projection()
	assert.Equal(t, "order-1", summary.OrderID)
	assert.Equal(t, "Opening night", summary.Event.Name)
	assert.Len(t, summary.Seats, 2)
	assert.Empty(t, f.locker.unlockedSeats(), "carried seats stay locked")
	assert.Equal(t, seatmap.LoadStateClosed, f.view.State())

	released, err := order.Close(ctx)
	require.NoError(t, err)
	assert.True(t, released)
	assert.ElementsMatch(t, []string{"A1", "A2"}, f.locker.unlockedSeats())
}

func TestView_CloseAfterOrderKeepsCarriedSeats(t *testing.T) {
	f := newViewFixture(t, false, zap.NewNop(),
		seat("A", "1", entity.SeatStatusLocked, "me"),
		seat("A", "2", entity.SeatStatusAvailable, ""),
	)
	ctx := context.Background()
	require.NoError(t, f.view.Mount(ctx))

	_, err := f.view.ProceedToOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.False(t, f.view.Released(), "first teardown only arms the guard")

	released, err := f.view.Close(ctx)
	require.NoError(t, err)
	assert.True(t, released)
	assert.True(t, f.view.Released())
	assert.Empty(t, f.locker.unlockedSeats(), "A1 belongs to the order")
}

func TestView_ConcurrentProceedToOrderOpensOneOrder(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(), seat("A", "1", entity.SeatStatusLocked, "me"))
	ctx := context.Background()
	require.NoError(t, f.view.Mount(ctx))

	const callers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		orders int
		closed int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.view.ProceedToOrder(ctx, "order")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				orders++
			case errors.Is(err, seatmap.ErrViewClosed):
				closed++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, orders)
	assert.Equal(t, callers-1, closed)
}

func TestView_ProceedToOrderNeedsHeldSeats(t *testing.T) {
	f := newViewFixture(t, true, zap.NewNop(), seat("A", "1", entity.SeatStatusAvailable, ""))
	require.NoError(t, f.view.Mount(context.Background()))

	_, err := f.view.ProceedToOrder(context.Background(), "order-1")
	assert.ErrorIs(t, err, seatmap.ErrNothingToOrder)
	assert.NotEqual(t, seatmap.LoadStateClosed, f.view.State())
}

func TestOrderSummary_GuardedRelease(t *testing.T) {
	locker := &fakeLocker{}
	d := seatmap.NewDispatcher(locker, 1, 2, zap.NewNop())
	order := seatmap.NewOrderSummary("order-1", entity.EventCard{ID: 1, VenueID: 2}, "me",
		[]entity.Seat{seat("A", "1", entity.SeatStatusLocked, "me")}, d, false, zap.NewNop())

	released, err := order.Close(context.Background())
	require.NoError(t, err)
	assert.False(t, released)
	assert.Empty(t, locker.unlockedSeats())

	released, err = order.Close(context.Background())
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, []string{"A1"}, locker.unlockedSeats())
}
