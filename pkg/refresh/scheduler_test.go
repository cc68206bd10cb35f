package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixture struct {
	s          *Scheduler
	ticks      chan time.Time
	dashboards int64
	orders     int64
	clients    int64
}

func newFixture(view View, editing bool) *fixture {
	f := &fixture{ticks: make(chan time.Time)}
	f.s = &Scheduler{
		ActiveView: func() View { return view },
		Editing:    func() bool { return editing },
		RefreshDashboard: func(ctx context.Context) error {
			atomic.AddInt64(&f.dashboards, 1)
			return nil
		},
		RefreshOrders: func(ctx context.Context) error {
			atomic.AddInt64(&f.orders, 1)
			return nil
		},
		RefreshClients: func(ctx context.Context) error {
			atomic.AddInt64(&f.clients, 1)
			return nil
		},
		Ticker: func(time.Duration) (<-chan time.Time, func()) {
			return f.ticks, func() {}
		},
	}
	return f
}

func TestTickRefreshesVisibleViewOnly(t *testing.T) {
	f := newFixture(Orders, false)
	f.s.Tick(context.Background())

	assert.Equal(t, int64(1), f.orders)
	assert.Equal(t, int64(0), f.dashboards)
	assert.Equal(t, int64(0), f.clients)
}

func TestTickSkipsOrdersWhileEditing(t *testing.T) {
	f := newFixture(Orders, true)
	f.s.Tick(context.Background())
	f.s.Tick(context.Background())

	assert.Equal(t, int64(0), f.orders, "orders must not reload under an open edit session")
}

func TestTickDashboardIgnoresEditing(t *testing.T) {
	f := newFixture(Dashboard, true)
	f.s.Tick(context.Background())

	assert.Equal(t, int64(1), f.dashboards)
}

func TestTickSurvivesErrors(t *testing.T) {
	var calls int64
	s := &Scheduler{
		ActiveView: func() View { return Clients },
		RefreshClients: func(ctx context.Context) error {
			atomic.AddInt64(&calls, 1)
			return errors.New("backend down")
		},
	}

	s.Tick(context.Background())
	s.Tick(context.Background())
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestLoopDrainsTicks(t *testing.T) {
	f := newFixture(Orders, false)
	f.s.Start(context.Background())
	defer f.s.Stop()

	for i := 0; i < 3; i++ {
		f.ticks <- time.Now()
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&f.orders) == 3
	}, time.Second, 5*time.Millisecond)
}

func TestRestartReplacesLoop(t *testing.T) {
	f := newFixture(Orders, false)
	f.s.Start(context.Background())
	f.s.Restart(context.Background())
	defer f.s.Stop()

	// Only the new loop reads the shared tick channel; a tick refreshes once.
	f.ticks <- time.Now()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&f.orders) >= 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&f.orders))
}

func TestStopEndsLoop(t *testing.T) {
	f := newFixture(Clients, false)
	f.s.Start(context.Background())
	f.s.Stop()

	select {
	case f.ticks <- time.Now():
		// The stopping loop may consume one last tick before seeing the
		// cancelled context; either way no refresh fires afterwards.
	case <-time.After(50 * time.Millisecond):
	}
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt64(&f.clients), int64(1))
}
