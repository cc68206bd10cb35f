// Package refresh drives the console's periodic background reloads. One
// loop, one tick at a time; a tick never touches the order list while the
// operator has a detail form open.
package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often the visible view is reloaded.
const DefaultInterval = 5 * time.Second

// View identifies what the console currently shows.
type View int

const (
	None View = iota
	Dashboard
	Orders
	Clients
)

// Scheduler periodically refreshes the visible view. Start spawns the loop;
// Restart replaces it, cancelling the old loop first so two loops never run
// at once.
type Scheduler struct {
	// Interval between ticks; DefaultInterval when zero.
	Interval time.Duration

	// ActiveView reports what is on screen; views other than the active one
	// are not refreshed.
	ActiveView func() View

	// Editing reports whether a detail edit session is open. While it is,
	// the orders view is left alone entirely, dirty or not.
	Editing func() bool

	RefreshDashboard func(ctx context.Context) error
	RefreshOrders    func(ctx context.Context) error
	RefreshClients   func(ctx context.Context) error

	Log *zap.Logger

	// Ticker builds the tick source; overridable in tests. nil means a
	// time.Ticker.
	Ticker func(d time.Duration) (<-chan time.Time, func())

	mu     sync.Mutex
	cancel context.CancelFunc
}

func (s *Scheduler) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Scheduler) interval() time.Duration {
	if s.Interval <= 0 {
		return DefaultInterval
	}
	return s.Interval
}

func (s *Scheduler) ticker() (<-chan time.Time, func()) {
	if s.Ticker != nil {
		return s.Ticker(s.interval())
	}
	t := time.NewTicker(s.interval())
	return t.C, t.Stop
}

// Start spawns the refresh loop. Calling Start while a loop is running
// restarts it.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(loopCtx)
}

// Restart cancels the running loop and starts a fresh one.
func (s *Scheduler) Restart(ctx context.Context) {
	s.Start(ctx)
}

// Stop cancels the running loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
}

func (s *Scheduler) run(ctx context.Context) {
	ticks, stop := s.ticker()
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.Tick(ctx)
		}
	}
}

// Tick performs one refresh pass synchronously. Refresh errors are logged
// and swallowed so a flaky backend never kills the loop; ticks run back to
// back, never concurrently.
func (s *Scheduler) Tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger().Error("refresh tick panicked", zap.Any("panic", r))
		}
	}()

	view := None
	if s.ActiveView != nil {
		view = s.ActiveView()
	}

	switch view {
	case Dashboard:
		s.refresh(ctx, "dashboard", s.RefreshDashboard)
	case Orders:
		if s.Editing != nil && s.Editing() {
			return
		}
		s.refresh(ctx, "orders", s.RefreshOrders)
	case Clients:
		s.refresh(ctx, "clients", s.RefreshClients)
	}
}

func (s *Scheduler) refresh(ctx context.Context, name string, fn func(context.Context) error) {
	if fn == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger().Warn("refresh failed", zap.String("view", name), zap.Error(err))
	}
}
