// Package console is the Bubble Tea order console: dashboard, order list
// with a detail form, and client list, refreshed in the background.
package console

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/casierfr/console/pkg/app"
	"github.com/casierfr/console/pkg/refresh"
	"github.com/casierfr/console/pkg/store"
	"github.com/casierfr/console/pkg/view"
)

// Console wires the service and the refresh scheduler into the TUI.
type Console struct {
	Service  *app.Service
	Interval time.Duration
	State    *store.Store
	Log      *zap.Logger
}

// viewState is shared between the model (writer) and the scheduler's
// callbacks (readers).
type viewState struct {
	mu   sync.Mutex
	view refresh.View
}

func (v *viewState) set(view refresh.View) {
	v.mu.Lock()
	v.view = view
	v.mu.Unlock()
}

func (v *viewState) get() refresh.View {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.view
}

// Do runs the console until the operator quits.
func (c *Console) Do(ctx context.Context) error {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	state := &viewState{view: refresh.Dashboard}
	updates := make(chan tea.Msg, 8)

	sched := &refresh.Scheduler{
		Interval:   c.Interval,
		ActiveView: state.get,
		Editing:    c.Service.Tracker.Active,
		RefreshDashboard: func(ctx context.Context) error {
			d, err := c.Service.LoadDashboard(ctx)
			if err != nil {
				return err
			}
			push(updates, dashboardLoadedMsg{dashboard: d})
			return nil
		},
		RefreshOrders: func(ctx context.Context) error {
			if err := c.Service.LoadOrders(ctx); err != nil {
				return err
			}
			push(updates, ordersRefreshedMsg{})
			return nil
		},
		RefreshClients: func(ctx context.Context) error {
			if err := c.Service.LoadClients(ctx, ""); err != nil {
				return err
			}
			push(updates, clientsRefreshedMsg{})
			return nil
		},
		Log: log,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	sched.Start(runCtx)
	defer sched.Stop()

	if c.State != nil {
		if last := c.State.Get(store.KeyLastFilter); last != "" {
			c.Service.SetFilter(view.Filter{Group: view.Group(last)})
		}
	}
	m := New(c.Service, state, updates, log)

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	if c.State != nil {
		if fm, ok := final.(Model); ok {
			_ = c.State.Set(store.KeyLastFilter, string(fm.svc.Filter().Group))
		}
	}
	return nil
}

// push drops the update when the UI is not draining, so a stalled terminal
// never blocks the scheduler.
func push(ch chan tea.Msg, msg tea.Msg) {
	select {
	case ch <- msg:
	default:
	}
}
