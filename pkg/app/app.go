// Package app provides the high-level console operations. It wires the
// transport, reference catalog, and edit-session tracker so the TUI and the
// CLI commands share one behavior.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/casierfr/console/pkg/api"
	"github.com/casierfr/console/pkg/form"
	"github.com/casierfr/console/pkg/refdata"
	"github.com/casierfr/console/pkg/session"
	"github.com/casierfr/console/pkg/view"
)

var (
	ErrNoClient        = errors.New("app: no API client configured")
	ErrDuplicateClient = errors.New("app: a client with this name already exists")
)

// Backend is the slice of the API client the service uses. *api.Client
// satisfies it; tests substitute fakes.
type Backend interface {
	Orders(ctx context.Context, q api.OrdersQuery) ([]api.Record, error)
	Order(ctx context.Context, n string) (api.Record, error)
	CreateOrder(ctx context.Context, fields map[string]string) (*api.SaveResult, error)
	UpdateOrder(ctx context.Context, n string, fields map[string]string) (*api.SaveResult, error)
	Clients(ctx context.Context, q string, limit, offset int) ([]api.Record, error)
	CheckClient(ctx context.Context, nom string) (bool, error)
	Stats(ctx context.Context) (*api.Stats, error)
	ModulesEvolution(ctx context.Context) ([]api.EvolutionPoint, error)
	StampStatus(ctx context.Context, n, action, dateLivraison string) error
}

// Service holds the console's shared state: the loaded rows, the active
// filter, and the open edit session.
type Service struct {
	API     Backend
	Catalog *refdata.Catalog
	Tracker *session.Tracker
	Log     *zap.Logger

	mu      sync.Mutex
	filter  view.Filter
	columns *view.ColumnFilters
	orders  []api.Record
	clients []api.Record
}

// New builds a Service over the given backend.
func New(backend Backend, catalog *refdata.Catalog, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		API:     backend,
		Catalog: catalog,
		Tracker: session.New(),
		Log:     log,
		columns: view.NewColumnFilters(),
	}
}

// SetFilter replaces the list filter.
func (s *Service) SetFilter(f view.Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// Filter returns the active list filter.
func (s *Service) Filter() view.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// ColumnFilters returns the per-column filter state.
func (s *Service) ColumnFilters() *view.ColumnFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columns
}

// LoadOrders reloads the order rows from the backend, keeping the current
// filter untouched.
func (s *Service) LoadOrders(ctx context.Context) error {
	if s.API == nil {
		return ErrNoClient
	}
	rows, err := s.API.Orders(ctx, api.OrdersQuery{})
	if err != nil {
		return fmt.Errorf("app: load orders: %w", err)
	}
	s.mu.Lock()
	s.orders = rows
	s.mu.Unlock()
	return nil
}

// FilteredOrders returns the loaded rows through the active filter.
func (s *Service) FilteredOrders() []api.Record {
	s.mu.Lock()
	rows := s.orders
	f := s.filter
	s.mu.Unlock()
	return f.Apply(rows)
}

// RenderOrders builds the display table for the filtered rows.
func (s *Service) RenderOrders() *view.Table {
	s.mu.Lock()
	cols := s.columns
	s.mu.Unlock()
	return view.Render(s.FilteredOrders(), cols)
}

// LoadClients reloads the client rows.
func (s *Service) LoadClients(ctx context.Context, q string) error {
	if s.API == nil {
		return ErrNoClient
	}
	rows, err := s.API.Clients(ctx, q, 0, 0)
	if err != nil {
		return fmt.Errorf("app: load clients: %w", err)
	}
	s.mu.Lock()
	s.clients = rows
	s.mu.Unlock()
	return nil
}

// ClientRows returns the loaded client rows.
func (s *Service) ClientRows() []api.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

// OpenOrder loads a record and opens an edit session for it. An empty n
// opens a session for a new order seeded with the defaults.
func (s *Service) OpenOrder(ctx context.Context, n string) (map[string]string, error) {
	if n == "" {
		// New record: empty snapshot, so the defaults themselves count as
		// changes and reach the backend on the first save.
		s.Tracker.Open("", nil)
		return form.NewOrderDefaults(time.Now()), nil
	}
	row, err := s.API.Order(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("app: open order %s: %w", n, err)
	}
	values := map[string]string(row)
	s.Tracker.Open(n, values)
	return values, nil
}

// CloseOrder ends the edit session without saving.
func (s *Service) CloseOrder() {
	s.Tracker.Close()
}

// SaveOutcome reports what a save did.
type SaveOutcome struct {
	N         string
	Saved     bool
	NextGroup view.Group
	Mail      *api.MailResult
}

// SaveOrder diffs the edited values against the session snapshot and sends
// only the changes. A clean form saves nothing. New orders are checked for
// a duplicate client name first. After a status change the matching stamp
// is recorded and the list filter follows the order to its new group.
func (s *Service) SaveOrder(ctx context.Context, values map[string]string) (*SaveOutcome, error) {
	if !s.Tracker.Active() {
		return nil, errors.New("app: no open edit session")
	}
	diff := s.Tracker.Diff(values)
	id := s.Tracker.ActiveID()

	if len(diff) == 0 && id != "" {
		return &SaveOutcome{N: id, Saved: false}, nil
	}

	var (
		res *api.SaveResult
		err error
	)
	if id == "" {
		if nom := strings.TrimSpace(values["NOM_CLIENT"]); nom != "" {
			exists, cerr := s.API.CheckClient(ctx, nom)
			if cerr != nil {
				s.Log.Warn("client check failed", zap.Error(cerr))
			} else if exists {
				return nil, ErrDuplicateClient
			}
		}
		res, err = s.API.CreateOrder(ctx, diff)
	} else {
		res, err = s.API.UpdateOrder(ctx, id, diff)
	}
	if err != nil {
		return nil, fmt.Errorf("app: save order: %w", err)
	}

	n := id
	if res != nil && res.N != "" {
		n = res.N
	}

	outcome := &SaveOutcome{N: n, Saved: true, NextGroup: view.GroupAll}
	if res != nil {
		outcome.Mail = res.Mail
	}

	if status, changed := diff["STATUT"]; changed {
		outcome.NextGroup = view.RouteAfterSave(status)
		if action := view.StampAction(status); action != "" && n != "" {
			if serr := s.API.StampStatus(ctx, n, action, values["DATE_LIVRAISON"]); serr != nil {
				s.Log.Warn("status stamp failed", zap.String("order", n), zap.Error(serr))
			}
		}
	}

	s.Tracker.Close()
	if outcome.NextGroup != view.GroupAll {
		s.SetFilter(view.Filter{Group: outcome.NextGroup})
	}
	return outcome, nil
}

// Dashboard bundles the dashboard data.
type Dashboard struct {
	Stats     *api.Stats
	Evolution []api.EvolutionPoint
}

// LoadDashboard fetches the counters and the modules series.
func (s *Service) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	if s.API == nil {
		return nil, ErrNoClient
	}
	stats, err := s.API.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: load stats: %w", err)
	}
	points, err := s.API.ModulesEvolution(ctx)
	if err != nil {
		s.Log.Warn("modules evolution load failed", zap.Error(err))
		points = nil
	}
	return &Dashboard{Stats: stats, Evolution: points}, nil
}
