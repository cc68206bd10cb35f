package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casierfr/console/pkg/api"
	"github.com/casierfr/console/pkg/view"
)

type fakeBackend struct {
	orders    []api.Record
	byN       map[string]api.Record
	clients   []api.Record
	exists    bool
	created   map[string]string
	updated   map[string]string
	updatedN  string
	stampedN  string
	stampedAs string
	saveN     string
	loadCalls int
}

func (f *fakeBackend) Orders(ctx context.Context, q api.OrdersQuery) ([]api.Record, error) {
	f.loadCalls++
	return f.orders, nil
}

func (f *fakeBackend) Order(ctx context.Context, n string) (api.Record, error) {
	return f.byN[n], nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, fields map[string]string) (*api.SaveResult, error) {
	f.created = fields
	return &api.SaveResult{N: f.saveN}, nil
}

func (f *fakeBackend) UpdateOrder(ctx context.Context, n string, fields map[string]string) (*api.SaveResult, error) {
	f.updatedN = n
	f.updated = fields
	return &api.SaveResult{N: n}, nil
}

func (f *fakeBackend) Clients(ctx context.Context, q string, limit, offset int) ([]api.Record, error) {
	return f.clients, nil
}

func (f *fakeBackend) CheckClient(ctx context.Context, nom string) (bool, error) {
	return f.exists, nil
}

func (f *fakeBackend) Stats(ctx context.Context) (*api.Stats, error) {
	return &api.Stats{EnCours: 3, EnStock: 2, Livrees: 7, CAMois: "15000"}, nil
}

func (f *fakeBackend) ModulesEvolution(ctx context.Context) ([]api.EvolutionPoint, error) {
	return []api.EvolutionPoint{{Label: "Jan", Modules: 4}}, nil
}

func (f *fakeBackend) StampStatus(ctx context.Context, n, action, dateLivraison string) error {
	f.stampedN = n
	f.stampedAs = action
	return nil
}

func TestLoadOrdersKeepsFilter(t *testing.T) {
	backend := &fakeBackend{orders: []api.Record{
		{"N": "1", "STATUT": "EN PRODUCTION"},
		{"N": "2", "STATUT": "EN STOCK"},
	}}
	svc := New(backend, nil, nil)
	svc.SetFilter(view.Filter{Group: view.GroupStock})

	require.NoError(t, svc.LoadOrders(context.Background()))

	rows := svc.FilteredOrders()
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].ID())
	assert.Equal(t, view.GroupStock, svc.Filter().Group)
}

func TestSaveOrderSendsOnlyDiff(t *testing.T) {
	backend := &fakeBackend{byN: map[string]api.Record{
		"42": {"N": "42", "STATUT": "EN ATTENTE", "NOM_CLIENT": "ACME"},
	}}
	svc := New(backend, nil, nil)

	values, err := svc.OpenOrder(context.Background(), "42")
	require.NoError(t, err)
	values["CONTACT"] = "Jean"
	svc.Tracker.MarkDirty()

	out, err := svc.SaveOrder(context.Background(), values)
	require.NoError(t, err)
	assert.True(t, out.Saved)
	assert.Equal(t, "42", backend.updatedN)
	assert.Equal(t, map[string]string{"CONTACT": "Jean"}, backend.updated)
	assert.False(t, svc.Tracker.Active())
}

func TestSaveOrderCleanFormIsNoop(t *testing.T) {
	backend := &fakeBackend{byN: map[string]api.Record{"42": {"N": "42", "STATUT": "EN STOCK"}}}
	svc := New(backend, nil, nil)

	values, err := svc.OpenOrder(context.Background(), "42")
	require.NoError(t, err)

	out, err := svc.SaveOrder(context.Background(), values)
	require.NoError(t, err)
	assert.False(t, out.Saved)
	assert.Empty(t, backend.updated)
}

func TestSaveOrderStatusChangeRoutesAndStamps(t *testing.T) {
	backend := &fakeBackend{byN: map[string]api.Record{
		"42": {"N": "42", "STATUT": "EN PRODUCTION"},
	}}
	svc := New(backend, nil, nil)

	values, err := svc.OpenOrder(context.Background(), "42")
	require.NoError(t, err)
	values["STATUT"] = "EN STOCK"

	out, err := svc.SaveOrder(context.Background(), values)
	require.NoError(t, err)
	assert.Equal(t, view.GroupStock, out.NextGroup)
	assert.Equal(t, "42", backend.stampedN)
	assert.Equal(t, "stock", backend.stampedAs)
	assert.Equal(t, view.GroupStock, svc.Filter().Group)
}

func TestSaveNewOrderChecksDuplicateClient(t *testing.T) {
	backend := &fakeBackend{exists: true, saveN: "77"}
	svc := New(backend, nil, nil)

	values, err := svc.OpenOrder(context.Background(), "")
	require.NoError(t, err)
	values["NOM_CLIENT"] = "ACME"

	_, err = svc.SaveOrder(context.Background(), values)
	assert.ErrorIs(t, err, ErrDuplicateClient)

	backend.exists = false
	values, err = svc.OpenOrder(context.Background(), "")
	require.NoError(t, err)
	values["NOM_CLIENT"] = "ACME"
	out, err := svc.SaveOrder(context.Background(), values)
	require.NoError(t, err)
	assert.Equal(t, "77", out.N)
	assert.Equal(t, "ACME", backend.created["NOM_CLIENT"])
	// New records send their defaults along with the typed values.
	assert.Equal(t, "FRANCE", backend.created["PAYS"])
	assert.Equal(t, "EN ATTENTE", backend.created["STATUT"])
}

func TestLoadDashboard(t *testing.T) {
	svc := New(&fakeBackend{}, nil, nil)
	d, err := svc.LoadDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, d.Stats.EnCours)
	require.Len(t, d.Evolution, 1)
	assert.Equal(t, "Jan", d.Evolution[0].Name())
}
