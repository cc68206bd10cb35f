package refdata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	bulkCalls int64
	colCalls  int64
	bulk      map[string][]string
	perCol    map[string][]string
	bulkErr   error
	delay     time.Duration
}

func (f *fakeSource) ReferenceValues(ctx context.Context, column string) ([]string, error) {
	atomic.AddInt64(&f.colCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perCol[column], nil
}

func (f *fakeSource) ReferenceAll(ctx context.Context) (map[string][]string, error) {
	atomic.AddInt64(&f.bulkCalls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	return f.bulk, nil
}

func (f *fakeSource) ReferenceCols(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cols := make([]string, 0, len(f.bulk))
	for c := range f.bulk {
		cols = append(cols, c)
	}
	return cols, nil
}

func TestValuesForCoalescesBulkLoad(t *testing.T) {
	src := &fakeSource{
		bulk:  map[string][]string{"STATUT": {"EN ATTENTE", "EN PRODUCTION"}},
		delay: 20 * time.Millisecond,
	}
	cat := NewCatalog(src, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vals, err := cat.ValuesFor(context.Background(), "STATUT", false)
			require.NoError(t, err)
			assert.Equal(t, []string{"EN ATTENTE", "EN PRODUCTION"}, vals)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&src.bulkCalls), "concurrent callers must share one bulk load")
}

func TestValuesForCleansAndCaches(t *testing.T) {
	src := &fakeSource{
		bulk: map[string][]string{"PAYS": {" FRANCE ", "", "BELGIQUE", "FRANCE", "  "}},
	}
	cat := NewCatalog(src, nil)

	vals, err := cat.ValuesFor(context.Background(), "PAYS", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"FRANCE", "BELGIQUE"}, vals)

	// Second lookup comes from cache, no extra bulk round-trip.
	_, err = cat.ValuesFor(context.Background(), "PAYS", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&src.bulkCalls))
}

func TestForceRefetches(t *testing.T) {
	src := &fakeSource{bulk: map[string][]string{"RAL": {"RAL 9003 BLANC"}}}
	cat := NewCatalog(src, nil)

	_, err := cat.ValuesFor(context.Background(), "RAL", false)
	require.NoError(t, err)

	src.mu.Lock()
	src.bulk["RAL"] = []string{"RAL 9003 BLANC", "RAL 7016 GRIS"}
	src.mu.Unlock()

	vals, err := cat.ValuesFor(context.Background(), "RAL", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"RAL 9003 BLANC", "RAL 7016 GRIS"}, vals)
	assert.Equal(t, int64(2), atomic.LoadInt64(&src.bulkCalls))
}

func TestBulkOmissionFallsBackToPerColumn(t *testing.T) {
	src := &fakeSource{
		bulk:   map[string][]string{"STATUT": {"EN ATTENTE"}},
		perCol: map[string][]string{"TRANSPORTEUR": {"DHL", "GEODIS"}},
	}
	cat := NewCatalog(src, nil)

	vals, err := cat.ValuesFor(context.Background(), "TRANSPORTEUR", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"DHL", "GEODIS"}, vals)
	assert.Equal(t, int64(1), atomic.LoadInt64(&src.colCalls))
}

func TestFailedBulkDoesNotEraseCache(t *testing.T) {
	src := &fakeSource{bulk: map[string][]string{"STATUT": {"EN ATTENTE"}}}
	cat := NewCatalog(src, nil)

	vals, err := cat.ValuesFor(context.Background(), "STATUT", false)
	require.NoError(t, err)
	require.Equal(t, []string{"EN ATTENTE"}, vals)

	src.mu.Lock()
	src.bulkErr = errors.New("backend down")
	src.mu.Unlock()

	// Cached column still answers without touching the network.
	vals, err = cat.ValuesFor(context.Background(), "STATUT", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"EN ATTENTE"}, vals)

	// A forced load fails, but the failure is not sticky: clearing the
	// error lets the next forced load succeed again.
	_, _ = cat.ValuesFor(context.Background(), "STATUT", true)
	src.mu.Lock()
	src.bulkErr = nil
	src.mu.Unlock()
	vals, err = cat.ValuesFor(context.Background(), "STATUT", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"EN ATTENTE"}, vals)
}

// gatedSource blocks its first bulk load until released, so a force can land
// while the load is still in flight.
type gatedSource struct {
	started chan struct{}
	release chan struct{}
	calls   int64
}

func (g *gatedSource) ReferenceValues(ctx context.Context, column string) ([]string, error) {
	return nil, nil
}

func (g *gatedSource) ReferenceAll(ctx context.Context) (map[string][]string, error) {
	if atomic.AddInt64(&g.calls, 1) == 1 {
		close(g.started)
		<-g.release
		return map[string][]string{"STATUT": {"ANCIEN"}}, nil
	}
	return map[string][]string{"STATUT": {"NOUVEAU"}}, nil
}

func (g *gatedSource) ReferenceCols(ctx context.Context) ([]string, error) {
	return []string{"STATUT"}, nil
}

func TestForceAbandonsInflightBulkLoad(t *testing.T) {
	src := &gatedSource{started: make(chan struct{}), release: make(chan struct{})}
	cat := NewCatalog(src, nil)

	slow := make(chan []string, 1)
	go func() {
		vals, _ := cat.ValuesFor(context.Background(), "STATUT", false)
		slow <- vals
	}()
	<-src.started

	// The force must not coalesce onto the round-trip already running.
	vals, err := cat.ValuesFor(context.Background(), "STATUT", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"NOUVEAU"}, vals)
	assert.Equal(t, int64(2), atomic.LoadInt64(&src.calls))

	// The abandoned load resolves against the fresh snapshot, never the
	// stale one it fetched.
	close(src.release)
	assert.Equal(t, []string{"NOUVEAU"}, <-slow)
}

func TestColumnBindings(t *testing.T) {
	assert.Equal(t, "RAL", ColumnFor("RAL_BDC"))
	assert.Equal(t, "RAL", ColumnFor("RAL_MODULE"))
	assert.Equal(t, "STATUT", ColumnFor("statut"))
	assert.Equal(t, "NOM_CLIENT", ColumnFor("Nom Client"))
	assert.Equal(t, "DELAI_PREVU", NormalizeName("Délai prévu"))

	assert.Equal(t, []string{"OUI", "NON"}, BooleanFallback("EPAPER"))
	assert.Equal(t, []string{"OUI", "NON"}, BooleanFallback("borne de commande"))
	assert.Nil(t, BooleanFallback("STATUT"))
}
