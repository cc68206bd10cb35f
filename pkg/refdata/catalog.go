// Package refdata caches the shared reference lists (statuses, RAL colors,
// countries, ...) that back the console's choice fields. Lists change rarely,
// so values are held until explicitly forced; concurrent loaders share one
// network round-trip.
package refdata

import (
	"context"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Source is the slice of the API the catalog needs.
type Source interface {
	ReferenceValues(ctx context.Context, column string) ([]string, error)
	ReferenceAll(ctx context.Context) (map[string][]string, error)
	ReferenceCols(ctx context.Context) ([]string, error)
}

// Catalog resolves reference values for a column, preferring a single bulk
// snapshot over per-column round-trips.
type Catalog struct {
	src Source
	log *zap.Logger

	cols *cache.Cache

	mu       sync.Mutex
	bulk     map[string][]string
	inflight chan struct{}

	colNames   []string
	colsLoaded bool
}

// NewCatalog builds a Catalog over the given source.
func NewCatalog(src Source, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		src:  src,
		log:  log,
		cols: cache.New(cache.NoExpiration, 0),
	}
}

// ValuesFor returns the cleaned values for a reference column. Resolution
// order: per-column cache, bulk snapshot (awaiting a shared in-flight load
// when one is running), then a per-column fetch. force drops the bulk
// snapshot first so the next load hits the network. A failed load never
// erases previously cached values; the caller gets an empty list and the
// next call retries.
func (c *Catalog) ValuesFor(ctx context.Context, column string, force bool) ([]string, error) {
	column = NormalizeName(column)
	if column == "" {
		return nil, nil
	}

	if force {
		c.mu.Lock()
		c.bulk = nil
		// Abandon any in-flight load as well: its result predates the force,
		// so the next caller must get a fresh round-trip.
		c.inflight = nil
		c.mu.Unlock()
		c.cols.Delete(column)
	} else if v, ok := c.cols.Get(column); ok {
		if vals := v.([]string); len(vals) > 0 {
			return vals, nil
		}
	}

	bulk, err := c.ensureBulk(ctx)
	if err != nil {
		c.log.Warn("bulk reference load failed", zap.Error(err))
	}
	if vals, ok := bulk[column]; ok && len(vals) > 0 {
		cleaned := clean(vals)
		c.cols.Set(column, cleaned, cache.NoExpiration)
		return cleaned, nil
	}

	vals, err := c.src.ReferenceValues(ctx, column)
	if err != nil {
		c.log.Warn("reference load failed", zap.String("column", column), zap.Error(err))
		return nil, err
	}
	cleaned := clean(vals)
	c.cols.Set(column, cleaned, cache.NoExpiration)
	return cleaned, nil
}

// ensureBulk returns the bulk snapshot, loading it when absent. At most one
// load runs at a time; concurrent callers block on the same load.
func (c *Catalog) ensureBulk(ctx context.Context) (map[string][]string, error) {
	c.mu.Lock()
	for {
		if c.bulk != nil {
			snap := c.bulk
			c.mu.Unlock()
			return snap, nil
		}
		if c.inflight == nil {
			break
		}
		ch := c.inflight
		c.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		c.mu.Lock()
	}

	ch := make(chan struct{})
	c.inflight = ch
	c.mu.Unlock()

	snap, err := c.src.ReferenceAll(ctx)

	c.mu.Lock()
	if c.inflight != ch {
		// A force abandoned this load while it ran; discard the stale
		// snapshot and resolve against the fresh state.
		c.mu.Unlock()
		close(ch)
		return c.ensureBulk(ctx)
	}
	c.inflight = nil
	if err == nil {
		if snap == nil {
			snap = map[string][]string{}
		}
		c.bulk = snap
	}
	c.mu.Unlock()
	close(ch)

	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Columns returns the normalized set of reference columns the backend has.
func (c *Catalog) Columns(ctx context.Context) (map[string]bool, error) {
	c.mu.Lock()
	if c.colsLoaded {
		names := c.colNames
		c.mu.Unlock()
		return asSet(names), nil
	}
	c.mu.Unlock()

	names, err := c.src.ReferenceCols(ctx)
	if err != nil {
		return nil, err
	}
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		if nn := NormalizeName(n); nn != "" {
			normalized = append(normalized, nn)
		}
	}

	c.mu.Lock()
	c.colNames = normalized
	c.colsLoaded = true
	c.mu.Unlock()
	return asSet(normalized), nil
}

func asSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// clean trims values, drops empties, and de-duplicates while preserving the
// backend's ordering.
func clean(vals []string) []string {
	out := make([]string, 0, len(vals))
	seen := make(map[string]bool, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
