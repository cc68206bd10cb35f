package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/casierfr/console/pkg/refdata"
)

// hydrateBatch caps how many reference columns are resolved at once during a
// full-form hydration.
const hydrateBatch = 6

// Hydrator turns the form's choice fields into populated choice lists from
// the reference catalog.
type Hydrator struct {
	Catalog *refdata.Catalog
	Log     *zap.Logger

	// Recompute runs after a full hydration, re-deriving conditional field
	// visibility from the now-complete values.
	Recompute func(*Form)
}

func (h *Hydrator) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// EnsureChoice converts the identified field to a choice field when it is
// still a plain text input. Already-choice fields are left alone.
func (h *Hydrator) EnsureChoice(f *Form, id string) {
	fld := f.Get(id)
	if fld == nil || fld.Kind == Choice {
		return
	}
	f.Set(Materialize(*fld, Choice))
}

// Hydrate fills one choice field's options from its reference column. The
// option list is rebuilt from scratch on every call, so hydrating twice
// yields the same list. The value held before conversion is restored, and
// re-inserted as an extra option when the reference list no longer carries
// it, so a stored order never loses its data to a trimmed list.
func (h *Hydrator) Hydrate(ctx context.Context, f *Form, id string, force bool) error {
	fld := f.Get(id)
	if fld == nil {
		return fmt.Errorf("form: no field %q", id)
	}
	if fld.Kind != Choice {
		h.EnsureChoice(f, id)
		fld = f.Get(id)
	}

	column := refdata.ColumnFor(id)
	values, err := h.Catalog.ValuesFor(ctx, column, force)
	if err != nil || len(values) == 0 {
		if fallback := refdata.BooleanFallback(id); fallback != nil {
			values = fallback
		} else if err != nil {
			return fmt.Errorf("form: hydrate %s: %w", id, err)
		}
	}

	options := make([]string, 0, len(values)+2)
	options = append(options, Placeholder)
	seen := map[string]bool{Placeholder: true}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			options = append(options, v)
		}
	}

	want := fld.Value
	if fld.hasPrev {
		want = fld.prev
	}
	if want != "" && !seen[want] {
		options = append(options, want)
	}

	fld.Options = options
	fld.Value = want
	fld.prev = ""
	fld.hasPrev = false
	return nil
}

// HydrateAll hydrates every choice-backed field, a few columns at a time,
// then reapplies the conditional-visibility rules. Individual failures are
// collected; the remaining fields still hydrate.
func (h *Hydrator) HydrateAll(ctx context.Context, f *Form, force bool) error {
	var ids []string
	for _, fld := range f.Fields() {
		if fld.Kind == Choice {
			ids = append(ids, fld.ID)
		}
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	for start := 0; start < len(ids); start += hydrateBatch {
		end := start + hydrateBatch
		if end > len(ids) {
			end = len(ids)
		}
		var wg sync.WaitGroup
		for _, id := range ids[start:end] {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				if err := h.Hydrate(ctx, f, id, force); err != nil {
					h.logger().Warn("hydrate failed", zap.String("field", id), zap.Error(err))
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}(id)
		}
		wg.Wait()
	}

	if h.Recompute != nil {
		h.Recompute(f)
	}
	return errors.Join(errs...)
}
