package form

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casierfr/console/pkg/refdata"
)

type mapSource map[string][]string

func (m mapSource) ReferenceValues(ctx context.Context, column string) ([]string, error) {
	return m[column], nil
}

func (m mapSource) ReferenceAll(ctx context.Context) (map[string][]string, error) {
	return m, nil
}

func (m mapSource) ReferenceCols(ctx context.Context) ([]string, error) {
	cols := make([]string, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	return cols, nil
}

func newHydrator(src mapSource) *Hydrator {
	return &Hydrator{Catalog: refdata.NewCatalog(src, nil)}
}

func TestMaterializePreservesIdentity(t *testing.T) {
	orig := Field{
		ID:       "STATUT",
		Name:     "Statut",
		Kind:     Text,
		Style:    "wide",
		Required: true,
		Disabled: true,
		Attrs:    map[string]string{"group": "main"},
		Value:    "EN PRODUCTION",
	}

	choice := Materialize(orig, Choice)
	assert.Equal(t, "STATUT", choice.ID)
	assert.Equal(t, "Statut", choice.Name)
	assert.Equal(t, Choice, choice.Kind)
	assert.Equal(t, "wide", choice.Style)
	assert.True(t, choice.Required)
	assert.True(t, choice.Disabled)
	assert.Equal(t, "main", choice.Attrs["group"])
	assert.Equal(t, []string{Placeholder}, choice.Options)

	back := Materialize(choice, Text)
	assert.Equal(t, Text, back.Kind)
	assert.True(t, back.Disabled)
	assert.Nil(t, back.Options)
}

func TestMaterializeSameKindIsNoop(t *testing.T) {
	f := Field{ID: "PAYS", Kind: Choice, Options: []string{Placeholder, "FRANCE"}, Value: "FRANCE"}
	out := Materialize(f, Choice)
	assert.Equal(t, f.Options, out.Options)
	assert.Equal(t, "FRANCE", out.Value)
	assert.False(t, out.hasPrev)
}

func TestHydrateRestoresPriorValue(t *testing.T) {
	h := newHydrator(mapSource{"STATUT": {"EN ATTENTE", "EN PRODUCTION"}})
	f := New(Field{ID: "STATUT", Kind: Text, Value: "EN PRODUCTION"})

	require.NoError(t, h.Hydrate(context.Background(), f, "STATUT", false))

	fld := f.Get("STATUT")
	assert.Equal(t, Choice, fld.Kind)
	assert.Equal(t, []string{Placeholder, "EN ATTENTE", "EN PRODUCTION"}, fld.Options)
	assert.Equal(t, "EN PRODUCTION", fld.Value)
}

func TestHydrateReinsertsMissingValue(t *testing.T) {
	h := newHydrator(mapSource{"STATUT": {"EN ATTENTE"}})
	f := New(Field{ID: "STATUT", Kind: Text, Value: "ANCIEN STATUT"})

	require.NoError(t, h.Hydrate(context.Background(), f, "STATUT", false))

	fld := f.Get("STATUT")
	assert.Equal(t, []string{Placeholder, "EN ATTENTE", "ANCIEN STATUT"}, fld.Options)
	assert.Equal(t, "ANCIEN STATUT", fld.Value)
}

func TestHydrateIsIdempotent(t *testing.T) {
	h := newHydrator(mapSource{"PAYS": {"FRANCE", "BELGIQUE"}})
	f := New(Field{ID: "PAYS", Kind: Text, Value: "FRANCE"})

	require.NoError(t, h.Hydrate(context.Background(), f, "PAYS", false))
	first := append([]string(nil), f.Get("PAYS").Options...)
	require.NoError(t, h.Hydrate(context.Background(), f, "PAYS", false))

	assert.Equal(t, first, f.Get("PAYS").Options)
	assert.Equal(t, "FRANCE", f.Get("PAYS").Value)
}

func TestHydrateBooleanFallback(t *testing.T) {
	h := newHydrator(mapSource{})
	f := New(Field{ID: "EPAPER", Kind: Text, Value: "OUI"})

	require.NoError(t, h.Hydrate(context.Background(), f, "EPAPER", false))

	fld := f.Get("EPAPER")
	assert.Equal(t, []string{Placeholder, "OUI", "NON"}, fld.Options)
	assert.Equal(t, "OUI", fld.Value)
}

func TestHydrateAllRecomputes(t *testing.T) {
	h := newHydrator(mapSource{
		"STATUT": {"EN ATTENTE"},
		"PAYS":   {"FRANCE"},
	})
	recomputed := false
	h.Recompute = func(*Form) { recomputed = true }

	f := New(
		Field{ID: "STATUT", Kind: Choice, Options: []string{Placeholder}},
		Field{ID: "PAYS", Kind: Choice, Options: []string{Placeholder}},
		Field{ID: "NOM_CLIENT", Kind: Text},
	)
	require.NoError(t, h.HydrateAll(context.Background(), f, false))

	assert.True(t, recomputed)
	assert.Contains(t, f.Get("STATUT").Options, "EN ATTENTE")
	assert.Equal(t, Text, f.Get("NOM_CLIENT").Kind)
}

func TestApplyConditionalGroups(t *testing.T) {
	f := New(
		Field{ID: "BORNE_DE_COMMANDE", Kind: Choice, Value: "OUI"},
		Field{ID: "REF_BDC", Kind: Text},
		Field{ID: "RAL_BDC", Kind: Choice},
		Field{ID: "KIT_CODE_BARRES", Kind: Choice, Value: "OUI"},
		Field{ID: "EPAPER", Kind: Choice, Value: "OUI"},
		Field{ID: "QTE_EPAPER", Kind: Text},
		Field{ID: "MARKETING", Kind: Choice, Value: "NON"},
		Field{ID: "SUPPORT_MARKETING", Kind: Text},
	)

	ApplyConditionalGroups(f)

	assert.False(t, f.Get("REF_BDC").Hidden)
	assert.True(t, f.Get("SUPPORT_MARKETING").Hidden)
	// Kiosk orders pin their product-line choices.
	assert.Equal(t, "NON", f.Get("KIT_CODE_BARRES").Value)
	assert.Equal(t, "RAL 9003 BLANC", f.Get("RAL_BDC").Value)
	assert.Equal(t, "NON", f.Get("EPAPER").Value)
	assert.True(t, f.Get("RAL_BDC").Disabled)
	assert.True(t, f.Get("QTE_EPAPER").Hidden)

	f.SetValue("BORNE_DE_COMMANDE", "NON")
	ApplyConditionalGroups(f)
	assert.True(t, f.Get("REF_BDC").Hidden)
	assert.False(t, f.Get("RAL_BDC").Disabled)
}

func TestEpaperQty(t *testing.T) {
	qty := map[string]string{
		"MOD10S":   "2",
		"MOD14RDV": "1",
		"MOD21R":   "1",
		"MOD21SPT": "1",
		"MOD28S":   "1",
		"MOD24R":   "",
		"MOD15R":   "x",
	}
	// 2*10 + 1*14 + 1*21 + 1*18 + 1*28 = 101
	assert.Equal(t, 101, EpaperQty(qty))
	assert.Equal(t, 0, EpaperQty(nil))
}

func TestDeliveryEstimate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	// Standard white everywhere: 10 weeks.
	est := DeliveryEstimate(day(2026, time.January, 5), "RAL 9003 BLANC", "RAL 9003 BLANC", "OUI")
	assert.Equal(t, day(2026, time.March, 16), est)

	// An unset kiosk RAL is not the standard white: 12 weeks.
	est = DeliveryEstimate(day(2026, time.January, 5), "RAL 9003 BLANC", "", "")
	assert.Equal(t, day(2026, time.March, 30), est)

	// Custom module color: 12 weeks.
	est = DeliveryEstimate(day(2026, time.January, 5), "RAL 7016 GRIS", "RAL 9003 BLANC", "")
	assert.Equal(t, day(2026, time.March, 30), est)

	// A COMPACT kiosk ignores the kiosk RAL.
	est = DeliveryEstimate(day(2026, time.January, 5), "RAL 9003 BLANC", "RAL 7016 GRIS", "COMPACT")
	assert.Equal(t, day(2026, time.March, 16), est)

	// Landing in early August slips past the plant closure.
	est = DeliveryEstimate(day(2026, time.May, 25), "RAL 9003 BLANC", "RAL 9003 BLANC", "")
	assert.Equal(t, time.August, est.Month())
	assert.Greater(t, est.Day(), 21)
}

func TestDateHelpers(t *testing.T) {
	assert.Equal(t, "05/01/2026", FormatDDMMYYYY(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "05/01/2026", NormalizeDDMMYYYY("5/1/2026"))
	assert.Equal(t, "05/01/2026", NormalizeDDMMYYYY("2026-01-05"))
	assert.Equal(t, "pas une date", NormalizeDDMMYYYY(" pas une date "))
	assert.Equal(t, "", NormalizeDDMMYYYY("  "))
}

func TestNewOrderDefaults(t *testing.T) {
	d := NewOrderDefaults(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "EN ATTENTE", d["STATUT"])
	assert.Equal(t, "FRANCE", d["PAYS"])
	assert.Equal(t, "RAL 9003 BLANC", d["RAL_MODULE"])
	assert.Equal(t, "30/08/2026", d["DATE_PLANNING"])
	assert.Equal(t, "NON", d["BORNE_DE_COMMANDE"])
}
