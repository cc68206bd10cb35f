package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// conditionalGroups maps a OUI/NON toggle to the detail fields it reveals.
var conditionalGroups = map[string][]string{
	"BORNE_DE_COMMANDE":  {"REF_BDC", "RAL_BDC", "KIT_CODE_BARRES"},
	"BATIMENT_MODULAIRE": {"REF_MODULE", "RAL_MODULE", "NB_MODULES"},
	"MARKETING":          {"SUPPORT_MARKETING", "DATE_MARKETING"},
	"EPAPER":             {"QTE_EPAPER", "STATUT_EPAPER"},
}

// bdcForced pins fields to fixed values while a kiosk order is active; those
// choices are made by the kiosk product line, not the operator.
var bdcForced = map[string]string{
	"KIT_CODE_BARRES": "NON",
	"RAL_BDC":         "RAL 9003 BLANC",
	"EPAPER":          "NON",
}

// ApplyConditionalGroups re-derives field visibility from the current toggle
// values: a group's detail fields are hidden unless the toggle is OUI. A
// kiosk order (BORNE_DE_COMMANDE=OUI) additionally pins its forced values.
func ApplyConditionalGroups(f *Form) {
	for toggle, members := range conditionalGroups {
		on := strings.EqualFold(strings.TrimSpace(valueOf(f, toggle)), "OUI")
		for _, id := range members {
			if fld := f.Get(id); fld != nil {
				fld.Hidden = !on
			}
		}
	}

	if strings.EqualFold(strings.TrimSpace(valueOf(f, "BORNE_DE_COMMANDE")), "OUI") {
		for id, v := range bdcForced {
			if fld := f.Get(id); fld != nil {
				fld.Value = v
				fld.Disabled = true
			}
		}
	} else {
		for id := range bdcForced {
			if fld := f.Get(id); fld != nil {
				fld.Disabled = false
			}
		}
	}
}

func valueOf(f *Form, id string) string {
	if fld := f.Get(id); fld != nil {
		return fld.Value
	}
	return ""
}

// moduleUnits maps a module reference field id to the number of e-paper tags
// one unit carries. The count is the size encoded in the id; a few product
// lines override it.
var epaperOverrides = map[string]int{
	"MOD21SPT": 18,
	"MOD21RPT": 18,
}

// ModuleInputIDs are the per-module quantity fields of the order form.
var ModuleInputIDs = []string{
	"MOD10S", "MOD14S", "MOD14SDV", "MOD15S", "MOD21S", "MOD21SDV", "MOD21SPT", "MOD24S", "MOD28S",
	"MOD10R", "MOD14R", "MOD14RDV", "MOD15R", "MOD21R", "MOD21RDV", "MOD21RPT", "MOD24R", "MOD28R",
	"MOD21C", "MOD21CDV",
}

// EpaperQty computes the e-paper tag count from the module quantities: each
// module contributes its size (the digits in its id) per unit ordered.
func EpaperQty(qty map[string]string) int {
	total := 0
	for _, id := range ModuleInputIDs {
		n, err := strconv.Atoi(strings.TrimSpace(qty[id]))
		if err != nil || n <= 0 {
			continue
		}
		total += n * unitsFor(id)
	}
	return total
}

func unitsFor(id string) int {
	if u, ok := epaperOverrides[id]; ok {
		return u
	}
	digits := strings.Builder{}
	for _, r := range id {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	u, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return u
}

// DeliveryEstimate computes the expected delivery date from an order date:
// 12 weeks lead time, reduced to 10 when every selected RAL is exactly the
// standard white (a COMPACT kiosk ignores the kiosk RAL), plus 3 weeks when
// the result lands in the August 1-21 plant closure.
func DeliveryEstimate(orderDate time.Time, ralModule, ralBDC, borne string) time.Time {
	weeks := 12
	white := func(s string) bool {
		return strings.EqualFold(strings.TrimSpace(s), "RAL 9003 BLANC")
	}
	compact := strings.EqualFold(strings.TrimSpace(borne), "COMPACT")
	if white(ralModule) && (compact || white(ralBDC)) {
		weeks = 10
	}
	est := orderDate.AddDate(0, 0, weeks*7)
	if est.Month() == time.August && est.Day() <= 21 {
		est = est.AddDate(0, 0, 3*7)
	}
	return est
}

// FormatDDMMYYYY renders a date the way the backend stores them.
func FormatDDMMYYYY(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// NormalizeDDMMYYYY accepts the common date spellings (DD/MM/YYYY, D/M/YY,
// YYYY-MM-DD) and returns the canonical DD/MM/YYYY form. Anything else is
// returned trimmed.
func NormalizeDDMMYYYY(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{"02/01/2006", "2/1/2006", "02/01/06", "2/1/06", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return FormatDDMMYYYY(t)
		}
	}
	return s
}

// NewOrderDefaults returns the values a fresh order starts with.
func NewOrderDefaults(now time.Time) map[string]string {
	return map[string]string{
		"STATUT":             "EN ATTENTE",
		"BORNE_DE_COMMANDE":  "NON",
		"MARKETING":          "NON",
		"BATIMENT_MODULAIRE": "NON",
		"PAYS":               "FRANCE",
		"RAL_MODULE":         "RAL 9003 BLANC",
		"DATE_PLANNING":      FormatDDMMYYYY(now),
	}
}
