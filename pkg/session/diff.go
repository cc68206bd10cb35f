package session

import (
	"strings"

	"github.com/casierfr/console/pkg/money"
)

// epaperDetail lists the fields that only matter while EPAPER is OUI.
var epaperDetail = []string{"QTE_EPAPER", "STATUT_EPAPER"}

// Diff returns the fields a save must send: only the values that differ from
// the session's snapshot. An empty string is kept when it clears a
// previously non-empty value, so erasures reach the backend. Amounts are
// canonicalized before comparison; turning EPAPER off clears its detail
// fields.
func (t *Tracker) Diff(current map[string]string) map[string]string {
	snapshot := t.Snapshot()
	out := map[string]string{}

	for k, v := range current {
		if k == "MONTANT_HT" {
			v = money.ToDB(v)
		}
		prev, had := snapshot[k]
		if k == "MONTANT_HT" {
			prev = money.ToDB(prev)
		}
		if v == prev {
			continue
		}
		if v == "" && (!had || prev == "") {
			continue
		}
		out[k] = v
	}

	if strings.EqualFold(strings.TrimSpace(current["EPAPER"]), "NON") {
		for _, k := range epaperDetail {
			if strings.TrimSpace(snapshot[k]) != "" {
				out[k] = ""
			} else {
				delete(out, k)
			}
		}
	}

	return out
}
