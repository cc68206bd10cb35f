// Package view holds the order list's presentation logic: status-group and
// free-text filtering, per-column filters, table rendering, and status
// badges. Everything here is pure; the data arrives already loaded.
package view

import (
	"strings"

	"github.com/casierfr/console/pkg/api"
)

// Group names a status bucket of the order list.
type Group string

const (
	GroupAll       Group = "all"
	GroupProgress  Group = "en_cours"
	GroupStock     Group = "stock"
	GroupDelivered Group = "livre"
	GroupMarketing Group = "marketing"
)

// statusGroups maps each group to its normalized member statuses. Membership
// is decided on the accent-stripped uppercase form, so "LIVRÉ" and "LIVRE"
// land in the same bucket.
var statusGroups = map[Group][]string{
	GroupProgress:  {"EN PRODUCTION", "EN ATTENTE - PRODUCTION"},
	GroupStock:     {"EN STOCK"},
	GroupDelivered: {"LIVRE", "LIVREE"},
}

// queryColumns are the record columns the free-text search looks at.
var queryColumns = []string{
	"STATUT", "N_CLIENT", "NOM_CLIENT", "CONTACT", "REF_BDC", "REF_MODULE",
}

// Normalize strips accents and uppercases, the comparison form used for
// statuses and search.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(foldAccent(r))
	}
	return strings.ToUpper(strings.TrimSpace(b.String()))
}

func foldAccent(r rune) rune {
	switch r {
	case 'à', 'á', 'â', 'ä', 'À', 'Á', 'Â', 'Ä':
		return 'A'
	case 'é', 'è', 'ê', 'ë', 'É', 'È', 'Ê', 'Ë':
		return 'E'
	case 'î', 'ï', 'Î', 'Ï':
		return 'I'
	case 'ô', 'ö', 'Ô', 'Ö':
		return 'O'
	case 'ù', 'ú', 'û', 'ü', 'Ù', 'Ú', 'Û', 'Ü':
		return 'U'
	case 'ç', 'Ç':
		return 'C'
	}
	return r
}

// GroupFor returns the status group a raw status label belongs to, GroupAll
// when it matches none.
func GroupFor(status string) Group {
	n := Normalize(status)
	for g, members := range statusGroups {
		for _, m := range members {
			if n == m {
				return g
			}
		}
	}
	return GroupAll
}

// Filter narrows the loaded order rows. Zero value passes everything.
type Filter struct {
	Group Group
	Query string
}

// Apply returns the rows passing the filter, preserving order.
func (f Filter) Apply(rows []api.Record) []api.Record {
	out := make([]api.Record, 0, len(rows))
	for _, r := range rows {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filter) matches(r api.Record) bool {
	switch f.Group {
	case "", GroupAll:
	case GroupMarketing:
		if !strings.EqualFold(r.Get("MARKETING"), "OUI") {
			return false
		}
	default:
		status := Normalize(r.Get("STATUT"))
		ok := false
		for _, m := range statusGroups[f.Group] {
			if status == m {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	q := Normalize(f.Query)
	if q == "" {
		return true
	}
	for _, col := range queryColumns {
		if strings.Contains(Normalize(r.Get(col)), q) {
			return true
		}
	}
	return false
}
