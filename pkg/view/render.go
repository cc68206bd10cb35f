package view

import (
	"github.com/casierfr/console/pkg/api"
	"github.com/casierfr/console/pkg/money"
)

// EmptyPlaceholder is the single row shown when no order matches.
const EmptyPlaceholder = "Aucune commande trouvée."

// OrderColumns are the list columns in display order.
var OrderColumns = []string{
	"N", "STATUT", "N_CLIENT", "NOM_CLIENT", "CONTACT",
	"REF_BDC", "REF_MODULE", "DATE_PLANNING", "MONTANT_HT",
}

// Row is one rendered table row, carrying the record id so actions can
// address the underlying order.
type Row struct {
	ID          string
	Cells       []string
	Placeholder bool
}

// Table is the rendered order list.
type Table struct {
	Columns []string
	Rows    []Row

	bound bool
}

// Render builds the table for the given records, applying the column
// filters last. No matching rows yields one placeholder row.
func Render(rows []api.Record, cols *ColumnFilters) *Table {
	t := &Table{Columns: OrderColumns}
	for _, r := range rows {
		cells := make([]string, len(OrderColumns))
		for i, c := range OrderColumns {
			v := r.Get(c)
			if c == "MONTANT_HT" && v != "" {
				v = money.FormatEUR(v)
			}
			cells[i] = v
		}
		if cols != nil && !cols.Visible(cells) {
			continue
		}
		t.Rows = append(t.Rows, Row{ID: r.ID(), Cells: cells})
	}
	if len(t.Rows) == 0 {
		t.Rows = []Row{{Placeholder: true, Cells: []string{EmptyPlaceholder}}}
	}
	return t
}

// Bind marks the table's row actions as attached. It reports whether the
// caller should attach them: re-rendering the same table is a no-op.
func (t *Table) Bind() bool {
	if t.bound {
		return false
	}
	t.bound = true
	return true
}
