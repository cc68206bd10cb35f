package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/casierfr/console/pkg/api"
	"github.com/casierfr/console/pkg/money"
	"github.com/casierfr/console/pkg/view"
)

type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" commande")
	default:
		_, _ = c.Println(" commandes")
	}
}

// Orders prints the order table.
func (pp *PrettyPrint) Orders(tbl *view.Table) {
	if len(tbl.Rows) == 1 && tbl.Rows[0].Placeholder {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Println(" " + tbl.Rows[0].Cells[0])
		fmt.Println("")
		return
	}

	t := uitable.New()
	t.MaxColWidth = 40
	headers := make([]interface{}, len(tbl.Columns))
	for i, c := range tbl.Columns {
		headers[i] = c
	}
	t.AddRow(headers...)
	for _, row := range tbl.Rows {
		cells := make([]interface{}, len(row.Cells))
		for i, c := range row.Cells {
			if i == 1 {
				c = statusColor(c).Sprint(c)
			}
			cells[i] = c
		}
		t.AddRow(cells...)
	}
	fmt.Println(t)
	fmt.Println("")
}

// Clients prints the client table, with passwords masked.
func (pp *PrettyPrint) Clients(rows []api.Record) {
	if len(rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Println(" aucun client")
		fmt.Println("")
		return
	}

	t := uitable.New()
	t.MaxColWidth = 40
	t.AddRow("N_CLIENT", "NOM_CLIENT", "CONTACT", "EMAIL", "TELEPHONE", "MDP")
	for _, r := range rows {
		t.AddRow(
			r.Get("N_CLIENT"),
			r.Get("NOM_CLIENT"),
			r.Get("CONTACT"),
			r.Get("EMAIL"),
			r.Get("TELEPHONE"),
			MaskPwd(r.Get("MDP")),
		)
	}
	fmt.Println(t)
	fmt.Println("")
}

// Stats prints the dashboard counters.
func (pp *PrettyPrint) Stats(s *api.Stats, points []api.EvolutionPoint) {
	t := uitable.New()
	t.AddRow("En cours:", fmt.Sprintf("%d", s.EnCours))
	t.AddRow("En stock:", fmt.Sprintf("%d", s.EnStock))
	t.AddRow("Livrées:", fmt.Sprintf("%d", s.Livrees))
	t.AddRow("CA du mois:", money.FormatEUR(s.CAMois))
	fmt.Println(t)
	if len(points) > 0 {
		fmt.Println("")
		pp.Title("Modules vendus")
		for _, p := range points {
			bar := strings.Repeat("█", int(p.Modules))
			fmt.Printf("%-12s %s %d\n", p.Name(), bar, int(p.Modules))
		}
	}
	fmt.Println("")
}

// MaskPwd hides all but the first character of a password.
func MaskPwd(pwd string) string {
	if pwd == "" {
		return ""
	}
	runes := []rune(pwd)
	return string(runes[0]) + strings.Repeat("•", len(runes)-1)
}

func statusColor(status string) *color.Color {
	switch view.BadgeFor(status) {
	case view.BadgeYellow:
		return color.New(color.FgHiYellow)
	case view.BadgeBlue:
		return color.New(color.FgHiBlue)
	case view.BadgeGreen:
		return color.New(color.FgHiGreen)
	case view.BadgeRed:
		return color.New(color.FgHiRed)
	default:
		return color.New(color.Faint)
	}
}
