// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// FilterOptions captures the order list filtering flags.
type FilterOptions struct {
	Status    string
	Marketing bool
	Query     string
	Where     string
	Limit     int
}

// AddFilterArgs wires the list filter flags on the provided command.
func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Status, "status", "s", "all",
		"Status group: all, en_cours, stock, livre, marketing.")
	cmd.Flags().BoolVar(&o.Marketing, "marketing", false,
		"Only marketing orders.")
	cmd.Flags().StringVarP(&o.Query, "query", "q", "",
		"Free-text search over status, client, contact and references.")
	cmd.Flags().StringVar(&o.Where, "where", "",
		`Expression filter, example: --where='STATUT == "EN STOCK" && MONTANT > 1000'.`)
	cmd.Flags().IntVar(&o.Limit, "limit", 500,
		"Maximum rows fetched from the backend.")
}
