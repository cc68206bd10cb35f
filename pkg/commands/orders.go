package commands

import (
	"github.com/spf13/cobra"

	"github.com/casierfr/console/pkg/commands/options"
	"github.com/casierfr/console/pkg/printers"
	"github.com/casierfr/console/pkg/view"
)

func addOrders(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders with local filters.",
		Example: `
casier orders
casier orders --status stock -q dupont
casier orders --where 'STATUT == "EN STOCK" && MONTANT > 1000'
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}

			group := view.Group(fo.Status)
			if fo.Marketing {
				group = view.GroupMarketing
			}
			e.service.SetFilter(view.Filter{Group: group, Query: fo.Query})

			if err := e.service.LoadOrders(cmd.Context()); err != nil {
				return err
			}
			rows := e.service.FilteredOrders()

			if fo.Where != "" {
				w, err := view.CompileWhere(fo.Where)
				if err != nil {
					return err
				}
				rows = w.ApplyWhere(rows)
			}
			if fo.Limit > 0 && len(rows) > fo.Limit {
				rows = rows[:fo.Limit]
			}

			pp := &printers.PrettyPrint{}
			pp.TitleWithCount("Commandes", len(rows))
			pp.Orders(view.Render(rows, nil))
			return nil
		},
	}
	options.AddFilterArgs(cmd, fo)

	topLevel.AddCommand(cmd)
}
