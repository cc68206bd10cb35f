package commands

import (
	"github.com/spf13/cobra"

	"github.com/casierfr/console/pkg/printers"
)

func addClients(topLevel *cobra.Command) {
	query := ""
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List clients.",
		Example: `
casier clients
casier clients -q boulangerie
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.service.LoadClients(cmd.Context(), query); err != nil {
				return err
			}

			rows := e.service.ClientRows()
			pp := &printers.PrettyPrint{}
			pp.Title("Clients")
			pp.Clients(rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search term.")

	topLevel.AddCommand(cmd)
}
