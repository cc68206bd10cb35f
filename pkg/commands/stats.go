package commands

import (
	"github.com/spf13/cobra"

	"github.com/casierfr/console/pkg/printers"
)

func addStats(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard counters.",
		Example: `
casier stats
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}
			d, err := e.service.LoadDashboard(cmd.Context())
			if err != nil {
				return err
			}

			pp := &printers.PrettyPrint{}
			pp.Title("Tableau de bord")
			pp.Stats(d.Stats, d.Evolution)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
