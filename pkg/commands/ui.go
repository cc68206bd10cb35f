package commands

import (
	"github.com/spf13/cobra"

	"github.com/casierfr/console/pkg/tui/console"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the text-based order console.",
		Example: `
casier ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}
			c := console.Console{
				Service:  e.service,
				Interval: e.cfg.RefreshInterval,
				State:    e.state,
				Log:      e.log,
			}
			return c.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
