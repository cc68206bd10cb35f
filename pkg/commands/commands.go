package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"go.uber.org/zap"

	"github.com/casierfr/console/pkg/api"
	"github.com/casierfr/console/pkg/app"
	"github.com/casierfr/console/pkg/config"
	"github.com/casierfr/console/pkg/logging"
	"github.com/casierfr/console/pkg/refdata"
	"github.com/casierfr/console/pkg/store"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "casier",
		Short: base.Wrap80("Order management console for Le Casier Français."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addOrders(topLevel)
	addClients(topLevel)
	addStats(topLevel)
	addVersion(topLevel)
}

// env bundles what every command needs at run time.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	state   *store.Store
	service *app.Service
}

func loadEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{Path: cfg.LogPath, Debug: cfg.Debug})
	if err != nil {
		return nil, err
	}

	var pcName string
	state, err := store.Open(cfg.StatePath)
	if err == nil {
		pcName = state.Get(store.KeyPCName)
	} else {
		log.Warn("local state unavailable", zap.Error(err))
	}

	client := api.New(cfg.APIBase, log, pcName)
	catalog := refdata.NewCatalog(client, log)
	return &env{
		cfg:     cfg,
		log:     log,
		state:   state,
		service: app.New(client, catalog, log),
	}, nil
}
