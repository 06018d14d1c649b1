package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/render"
	"github.com/spigell/lazyhunt/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skills updater and the resume builder over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, config := setup()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("starting the lazyhunt server", zap.String("version", version))

		srv := server.New(config.Server, server.Deps{
			Skills:   newOrchestrator(logger, config),
			Renderer: render.New(logger),
			Logger:   logger,
		})
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address (default is server.address from the config)")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}
