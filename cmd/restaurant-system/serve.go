package main

import (
	"context"

	"github.com/spf13/cobra"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/config"
	"restaurant-admin/internal/microservices/api"
	"restaurant-admin/internal/microservices/console"
	"restaurant-admin/internal/microservices/historian"
)

type runFunc func(ctx context.Context, cfg *config.Config, lg *logger.Logger) error

var (
	runAPI       runFunc = api.Run
	runConsole   runFunc = console.Run
	runHistorian runFunc = historian.Start
)

func newServeCmd(use, short string, opts *rootOptions, run runFunc) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if port != 0 {
				switch use {
				case "api":
					cfg.API.Port = port
				case "console":
					cfg.Console.Port = port
				}
			}
			lg := opts.logger(use, cfg)
			defer func() { _ = lg.Sync() }()

			if err := run(cmd.Context(), cfg, lg); err != nil {
				lg.Error("fatal", err, nil)
				return err
			}
			lg.Info("graceful_shutdown", nil)
			return nil
		},
	}
	if use != "history-recorder" {
		cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides config)")
	}
	return cmd
}
