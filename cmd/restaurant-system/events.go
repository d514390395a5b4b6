package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/notificator"
)

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var resource string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print resource events from RabbitMQ as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resource != "" {
				if _, ok := domain.LookupSchema(resource); !ok {
					return fmt.Errorf("%w: %s", domain.ErrUnknownResource, resource)
				}
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			lg := opts.logger("notificator", cfg)
			defer func() { _ = lg.Sync() }()

			pattern := "resource.#"
			if resource != "" {
				pattern = "resource." + resource + ".*"
			}
			return notificator.Start(cmd.Context(), cfg, lg, cmd.OutOrStdout(), pattern, green)
		},
	}
	cmd.Flags().StringVar(&resource, "resource", "", "only events of this resource")
	return cmd
}
