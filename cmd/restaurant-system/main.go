package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/config"
)

var version = "dev"

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "restaurant-system",
		Short:         "Restaurant administration: REST API, web console, history recorder and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (default: config.yaml if present)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		newServeCmd("api", "Serve the REST API", opts, runAPI),
		newServeCmd("console", "Serve the admin web console", opts, runConsole),
		newServeCmd("history-recorder", "Record resource events into historico", opts, runHistorian),
		newRecordsCmd(opts),
		newEventsCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load resolves the config file: the flag wins, then the usual locations,
// then built-in defaults.
func (o *rootOptions) load() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		p, err := config.FindConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		path = p
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

func (o *rootOptions) logger(service string, cfg *config.Config) *logger.Logger {
	return logger.New(service, logger.WithLevel(cfg.Logging.Level))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "restaurant-system version", version)
		},
	}
}
