// Package cmd implements the modelcatalog command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/initializ/modelcatalog/catalog"
	"github.com/initializ/modelcatalog/config"
)

type rootOptions struct {
	configPath string
	apiBaseURL string
	verbose    bool
	logger     *zap.Logger
}

// Execute runs the root command.
func Execute() error {
	opts := &rootOptions{logger: zap.NewNop()}
	root := newRootCmd(opts)
	defer func() { _ = opts.logger.Sync() }()
	return root.Execute()
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "modelcatalog",
		Short:         "Browse and pick models from a model catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "modelcatalog.yaml", "path to config file")
	root.PersistentFlags().StringVar(&opts.apiBaseURL, "api-base-url", "", "catalog API base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newPickCmd(opts),
		newListCmd(opts),
		newServeCmd(opts),
	)

	return root
}

// newLogger builds a logger that writes to stderr, leaving stdout for
// command output.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("api-base-url") {
		cfg.APIBaseURL = o.apiBaseURL
	}
	return cfg, nil
}

func newCatalogClient(cfg *config.Config, logger *zap.Logger) (*catalog.Client, error) {
	origin, err := cfg.OriginURL()
	if err != nil {
		return nil, err
	}
	opts := []catalog.ClientOption{catalog.WithLogger(logger)}
	if origin != nil {
		opts = append(opts, catalog.WithOrigin(origin))
	}
	if cfg.Username != "" {
		opts = append(opts, catalog.WithBasicAuth(cfg.Username, cfg.Password))
	}
	return catalog.NewClient(opts...), nil
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
