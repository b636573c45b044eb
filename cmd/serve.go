package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/initializ/modelcatalog/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr          string
		providersFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog backend",
		Long:  "Serve GET /models from the providers listed in the providers file. The file is watched and reloaded on change.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("providers") {
				cfg.Server.ProvidersFile = providersFile
			}
			if cfg.Server.ProvidersFile == "" {
				return fmt.Errorf("no providers file configured (set server.providers_file or --providers)")
			}

			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			logger := opts.logger

			var cache server.Cache
			if cfg.Server.RedisAddr != "" {
				rc, err := server.NewRedisCache(ctx, server.RedisConfig{
					Addr:     cfg.Server.RedisAddr,
					Password: cfg.Server.RedisPassword,
					DB:       cfg.Server.RedisDB,
					TTL:      cfg.Server.CacheTTL,
				})
				if err != nil {
					logger.Warn("catalog cache disabled", zap.Error(err))
				} else {
					defer func() { _ = rc.Close() }()
					cache = rc
				}
			}

			registry := server.NewRegistry(logger)
			defer func() { _ = registry.Close() }()

			watcher := server.NewWatcher(cfg.Server.ProvidersFile, registry, cache, logger)
			if err := watcher.Reload(ctx); err != nil {
				return fmt.Errorf("loading providers: %w", err)
			}
			go watcher.Run(ctx)

			srv := server.New(server.Config{
				Addr:         cfg.Server.Addr,
				Registry:     registry,
				Cache:        cache,
				AuthUsername: cfg.Server.AuthUsername,
				AuthPassword: cfg.Server.AuthPassword,
				Logger:       logger,
			})
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&providersFile, "providers", "", "providers file (overrides server.providers_file)")
	return cmd
}
