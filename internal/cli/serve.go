package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/playbookforge/internal/server"
	"github.com/matzehuels/playbookforge/pkg/cache"
	"github.com/matzehuels/playbookforge/pkg/config"
	"github.com/matzehuels/playbookforge/pkg/pipeline"
	"github.com/matzehuels/playbookforge/pkg/store"
)

// serveKeyPrefix scopes cache keys written by the server so that a shared
// redis instance can also hold CLI entries.
const serveKeyPrefix = "serve:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		storeBackend string
		cacheBackend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Flags override the [server], [store] and [cache] sections of --config.
Environment variables PLAYBOOKFORGE_ADDR, PLAYBOOKFORGE_REDIS_ADDR and
PLAYBOOKFORGE_MONGO_URI override the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg := c.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if storeBackend != "" {
				cfg.Store.Backend = storeBackend
			}
			if cacheBackend != "" {
				cfg.Cache.Backend = cacheBackend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			c.cfg = cfg

			cc, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, serveKeyPrefix), logger)
			runner.TTL = cfg.Cache.TTL.Duration
			defer runner.Close()

			st, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			if cfg.Store.Backend == config.StoreMemory {
				printWarning("Using the in-memory store; playbooks are lost on exit")
			}
			logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"store", cfg.Store.Backend,
				"cache", cfg.Cache.Backend)

			srv := server.New(server.Deps{
				Runner: runner,
				Store:  st,
				Limits: cfg.Limits,
				Logger: logger,
			})
			return srv.Run(ctx, cfg.Server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&storeBackend, "store", "", "playbook store: memory or mongo")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "cache backend: file, redis or none")
	return cmd
}
