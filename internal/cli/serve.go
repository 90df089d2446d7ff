package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/server"
	"github.com/matzehuels/chartcore/pkg/store"
)

// serveCommand creates the serve command for running the HTTP layout server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redis    string
		redisDB  int
		mongoURI string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout server",
		Long: `Run the HTTP layout server.

The server hosts chart instances: clients post specs, read computed
layouts, and resolve pointer positions. Charts sharing a sync id follow
each other's tooltips and brush windows.

Without --redis the server caches layouts in process memory; without
--mongo layouts are not archived. Both flags are optional and aimed at
multi-instance deployments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redis, redisDB, mongoURI, ttl)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redis, "redis", "", "redis address for the layout cache (host:port)")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "mongodb connection string for the layout archive")
	cmd.Flags().DurationVar(&ttl, "cache-ttl", time.Hour, "layout cache TTL")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr string, redisDB int, mongoURI string, ttl time.Duration) error {
	opts := server.Options{
		Addr:     addr,
		CacheTTL: ttl,
		Logger:   c.Logger,
	}

	if redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr, DB: redisDB})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rc.Close()
		opts.Cache = cache.Instrumented(rc, "layout")
		c.Logger.Info("layout cache: redis", "addr", redisAddr)
	}

	if mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		defer ms.Close(context.Background())
		opts.Store = ms
		c.Logger.Info("layout archive: mongodb")
	}

	return server.New(opts).Run(ctx)
}
