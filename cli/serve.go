// server/cli/serve.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/vinizap/shelf/server/config"
	"github.com/vinizap/shelf/server/filesystem"
	httpserver "github.com/vinizap/shelf/server/http"
	"github.com/vinizap/shelf/server/relay"
	"github.com/vinizap/shelf/server/store"
	"github.com/vinizap/shelf/server/ws"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API and websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "storage backend: memory, file or postgres")
	cmd.Flags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "document directory for the file store")
	cmd.Flags().StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "redis URL for cross-instance broadcasts (empty disables)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger(cfg)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	hub := ws.NewHub(cfg.InstanceID, log)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if cfg.RedisURL != "" {
		rdb, err := relay.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		rl := relay.New(rdb, cfg.RelayChannel, hub, log)
		hub.SetForwarder(rl)
		g.Go(func() error { return rl.Run(gctx) })
	}

	app := httpserver.NewServer(st, hub, cfg.CORSOrigin, log).App()
	g.Go(func() error {
		log.Info().
			Str("addr", cfg.Addr).
			Str("store", cfg.StoreDriver).
			Str("instance", cfg.InstanceID).
			Msg("server starting")
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	err = g.Wait()
	log.Info().Msg("server stopped")
	return err
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return store.NewMemory(), nil
	case config.DriverFile:
		return filesystem.Open(cfg.DataDir)
	case config.DriverPostgres:
		if cfg.Migrate {
			if err := store.Migrate(cfg.DatabaseURL); err != nil {
				return nil, err
			}
		}
		return store.OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.StoreDriver)
	}
}

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.Migrate(cfg.DatabaseURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("migrations applied"))
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "postgres connection URL")
	return cmd
}
