package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estancia-digital/internal/adapters/storage/sqldb"
	"estancia-digital/internal/config"
	"estancia-digital/internal/platform/logger"
	"estancia-digital/internal/platform/metrics"
	"estancia-digital/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

//go:generate swag init -d ../../ -g cmd/api/main.go -o ../../internal/docs

// @title Estancia Digital API
// @version 1.0
// @description Gestaciones, partos y registro del hato.
// @BasePath /
// @securityDefinitions.apikey DebugUser
// @in header
// @name X-Debug-User-ID
func main() {
	rootCmd := &cobra.Command{
		Use:           "estancia",
		Short:         "Gestaciones y partos del hato",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap carga config, logger y (si corresponde) el store SQL.
// closeFn siempre es seguro de llamar.
func bootstrap(ctx context.Context) (cfg *config.Config, log logger.Logger, store *sqldb.Store, closeFn func(), err error) {
	cfg, err = config.Load()
	if err != nil {
		return nil, nil, nil, func() {}, err
	}

	log = logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if cfg.DBDriver == config.DriverMemory {
		log.Warn("using in-memory storage; data is lost on exit", nil)
		return cfg, log, nil, func() {}, nil
	}

	dialect := sqldb.Postgres
	if cfg.DBDriver == config.DriverSQLite {
		dialect = sqldb.SQLite
	}

	db, err := sqldb.Open(ctx, dialect, cfg.DSN(), sqldb.Options{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		return nil, nil, nil, func() {}, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	closeFn = func() {
		if err := db.Close(); err != nil {
			log.Error("db close failed", map[string]any{"error": err})
		}
	}
	return cfg, log, sqldb.NewStore(db), closeFn, nil
}

func serveCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, store, closeStore, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if store != nil && autoMigrate {
				if err := sqldb.Migrate(ctx, store.DB, log); err != nil {
					return err
				}
			}

			opts := router.Options{
				AuthVerifier: nil, // sin verifier para modo dev
				Store:        store,
				Logger:       log,
			}
			if cfg.MetricsEnabled {
				opts.Metrics = metrics.New()
			}

			srv := &http.Server{
				Addr:         cfg.Addr(),
				Handler:      router.NewRouter(opts),
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("starting server", map[string]any{"addr": srv.Addr, "driver": string(cfg.DBDriver), "env": cfg.Env})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				log.Info("shutting down", nil)
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "aplicar migraciones pendientes al arrancar")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de base de datos",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Aplica migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, store, closeStore, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			if store == nil {
				return errors.New("migrate needs DB_DRIVER=postgres or sqlite")
			}

			if err := sqldb.Migrate(cmd.Context(), store.DB, log); err != nil {
				return err
			}
			log.Info("migrations applied", nil)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Versión aplicada y pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, store, closeStore, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			if store == nil {
				return errors.New("migrate needs DB_DRIVER=postgres or sqlite")
			}

			st, err := sqldb.Status(cmd.Context(), store.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dialect=%s current=%d latest=%d pending=%d\n",
				store.DB.Dialect(), st.Current, st.Latest, st.Pending())
			return nil
		},
	}

	cmd.AddCommand(upCmd, statusCmd)
	return cmd
}
