package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	v1 "invoicer/internal/infrastructure/http/v1"
	"invoicer/internal/infrastructure/storage/postgres"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var repos repositories
			if cfg.UsesMemoryStore() {
				log.Warn("database.url is empty, using the in-memory store; data is lost on exit")
				repos = memoryRepositories()
			} else {
				pool, err := postgres.NewPool(ctx, poolConfig(cfg))
				if err != nil {
					return err
				}
				defer pool.Close()
				log.Info("database connection established")

				if migrate {
					applied, err := postgres.NewMigrator(pool).Run(ctx)
					if err != nil {
						return err
					}
					log.Infow("migrations complete", "applied", applied)
				}
				repos = postgresRepositories(cfg, pool)
			}

			if client := withCompanyCache(ctx, cfg, &repos, log); client != nil {
				defer client.Close()
			}

			services, err := buildServices(cfg, repos)
			if err != nil {
				return err
			}

			router := v1.NewRouter(v1.RouterConfig{
				Services:           services,
				Logger:             log,
				CORSAllowedOrigins: cfg.Server.CorsAllowedOrigins,
				HealthChecks:       repos.checks,
				Storage:            repos.name,
				Version:            version,
			})

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      router,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Infow("server starting", "port", cfg.Server.Port, "storage", repos.name)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
			case <-ctx.Done():
			}

			log.Info("shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}

			log.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}
