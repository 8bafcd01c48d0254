// Command proposal-service serves the Noviq service-agreement API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"proposal-service/internal/app"
	"proposal-service/internal/config"
	"proposal-service/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const envFilePath = ".env"

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "proposal-service",
		Short:         "Service agreement and e-signature API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), envFile)
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", envFilePath, "dotenv file loaded before reading the environment")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), envFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context(), envFile)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the sample proposal into an empty store and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return seed(cmd.Context(), envFile)
			},
		},
	)

	return cmd
}

func bootstrap(envFile string) (*config.Config, *zap.Logger, error) {
	envErr := godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.App.LogLevel, !cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}

	if envErr != nil {
		log.Debug("env file not loaded, using process environment", zap.String("path", envFile))
	}
	log.Info("configuration loaded", zap.String("env", cfg.App.Env), zap.String("storage", cfg.Storage.Driver))

	return cfg, log, nil
}

func serve(ctx context.Context, envFile string) error {
	cfg, log, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()

	service, err := app.Initialize(ctx, cfg, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- service.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := service.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited gracefully")
	return nil
}

func migrate(ctx context.Context, envFile string) error {
	cfg, log, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return fmt.Errorf("migrate requires STORAGE_DRIVER=%s", config.StorageDriverPostgres)
	}

	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	log.Info("schema applied")
	return nil
}

func seed(ctx context.Context, envFile string) error {
	cfg, log, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	created, err := app.Seed(ctx, stores.Proposals, log)
	if err != nil {
		return err
	}
	if !created {
		log.Info("store already has proposals; nothing seeded")
	}
	return nil
}
