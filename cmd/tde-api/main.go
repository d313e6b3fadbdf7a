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

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/config"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/database"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/handler"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/logger"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/repository"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/router"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var skipMigrations bool

	root := &cobra.Command{
		Use:           "tde-api",
		Short:         "User directory and USD-BRL exchange rate API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), skipMigrations)
		},
	}
	root.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "start without applying database migrations")

	root.AddCommand(newMigrateCommand())

	return root
}

func newMigrateCommand() *cobra.Command {
	var target int32

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			log := logger.NewLoggerWithService(cfg.Observability, nil)
			if err := database.MigrateTo(cmd.Context(), &log, database.DSN(cfg.Database), target); err != nil {
				log.Error().Err(err).Msg("failed to migrate database")
				return err
			}
			return nil
		},
	}
	cmd.Flags().Int32Var(&target, "to", database.LatestVersion, "target schema version (0 drops everything, -1 is latest)")

	return cmd
}

func serve(ctx context.Context, skipMigrations bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if !skipMigrations {
		if err := database.Migrate(ctx, &log, database.DSN(cfg.Database)); err != nil {
			log.Error().Err(err).Msg("failed to migrate database")
			return err
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Error().Err(err).Msg("could not create services")
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			_ = srv.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
