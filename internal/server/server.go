// Package server holds the long-lived dependencies of the process and the
// HTTP server lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/config"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/database"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/lib/email"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/lib/events"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/lib/job"
	loggerPkg "github.com/Arthur-Developerr/tde-qualidade-de-software/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisPingTimeout = 5 * time.Second

type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	// Redis and Job are nil when no Redis address is configured.
	Redis *redis.Client
	Job   *job.JobService
	// Events is nil when no broker URL is configured.
	Events     *events.Publisher
	httpServer *http.Server
}

func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}

	if cfg.Events.Enabled() {
		publisher, err := events.NewPublisher(cfg.Events, logger)
		if err != nil {
			logger.Error().Err(err).Msg("failed to connect to event broker, continuing without user events")
		} else {
			s.Events = publisher
		}
	}

	if !cfg.Redis.Enabled() {
		logger.Info().Msg("redis address not configured, background jobs disabled")
		return s, nil
	}

	s.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if loggerService.GetApplication() != nil {
		s.Redis.AddHook(nrredis.NewHook(s.Redis.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to redis, continuing without background jobs")
		_ = s.Redis.Close()
		s.Redis = nil
		return s, nil
	}

	emailClient := email.NewClient(cfg.Integration, logger)
	s.Job = job.NewJobService(logger, cfg.Redis, emailClient)
	if err := s.Job.Start(); err != nil {
		_ = s.Shutdown(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains HTTP traffic, then releases the background dependencies.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Events != nil {
		if err := s.Events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	return errors.Join(errs...)
}
