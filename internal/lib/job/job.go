// Package job runs background work on asynq, backed by Redis.
package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/config"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	sender WelcomeSender
	logger *zerolog.Logger
}

func NewJobService(logger *zerolog.Logger, cfg config.RedisConfig, sender WelcomeSender) *JobService {
	opt := asynq.RedisClientOpt{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		Logger: &asynqLogger{logger: logger},
	})

	return &JobService{
		Client: asynq.NewClient(opt),
		server: server,
		sender: sender,
		logger: logger,
	}
}

// Start registers the task handlers and begins processing in the background.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)

	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(mux); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}
	return nil
}

func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}

// EnqueueWelcomeEmail schedules the welcome email for a newly created user.
func (j *JobService) EnqueueWelcomeEmail(ctx context.Context, user *model.User) error {
	task, err := NewWelcomeEmailTask(WelcomeEmailPayload{
		UserID: user.ID,
		To:     user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to build welcome email task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		j.logger.Debug().Int64("user_id", user.ID).Msg("welcome email already queued")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue welcome email task: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int64("user_id", user.ID).
		Msg("enqueued welcome email task")
	return nil
}

// asynqLogger routes asynq's internal logging through zerolog.
type asynqLogger struct {
	logger *zerolog.Logger
}

func (l *asynqLogger) Debug(args ...any) {
	l.logger.Debug().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...any) {
	l.logger.Info().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...any) {
	l.logger.Warn().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...any) {
	l.logger.Error().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...any) {
	l.logger.Fatal().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
