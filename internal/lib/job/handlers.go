package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// WelcomeSender delivers the welcome email.
type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("task", TaskWelcome).
		Int64("user_id", p.UserID).
		Str("to", p.To).
		Logger()

	log.Info().Msg("processing welcome email task")

	if err := j.sender.SendWelcomeEmail(ctx, p.To, p.Name); err != nil {
		log.Error().Err(err).Msg("failed to send welcome email")
		return err
	}

	log.Info().Msg("sent welcome email")
	return nil
}
