package job

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TaskWelcome = "email:welcome"

const (
	welcomeMaxRetry  = 3
	welcomeTimeout   = 30 * time.Second
	welcomeRetention = 24 * time.Hour
)

type WelcomeEmailPayload struct {
	UserID int64  `json:"user_id"`
	To     string `json:"to"`
	Name   string `json:"name"`
}

// WelcomeTaskID is stable per user, so a user is welcomed at most once
// while the finished task is retained.
func WelcomeTaskID(userID int64) string {
	return fmt.Sprintf("%s:%d", TaskWelcome, userID)
}

func NewWelcomeEmailTask(p WelcomeEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskWelcome, payload,
		asynq.TaskID(WelcomeTaskID(p.UserID)),
		asynq.MaxRetry(welcomeMaxRetry),
		asynq.Timeout(welcomeTimeout),
		asynq.Retention(welcomeRetention),
	), nil
}
