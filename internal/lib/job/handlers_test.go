package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type fakeSender struct {
	to, name string
	calls    int
	err      error
}

func (f *fakeSender) SendWelcomeEmail(_ context.Context, to, name string) error {
	f.calls++
	f.to, f.name = to, name
	return f.err
}

func newTestJobService(sender WelcomeSender) *JobService {
	logger := zerolog.Nop()
	return &JobService{sender: sender, logger: &logger}
}

func TestNewWelcomeEmailTask(t *testing.T) {
	task, err := NewWelcomeEmailTask(WelcomeEmailPayload{UserID: 7, To: "ana@example.com", Name: "Ana"})
	if err != nil {
		t.Fatal(err)
	}
	if task.Type() != TaskWelcome {
		t.Errorf("type = %q", task.Type())
	}
	if WelcomeTaskID(7) != "email:welcome:7" {
		t.Errorf("task id = %q", WelcomeTaskID(7))
	}

	var p WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		t.Fatal(err)
	}
	if p.UserID != 7 || p.To != "ana@example.com" || p.Name != "Ana" {
		t.Errorf("payload = %+v", p)
	}
}

func TestHandleWelcomeEmailTask(t *testing.T) {
	sender := &fakeSender{}
	j := newTestJobService(sender)

	task, _ := NewWelcomeEmailTask(WelcomeEmailPayload{UserID: 1, To: "ana@example.com", Name: "Ana"})
	if err := j.handleWelcomeEmailTask(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	if sender.calls != 1 || sender.to != "ana@example.com" || sender.name != "Ana" {
		t.Errorf("sender = %+v", sender)
	}
}

func TestHandleWelcomeEmailTaskSendFailureRetries(t *testing.T) {
	sendErr := errors.New("resend unavailable")
	j := newTestJobService(&fakeSender{err: sendErr})

	task, _ := NewWelcomeEmailTask(WelcomeEmailPayload{UserID: 1, To: "ana@example.com", Name: "Ana"})
	err := j.handleWelcomeEmailTask(context.Background(), task)
	if !errors.Is(err, sendErr) {
		t.Fatalf("err = %v, want %v", err, sendErr)
	}
	if errors.Is(err, asynq.SkipRetry) {
		t.Error("delivery failures should be retried")
	}
}

func TestHandleWelcomeEmailTaskBadPayload(t *testing.T) {
	sender := &fakeSender{}
	j := newTestJobService(sender)

	err := j.handleWelcomeEmailTask(context.Background(), asynq.NewTask(TaskWelcome, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retries, got %v", err)
	}
	if sender.calls != 0 {
		t.Error("sender called for malformed payload")
	}
}
