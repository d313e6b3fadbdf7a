package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/errs"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/service"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/testutil"
)

func requireHTTPError(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *errs.HTTPError with status %d, got %v", status, err)
	}
	if httpErr.Status != status {
		t.Fatalf("status = %d, want %d (%s)", httpErr.Status, status, httpErr.Message)
	}
	return httpErr
}

type recordingNotifier struct {
	mu    sync.Mutex
	users []model.User
	err   error
}

func (n *recordingNotifier) EnqueueWelcomeEmail(_ context.Context, user *model.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, *user)
	return n.err
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()

	empty := service.NewUserService(testutil.NewMemoryUserStore(), nil)
	users, err := empty.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("empty store should list an empty, non-nil slice, got %#v", users)
	}

	store := testutil.NewMemoryUserStore(
		model.User{ID: 1, Name: "Ana", Email: "ana@example.com"},
		model.User{ID: 2, Name: "Bruno", Email: "bruno@example.com"},
	)
	users, err = service.NewUserService(store, nil).List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0].Name != "Ana" || users[1].Name != "Bruno" {
		t.Errorf("users = %+v", users)
	}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryUserStore()
	notifier := &recordingNotifier{}
	svc := service.NewUserService(store, notifier)

	resp, err := svc.Create(ctx, &model.CreateUserPayload{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Message != service.MsgUserCreated {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.User.ID == 0 || resp.User.Name != "Ana" || resp.User.Email != "ana@example.com" {
		t.Errorf("user = %+v", resp.User)
	}
	if len(notifier.users) != 1 || notifier.users[0].Email != "ana@example.com" {
		t.Errorf("welcome email not enqueued: %+v", notifier.users)
	}

	users, _ := svc.List(ctx)
	if len(users) != 1 {
		t.Errorf("expected 1 user after create, got %d", len(users))
	}
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryUserStore()
	svc := service.NewUserService(store, nil)

	for _, p := range []model.CreateUserPayload{
		{Name: "", Email: "ana@example.com"},
		{Name: "Ana", Email: ""},
		{Name: "   ", Email: "ana@example.com"},
		{Name: "Ana", Email: "\t \n"},
		{},
	} {
		_, err := svc.Create(ctx, &p)
		requireHTTPError(t, err, http.StatusBadRequest)
	}

	if n := len(store.Snapshot()); n != 0 {
		t.Errorf("store changed by invalid creates: %d rows", n)
	}
}

func TestBlankFieldsAgreeAcrossCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryUserStore()
	svc := service.NewUserService(store, nil)

	created, err := svc.Create(ctx, &model.CreateUserPayload{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, &model.UpdateUserPayload{ID: created.User.ID, Name: "   ", Email: "  "})
	requireHTTPError(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, &model.CreateUserPayload{Name: "   ", Email: "bia@example.com"})
	httpErr := requireHTTPError(t, err, http.StatusBadRequest)
	if len(httpErr.Errors) != 1 || httpErr.Errors[0].Field != "name" {
		t.Errorf("field errors = %+v", httpErr.Errors)
	}

	if n := len(store.Snapshot()); n != 1 {
		t.Errorf("blank create stored a row: %d rows", n)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryUserStore(model.User{ID: 1, Name: "Ana", Email: "ana@example.com"})
	notifier := &recordingNotifier{}
	svc := service.NewUserService(store, notifier)

	_, err := svc.Create(ctx, &model.CreateUserPayload{Name: "Other", Email: "ana@example.com"})
	httpErr := requireHTTPError(t, err, http.StatusBadRequest)
	if httpErr.Code != service.CodeUserAlreadyExists {
		t.Errorf("code = %q", httpErr.Code)
	}

	if rows := store.Snapshot(); len(rows) != 1 || rows[0].Name != "Ana" {
		t.Errorf("store changed: %+v", rows)
	}
	if len(notifier.users) != 0 {
		t.Error("welcome email enqueued for rejected user")
	}
}

func TestCreateUserNotifierFailureIsIgnored(t *testing.T) {
	svc := service.NewUserService(testutil.NewMemoryUserStore(), &recordingNotifier{err: errors.New("redis down")})

	resp, err := svc.Create(context.Background(), &model.CreateUserPayload{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Create should succeed when enqueue fails: %v", err)
	}
	if resp.User == nil {
		t.Fatal("missing user in response")
	}
}

func TestCreateUserStoreFailure(t *testing.T) {
	store := testutil.NewMemoryUserStore()
	store.Err = errors.New("connection refused")
	svc := service.NewUserService(store, nil)

	_, err := svc.Create(context.Background(), &model.CreateUserPayload{Name: "Ana", Email: "ana@example.com"})
	httpErr := requireHTTPError(t, err, http.StatusInternalServerError)
	if httpErr.Message == "connection refused" {
		t.Error("internal cause leaked to client message")
	}
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryUserStore(model.User{ID: 1, Name: "Ana", Email: "ana@example.com"})
	svc := service.NewUserService(store, nil)

	resp, err := svc.Update(ctx, &model.UpdateUserPayload{ID: 1, Name: "Ana Maria"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Message != service.MsgUserUpdated {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.User.Name != "Ana Maria" || resp.User.Email != "ana@example.com" {
		t.Errorf("only name should change: %+v", resp.User)
	}

	resp, err = svc.Update(ctx, &model.UpdateUserPayload{ID: 1, Email: "ana.maria@example.com"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.User.Name != "Ana Maria" || resp.User.Email != "ana.maria@example.com" {
		t.Errorf("only email should change: %+v", resp.User)
	}

	// Keeping one's own email is not a conflict.
	if _, err := svc.Update(ctx, &model.UpdateUserPayload{ID: 1, Email: "ana.maria@example.com"}); err != nil {
		t.Errorf("self email update rejected: %v", err)
	}
}

func TestUpdateUserErrors(t *testing.T) {
	ctx := context.Background()
	seed := []model.User{
		{ID: 1, Name: "Ana", Email: "ana@example.com"},
		{ID: 2, Name: "Bruno", Email: "bruno@example.com"},
	}

	tests := []struct {
		name     string
		payload  model.UpdateUserPayload
		wantCode string
	}{
		{"missing id", model.UpdateUserPayload{Name: "X"}, ""},
		{"no fields", model.UpdateUserPayload{ID: 1}, ""},
		{"unknown id", model.UpdateUserPayload{ID: 99, Name: "X"}, service.CodeUserNotFound},
		{"email taken by another user", model.UpdateUserPayload{ID: 1, Email: "bruno@example.com"}, service.CodeUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemoryUserStore(seed...)
			svc := service.NewUserService(store, nil)

			_, err := svc.Update(ctx, &tt.payload)
			httpErr := requireHTTPError(t, err, http.StatusBadRequest)
			if tt.wantCode != "" && httpErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", httpErr.Code, tt.wantCode)
			}

			rows := store.Snapshot()
			if len(rows) != 2 || rows[0] != seed[0] || rows[1] != seed[1] {
				t.Errorf("store changed: %+v", rows)
			}
		})
	}
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryUserStore(
		model.User{ID: 1, Name: "Ana", Email: "ana@example.com"},
		model.User{ID: 2, Name: "Bruno", Email: "bruno@example.com"},
	)
	svc := service.NewUserService(store, nil)

	resp, err := svc.Delete(ctx, &model.DeleteUserPayload{ID: 1})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if resp.Message != service.MsgUserDeleted {
		t.Errorf("message = %q", resp.Message)
	}
	if rows := store.Snapshot(); len(rows) != 1 || rows[0].ID != 2 {
		t.Errorf("rows after delete = %+v", rows)
	}

	_, err = svc.Delete(ctx, &model.DeleteUserPayload{ID: 1})
	httpErr := requireHTTPError(t, err, http.StatusNotFound)
	if httpErr.Code != service.CodeUserNotFound {
		t.Errorf("code = %q", httpErr.Code)
	}

	_, err = svc.Delete(ctx, &model.DeleteUserPayload{})
	requireHTTPError(t, err, http.StatusBadRequest)
}

func TestEmailUniqueAcrossOperations(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryUserStore()
	svc := service.NewUserService(store, nil)

	for _, p := range []model.CreateUserPayload{
		{Name: "Ana", Email: "ana@example.com"},
		{Name: "Bruno", Email: "bruno@example.com"},
		{Name: "Clone", Email: "ana@example.com"},
	} {
		_, _ = svc.Create(ctx, &p)
	}
	_, _ = svc.Update(ctx, &model.UpdateUserPayload{ID: 2, Email: "ana@example.com"})

	seen := map[string]bool{}
	for _, u := range store.Snapshot() {
		if seen[u.Email] {
			t.Fatalf("duplicate email %q in store", u.Email)
		}
		seen[u.Email] = true
	}
}

type recordedEvent struct {
	action string
	user   model.User
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishUserEvent(_ context.Context, action string, user *model.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{action: action, user: *user})
	return p.err
}

func TestUserEventsPublished(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := service.NewUserService(testutil.NewMemoryUserStore(), nil, service.WithEventPublisher(pub))

	created, err := svc.Create(ctx, &model.CreateUserPayload{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, &model.UpdateUserPayload{ID: created.User.ID, Name: "Ana Maria"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Delete(ctx, &model.DeleteUserPayload{ID: created.User.ID}); err != nil {
		t.Fatal(err)
	}
	// Rejected writes publish nothing.
	_, _ = svc.Delete(ctx, &model.DeleteUserPayload{ID: created.User.ID})

	want := []string{"created", "updated", "deleted"}
	if len(pub.events) != len(want) {
		t.Fatalf("events = %+v", pub.events)
	}
	for i, action := range want {
		if pub.events[i].action != action || pub.events[i].user.ID != created.User.ID {
			t.Errorf("event %d = %+v, want %s", i, pub.events[i], action)
		}
	}
	if pub.events[2].user.Name != "Ana Maria" {
		t.Errorf("deleted event should carry the last known row: %+v", pub.events[2].user)
	}
}

func TestUserEventFailureIsIgnored(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := service.NewUserService(testutil.NewMemoryUserStore(), nil, service.WithEventPublisher(pub))

	if _, err := svc.Create(context.Background(), &model.CreateUserPayload{Name: "Ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("Create should succeed when publishing fails: %v", err)
	}
}
