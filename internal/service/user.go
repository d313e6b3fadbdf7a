package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/errs"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/lib/events"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/sqlerr"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/validation"
	"github.com/rs/zerolog"
)

const (
	MsgUserCreated = "User created successfully"
	MsgUserUpdated = "User updated successfully"
	MsgUserDeleted = "User deleted successfully"

	CodeUserAlreadyExists = "USER_ALREADY_EXISTS"
	CodeUserNotFound      = "USER_NOT_FOUND"
)

// UserStore is the persistence the user directory needs. Find* and
// UpdateUser return nil, nil when nothing matches.
type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	FindUserByID(ctx context.Context, id int64) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByEmailExcludingID(ctx context.Context, email string, id int64) (*model.User, error)
	CreateUser(ctx context.Context, name, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, name, email *string) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

// WelcomeNotifier is told about every user created.
type WelcomeNotifier interface {
	EnqueueWelcomeEmail(ctx context.Context, user *model.User) error
}

// EventPublisher broadcasts committed changes to the directory.
type EventPublisher interface {
	PublishUserEvent(ctx context.Context, action string, user *model.User) error
}

type UserService struct {
	store    UserStore
	notifier WelcomeNotifier
	events   EventPublisher
}

type UserServiceOption func(*UserService)

func WithEventPublisher(p EventPublisher) UserServiceOption {
	return func(s *UserService) {
		s.events = p
	}
}

// NewUserService builds the directory service. notifier may be nil.
func NewUserService(store UserStore, notifier WelcomeNotifier, opts ...UserServiceOption) *UserService {
	s := &UserService{store: store, notifier: notifier}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeError(ctx, err, "failed to list users")
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, payload *model.CreateUserPayload) (*model.UserResponse, error) {
	if err := validation.Validate(payload); err != nil {
		return nil, err
	}

	existing, err := s.store.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, storeError(ctx, err, "failed to look up user by email")
	}
	if existing != nil {
		return nil, userExists()
	}

	user, err := s.store.CreateUser(ctx, payload.Name, payload.Email)
	if err != nil {
		return nil, storeError(ctx, err, "failed to create user")
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("user created")

	if s.notifier != nil {
		if err := s.notifier.EnqueueWelcomeEmail(ctx, user); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int64("user_id", user.ID).Msg("failed to enqueue welcome email")
		}
	}
	s.publish(ctx, events.ActionCreated, user)

	return &model.UserResponse{Message: MsgUserCreated, User: user}, nil
}

func (s *UserService) Update(ctx context.Context, payload *model.UpdateUserPayload) (*model.UserResponse, error) {
	if err := validation.Validate(payload); err != nil {
		return nil, err
	}

	current, err := s.store.FindUserByID(ctx, payload.ID)
	if err != nil {
		return nil, storeError(ctx, err, "failed to look up user by id")
	}
	if current == nil {
		// Updates report a missing user as a bad request, unlike Delete.
		return nil, errs.NewNotFoundWithStatus(http.StatusBadRequest, "User not found", false, ptr(CodeUserNotFound))
	}

	name, email := optional(payload.Name), optional(payload.Email)

	if email != nil {
		other, err := s.store.FindUserByEmailExcludingID(ctx, *email, payload.ID)
		if err != nil {
			return nil, storeError(ctx, err, "failed to look up user by email")
		}
		if other != nil {
			return nil, userExists()
		}
	}

	user, err := s.store.UpdateUser(ctx, payload.ID, name, email)
	if err != nil {
		return nil, storeError(ctx, err, "failed to update user")
	}
	if user == nil {
		return nil, errs.NewNotFoundWithStatus(http.StatusBadRequest, "User not found", false, ptr(CodeUserNotFound))
	}

	s.publish(ctx, events.ActionUpdated, user)

	return &model.UserResponse{Message: MsgUserUpdated, User: user}, nil
}

func (s *UserService) Delete(ctx context.Context, payload *model.DeleteUserPayload) (*model.MessageResponse, error) {
	if err := validation.Validate(payload); err != nil {
		return nil, err
	}

	current, err := s.store.FindUserByID(ctx, payload.ID)
	if err != nil {
		return nil, storeError(ctx, err, "failed to look up user by id")
	}
	if current == nil {
		return nil, errs.NewNotFoundError("User not found", false, ptr(CodeUserNotFound))
	}

	deleted, err := s.store.DeleteUser(ctx, payload.ID)
	if err != nil {
		return nil, storeError(ctx, err, "failed to delete user")
	}
	if !deleted {
		return nil, errs.NewNotFoundError("User not found", false, ptr(CodeUserNotFound))
	}

	s.publish(ctx, events.ActionDeleted, current)

	return &model.MessageResponse{Message: MsgUserDeleted}, nil
}

// publish never fails the request; the row is already committed.
func (s *UserService) publish(ctx context.Context, action string, user *model.User) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishUserEvent(ctx, action, user); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("action", action).Int64("user_id", user.ID).Msg("failed to publish user event")
	}
}

func userExists() *errs.HTTPError {
	return errs.NewConflictError("User already exists", ptr(CodeUserAlreadyExists))
}

// storeError logs the underlying cause and hands back the client-facing error.
func storeError(ctx context.Context, err error, msg string) error {
	mapped := sqlerr.HandleError(err)
	event := zerolog.Ctx(ctx).Error()
	if sqlerr.ErrCode(err) != sqlerr.Other {
		event = zerolog.Ctx(ctx).Warn()
	}
	event.Err(err).Msg(msg)
	return mapped
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func ptr[T any](v T) *T {
	return &v
}
