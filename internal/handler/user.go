package handler

import (
	"net/http"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{Handler: NewHandler(s), users: users}
}

func (h *UserHandler) ListUsers() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, _ *model.EmptyPayload) ([]model.User, error) {
		return h.users.List(c.Request().Context())
	}, http.StatusOK)
}

func (h *UserHandler) CreateUser() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *model.CreateUserPayload) (*model.UserResponse, error) {
		return h.users.Create(c.Request().Context(), req)
	}, http.StatusCreated)
}

func (h *UserHandler) UpdateUser() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *model.UpdateUserPayload) (*model.UserResponse, error) {
		return h.users.Update(c.Request().Context(), req)
	}, http.StatusOK)
}

func (h *UserHandler) DeleteUser() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *model.DeleteUserPayload) (*model.MessageResponse, error) {
		return h.users.Delete(c.Request().Context(), req)
	}, http.StatusOK)
}
