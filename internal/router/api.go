package router

import (
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	api := r.Group("/api")

	users := api.Group("/users")
	users.GET("", h.Users.ListUsers())
	users.POST("", h.Users.CreateUser())
	users.PUT("/:id", h.Users.UpdateUser())
	users.DELETE("/:id", h.Users.DeleteUser())

	api.GET("/exchange/usd-to-brl", h.Exchange.GetUSDToBRL())
}
