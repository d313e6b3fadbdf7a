// Package router assembles the echo instance: middleware chain, error
// handler and route table.
package router

import (
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/handler"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/middleware"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerAPIRoutes(router, h)

	return router
}
