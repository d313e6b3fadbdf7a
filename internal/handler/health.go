package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/middleware"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(s)}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth pings the database and, when configured, Redis. A failing
// database makes the whole service unhealthy (503); Redis only degrades it.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	log := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()
	obs := h.server.Config.Observability

	resp := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      map[string]checkResult{},
	}

	enabled := func(name string) bool {
		return obs.HealthChecks.Enabled && slices.Contains(obs.HealthChecks.Checks, name)
	}

	if enabled("database") && h.server.DB != nil {
		result := h.check(c.Request().Context(), "database", func(ctx context.Context) error {
			return h.server.DB.Pool.Ping(ctx)
		})
		resp.Checks["database"] = result
		if result.Error != "" {
			resp.Status = "unhealthy"
		}
	}

	if enabled("redis") && h.server.Redis != nil {
		result := h.check(c.Request().Context(), "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		resp.Checks["redis"] = result
		if result.Error != "" && resp.Status == "healthy" {
			resp.Status = "degraded"
		}
	}

	status := http.StatusOK
	if resp.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
		log.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
	} else {
		log.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	}

	return c.JSON(status, resp)
}

func (h *HealthHandler) check(ctx context.Context, name string, ping func(context.Context) error) checkResult {
	ctx, cancel := context.WithTimeout(ctx, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err == nil {
		return checkResult{Status: "healthy", ResponseTime: elapsed.String()}
	}

	h.server.Logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")

	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":       name,
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}

	return checkResult{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
}
