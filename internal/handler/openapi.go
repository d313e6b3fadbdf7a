package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
	"github.com/labstack/echo/v4"
)

// StaticDir is where the OpenAPI document and UI are served from.
const StaticDir = "static"

type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{Handler: NewHandler(s)}
}

func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := os.ReadFile(filepath.Join(StaticDir, "openapi.html"))
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, page)
}
