// Package handlers implements HTTP handlers for the manifest-analyzer API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/manifest-analyzer/internal/store"
)

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	store     store.Store
	storeName string
}

// NewHealthHandler creates a new HealthHandler. storeName is reported by
// /readyz.
func NewHealthHandler(s store.Store, storeName string) *HealthHandler {
	return &HealthHandler{store: s, storeName: storeName}
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the analysis store is reachable, 503 otherwise.
//
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable", Store: h.storeName})
	}
	return c.JSON(http.StatusOK, ReadyResponse{Status: "ready", Store: h.storeName})
}

// RegisterHealthRoutes adds the probe endpoints to e.
func RegisterHealthRoutes(e *echo.Echo, h *HealthHandler) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}
