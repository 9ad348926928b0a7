package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	checks   map[string]HealthCheck
	resolver services.ScopeResolver
	version  string
	started  time.Time
}

func NewHealthHandlers(checks map[string]HealthCheck, resolver services.ScopeResolver, version string) *HealthHandlers {
	return &HealthHandlers{
		checks:   checks,
		resolver: resolver,
		version:  version,
		started:  time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Warehouses bool              `json:"warehouses"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
}

// HealthCheck reports each dependency; any failure turns the status to degraded.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string, len(h.checks)),
		Warehouses: h.resolver.Capabilities().Warehouses,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Version:    h.version,
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
		} else {
			health.Services[name] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
