package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
	Info      map[string]any    `json:"info,omitempty"`
}

// Check pings one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	serviceName string
	version     string
	checks      map[string]Check
	info        map[string]func() any
}

func NewHealthHandler(serviceName, version string, checks map[string]Check) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		checks:      checks,
	}
}

// WithInfo adds a named section, such as traffic counters, to every
// health response.
func (h *HealthHandler) WithInfo(name string, fn func() any) *HealthHandler {
	if h.info == nil {
		h.info = make(map[string]func() any)
	}
	h.info[name] = fn
	return h
}

// HealthCheck pings every dependency and reports 503 when one is down.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	results := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		err := check(pingCtx)
		cancel()

		if err != nil {
			results[name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
		} else {
			results[name] = "up"
		}
	}

	var info map[string]any
	if len(h.info) > 0 {
		info = make(map[string]any, len(h.info))
		for name, fn := range h.info {
			info[name] = fn()
		}
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Checks:    results,
		Info:      info,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
