package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	r := gin.New()
	NewHealthHandler("designiq-api", "1.2.0", map[string]Check{"db": up, "redis": up}).
		WithInfo("vendor", func() any { return map[string]int{"calls": 3} }).
		RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"redis":"up"`)
	assert.Contains(t, w.Body.String(), `"vendor":{"calls":3}`)

	r = gin.New()
	NewHealthHandler("designiq-api", "1.2.0", map[string]Check{"db": down, "redis": up}).RegisterRoutes(r)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"db":"down"`)
}
