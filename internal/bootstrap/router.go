package bootstrap

import (
	httpapi "github.com/DesignIQ-Labs/designiq-backend/internal/api/http"
	"github.com/DesignIQ-Labs/designiq-backend/internal/api/http/middleware"
	"github.com/DesignIQ-Labs/designiq-backend/internal/api/http/routes"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	HealthChecks   map[string]httpapi.Check
	HealthInfo     map[string]func() any
	V1             routes.V1Deps
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORS(dep.AllowedOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.HealthChecks)
	for name, fn := range dep.HealthInfo {
		healthHandler.WithInfo(name, fn)
	}
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, dep.V1)

	return r
}
