package routes

import (
	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	calchttp "github.com/DesignIQ-Labs/designiq-backend/internal/calculators/http"
	cataloghttp "github.com/DesignIQ-Labs/designiq-backend/internal/catalog/http"
	convhttp "github.com/DesignIQ-Labs/designiq-backend/internal/converters/http"
	creditshttp "github.com/DesignIQ-Labs/designiq-backend/internal/credits/http"
	genhttp "github.com/DesignIQ-Labs/designiq-backend/internal/generation/http"
	historyhttp "github.com/DesignIQ-Labs/designiq-backend/internal/history/http"
	"github.com/DesignIQ-Labs/designiq-backend/internal/users"

	"github.com/gin-gonic/gin"
)

type V1Deps struct {
	Auth       auth.Options
	Users      *users.Repo
	Generation *genhttp.Handler
	History    *historyhttp.Handler
	Credits    *creditshttp.Handler
	Catalog    *cataloghttp.Handler
}

// RegisterV1 mounts the public calculators and converters and the
// authenticated user-scoped APIs under /api/v1.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	calchttp.New().Register(api.Group("/calculators"))
	convhttp.New().Register(api.Group("/converters"))

	private := api.Group("")
	private.Use(auth.Middleware(dep.Auth))

	if dep.Users != nil {
		users.Register(private.Group("/me"), dep.Users)
	}
	if dep.Generation != nil {
		dep.Generation.Register(private.Group("/generation"))
	}
	if dep.History != nil {
		dep.History.Register(private.Group("/history"))
	}
	if dep.Credits != nil {
		dep.Credits.Register(private.Group("/credits"))
	}
	if dep.Catalog != nil {
		dep.Catalog.Register(private.Group("/profile"))
	}
}
