package http

import "github.com/gin-gonic/gin"

// Register mounts the calculator routes. They need no authentication.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/:name", h.Run)
}
