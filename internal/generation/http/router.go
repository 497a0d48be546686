package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/tools", h.ListTools)
	rg.POST("/run", h.Run)
	rg.GET("/jobs", h.ListJobs)
	rg.GET("/jobs/:id", h.GetJob)
	rg.GET("/jobs/:id/events", h.StreamJobEvents)
	rg.DELETE("/jobs/:id", h.DeleteJob)
	rg.GET("/result/:vendor_id", h.GetResult)
}
