package http

import (
	"errors"
	"net/http"

	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/DesignIQ-Labs/designiq-backend/internal/history"
	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *history.Service
}

func New(svc *history.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Save)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries, "count": len(entries)})
}

func (h *Handler) Save(c *gin.Context) {
	var req history.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.UserID = auth.UserID(c)

	entry, err := h.svc.Save(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": entry})
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), id); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "message": "image history deleted"})
}

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, history.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, history.ErrMissingFields), errors.Is(err, history.ErrInvalidImage), errors.Is(err, history.ErrDownload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.NewLogger(c.Request.Context()).LogError("history_http", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
