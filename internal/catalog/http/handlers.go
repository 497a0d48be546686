package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/DesignIQ-Labs/designiq-backend/internal/catalog"
	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	store   *catalog.Store
	credits catalog.BalanceReader
}

// New builds the back-office handler. credits may be nil, in which case
// the dashboard reports a zero balance.
func New(store *catalog.Store, credits catalog.BalanceReader) *Handler {
	return &Handler{store: store, credits: credits}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)

	for _, e := range catalog.All() {
		g := rg.Group("/" + e.Name)
		g.POST("", h.create(e))
		g.GET("", h.list(e))
		g.GET("/:id", h.get(e))
		g.PATCH("/:id", h.update(e))
		g.DELETE("/:id", h.delete(e))
	}

	rg.POST("/enquiries/:id/read", h.markRead)
	rg.POST("/reviews/:id/reply", h.reply)
}

func (h *Handler) create(e *catalog.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, ok := bindFields(c)
		if !ok {
			return
		}
		row, err := h.store.Create(c.Request.Context(), e, auth.UserID(c), fields)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": row})
	}
}

func (h *Handler) list(e *catalog.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		opts := catalog.ListOptions{Status: c.Query("status"), Limit: limit, Offset: offset}

		rows, total, err := h.store.List(c.Request.Context(), e, auth.UserID(c), opts)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": rows, "count": total})
	}
}

func (h *Handler) get(e *catalog.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := h.store.Get(c.Request.Context(), e, auth.UserID(c), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": row})
	}
}

func (h *Handler) update(e *catalog.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, ok := bindFields(c)
		if !ok {
			return
		}
		row, err := h.store.Update(c.Request.Context(), e, auth.UserID(c), c.Param("id"), fields)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": row})
	}
}

func (h *Handler) delete(e *catalog.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.store.Delete(c.Request.Context(), e, auth.UserID(c), c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *Handler) markRead(c *gin.Context) {
	row, err := h.store.MarkEnquiryRead(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": row})
}

type replyReq struct {
	Reply string `json:"reply"`
}

func (h *Handler) reply(c *gin.Context) {
	var req replyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	row, err := h.store.ReplyToReview(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Reply)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": row})
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.store.Dashboard(c.Request.Context(), auth.UserID(c), h.credits)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func bindFields(c *gin.Context) (map[string]any, bool) {
	var fields map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&fields); err != nil || fields == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object"})
		return nil, false
	}
	return fields, true
}

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrValidation), errors.Is(err, catalog.ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.NewLogger(c.Request.Context()).LogError("catalog_http", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
