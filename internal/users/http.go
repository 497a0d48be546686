package users

import (
	"errors"
	"net/http"

	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
}

func Register(rg *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}

	rg.GET("", h.get)
	rg.PUT("", h.update)
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.repo.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) update(c *gin.Context) {
	var req UpdateUser
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.repo.Update(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func writeErr(c *gin.Context, err error) {
	if errors.Is(err, ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	logging.NewLogger(c.Request.Context()).LogError("users_http", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
}
