package http

import (
	"errors"
	"net/http"

	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/DesignIQ-Labs/designiq-backend/internal/credits"
	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Handler struct {
	repo *credits.Repository
}

func New(repo *credits.Repository) *Handler {
	return &Handler{repo: repo}
}

type purchaseRequest struct {
	Credits     int     `json:"credits" validate:"required,min=1,max=100000"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Description string  `json:"description" validate:"max=200"`
}

// Summary returns the balance and recent movements.
func (h *Handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)
	logger := logging.NewLogger(ctx)

	balance, err := h.repo.Balance(ctx, userID)
	if err != nil {
		logger.LogError("credits_balance", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read balance"})
		return
	}
	history, err := h.repo.History(ctx, userID, 50)
	if err != nil {
		logger.LogError("credits_history", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance, "transactions": history})
}

func (h *Handler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.repo.Purchase(c.Request.Context(), auth.UserID(c), req.Credits, req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, credits.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logging.NewLogger(c.Request.Context()).LogError("credits_purchase", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record purchase"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.Summary)
	rg.POST("/purchase", h.Purchase)
}
