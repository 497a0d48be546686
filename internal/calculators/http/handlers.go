package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/DesignIQ-Labs/designiq-backend/internal/calculators"
	"github.com/gin-gonic/gin"
)

type Handler struct{}

func New() *Handler { return &Handler{} }

// List returns the registered calculator names.
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"calculators": calculators.Names()})
}

// Run decodes the body loosely and runs the named calculator. An empty
// body runs the calculator with every input at zero.
func (h *Handler) Run(c *gin.Context) {
	name := c.Param("name")

	in := calculators.Inputs{}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := calculators.Run(name, in)
	if err != nil {
		if errors.Is(err, calculators.ErrUnknownCalculator) {
			c.JSON(http.StatusNotFound, gin.H{"error": "calculator not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"calculator": name, "result": result})
}
