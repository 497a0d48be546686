package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DesignIQ-Labs/designiq-backend/internal/converters"
	"github.com/gin-gonic/gin"
)

type Handler struct{}

func New() *Handler { return &Handler{} }

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/sheet-metal-gauge", h.SheetMetalGauge)
	rg.GET("/pipe-diameter", h.PipeDiameter)
	rg.GET("/power-factor", h.PowerFactor)
	rg.POST("/:category", h.Convert)
}

func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": converters.Categories()})
}

// convertReq leaves To empty to get the value in every unit of the category.
type convertReq struct {
	Value *float64 `json:"value"`
	From  string   `json:"from"`
	To    string   `json:"to"`
}

func (h *Handler) Convert(c *gin.Context) {
	category := c.Param("category")

	var req convertReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil || req.From == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value and from are required"})
		return
	}

	if req.To == "" {
		all, err := converters.ConvertAll(category, *req.Value, req.From)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category, "from": req.From, "value": *req.Value, "results": all})
		return
	}

	out, err := converters.Convert(category, *req.Value, req.From, req.To)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "from": req.From, "to": req.To, "value": *req.Value, "result": out})
}

// SheetMetalGauge looks up ?gauge=, or the nearest gauge to ?thickness_mm=.
// With neither it returns the whole chart.
func (h *Handler) SheetMetalGauge(c *gin.Context) {
	if raw := c.Query("gauge"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gauge must be an integer"})
			return
		}
		g, err := converters.GaugeThickness(n)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": g})
		return
	}
	if raw := c.Query("thickness_mm"); raw != "" {
		mm, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "thickness_mm must be a number"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": converters.NearestGauge(mm)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gauges": converters.Gauges()})
}

// PipeDiameter reports dimensions for ?nb= (mm) at ?schedule= (default 40).
func (h *Handler) PipeDiameter(c *gin.Context) {
	raw := c.Query("nb")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"nominal_bores_mm": converters.PipeBores()})
		return
	}
	nb, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nb must be an integer"})
		return
	}
	schedule, err := strconv.Atoi(c.DefaultQuery("schedule", "40"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schedule must be an integer"})
		return
	}
	p, err := converters.PipeDimensions(nb, schedule)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": p})
}

// PowerFactor solves ?pf= with one of ?kw=, ?kva= or ?kvar=.
func (h *Handler) PowerFactor(c *gin.Context) {
	pf, err := strconv.ParseFloat(c.Query("pf"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pf must be a number"})
		return
	}
	for _, side := range []string{"kw", "kva", "kvar"} {
		raw := c.Query(side)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": side + " must be a number"})
			return
		}
		t, err := converters.SolvePowerTriangle(pf, v, side)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": t})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "one of kw, kva or kvar is required"})
}

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, converters.ErrUnknownCategory),
		errors.Is(err, converters.ErrUnknownGauge),
		errors.Is(err, converters.ErrUnknownPipe):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, converters.ErrUnknownUnit),
		errors.Is(err, converters.ErrInvalidSchedule),
		errors.Is(err, converters.ErrPowerFactor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
