package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/DesignIQ-Labs/designiq-backend/internal/credits"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/catalog"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/domain"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/service"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/vendor"
	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 20 << 20

type Handler struct {
	svc   *service.GenerationService
	tools *catalog.Catalog
}

func New(svc *service.GenerationService, tools *catalog.Catalog) *Handler {
	return &Handler{svc: svc, tools: tools}
}

// ListTools returns the configured AI tools.
func (h *Handler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.tools.List()})
}

// Run accepts a multipart form: "tool", an optional "payload" JSON object,
// any other plain fields as payload values, and the tool's image files.
func (h *Handler) Run(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	req := service.RunRequest{UserID: userID, Payload: map[string]string{}}
	for key, values := range form.Value {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "tool":
			req.Tool = values[0]
		case "payload":
			fields, err := decodePayload(values[0])
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "payload must be a JSON object"})
				return
			}
			for k, v := range fields {
				req.Payload[k] = v
			}
		default:
			if _, set := req.Payload[key]; !set {
				req.Payload[key] = values[0]
			}
		}
	}
	if req.Tool == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tool is required"})
		return
	}

	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read " + field})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read " + field})
			return
		}
		req.Files = append(req.Files, service.Upload{Field: field, Filename: fh.Filename, Data: data})
	}

	res, err := h.svc.Run(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}

	if res.JobID == "" {
		c.JSON(http.StatusOK, gin.H{"tool": res.Tool, "result": res.Result})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"tool":    res.Tool,
		"job_id":  res.JobID,
		"seed":    res.Seed,
		"credits": res.Credits,
		"job":     res.Job,
	})
}

// decodePayload flattens a JSON object into form values.
func decodePayload(raw string) (map[string]string, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		switch t := v.(type) {
		case nil:
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			b, _ := json.Marshal(t)
			out[k] = string(b)
		}
	}
	return out, nil
}

func (h *Handler) ListJobs(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	jobs, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// GetResult performs one vendor status check for a vendor job id.
func (h *Handler) GetResult(c *gin.Context) {
	vendorJobID := c.Param("vendor_id")
	reply, err := h.svc.Result(c.Request.Context(), auth.UserID(c), vendorJobID)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"job_id":  reply.ID,
		"status":  reply.PollResult().Status,
		"message": reply.Message,
	})
}

func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeErr(c *gin.Context, err error) {
	var httpErr *vendor.HTTPError
	switch {
	case errors.Is(err, catalog.ErrUnknownTool), errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrImageRequired), errors.Is(err, service.ErrUnexpectedFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnsupportedMedia):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, credits.ErrInsufficientCredits):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.As(err, &httpErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("vendor error (%d)", httpErr.StatusCode), "details": httpErr.Body})
	case errors.Is(err, service.ErrNoVendorJobID):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logging.NewLogger(c.Request.Context()).LogError("generation_http", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
