package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/domain"
	"github.com/gin-gonic/gin"
)

var (
	keepAliveInterval = 15 * time.Second
	existsInterval    = 5 * time.Second
)

// StreamJobEvents streams a job's state with Server-Sent Events until it
// reaches a terminal status, is deleted, or the client goes away.
func (h *Handler) StreamJobEvents(c *gin.Context) {
	jobID := c.Param("id")
	userID := auth.UserID(c)
	ctx := c.Request.Context()

	job, updates, stop, err := h.svc.Events(ctx, userID, jobID)
	if err != nil {
		writeErr(c, err)
		return
	}
	defer stop()

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	send := func(event string, payload any) {
		data, _ := json.Marshal(payload)
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	send("initial", gin.H{"job": job})
	if !job.Open() {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	// Deletion is not published; check the job still exists now and then.
	exists := time.NewTicker(existsInterval)
	defer exists.Stop()

	lastUpdatedAt := job.UpdatedAt

	for {
		select {
		case <-ctx.Done():
			return

		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case <-exists.C:
			if _, err := h.svc.Get(ctx, userID, jobID); errors.Is(err, domain.ErrJobNotFound) {
				send("deleted", gin.H{"event": "deleted", "job_id": jobID})
				return
			}

		case updated, ok := <-updates:
			if !ok {
				return
			}
			if !updated.UpdatedAt.After(lastUpdatedAt) {
				continue
			}
			lastUpdatedAt = updated.UpdatedAt
			send("update", gin.H{"job": updated})
			if !updated.Open() {
				return
			}
		}
	}
}
