// Package api serves the planogram assignment dashboard over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/service"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/store"
	"github.com/gin-gonic/gin"
)

// Exporter uploads JSON documents, typically to S3
type Exporter interface {
	Enabled() bool
	UploadJSON(ctx context.Context, key string, v any) (string, error)
}

// Options carries the optional parts of a Handler
type Options struct {
	Exporter        Exporter
	ExportPrefix    string
	DefaultPageSize int
	MaxPageSize     int
}

// Handler holds the repository and services behind every route
type Handler struct {
	repo        store.Repository
	transitions *service.Transitions
	assignments *service.Assignments
	opts        Options
}

// NewHandler creates a new handler instance
func NewHandler(repo store.Repository, transitions *service.Transitions, assignments *service.Assignments, opts Options) *Handler {
	if opts.DefaultPageSize < 1 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	return &Handler{repo: repo, transitions: transitions, assignments: assignments, opts: opts}
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "Database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "planogram-service",
	})
}

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, lifecycle.ErrInvalidRequest), errors.Is(err, service.ErrInvalidAssignment):
		status = http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrUnknownAssignment), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrIllegalTransition), errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// intQuery reads a positive integer query parameter
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key})
		return 0, false
	}
	return n, true
}
