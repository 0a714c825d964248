package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/query"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/service"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/storage"
	"github.com/gin-gonic/gin"
)

// AssignmentPage is the response of GET /assignments
type AssignmentPage struct {
	Assignments []models.Assignment `json:"assignments"`
	Total       int                 `json:"total"`
	Filtered    int                 `json:"filtered"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	PageCount   int                 `json:"page_count"`
}

// filtered loads all assignments and applies the query-string criteria
func (h *Handler) filtered(ctx context.Context, c *gin.Context) ([]models.Assignment, []models.Assignment, query.Criteria, bool) {
	var criteria query.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return nil, nil, criteria, false
	}
	all, err := h.repo.GetAll(ctx)
	if err != nil {
		respondError(c, err)
		return nil, nil, criteria, false
	}
	return all, query.FilterAssignments(all, criteria), criteria, true
}

// GetAssignments handles GET /assignments
func (h *Handler) GetAssignments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	page, ok := intQuery(c, "page", 1)
	if !ok {
		return
	}
	size, ok := intQuery(c, "page_size", h.opts.DefaultPageSize)
	if !ok {
		return
	}
	if size > h.opts.MaxPageSize {
		size = h.opts.MaxPageSize
	}

	all, matched, _, ok := h.filtered(ctx, c)
	if !ok {
		return
	}
	page = query.ClampPage(page, len(matched), size)
	c.JSON(http.StatusOK, AssignmentPage{
		Assignments: query.Paginate(matched, page, size),
		Total:       len(all),
		Filtered:    len(matched),
		Page:        page,
		PageSize:    size,
		PageCount:   query.PageCount(len(matched), size),
	})
}

// GetAssignmentSummary handles GET /assignments/summary
func (h *Handler) GetAssignmentSummary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	_, matched, _, ok := h.filtered(ctx, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, query.SummarizeByLifecycle(matched))
}

// GetStoreCategorySummary handles GET /assignments/summary/categories
func (h *Handler) GetStoreCategorySummary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	_, matched, _, ok := h.filtered(ctx, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, query.SummarizeByStoreCategory(matched))
}

// GetRecentActivity handles GET /assignments/recent
func (h *Handler) GetRecentActivity(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	limit, ok := intQuery(c, "limit", 5)
	if !ok {
		return
	}
	_, matched, _, ok := h.filtered(ctx, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": query.RecentActivity(matched, limit)})
}

// GetAssignment handles GET /assignments/:id
func (h *Handler) GetAssignment(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}
	a, err := h.repo.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAssignment handles POST /assignments
func (h *Handler) CreateAssignment(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var req service.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.AssignedBy == "" {
		req.AssignedBy = actor(c)
	}
	created, err := h.assignments.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ApplyTransitions handles POST /assignments/transitions
func (h *Handler) ApplyTransitions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var req lifecycle.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.PerformedBy == "" {
		req.PerformedBy = actor(c)
	}
	res, err := h.transitions.Apply(ctx, req, "api")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetLifecycle handles GET /lifecycle: the active policy and its allowed moves
func (h *Handler) GetLifecycle(c *gin.Context) {
	p := h.transitions.Policy()
	targets := make(map[models.LifecycleState][]models.LifecycleState, len(models.LifecycleStates))
	for _, s := range models.LifecycleStates {
		targets[s] = lifecycle.Targets(p, s)
	}
	c.JSON(http.StatusOK, gin.H{
		"policy":  p.Name(),
		"states":  models.LifecycleStates,
		"targets": targets,
	})
}

// assignmentExport is the document written by ExportAssignments
type assignmentExport struct {
	ExportedAt  time.Time           `json:"exportedAt"`
	ExportedBy  string              `json:"exportedBy,omitempty"`
	Criteria    query.Criteria      `json:"criteria"`
	Summary     query.Summary       `json:"summary"`
	Assignments []models.Assignment `json:"assignments"`
}

// ExportAssignments handles POST /assignments/export
func (h *Handler) ExportAssignments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if h.opts.Exporter == nil || !h.opts.Exporter.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Export storage not configured"})
		return
	}
	_, matched, criteria, ok := h.filtered(ctx, c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	key := storage.TimestampKey(h.opts.ExportPrefix, now)
	location, err := h.opts.Exporter.UploadJSON(ctx, key, assignmentExport{
		ExportedAt:  now,
		ExportedBy:  actor(c),
		Criteria:    criteria,
		Summary:     query.SummarizeByLifecycle(matched),
		Assignments: matched,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"location": location,
		"key":      key,
		"count":    len(matched),
	})
}
