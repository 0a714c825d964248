package api

import (
	"context"
	"net/http"
	"time"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/query"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// GetStores handles GET /stores
func (h *Handler) GetStores(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stores, err := h.repo.ListStores(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	if raw := c.Query("category"); raw != "" && raw != query.Wildcard {
		kept := make([]models.Store, 0, len(stores))
		for _, s := range stores {
			if string(s.Category) == raw {
				kept = append(kept, s)
			}
		}
		stores = kept
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores, "total": len(stores)})
}

// GetStore handles GET /stores/:id
func (h *Handler) GetStore(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var s *models.Store
	var all []models.Assignment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s, err = h.repo.GetStore(gctx, c.Param("id"))
		return err
	})
	g.Go(func() (err error) {
		all, err = h.repo.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, query.NewStoreOverview(*s, all))
}

// GetPlanograms handles GET /planograms
func (h *Handler) GetPlanograms(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	planograms, err := h.repo.ListPlanograms(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"planograms": planograms, "total": len(planograms)})
}

// GetPlanogram handles GET /planograms/:id?size=
func (h *Handler) GetPlanogram(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	p, err := h.repo.GetPlanogram(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	size := models.SizeVariant(c.Query("size"))
	if size != "" && !p.HasSizeVariant(size) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Size variant not available for this planogram"})
		return
	}
	var positions []models.ProductPosition
	var all []models.Assignment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		positions, err = h.repo.ListPositions(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		all, err = h.repo.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, query.NewPlanogramOverview(*p, size, positions, all))
}

// GetProducts handles GET /products
func (h *Handler) GetProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, err := h.repo.ListProducts(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}
