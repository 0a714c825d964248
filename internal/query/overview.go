package query

import "github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"

// StoreOverview is the store detail view: the store, its assignments and
// their lifecycle breakdown
type StoreOverview struct {
	Store       models.Store        `json:"store"`
	Assignments []models.Assignment `json:"assignments"`
	Summary     Summary             `json:"summary"`
}

// NewStoreOverview collects the assignments linked to store
func NewStoreOverview(store models.Store, all []models.Assignment) StoreOverview {
	linked := FilterAssignments(all, Criteria{StoreID: store.ID})
	return StoreOverview{
		Store:       store,
		Assignments: linked,
		Summary:     SummarizeByLifecycle(linked),
	}
}

// PlanogramOverview is the planogram detail view for one size variant
type PlanogramOverview struct {
	Planogram   models.Planogram         `json:"planogram"`
	SizeVariant models.SizeVariant       `json:"sizeVariant"`
	Positions   []models.ProductPosition `json:"positions"`
	Assignments []models.Assignment      `json:"assignments"`
	Summary     Summary                  `json:"summary"`
}

// NewPlanogramOverview collects the assignments of planogram and the product
// positions for size. An empty size picks the planogram's middle variant.
func NewPlanogramOverview(p models.Planogram, size models.SizeVariant, positions []models.ProductPosition, all []models.Assignment) PlanogramOverview {
	if size == "" {
		size = DefaultSizeVariant(p)
	}
	linked := FilterAssignments(all, Criteria{PlanogramID: p.ID})
	placed := make([]models.ProductPosition, 0)
	for _, pos := range positions {
		if pos.PlanogramID == p.ID && pos.SizeVariant == size {
			placed = append(placed, pos)
		}
	}
	return PlanogramOverview{
		Planogram:   p,
		SizeVariant: size,
		Positions:   placed,
		Assignments: linked,
		Summary:     SummarizeByLifecycle(linked),
	}
}

// DefaultSizeVariant prefers M when declared, else the middle declared size
func DefaultSizeVariant(p models.Planogram) models.SizeVariant {
	if p.HasSizeVariant(models.SizeM) {
		return models.SizeM
	}
	if len(p.SizeVariants) == 0 {
		return ""
	}
	return p.SizeVariants[len(p.SizeVariants)/2]
}
