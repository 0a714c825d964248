// Package query computes filtered and summarized views over assignments.
// Nothing here mutates its input.
package query

import (
	"strings"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
)

// Wildcard matches any value of an enum criterion
const Wildcard = "*"

// Criteria selects assignments. Empty fields impose no constraint.
type Criteria struct {
	// PlanogramQuery is a case-insensitive substring of planogram id or name
	PlanogramQuery string `form:"planogram" json:"planogramQuery,omitempty"`
	// StoreNameQuery is a case-insensitive substring of the store name
	StoreNameQuery string `form:"store" json:"storeNameQuery,omitempty"`
	StoreCategory  string `form:"category" json:"storeCategory,omitempty"`
	LifecycleState string `form:"lifecycle" json:"lifecycleState,omitempty"`

	// Exact matches used by the store and planogram detail views
	StoreID     string `form:"store_id" json:"storeId,omitempty"`
	PlanogramID string `form:"planogram_id" json:"planogramId,omitempty"`
	SizeVariant string `form:"size_variant" json:"sizeVariant,omitempty"`
}

// IsEmpty reports whether the criteria constrain nothing
func (c Criteria) IsEmpty() bool {
	return c.PlanogramQuery == "" &&
		c.StoreNameQuery == "" &&
		isAny(c.StoreCategory) &&
		isAny(c.LifecycleState) &&
		c.StoreID == "" &&
		c.PlanogramID == "" &&
		isAny(c.SizeVariant)
}

// Matches evaluates the conjunction of all supplied criteria against a
func (c Criteria) Matches(a *models.Assignment) bool {
	if q := strings.ToLower(c.PlanogramQuery); q != "" {
		if !strings.Contains(strings.ToLower(a.PlanogramID), q) &&
			!strings.Contains(strings.ToLower(a.PlanogramName), q) {
			return false
		}
	}
	if q := strings.ToLower(c.StoreNameQuery); q != "" {
		if !strings.Contains(strings.ToLower(a.Store), q) {
			return false
		}
	}
	if !isAny(c.StoreCategory) && string(a.StoreCategory) != c.StoreCategory {
		return false
	}
	if !isAny(c.LifecycleState) && string(a.LifecycleState) != c.LifecycleState {
		return false
	}
	if c.StoreID != "" && a.StoreID != c.StoreID {
		return false
	}
	if c.PlanogramID != "" && a.PlanogramID != c.PlanogramID {
		return false
	}
	if !isAny(c.SizeVariant) && string(a.SizeVariant) != c.SizeVariant {
		return false
	}
	return true
}

// FilterAssignments returns the ordered subsequence of all matching c.
// Unknown enum values simply match nothing.
func FilterAssignments(all []models.Assignment, c Criteria) []models.Assignment {
	out := make([]models.Assignment, 0, len(all))
	if c.IsEmpty() {
		return append(out, all...)
	}
	for i := range all {
		if c.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}

func isAny(v string) bool {
	return v == "" || v == Wildcard
}
