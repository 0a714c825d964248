package query

import (
	"sort"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
)

// Summary holds per-lifecycle counts for a set of assignments
type Summary struct {
	Prepared  int `json:"Prepared"`
	Planned   int `json:"Planned"`
	Executed  int `json:"Executed"`
	PhasedOut int `json:"Phased Out"`
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
}

// Count returns the counter for state, or zero for unknown states
func (s Summary) Count(state models.LifecycleState) int {
	switch state {
	case models.LifecyclePrepared:
		return s.Prepared
	case models.LifecyclePlanned:
		return s.Planned
	case models.LifecycleExecuted:
		return s.Executed
	case models.LifecyclePhasedOut:
		return s.PhasedOut
	}
	return 0
}

// SummarizeByLifecycle counts assignments per lifecycle state. Total counts
// every record, so records with an unknown state show up only there.
func SummarizeByLifecycle(all []models.Assignment) Summary {
	var s Summary
	for i := range all {
		switch all[i].LifecycleState {
		case models.LifecyclePrepared:
			s.Prepared++
		case models.LifecyclePlanned:
			s.Planned++
		case models.LifecycleExecuted:
			s.Executed++
		case models.LifecyclePhasedOut:
			s.PhasedOut++
		}
		if all[i].ScheduledTransition != nil {
			s.Scheduled++
		}
	}
	s.Total = len(all)
	return s
}

// SummarizeByStoreCategory counts assignments per linked store category
func SummarizeByStoreCategory(all []models.Assignment) map[models.StoreCategory]int {
	counts := make(map[models.StoreCategory]int, len(models.StoreCategories))
	for _, c := range models.StoreCategories {
		counts[c] = 0
	}
	for i := range all {
		counts[all[i].StoreCategory]++
	}
	return counts
}

// RecentActivity returns the n assignments with the latest LastUpdated,
// newest first. Ties keep their input order.
func RecentActivity(all []models.Assignment, n int) []models.Assignment {
	if n <= 0 || len(all) == 0 {
		return []models.Assignment{}
	}
	sorted := make([]models.Assignment, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUpdated.After(sorted[j].LastUpdated)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
