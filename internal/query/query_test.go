package query

import (
	"math"
	"testing"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []models.Assignment {
	sched := models.MustParseDate("2025-09-01")
	return []models.Assignment{
		{ID: 1, Store: "Downtown Store", StoreID: "S-001", StoreCategory: models.StoreCategorySmall, PlanogramID: "P-12345", PlanogramName: "Summer Drinks Display", SizeVariant: models.SizeM, LifecycleState: models.LifecycleExecuted, LastUpdated: models.MustParseDate("2025-06-01"), ScheduledTransition: &sched},
		{ID: 2, Store: "Mall Location", StoreID: "S-002", StoreCategory: models.StoreCategoryMedium, PlanogramID: "P-12346", PlanogramName: "Winter Fashion Layout", SizeVariant: models.SizeS, LifecycleState: models.LifecyclePlanned, LastUpdated: models.MustParseDate("2025-07-01")},
		{ID: 3, Store: "Airport Shop", StoreID: "S-003", StoreCategory: models.StoreCategorySmall, PlanogramID: "P-12347", PlanogramName: "Electronics Corner", SizeVariant: models.SizeM, LifecycleState: models.LifecycleExecuted, LastUpdated: models.MustParseDate("2025-05-01")},
		{ID: 4, Store: "Downtown Store 2", StoreID: "S-031", StoreCategory: models.StoreCategoryFlagship, PlanogramID: "P-12345", PlanogramName: "Summer Drinks Display", SizeVariant: models.SizeL, LifecycleState: models.LifecyclePhasedOut, LastUpdated: models.MustParseDate("2025-07-01")},
	}
}

func ids(as []models.Assignment) []int {
	out := make([]int, len(as))
	for i := range as {
		out[i] = as[i].ID
	}
	return out
}

func TestFilterAssignments_EmptyCriteriaReturnsAll(t *testing.T) {
	all := sample()
	for _, c := range []Criteria{{}, {StoreCategory: "*", LifecycleState: "*"}, {SizeVariant: "*"}} {
		assert.Equal(t, all, FilterAssignments(all, c))
	}
}

func TestFilterAssignments_PlanogramQueryMatchesIDOrName(t *testing.T) {
	all := sample()
	assert.Equal(t, []int{1, 4}, ids(FilterAssignments(all, Criteria{PlanogramQuery: "p-12345"})))
	assert.Equal(t, []int{2}, ids(FilterAssignments(all, Criteria{PlanogramQuery: "FASHION"})))
}

func TestFilterAssignments_StoreNameAndCategory(t *testing.T) {
	all := sample()
	assert.Equal(t, []int{1, 4}, ids(FilterAssignments(all, Criteria{StoreNameQuery: "downtown"})))
	assert.Equal(t, []int{1, 3}, ids(FilterAssignments(all, Criteria{StoreCategory: "Small"})))
	assert.Equal(t, []int{1}, ids(FilterAssignments(all, Criteria{StoreNameQuery: "downtown", StoreCategory: "Small"})))
}

func TestFilterAssignments_UnknownEnumMatchesNothing(t *testing.T) {
	all := sample()
	assert.Empty(t, FilterAssignments(all, Criteria{LifecycleState: "Retired"}))
	assert.Empty(t, FilterAssignments(all, Criteria{StoreCategory: "small"}))
}

func TestFilterAssignments_ExactDetailCriteria(t *testing.T) {
	all := sample()
	assert.Equal(t, []int{1, 4}, ids(FilterAssignments(all, Criteria{PlanogramID: "P-12345"})))
	assert.Equal(t, []int{4}, ids(FilterAssignments(all, Criteria{PlanogramID: "P-12345", SizeVariant: "L"})))
	assert.Equal(t, []int{3}, ids(FilterAssignments(all, Criteria{StoreID: "S-003"})))
}

func TestFilterAssignments_Idempotent(t *testing.T) {
	all := sample()
	criteria := []Criteria{
		{PlanogramQuery: "summer"},
		{StoreCategory: "Small", LifecycleState: "Executed"},
		{StoreNameQuery: "o"},
	}
	for _, c := range criteria {
		once := FilterAssignments(all, c)
		assert.Equal(t, once, FilterAssignments(once, c))
	}
}

func TestFilterAssignments_DoesNotAliasInput(t *testing.T) {
	all := sample()
	out := FilterAssignments(all, Criteria{})
	out[0].Store = "changed"
	assert.Equal(t, "Downtown Store", all[0].Store)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	assert.Equal(t, []int{1, 2, 3}, Paginate(items, 1, 3))
	assert.Equal(t, []int{7}, Paginate(items, 3, 3))
	assert.Empty(t, Paginate(items, 4, 3))
	assert.Empty(t, Paginate(items, 0, 3))
	assert.Empty(t, Paginate(items, 1, 0))
	assert.Empty(t, Paginate([]int{}, 1, 20))
	assert.Equal(t, items, Paginate(items, 1, math.MaxInt))
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	assert.Empty(t, Paginate(items, math.MaxInt/2+2, 4))
	assert.NotPanics(t, func() {
		assert.Empty(t, Paginate(items, 1<<62+1, 2))
	})
	assert.Empty(t, Paginate(items, math.MaxInt, math.MaxInt))
	assert.Equal(t, 1, PageCount(7, math.MaxInt))
}

func TestPaginate_PagesReconstructInput(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	for _, size := range []int{1, 5, 7, 20, 23, 50} {
		var rebuilt []int
		for page := 1; page <= PageCount(len(items), size); page++ {
			got := Paginate(items, page, size)
			require.LessOrEqual(t, len(got), size)
			rebuilt = append(rebuilt, got...)
		}
		assert.Equal(t, items, rebuilt, "size %d", size)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 45, 20))
	assert.Equal(t, 3, ClampPage(9, 45, 20))
	assert.Equal(t, 2, ClampPage(2, 45, 20))
	assert.Equal(t, 1, ClampPage(5, 0, 20))
}

func TestSummarizeByLifecycle(t *testing.T) {
	all := []models.Assignment{
		{ID: 1, LifecycleState: models.LifecycleExecuted},
		{ID: 2, LifecycleState: models.LifecyclePlanned},
		{ID: 3, LifecycleState: models.LifecycleExecuted},
	}
	assert.Equal(t, Summary{Executed: 2, Planned: 1, Total: 3}, SummarizeByLifecycle(all))
}

func TestSummarizeByLifecycle_CountsSumToTotal(t *testing.T) {
	all := sample()
	s := SummarizeByLifecycle(all)
	assert.Equal(t, len(all), s.Total)
	sum := 0
	for _, state := range models.LifecycleStates {
		sum += s.Count(state)
	}
	assert.Equal(t, s.Total, sum)
	assert.Equal(t, 1, s.Scheduled)
}

func TestSummarizeByStoreCategory(t *testing.T) {
	counts := SummarizeByStoreCategory(sample())
	assert.Equal(t, 2, counts[models.StoreCategorySmall])
	assert.Equal(t, 0, counts[models.StoreCategoryLarge])
	assert.Len(t, counts, 4)
}

func TestRecentActivity(t *testing.T) {
	all := []models.Assignment{
		{ID: 1, LastUpdated: models.MustParseDate("2025-06-01")},
		{ID: 2, LastUpdated: models.MustParseDate("2025-07-01")},
		{ID: 3, LastUpdated: models.MustParseDate("2025-05-01")},
	}
	assert.Equal(t, []int{2, 1}, ids(RecentActivity(all, 2)))
	assert.Equal(t, []int{1, 2, 3}, ids(all), "input order untouched")
}

func TestRecentActivity_StableOnTies(t *testing.T) {
	assert.Equal(t, []int{2, 4, 1}, ids(RecentActivity(sample(), 3)))
	assert.Empty(t, RecentActivity(sample(), 0))
	assert.Len(t, RecentActivity(sample(), 10), 4)
}

func TestPlanogramOverview(t *testing.T) {
	p := models.Planogram{ID: "P-12345", SizeVariants: models.SizeVariantArray{models.SizeXS, models.SizeS, models.SizeM}}
	positions := []models.ProductPosition{
		{ID: "POS-1", PlanogramID: "P-12345", SizeVariant: models.SizeM},
		{ID: "POS-2", PlanogramID: "P-12345", SizeVariant: models.SizeS},
		{ID: "POS-3", PlanogramID: "P-99999", SizeVariant: models.SizeM},
	}
	ov := NewPlanogramOverview(p, "", positions, sample())
	assert.Equal(t, models.SizeM, ov.SizeVariant)
	require.Len(t, ov.Positions, 1)
	assert.Equal(t, "POS-1", ov.Positions[0].ID)
	assert.Equal(t, []int{1, 4}, ids(ov.Assignments))
	assert.Equal(t, 2, ov.Summary.Total)
}

func TestDefaultSizeVariant_WithoutM(t *testing.T) {
	p := models.Planogram{SizeVariants: models.SizeVariantArray{models.SizeXS, models.SizeS}}
	assert.Equal(t, models.SizeS, DefaultSizeVariant(p))
	assert.Equal(t, models.SizeVariant(""), DefaultSizeVariant(models.Planogram{}))
}

func TestStoreOverview(t *testing.T) {
	ov := NewStoreOverview(models.Store{ID: "S-001"}, sample())
	assert.Equal(t, []int{1}, ids(ov.Assignments))
	assert.Equal(t, 1, ov.Summary.Executed)
}
