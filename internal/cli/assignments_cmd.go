package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/query"
	"github.com/spf13/cobra"
)

type outputFn func(cmd *cobra.Command) printer

func addCriteriaFlags(cmd *cobra.Command, c *query.Criteria) {
	cmd.Flags().StringVar(&c.PlanogramQuery, "planogram", "", "Planogram id or name substring")
	cmd.Flags().StringVar(&c.StoreNameQuery, "store", "", "Store name substring")
	cmd.Flags().StringVar(&c.StoreCategory, "category", "", "Store category, or * for any")
	cmd.Flags().StringVar(&c.LifecycleState, "lifecycle", "", "Lifecycle state, or * for any")
	cmd.Flags().StringVar(&c.StoreID, "store-id", "", "Exact store id")
	cmd.Flags().StringVar(&c.PlanogramID, "planogram-id", "", "Exact planogram id")
	cmd.Flags().StringVar(&c.SizeVariant, "size", "", "Exact size variant")
}

func scheduleLabel(a *models.Assignment) string {
	if a.ScheduledTransition == nil {
		return "-"
	}
	label := a.ScheduledTransition.String()
	if a.ScheduledState != nil {
		label += " -> " + string(*a.ScheduledState)
	}
	return label
}

func assignmentRows(list []models.Assignment) [][]string {
	rows := make([][]string, len(list))
	for i := range list {
		a := &list[i]
		rows[i] = []string{
			strconv.Itoa(a.ID), a.StoreID, a.Store, a.PlanogramID, a.PlanogramName,
			string(a.SizeVariant), string(a.LifecycleState), a.LastUpdated.String(), scheduleLabel(a),
		}
	}
	return rows
}

var assignmentHeaders = []string{"ID", "STORE", "NAME", "PLANOGRAM", "TITLE", "SIZE", "STATE", "UPDATED", "SCHEDULED"}

func newListCmd(app *App, out outputFn) *cobra.Command {
	var criteria query.Criteria
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := app.Repo.GetAll(context.Background())
			if err != nil {
				return err
			}
			matched := query.FilterAssignments(all, criteria)
			page = query.ClampPage(page, len(matched), pageSize)
			shown := query.Paginate(matched, page, pageSize)

			p := out(cmd)
			if p.json {
				return p.JSON(map[string]any{
					"assignments": shown,
					"total":       len(all),
					"filtered":    len(matched),
					"page":        page,
					"page_size":   pageSize,
					"page_count":  query.PageCount(len(matched), pageSize),
				})
			}
			fmt.Fprint(p.w, renderTable(assignmentHeaders, assignmentRows(shown)))
			fmt.Fprintf(p.w, "\nPage %d of %d, %d of %d assignments match\n",
				page, query.PageCount(len(matched), pageSize), len(matched), len(all))
			return nil
		},
	}

	addCriteriaFlags(cmd, &criteria)
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Assignments per page")

	return cmd
}

func newSummaryCmd(app *App, out outputFn) *cobra.Command {
	var criteria query.Criteria
	var byCategory bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count assignments per lifecycle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := app.Repo.GetAll(context.Background())
			if err != nil {
				return err
			}
			matched := query.FilterAssignments(all, criteria)
			p := out(cmd)

			if byCategory {
				counts := query.SummarizeByStoreCategory(matched)
				if p.json {
					return p.JSON(counts)
				}
				rows := make([][]string, 0, len(models.StoreCategories))
				for _, c := range models.StoreCategories {
					rows = append(rows, []string{string(c), strconv.Itoa(counts[c])})
				}
				fmt.Fprint(p.w, renderTable([]string{"CATEGORY", "ASSIGNMENTS"}, rows))
				return nil
			}

			s := query.SummarizeByLifecycle(matched)
			if p.json {
				return p.JSON(s)
			}
			rows := make([][]string, 0, len(models.LifecycleStates)+2)
			for _, state := range models.LifecycleStates {
				rows = append(rows, []string{string(state), strconv.Itoa(s.Count(state))})
			}
			rows = append(rows,
				[]string{"Scheduled", strconv.Itoa(s.Scheduled)},
				[]string{"Total", strconv.Itoa(s.Total)},
			)
			fmt.Fprint(p.w, renderTable([]string{"STATE", "ASSIGNMENTS"}, rows))
			return nil
		},
	}

	addCriteriaFlags(cmd, &criteria)
	cmd.Flags().BoolVar(&byCategory, "by-category", false, "Count per store category instead")

	return cmd
}

func newRecentCmd(app *App, out outputFn) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recently updated assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := app.Repo.GetAll(context.Background())
			if err != nil {
				return err
			}
			recent := query.RecentActivity(all, limit)
			p := out(cmd)
			if p.json {
				return p.JSON(recent)
			}
			fmt.Fprint(p.w, renderTable(assignmentHeaders, assignmentRows(recent)))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "Number of assignments to show")

	return cmd
}

func newShowCmd(app *App, out outputFn) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid assignment id %q", args[0])
			}
			a, err := app.Repo.Get(context.Background(), id)
			if err != nil {
				return err
			}
			p := out(cmd)
			if p.json {
				return p.JSON(a)
			}
			end := a.EndDate.String()
			if end == "" {
				end = "-"
			}
			rows := [][]string{
				{"Store", fmt.Sprintf("%s (%s, %s)", a.Store, a.StoreID, a.StoreCategory)},
				{"Planogram", fmt.Sprintf("%s (%s, size %s)", a.PlanogramName, a.PlanogramID, a.SizeVariant)},
				{"State", string(a.LifecycleState)},
				{"Last updated", a.LastUpdated.String()},
				{"Assigned", fmt.Sprintf("%s by %s", a.AssignedDate, a.AssignedBy)},
				{"Active", fmt.Sprintf("%s to %s", a.StartDate, end)},
				{"Scheduled", scheduleLabel(a)},
			}
			fmt.Fprint(p.w, renderTable([]string{"ASSIGNMENT", strconv.Itoa(a.ID)}, rows))
			return nil
		},
	}
}
