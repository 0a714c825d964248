package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/query"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/service"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/storage"
	"github.com/spf13/cobra"
)

func newTransitionCmd(app *App, out outputFn) *cobra.Command {
	var ids []int
	var target, on, by string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "transition",
		Short: "Move assignments to a new lifecycle state",
		Long: "Move the selected assignments to a new lifecycle state. A date after today\n" +
			"schedules the move instead; the batch is rejected whole if any id fails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := models.ParseLifecycleState(target)
			if err != nil {
				return err
			}
			req := lifecycle.BulkRequest{
				IDs:         ids,
				TargetState: state,
				PerformedBy: by,
				DryRun:      dryRun,
			}
			if on != "" {
				d, err := models.ParseDate(on)
				if err != nil {
					return fmt.Errorf("invalid --on date: %w", err)
				}
				req.ScheduledDate = &d
			}

			res, err := app.Transitions.Apply(context.Background(), req, "cli")
			if err != nil {
				return err
			}
			if !dryRun {
				warnNotPersisted(cmd, app)
			}
			return printResult(out(cmd), res)
		},
	}

	cmd.Flags().IntSliceVar(&ids, "ids", nil, "Assignment ids, comma separated")
	cmd.Flags().StringVar(&target, "to", "", "Target lifecycle state")
	cmd.Flags().StringVar(&on, "on", "", "Schedule for this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&by, "by", "", "Who performs the change")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the batch without saving it")
	_ = cmd.MarkFlagRequired("ids")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newSweepCmd(app *App, out outputFn) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Apply scheduled transitions that are due",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Transitions.SweepDue(context.Background(), "cli")
			if err != nil {
				return err
			}
			warnNotPersisted(cmd, app)
			return printResult(out(cmd), res)
		},
	}
}

func warnNotPersisted(cmd *cobra.Command, app *App) {
	if app.Persistent {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Warning: changes are kept in memory and discarded when planogramctl exits; set DATA_SOURCE=postgres to persist them")
}

func printResult(p printer, res *service.TransitionResult) error {
	if p.json {
		return p.JSON(res)
	}
	rows := make([][]string, len(res.Changes))
	for i, c := range res.Changes {
		when := "now"
		to := c.LifecycleState
		if !c.Immediate() {
			when = c.ScheduledTransition.String()
			to = *c.ScheduledState
		}
		rows[i] = []string{strconv.Itoa(c.AssignmentID), string(c.From), string(to), when}
	}
	fmt.Fprint(p.w, renderTable([]string{"ID", "FROM", "TO", "WHEN"}, rows))

	verb := "Applied"
	if res.DryRun {
		verb = "Would apply"
	}
	fmt.Fprintf(p.w, "\n%s %d, scheduled %d (batch %s)\n", verb, res.Applied, res.Scheduled, res.BatchID)
	return nil
}

func newExportCmd(app *App, out outputFn) *cobra.Command {
	var criteria query.Criteria
	var key string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload the matching assignments to S3 as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Uploader == nil || !app.Uploader.Enabled() {
				return errors.New("export storage not configured, set EXPORT_BUCKET")
			}
			ctx := context.Background()
			all, err := app.Repo.GetAll(ctx)
			if err != nil {
				return err
			}
			matched := query.FilterAssignments(all, criteria)
			if key == "" {
				key = storage.TimestampKey(app.ExportPrefix, time.Now())
			}
			location, err := app.Uploader.UploadJSON(ctx, key, map[string]any{
				"exportedAt":  time.Now().UTC(),
				"criteria":    criteria,
				"summary":     query.SummarizeByLifecycle(matched),
				"assignments": matched,
			})
			if err != nil {
				return err
			}
			p := out(cmd)
			if p.json {
				return p.JSON(map[string]any{"location": location, "count": len(matched)})
			}
			fmt.Fprintf(p.w, "Exported %d assignments to %s\n", len(matched), location)
			return nil
		},
	}

	addCriteriaFlags(cmd, &criteria)
	cmd.Flags().StringVar(&key, "key", "", "Object key (default: prefix + timestamp)")

	return cmd
}
