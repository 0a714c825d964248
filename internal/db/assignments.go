package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/store"
	"github.com/jackc/pgx/v5"
)

const assignmentColumns = `
    a.assignment_id, s.name, a.store_id, s.category, a.planogram_id, p.name,
    a.size_variant, a.lifecycle_state, a.last_updated, a.assigned_by, a.assigned_date,
    a.start_date, a.end_date, a.scheduled_transition, a.scheduled_state`

const assignmentFrom = `
    FROM planogram_assignments a
    JOIN stores s ON s.store_id = a.store_id
    JOIN planograms p ON p.planogram_id = a.planogram_id`

func scanAssignment(row pgx.Row) (models.Assignment, error) {
	var a models.Assignment
	var category, size, state string
	var scheduledState *string
	err := row.Scan(
		&a.ID,
		&a.Store,
		&a.StoreID,
		&category,
		&a.PlanogramID,
		&a.PlanogramName,
		&size,
		&state,
		&a.LastUpdated,
		&a.AssignedBy,
		&a.AssignedDate,
		&a.StartDate,
		&a.EndDate,
		&a.ScheduledTransition,
		&scheduledState,
	)
	if err != nil {
		return a, err
	}
	a.StoreCategory = models.StoreCategory(category)
	a.SizeVariant = models.SizeVariant(size)
	a.LifecycleState = models.LifecycleState(state)
	if scheduledState != nil {
		s := models.LifecycleState(*scheduledState)
		a.ScheduledState = &s
	}
	return a, nil
}

// GetAll returns every assignment ordered by id
func (db *Database) GetAll(ctx context.Context) ([]models.Assignment, error) {
	rows, err := db.Pool.Query(ctx, `SELECT`+assignmentColumns+assignmentFrom+` ORDER BY a.assignment_id`)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]models.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Get returns one assignment by id
func (db *Database) Get(ctx context.Context, id int) (*models.Assignment, error) {
	row := db.Pool.QueryRow(ctx, `SELECT`+assignmentColumns+assignmentFrom+` WHERE a.assignment_id = $1`, id)
	a, err := scanAssignment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("assignment %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an assignment and returns it with its generated id and the
// denormalized store and planogram names
func (db *Database) Create(ctx context.Context, a models.Assignment) (*models.Assignment, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO planogram_assignments
            (store_id, planogram_id, size_variant, lifecycle_state, last_updated, assigned_by, assigned_date, start_date, end_date, scheduled_transition, scheduled_state)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING assignment_id
    `,
		a.StoreID,
		a.PlanogramID,
		string(a.SizeVariant),
		string(a.LifecycleState),
		a.LastUpdated,
		a.AssignedBy,
		a.AssignedDate,
		a.StartDate,
		a.EndDate,
		a.ScheduledTransition,
		stateParam(a.ScheduledState),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert assignment: %w", err)
	}
	return db.Get(ctx, id)
}

// ApplyChanges writes a transition batch in one transaction
func (db *Database) ApplyChanges(ctx context.Context, changes []lifecycle.Change) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range changes {
		var current string
		err := tx.QueryRow(ctx, `
            SELECT lifecycle_state FROM planogram_assignments
            WHERE assignment_id = $1
            FOR UPDATE
        `, c.AssignmentID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("assignment %d: %w", c.AssignmentID, store.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock assignment %d: %w", c.AssignmentID, err)
		}
		if models.LifecycleState(current) != c.From {
			return fmt.Errorf("assignment %d is %q, planned from %q: %w", c.AssignmentID, current, c.From, store.ErrConflict)
		}

		tag, err := tx.Exec(ctx, `
            UPDATE planogram_assignments
            SET lifecycle_state = $2,
                last_updated = $3,
                scheduled_transition = $4,
                scheduled_state = $5
            WHERE assignment_id = $1
        `, c.AssignmentID, string(c.LifecycleState), c.LastUpdated, c.ScheduledTransition, stateParam(c.ScheduledState))
		if err != nil {
			return fmt.Errorf("update assignment %d: %w", c.AssignmentID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("assignment %d: %w", c.AssignmentID, store.ErrNotFound)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
