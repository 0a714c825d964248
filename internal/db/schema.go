package db

import (
	"context"
	"fmt"
	"log"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/jackc/pgx/v5"
)

// InitSchema creates the planogram tables. Safe to call at startup; idempotent.
func (db *Database) InitSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("nil pool")
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stores (
			store_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			region TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			manager TEXT NOT NULL DEFAULT '',
			open_date DATE
		);`,
		`CREATE TABLE IF NOT EXISTS planograms (
			planogram_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_date DATE,
			version TEXT NOT NULL DEFAULT '1.0',
			size_variants TEXT[] NOT NULL DEFAULT '{}',
			lifecycle TEXT NOT NULL,
			product_ids TEXT[] NOT NULL DEFAULT '{}'
		);`,
		`CREATE TABLE IF NOT EXISTS planogram_products (
			product_id TEXT PRIMARY KEY,
			sku TEXT NOT NULL,
			name TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			width DOUBLE PRECISION NOT NULL DEFAULT 0,
			height DOUBLE PRECISION NOT NULL DEFAULT 0,
			depth DOUBLE PRECISION NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS product_positions (
			position_id TEXT PRIMARY KEY,
			planogram_id TEXT NOT NULL REFERENCES planograms(planogram_id),
			product_id TEXT NOT NULL,
			size_variant TEXT NOT NULL,
			shelf INTEGER NOT NULL,
			slot INTEGER NOT NULL,
			facings INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE INDEX IF NOT EXISTS idx_positions_planogram ON product_positions(planogram_id, size_variant);`,
		`CREATE TABLE IF NOT EXISTS planogram_assignments (
			assignment_id SERIAL PRIMARY KEY,
			store_id TEXT NOT NULL REFERENCES stores(store_id),
			planogram_id TEXT NOT NULL REFERENCES planograms(planogram_id),
			size_variant TEXT NOT NULL,
			lifecycle_state TEXT NOT NULL,
			last_updated DATE NOT NULL DEFAULT CURRENT_DATE,
			assigned_by TEXT NOT NULL DEFAULT '',
			assigned_date DATE NOT NULL DEFAULT CURRENT_DATE,
			start_date DATE,
			end_date DATE,
			scheduled_transition DATE,
			scheduled_state TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_scheduled ON planogram_assignments(scheduled_transition) WHERE scheduled_transition IS NOT NULL;`,
	}
	for _, s := range stmts {
		if _, err := db.Pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("schema init: %w", err)
		}
	}
	return nil
}

// Seed loads ds into empty tables inside one transaction. Tables that already
// hold assignments are left untouched.
func (db *Database) Seed(ctx context.Context, ds models.Dataset) error {
	var existing int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(1) FROM planogram_assignments`).Scan(&existing); err != nil {
		return fmt.Errorf("count assignments: %w", err)
	}
	if existing > 0 {
		log.Printf("[PLANOGRAM-DB] Seed skipped, %d assignments present", existing)
		return nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range ds.Stores {
		batch.Queue(`INSERT INTO stores (store_id, name, category, region, address, manager, open_date)
			VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT (store_id) DO NOTHING`,
			s.ID, s.Name, string(s.Category), s.Region, s.Address, s.Manager, s.OpenDate)
	}
	for _, p := range ds.Planograms {
		batch.Queue(`INSERT INTO planograms (planogram_id, name, description, created_date, version, size_variants, lifecycle, product_ids)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8) ON CONFLICT (planogram_id) DO NOTHING`,
			p.ID, p.Name, p.Description, p.CreatedDate, p.Version, p.SizeVariants, string(p.Lifecycle), p.ProductIDs)
	}
	for _, p := range ds.Products {
		batch.Queue(`INSERT INTO planogram_products (product_id, sku, name, brand, category, width, height, depth)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8) ON CONFLICT (product_id) DO NOTHING`,
			p.ID, p.SKU, p.Name, p.Brand, p.Category, p.Width, p.Height, p.Depth)
	}
	for _, pos := range ds.Positions {
		batch.Queue(`INSERT INTO product_positions (position_id, planogram_id, product_id, size_variant, shelf, slot, facings)
			VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT (position_id) DO NOTHING`,
			pos.ID, pos.PlanogramID, pos.ProductID, string(pos.SizeVariant), pos.Shelf, pos.Slot, pos.Facings)
	}
	for _, a := range ds.Assignments {
		batch.Queue(`INSERT INTO planogram_assignments
				(assignment_id, store_id, planogram_id, size_variant, lifecycle_state, last_updated, assigned_by, assigned_date, start_date, end_date, scheduled_transition, scheduled_state)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			a.ID, a.StoreID, a.PlanogramID, string(a.SizeVariant), string(a.LifecycleState), a.LastUpdated,
			a.AssignedBy, a.AssignedDate, a.StartDate, a.EndDate, a.ScheduledTransition, stateParam(a.ScheduledState))
	}
	// keep the SERIAL in step with explicit ids
	batch.Queue(`SELECT setval(pg_get_serial_sequence('planogram_assignments', 'assignment_id'), COALESCE(MAX(assignment_id), 1)) FROM planogram_assignments`)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[PLANOGRAM-DB] Seeded %d stores, %d planograms, %d assignments",
		len(ds.Stores), len(ds.Planograms), len(ds.Assignments))
	return nil
}

func stateParam(s *models.LifecycleState) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}
