package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/store"
	"github.com/jackc/pgx/v5"
)

// ListStores returns all stores ordered by id
func (db *Database) ListStores(ctx context.Context) ([]models.Store, error) {
	rows, err := db.Pool.Query(ctx, `SELECT store_id, name, category, region, address, manager, open_date FROM stores ORDER BY store_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := make([]models.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// GetStore returns one store by id
func (db *Database) GetStore(ctx context.Context, id string) (*models.Store, error) {
	s, err := scanStore(db.Pool.QueryRow(ctx,
		`SELECT store_id, name, category, region, address, manager, open_date FROM stores WHERE store_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("store %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanStore(row pgx.Row) (models.Store, error) {
	var s models.Store
	var category string
	err := row.Scan(&s.ID, &s.Name, &category, &s.Region, &s.Address, &s.Manager, &s.OpenDate)
	s.Category = models.StoreCategory(category)
	return s, err
}

const planogramColumns = `planogram_id, name, description, created_date, version, size_variants, lifecycle, product_ids`

// ListPlanograms returns all planograms ordered by id
func (db *Database) ListPlanograms(ctx context.Context) ([]models.Planogram, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+planogramColumns+` FROM planograms ORDER BY planogram_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	planograms := make([]models.Planogram, 0)
	for rows.Next() {
		p, err := scanPlanogram(rows)
		if err != nil {
			return nil, err
		}
		planograms = append(planograms, p)
	}
	return planograms, rows.Err()
}

// GetPlanogram returns one planogram by id
func (db *Database) GetPlanogram(ctx context.Context, id string) (*models.Planogram, error) {
	p, err := scanPlanogram(db.Pool.QueryRow(ctx, `SELECT `+planogramColumns+` FROM planograms WHERE planogram_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("planogram %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPlanogram(row pgx.Row) (models.Planogram, error) {
	var p models.Planogram
	var lifecycle string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedDate, &p.Version, &p.SizeVariants, &lifecycle, &p.ProductIDs)
	p.Lifecycle = models.LifecycleState(lifecycle)
	return p, err
}

// ListProducts returns the product catalog ordered by id
func (db *Database) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := db.Pool.Query(ctx, `SELECT product_id, sku, name, brand, category, width, height, depth FROM planogram_products ORDER BY product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Brand, &p.Category, &p.Width, &p.Height, &p.Depth); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListPositions returns positions for planogramID, or all positions when empty
func (db *Database) ListPositions(ctx context.Context, planogramID string) ([]models.ProductPosition, error) {
	query := `SELECT position_id, planogram_id, product_id, size_variant, shelf, slot, facings FROM product_positions`
	args := []interface{}{}
	if planogramID != "" {
		query += ` WHERE planogram_id = $1`
		args = append(args, planogramID)
	}
	query += ` ORDER BY position_id`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make([]models.ProductPosition, 0)
	for rows.Next() {
		var pos models.ProductPosition
		var size string
		if err := rows.Scan(&pos.ID, &pos.PlanogramID, &pos.ProductID, &size, &pos.Shelf, &pos.Slot, &pos.Facings); err != nil {
			return nil, err
		}
		pos.SizeVariant = models.SizeVariant(size)
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

var _ store.Repository = (*Database)(nil)
