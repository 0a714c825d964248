package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// SizeVariant is a planogram fixture size
type SizeVariant string

const (
	SizeXS SizeVariant = "XS"
	SizeS  SizeVariant = "S"
	SizeM  SizeVariant = "M"
	SizeL  SizeVariant = "L"
	SizeXL SizeVariant = "XL"
)

// SizeVariants lists every size from smallest to largest
var SizeVariants = []SizeVariant{SizeXS, SizeS, SizeM, SizeL, SizeXL}

// SizeVariantArray represents an array of SizeVariant for PostgreSQL array support
type SizeVariantArray []SizeVariant

// Value implements the driver.Valuer interface for database storage
func (a SizeVariantArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	strs := make([]string, len(a))
	for i, v := range a {
		strs[i] = string(v)
	}
	return "{" + strings.Join(strs, ",") + "}", nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (a *SizeVariantArray) Scan(value interface{}) error {
	if value == nil {
		*a = SizeVariantArray{}
		return nil
	}
	switch v := value.(type) {
	case string:
		v = strings.Trim(v, "{}")
		if v == "" {
			*a = SizeVariantArray{}
			return nil
		}
		parts := strings.Split(v, ",")
		result := make(SizeVariantArray, len(parts))
		for i, part := range parts {
			result[i] = SizeVariant(strings.TrimSpace(part))
		}
		*a = result
		return nil
	default:
		return fmt.Errorf("cannot scan %T into SizeVariantArray", value)
	}
}

// Planogram is a versioned shelf layout with size variants
type Planogram struct {
	ID           string           `json:"id" db:"planogram_id"`
	Name         string           `json:"name" db:"name"`
	Description  string           `json:"description" db:"description"`
	CreatedDate  Date             `json:"createdDate" db:"created_date"`
	Version      string           `json:"version" db:"version"`
	SizeVariants SizeVariantArray `json:"sizeVariants" db:"size_variants"`
	Lifecycle    LifecycleState   `json:"lifecycle" db:"lifecycle"`
	ProductIDs   []string         `json:"productIds"`
}

// HasSizeVariant reports whether the planogram declares the given size
func (p *Planogram) HasSizeVariant(size SizeVariant) bool {
	for _, v := range p.SizeVariants {
		if v == size {
			return true
		}
	}
	return false
}

// Product is a catalog entry that can be placed on a planogram
type Product struct {
	ID       string  `json:"id" db:"product_id"`
	SKU      string  `json:"sku" db:"sku"`
	Name     string  `json:"name" db:"name"`
	Brand    string  `json:"brand" db:"brand"`
	Category string  `json:"category" db:"category"`
	Width    float64 `json:"width" db:"width"`
	Height   float64 `json:"height" db:"height"`
	Depth    float64 `json:"depth" db:"depth"`
}

// ProductPosition places a product on a shelf slot of a planogram size variant
type ProductPosition struct {
	ID          string      `json:"id" db:"position_id"`
	PlanogramID string      `json:"planogramId" db:"planogram_id"`
	ProductID   string      `json:"productId" db:"product_id"`
	SizeVariant SizeVariant `json:"sizeVariant" db:"size_variant"`
	Shelf       int         `json:"shelf" db:"shelf"`
	Slot        int         `json:"slot" db:"slot"`
	Facings     int         `json:"facings" db:"facings"`
}
