package models

// StoreCategory represents the size class of a store
type StoreCategory string

const (
	StoreCategorySmall    StoreCategory = "Small"
	StoreCategoryMedium   StoreCategory = "Medium"
	StoreCategoryLarge    StoreCategory = "Large"
	StoreCategoryFlagship StoreCategory = "Flagship"
)

// StoreCategories lists every category in display order
var StoreCategories = []StoreCategory{
	StoreCategorySmall,
	StoreCategoryMedium,
	StoreCategoryLarge,
	StoreCategoryFlagship,
}

// Valid reports whether c is one of the known categories
func (c StoreCategory) Valid() bool {
	for _, known := range StoreCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Store represents a physical store location (reference data)
type Store struct {
	ID       string        `json:"id" db:"store_id"`
	Name     string        `json:"name" db:"name"`
	Category StoreCategory `json:"category" db:"category"`
	Region   string        `json:"region" db:"region"`
	Address  string        `json:"address" db:"address"`
	Manager  string        `json:"manager" db:"manager"`
	OpenDate Date          `json:"openDate" db:"open_date"`
}
