// Package fixtures builds the deterministic demo dataset the dashboard was
// designed against: 75 stores, 30 planograms and 150 assignments.
package fixtures

import (
	"fmt"
	"strings"
	"time"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/models"
)

const (
	StoreCount      = 75
	PlanogramCount  = 30
	AssignmentCount = 150
	ProductCount    = 60

	productsPerPlanogram = 8
)

var (
	regions = []string{"North Region", "South Region", "East Region", "West Region", "Central Region"}

	storeNames = []string{
		"Downtown Store", "Mall Location", "Airport Shop", "Suburban Branch", "City Center",
		"Westside Plaza", "Eastgate Mall", "Northpark Store", "Southview Branch", "Metro Station",
		"Riverside Plaza", "Highland Center", "Valley Store", "Crossroads Mall", "Parkside Shop",
		"Uptown Branch", "Midtown Center", "Lakeside Store", "Hillcrest Mall", "Beacon Plaza",
		"Gateway Store", "Capitol Branch", "University Shop", "Medical Center", "Tech District",
		"Historic Quarter", "Financial District", "Arts District", "Sports Complex", "Convention Center",
	}

	planogramNames = []string{
		"Summer Drinks Display", "Winter Fashion Layout", "Electronics Corner", "Health & Beauty",
		"Snacks & Confectionery", "Fresh Produce", "Frozen Foods", "Bakery Section",
		"Pharmacy Corner", "Baby Care", "Pet Supplies", "Home & Garden", "Sports Equipment",
		"Books & Magazines", "Automotive", "Seasonal Items", "Holiday Decorations",
		"Back to School", "Travel Essentials", "Office Supplies", "Personal Care",
		"Clothing & Accessories", "Footwear Display", "Jewelry Counter", "Mobile Accessories",
		"Gaming Zone", "Toy Section", "Kitchen Appliances", "Outdoor Gear", "Fitness Equipment",
	}

	assigners = []string{
		"John Doe", "Jane Smith", "Mike Johnson", "Sarah Wilson",
		"David Brown", "Lisa Davis", "Tom Anderson", "Emily Taylor",
	}

	brands = []string{"Acme", "Northwind", "Globex", "Initech", "Umbrella", "Stark"}

	// shelves per size variant, smallest fixture first
	shelvesBySize = map[models.SizeVariant]int{
		models.SizeXS: 2, models.SizeS: 3, models.SizeM: 4, models.SizeL: 5, models.SizeXL: 6,
	}
)

// Generate returns a fresh copy of the demo dataset
func Generate() models.Dataset {
	stores := Stores()
	planograms := Planograms()
	products := Products()
	return models.Dataset{
		Stores:      stores,
		Planograms:  planograms,
		Products:    products,
		Positions:   Positions(planograms),
		Assignments: Assignments(stores, planograms),
	}
}

// Stores builds the store reference data
func Stores() []models.Store {
	out := make([]models.Store, StoreCount)
	for i := range out {
		base := storeNames[i%len(storeNames)]
		name := base
		if i >= len(storeNames) {
			name = fmt.Sprintf("%s %d", base, i/len(storeNames)+1)
		}
		out[i] = models.Store{
			ID:       fmt.Sprintf("S-%03d", i+1),
			Name:     name,
			Category: models.StoreCategories[i%len(models.StoreCategories)],
			Region:   regions[i%len(regions)],
			Address:  fmt.Sprintf("%d Main Street, %s City", 100+i, strings.Fields(name)[0]),
			Manager:  fmt.Sprintf("Manager %c", 'A'+rune(i%26)),
			OpenDate: models.NewDate(2020+i%5, time.Month(i%12+1), 1+i%28),
		}
	}
	return out
}

// Planograms builds the planogram reference data. Each planogram declares
// three to five size variants and eight products.
func Planograms() []models.Planogram {
	out := make([]models.Planogram, PlanogramCount)
	for i := range out {
		name := planogramNames[i]
		variants := make(models.SizeVariantArray, 3+i%3)
		copy(variants, models.SizeVariants)
		productIDs := make([]string, productsPerPlanogram)
		for n := range productIDs {
			productIDs[n] = productID((i*productsPerPlanogram/2 + n) % ProductCount)
		}
		out[i] = models.Planogram{
			ID:           fmt.Sprintf("P-%d", 12345+i),
			Name:         name,
			Description:  fmt.Sprintf("Optimized layout for %s featuring strategic product positioning and improved customer flow.", strings.ToLower(name)),
			CreatedDate:  models.NewDate(2025, time.Month(i%12+1), 1+i%28),
			Version:      fmt.Sprintf("%d.%d", i/10+1, i%10+1),
			SizeVariants: variants,
			Lifecycle:    models.LifecycleStates[i%len(models.LifecycleStates)],
			ProductIDs:   productIDs,
		}
	}
	return out
}

// Products builds the product catalog referenced by planograms
func Products() []models.Product {
	out := make([]models.Product, ProductCount)
	for i := range out {
		out[i] = models.Product{
			ID:       productID(i),
			SKU:      fmt.Sprintf("SKU-%05d", 10000+i*7),
			Name:     fmt.Sprintf("%s Item %d", planogramNames[i%len(planogramNames)], i/len(planogramNames)+1),
			Brand:    brands[i%len(brands)],
			Category: planogramNames[i%len(planogramNames)],
			Width:    float64(5 + i%4*5),
			Height:   float64(10 + i%3*10),
			Depth:    float64(5 + i%5*3),
		}
	}
	return out
}

// Positions lays out each planogram's products across its size variants.
// Larger fixtures get more shelves and more facings per product.
func Positions(planograms []models.Planogram) []models.ProductPosition {
	out := make([]models.ProductPosition, 0)
	for _, p := range planograms {
		for vi, size := range p.SizeVariants {
			shelves := shelvesBySize[size]
			for n, pid := range p.ProductIDs {
				out = append(out, models.ProductPosition{
					ID:          fmt.Sprintf("%s-%s-%02d", p.ID, size, n+1),
					PlanogramID: p.ID,
					ProductID:   pid,
					SizeVariant: size,
					Shelf:       n%shelves + 1,
					Slot:        n/shelves + 1,
					Facings:     1 + vi,
				})
			}
		}
	}
	return out
}

// Assignments links stores to planograms round-robin
func Assignments(stores []models.Store, planograms []models.Planogram) []models.Assignment {
	out := make([]models.Assignment, AssignmentCount)
	for i := range out {
		store := stores[i%len(stores)]
		p := planograms[i%len(planograms)]
		day := 1 + i%28
		a := models.Assignment{
			ID:             i + 1,
			Store:          store.Name,
			StoreID:        store.ID,
			StoreCategory:  store.Category,
			PlanogramID:    p.ID,
			PlanogramName:  p.Name,
			SizeVariant:    p.SizeVariants[i%len(p.SizeVariants)],
			LifecycleState: models.LifecycleStates[i%len(models.LifecycleStates)],
			LastUpdated:    models.NewDate(2025, time.Month(6+i%7), day),
			AssignedBy:     assigners[i%len(assigners)],
			AssignedDate:   models.NewDate(2025, time.Month(5+i%8), day),
			StartDate:      models.NewDate(2025, time.Month(6+i%8), day),
			EndDate:        models.NewDate(2025, time.Month(9+i%4), day),
		}
		if i%3 == 0 {
			d := models.NewDate(2025, time.Month(8+i%5), day)
			a.ScheduledTransition = &d
		}
		out[i] = a
	}
	return out
}

func productID(i int) string {
	return fmt.Sprintf("PR-%04d", i+1)
}
