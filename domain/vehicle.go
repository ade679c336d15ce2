package domain

import "strings"

type Brand string

const (
	BrandRenault   Brand = "Renault"
	BrandChevrolet Brand = "Chevrolet"
	BrandMazda     Brand = "Mazda"
	BrandToyota    Brand = "Toyota"
)

// Brands lists the brands the estimator knows about.
var Brands = []Brand{BrandRenault, BrandChevrolet, BrandMazda, BrandToyota}

// ParseBrand matches a brand name case-insensitively. Unknown names are
// returned as-is with ok=false so callers can decide on a fallback.
func ParseBrand(name string) (Brand, bool) {
	name = strings.TrimSpace(name)
	for _, b := range Brands {
		if strings.EqualFold(string(b), name) {
			return b, true
		}
	}
	return Brand(name), false
}

type VehicleQuery struct {
	Brand       Brand
	ModelYear   int
	OdometerKm  int
	CurrentYear int
}

type ValuationResult struct {
	Brand               Brand   `json:"brand"`
	ModelYear           int     `json:"model_year"`
	OdometerKm          int     `json:"odometer_km"`
	EstimatedPrice      int64   `json:"estimated_price"`
	MinPrice            int64   `json:"min_price"`
	MaxPrice            int64   `json:"max_price"`
	ConfidencePercent   float64 `json:"confidence_percent"`
	EstimatedDaysToSell int     `json:"estimated_days_to_sell"`
	PriceLabel          string  `json:"price_label"`
	PriceDisplay        string  `json:"price_display"`
	FutureValue12m      int64   `json:"future_value_12m"`
	FutureValueLabel    string  `json:"future_value_label"`
	FloorApplied        bool    `json:"floor_applied,omitempty"`
	FallbackBrand       bool    `json:"fallback_brand,omitempty"`
}
