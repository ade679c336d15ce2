package service

const (
	// Valuation
	MinModelYear      = 2015
	MaxModelYear      = 2024
	MaxOdometerKm     = 150_000
	ConfidencePercent = 94.2  // placeholder until a real confidence metric exists
	AgeDepreciation   = 0.08  // per year of age
	KmDepreciation    = 0.015 // per 10,000 km
	VarianceFraction  = 0.04  // symmetric band around the estimate
	SalvageFraction   = 0.10  // estimate never drops below this share of the base price
	PriceRoundingUnit = 100_000
	BaseDaysToSell    = 30
	KmPerExtraSaleDay = 2000
	FallbackBasePrice = 78_000_000

	ProjectionMonths12Factor = 0.88 // expected value retained after 12 months

	// Market scan
	DefaultBatchSize  = 50
	MaxBatchSize      = 1000
	ScanBaseNewPrice  = 90_000_000.0
	ScanDecayRate     = 0.000007 // ~50% value lost at 100,000 km
	ScanMaxOdometerKm = 100_000
	NoiseMin          = -0.15
	NoiseSpan         = 0.35 // noise lies in [-0.15, +0.20)
	OpportunityGap    = 8.0
	OverpricedGap     = -8.0
	SeedDealFactor    = 0.75
	ScanReferenceYear = 2024
	KmPerModelYear    = 15_000
	ScanModelName     = "Mazda CX-30"
)
