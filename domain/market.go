package domain

import "time"

type Classification string

const (
	ClassificationOpportunity Classification = "opportunity"
	ClassificationOverpriced  Classification = "overpriced"
	ClassificationFair        Classification = "fair"
)

// ListingRecord is one synthesized comparable. GapPercent is positive when
// the asking price is below the fair price.
type ListingRecord struct {
	ID             int            `json:"id"`
	OdometerKm     int            `json:"odometer_km"`
	FairPrice      float64        `json:"fair_price"`
	AskingPrice    float64        `json:"asking_price"`
	GapPercent     float64        `json:"gap_percent"`
	Classification Classification `json:"classification"`
	ModelYear      int            `json:"model_year"`
	ModelLabel     string         `json:"model_label"`
	Seeded         bool           `json:"seeded,omitempty"`
}

type MarketScanResult struct {
	ID            string          `json:"id"`
	GeneratedAt   time.Time       `json:"generated_at"`
	Listings      []ListingRecord `json:"listings"`
	BestDeal      ListingRecord   `json:"best_deal"`
	Opportunities int             `json:"opportunities"`
	Overpriced    int             `json:"overpriced"`
	Fair          int             `json:"fair"`
}
