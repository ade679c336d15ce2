package service

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"okto-simulator/domain"
	"okto-simulator/metrics"
)

// RandomSource is satisfied by *math/rand/v2.Rand.
type RandomSource interface {
	Float64() float64
}

type MarketScanService struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewMarketScanService(logger *zap.Logger) *MarketScanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketScanService{logger: logger, now: time.Now}
}

// Scan synthesizes batchSize comparable listings and picks the best deal.
// A batchSize of zero or less means DefaultBatchSize; larger than
// MaxBatchSize is capped.
func (s *MarketScanService) Scan(rng RandomSource, batchSize int) domain.MarketScanResult {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}

	listings := make([]domain.ListingRecord, batchSize)
	for i := range listings {
		km := int(math.Floor(rng.Float64() * ScanMaxOdometerKm))
		noise := rng.Float64()*NoiseSpan + NoiseMin
		listings[i] = NewListing(i, km, noise)
	}

	seeded := ensureOpportunity(listings)
	if seeded {
		metrics.SeededDealsTotal.Inc()
	}

	result := domain.MarketScanResult{
		ID:          uuid.NewString(),
		GeneratedAt: s.now().UTC(),
		Listings:    listings,
		BestDeal:    BestDeal(listings),
	}
	for _, l := range listings {
		switch l.Classification {
		case domain.ClassificationOpportunity:
			result.Opportunities++
		case domain.ClassificationOverpriced:
			result.Overpriced++
		default:
			result.Fair++
		}
	}

	metrics.MarketScansTotal.Inc()
	metrics.ScanOpportunities.Observe(float64(result.Opportunities))

	s.logger.Debug("market scanned",
		zap.String("scan_id", result.ID),
		zap.Int("listings", len(listings)),
		zap.Int("opportunities", result.Opportunities),
		zap.Int("best_deal_id", result.BestDeal.ID),
		zap.Float64("best_gap_percent", result.BestDeal.GapPercent),
		zap.Bool("seeded", seeded),
	)

	return result
}

// FairPrice is the exponential decay curve from the new price.
func FairPrice(km int) float64 {
	return ScanBaseNewPrice * math.Exp(-ScanDecayRate*float64(km))
}

// NewListing builds a listing whose asking price deviates from the fair
// price by noise (a fraction, e.g. -0.1 for 10% below).
func NewListing(id, km int, noise float64) domain.ListingRecord {
	fair := FairPrice(km)
	year := ScanReferenceYear - km/KmPerModelYear

	l := domain.ListingRecord{
		ID:         id,
		OdometerKm: km,
		FairPrice:  fair,
		ModelYear:  year,
		ModelLabel: fmt.Sprintf("%s (%d)", ScanModelName, year),
	}
	reprice(&l, fair*(1+noise))
	return l
}

func reprice(l *domain.ListingRecord, asking float64) {
	l.AskingPrice = asking
	l.GapPercent = (l.FairPrice - asking) / l.FairPrice * 100
	l.Classification = Classify(l.GapPercent)
}

// Classify maps a gap percent onto the fixed thresholds.
func Classify(gapPercent float64) domain.Classification {
	switch {
	case gapPercent > OpportunityGap:
		return domain.ClassificationOpportunity
	case gapPercent < OverpricedGap:
		return domain.ClassificationOverpriced
	default:
		return domain.ClassificationFair
	}
}

// BestDeal returns the listing with the highest gap. Ties keep the first
// one encountered, which is the lowest id.
func BestDeal(listings []domain.ListingRecord) domain.ListingRecord {
	i := bestIndex(listings)
	if i < 0 {
		return domain.ListingRecord{}
	}
	return listings[i]
}

func bestIndex(listings []domain.ListingRecord) int {
	if len(listings) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(listings); i++ {
		if listings[i].GapPercent > listings[best].GapPercent {
			best = i
		}
	}
	return best
}

// ensureOpportunity reprices the listing closest to being a deal when the
// batch has no opportunity at all.
func ensureOpportunity(listings []domain.ListingRecord) bool {
	if len(listings) == 0 {
		return false
	}
	for _, l := range listings {
		if l.Classification == domain.ClassificationOpportunity {
			return false
		}
	}

	target := &listings[bestIndex(listings)]
	reprice(target, target.FairPrice*SeedDealFactor)
	target.Seeded = true
	return true
}
