package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"okto-simulator/domain"
	"okto-simulator/metrics"
	"okto-simulator/repository"
)

var (
	roundingUnit = decimal.NewFromInt(PriceRoundingUnit)
	tenThousand  = decimal.NewFromInt(10_000)
)

type ValuationOptions struct {
	// CurrentYear pins the reference year used when a query leaves it
	// unset; zero means the clock's year.
	CurrentYear          int
	UnknownBrandFallback bool
	CacheTTL             time.Duration
}

type ValuationService struct {
	prices  PriceTable
	cache   repository.CacheRepository
	logger  *zap.Logger
	opts    ValuationOptions
	printer *message.Printer
	now     func() time.Time
}

// NewValuationService creates a ValuationService. cache may be nil.
func NewValuationService(
	prices PriceTable,
	cache repository.CacheRepository,
	logger *zap.Logger,
	opts ValuationOptions,
) *ValuationService {
	if prices == nil {
		prices = DefaultPriceTable()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValuationService{
		prices:  prices,
		cache:   cache,
		logger:  logger,
		opts:    opts,
		printer: message.NewPrinter(language.MustParse("es-CO")),
		now:     time.Now,
	}
}

// CurrentYear returns the reference year for queries that do not carry one.
func (s *ValuationService) CurrentYear() int {
	if s.opts.CurrentYear > 0 {
		return s.opts.CurrentYear
	}
	return s.now().Year()
}

// Estimate computes the price estimate, its variance band and the expected
// days to sell for a single vehicle.
func (s *ValuationService) Estimate(
	ctx context.Context,
	query domain.VehicleQuery,
) (domain.ValuationResult, error) {

	if err := ValidateQuery(query); err != nil {
		metrics.ValuationsTotal.WithLabelValues("invalid_input").Inc()
		return domain.ValuationResult{}, err
	}

	base, fallback, err := s.basePrice(query.Brand)
	if err != nil {
		metrics.ValuationsTotal.WithLabelValues("unknown_brand").Inc()
		return domain.ValuationResult{}, err
	}

	key := cacheKey(query)
	if cached, ok := s.fromCache(ctx, key); ok {
		metrics.ValuationCacheHitsTotal.Inc()
		metrics.ValuationsTotal.WithLabelValues("ok").Inc()
		return cached, nil
	}

	result := s.compute(query, base)
	result.FallbackBrand = fallback

	s.toCache(ctx, key, result)
	metrics.ValuationsTotal.WithLabelValues("ok").Inc()

	s.logger.Debug("valuation estimated",
		zap.String("brand", string(query.Brand)),
		zap.Int("model_year", query.ModelYear),
		zap.Int("odometer_km", query.OdometerKm),
		zap.Int64("estimated_price", result.EstimatedPrice),
		zap.Bool("floor_applied", result.FloorApplied),
	)

	return result, nil
}

// Validate reports the error Estimate would return for query without
// computing anything.
func (s *ValuationService) Validate(query domain.VehicleQuery) error {
	if err := ValidateQuery(query); err != nil {
		return err
	}
	_, _, err := s.basePrice(query.Brand)
	return err
}

func (s *ValuationService) compute(query domain.VehicleQuery, basePrice int64) domain.ValuationResult {
	base := decimal.NewFromInt(basePrice)

	ageFactor := decimal.NewFromInt(int64(query.CurrentYear - query.ModelYear)).
		Mul(decimal.NewFromFloat(AgeDepreciation))
	kmFactor := decimal.NewFromInt(int64(query.OdometerKm)).
		Div(tenThousand).
		Mul(decimal.NewFromFloat(KmDepreciation))

	estimated := base.Mul(decimal.NewFromInt(1).Sub(ageFactor).Sub(kmFactor))

	floorApplied := false
	salvage := base.Mul(decimal.NewFromFloat(SalvageFraction))
	if estimated.LessThan(salvage) {
		estimated = salvage
		floorApplied = true
	}

	variance := estimated.Mul(decimal.NewFromFloat(VarianceFraction))

	days := decimal.NewFromInt(int64(query.OdometerKm)).
		Div(decimal.NewFromInt(KmPerExtraSaleDay)).
		Add(decimal.NewFromInt(BaseDaysToSell)).
		Round(0)

	price := roundToUnit(estimated)
	future := decimal.NewFromInt(price).
		Mul(decimal.NewFromFloat(ProjectionMonths12Factor)).
		Round(0).
		IntPart()

	return domain.ValuationResult{
		Brand:               query.Brand,
		ModelYear:           query.ModelYear,
		OdometerKm:          query.OdometerKm,
		EstimatedPrice:      price,
		MinPrice:            roundToUnit(estimated.Sub(variance)),
		MaxPrice:            roundToUnit(estimated.Add(variance)),
		ConfidencePercent:   ConfidencePercent,
		EstimatedDaysToSell: int(days.IntPart()),
		PriceLabel:          ShortMoney(price),
		PriceDisplay:        s.printer.Sprintf("$ %d", price),
		FutureValue12m:      future,
		FutureValueLabel:    ShortMoney(future),
		FloorApplied:        floorApplied,
	}
}

func (s *ValuationService) basePrice(brand domain.Brand) (int64, bool, error) {
	if price, ok := s.prices.BasePrice(brand); ok {
		return price, false, nil
	}
	if s.opts.UnknownBrandFallback {
		s.logger.Info("unknown brand, using lowest price tier", zap.String("brand", string(brand)))
		return s.prices.LowestTier(), true, nil
	}
	return 0, false, fmt.Errorf("%w: %q", domain.ErrUnknownBrand, brand)
}

func (s *ValuationService) fromCache(ctx context.Context, key string) (domain.ValuationResult, bool) {
	if s.cache == nil {
		return domain.ValuationResult{}, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.ValuationResult{}, false
	}
	var result domain.ValuationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("discarding malformed cached valuation", zap.String("key", key), zap.Error(err))
		return domain.ValuationResult{}, false
	}
	return result, true
}

// toCache stores the result; failures are logged and otherwise ignored.
func (s *ValuationService) toCache(ctx context.Context, key string, result domain.ValuationResult) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to encode valuation for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.opts.CacheTTL); err != nil {
		s.logger.Warn("failed to cache valuation", zap.String("key", key), zap.Error(err))
	}
}

// ValidateQuery checks the ranges the depreciation formula is defined for.
func ValidateQuery(q domain.VehicleQuery) error {
	if q.CurrentYear <= 0 {
		return fmt.Errorf("%w: current year is required", domain.ErrInvalidInput)
	}
	if q.ModelYear < MinModelYear || q.ModelYear > MaxModelYear {
		return fmt.Errorf("%w: model year %d outside [%d, %d]",
			domain.ErrInvalidInput, q.ModelYear, MinModelYear, MaxModelYear)
	}
	if q.ModelYear > q.CurrentYear {
		return fmt.Errorf("%w: model year %d is after current year %d",
			domain.ErrInvalidInput, q.ModelYear, q.CurrentYear)
	}
	if q.OdometerKm < 0 || q.OdometerKm > MaxOdometerKm {
		return fmt.Errorf("%w: odometer %d km outside [0, %d]",
			domain.ErrInvalidInput, q.OdometerKm, MaxOdometerKm)
	}
	return nil
}

func cacheKey(q domain.VehicleQuery) string {
	return fmt.Sprintf("valuation:%s:%d:%d:%d",
		strings.ToLower(string(q.Brand)), q.ModelYear, q.OdometerKm, q.CurrentYear)
}

func roundToUnit(d decimal.Decimal) int64 {
	return d.Div(roundingUnit).Round(0).Mul(roundingUnit).IntPart()
}

// ShortMoney formats an amount in millions, e.g. "$ 58.2M".
func ShortMoney(amount int64) string {
	return fmt.Sprintf("$ %.1fM", float64(amount)/1_000_000)
}
