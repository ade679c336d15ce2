package repository

import (
	"context"

	"okto-simulator/domain"
)

// ScanRepository holds the market scan currently on display. Saving a new
// scan replaces the previous one.
type ScanRepository interface {
	SaveLatest(ctx context.Context, result domain.MarketScanResult) error
	Latest(ctx context.Context) (domain.MarketScanResult, bool)
}
