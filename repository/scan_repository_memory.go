package repository

import (
	"context"
	"sync"

	"okto-simulator/domain"
)

// ScanRepositoryMemory is an in-memory implementation of ScanRepository.
type ScanRepositoryMemory struct {
	mu     sync.RWMutex
	latest *domain.MarketScanResult
}

// NewScanRepositoryMemory creates an empty in-memory scan repository.
func NewScanRepositoryMemory() *ScanRepositoryMemory {
	return &ScanRepositoryMemory{}
}

// SaveLatest stores the scan, discarding the previous one. A scan older
// than the stored one is ignored.
func (r *ScanRepositoryMemory) SaveLatest(
	_ context.Context,
	result domain.MarketScanResult,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.latest != nil && result.GeneratedAt.Before(r.latest.GeneratedAt) {
		return nil
	}
	r.latest = &result
	return nil
}

// Latest returns the stored scan, if any.
func (r *ScanRepositoryMemory) Latest(_ context.Context) (domain.MarketScanResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.latest == nil {
		return domain.MarketScanResult{}, false
	}
	return *r.latest, true
}
