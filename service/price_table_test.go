package service

import (
	"testing"

	"okto-simulator/domain"
)

func TestPriceTable_Ordering(t *testing.T) {
	table := DefaultPriceTable()

	toyota, _ := table.BasePrice(domain.BrandToyota)
	mazda, _ := table.BasePrice(domain.BrandMazda)
	renault, _ := table.BasePrice(domain.BrandRenault)

	if !(toyota > mazda && mazda > renault) {
		t.Errorf("expected Toyota > Mazda > Renault, got %d, %d, %d", toyota, mazda, renault)
	}
	if _, ok := table.BasePrice("Lada"); ok {
		t.Errorf("Lada should not be in the table")
	}
}

func TestPriceTable_LowestTier(t *testing.T) {
	if got := DefaultPriceTable().LowestTier(); got != 78_000_000 {
		t.Errorf("expected 78000000, got %d", got)
	}
	if got := (PriceTable{}).LowestTier(); got != FallbackBasePrice {
		t.Errorf("expected fallback for empty table, got %d", got)
	}
}
