package service

import "okto-simulator/domain"

// PriceTable maps a brand to the nominal new-vehicle price the
// depreciation formula starts from.
type PriceTable map[domain.Brand]int64

func DefaultPriceTable() PriceTable {
	return PriceTable{
		domain.BrandToyota:    95_000_000,
		domain.BrandMazda:     88_000_000,
		domain.BrandRenault:   78_000_000,
		domain.BrandChevrolet: 78_000_000,
	}
}

func (t PriceTable) BasePrice(brand domain.Brand) (int64, bool) {
	price, ok := t[brand]
	return price, ok
}

// LowestTier is the price used for brands missing from the table when the
// fallback is enabled.
func (t PriceTable) LowestTier() int64 {
	lowest := int64(0)
	for _, price := range t {
		if lowest == 0 || price < lowest {
			lowest = price
		}
	}
	if lowest == 0 {
		return FallbackBasePrice
	}
	return lowest
}
