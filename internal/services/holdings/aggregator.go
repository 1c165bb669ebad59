// Package holdings merges balance records from every account type into net per-asset quantities.
package holdings

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

// Aggregate sums balance records per asset across all sources.
// Records without an asset are skipped and assets whose total is not
// positive are dropped. Assets keep the order they were first seen in.
func Aggregate(sources ...[]domain.BalanceRecord) domain.Holdings {
	totals := make(map[string]decimal.Decimal)
	var order []string

	for _, source := range sources {
		for _, record := range source {
			if record.Asset == "" {
				continue
			}
			total, seen := totals[record.Asset]
			if !seen {
				order = append(order, record.Asset)
			}
			totals[record.Asset] = total.Add(record.Total())
		}
	}

	holdings := make(domain.Holdings, 0, len(order))
	for _, asset := range order {
		qty := totals[asset]
		if !qty.IsPositive() {
			continue
		}
		holdings = append(holdings, domain.Holding{Asset: asset, Quantity: qty})
	}

	return holdings
}
