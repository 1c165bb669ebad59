// Package portfolio values held assets against market prices and their replayed cost basis.
package portfolio

import (
	"github.com/vadiminshakov/martifolio/internal/domain"
	"github.com/vadiminshakov/martifolio/internal/services/costbasis"
)

// Build produces one row per held asset that matches a market symbol, in holdings order,
// and the summary over those rows. Assets without a matching symbol are omitted.
func Build(
	holdings domain.Holdings,
	prices *domain.Prices,
	trades domain.TradeLookup,
	preferredQuote string,
) ([]domain.SymbolPosition, domain.PortfolioSummary) {
	rows := make([]domain.SymbolPosition, 0, len(holdings))
	for _, holding := range holdings {
		row, ok := buildRow(holding, prices, trades, preferredQuote)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	return rows, Summarize(rows)
}

// Unmatched returns held assets that Build leaves out because no market symbol matches them.
func Unmatched(holdings domain.Holdings, prices *domain.Prices, preferredQuote string) []string {
	var assets []string
	for _, holding := range holdings {
		if _, ok := domain.MatchSymbol(holding.Asset, prices, preferredQuote); !ok {
			assets = append(assets, holding.Asset)
		}
	}
	return assets
}

func buildRow(
	holding domain.Holding,
	prices *domain.Prices,
	trades domain.TradeLookup,
	preferredQuote string,
) (domain.SymbolPosition, bool) {
	symbol, ok := domain.MatchSymbol(holding.Asset, prices, preferredQuote)
	if !ok {
		return domain.SymbolPosition{}, false
	}

	currentPrice := prices.Price(symbol)
	pair := domain.PairFromSymbol(symbol, holding.Asset, preferredQuote)
	stats := costbasis.Replay(pair, trades.For(symbol))

	invested := stats.Invested
	if invested.IsZero() && stats.AveragePrice.IsZero() {
		// unknown cost basis, assume break-even at the current price
		invested = holding.Quantity.Mul(currentPrice)
	}

	return domain.NewSymbolPosition(
		holding.Asset,
		symbol,
		holding.Quantity,
		stats.AveragePrice,
		invested,
		currentPrice,
		stats.RealizedPnL,
	), true
}

// Summarize folds rows into portfolio totals.
func Summarize(rows []domain.SymbolPosition) domain.PortfolioSummary {
	summary := domain.PortfolioSummary{}
	for _, row := range rows {
		summary = summary.Add(row)
	}
	return summary
}

// Extremes returns the rows with the highest and lowest ROI. The first row wins ties.
func Extremes(rows []domain.SymbolPosition) (best, worst domain.SymbolPosition, ok bool) {
	if len(rows) == 0 {
		return domain.SymbolPosition{}, domain.SymbolPosition{}, false
	}

	best, worst = rows[0], rows[0]
	for _, row := range rows[1:] {
		if row.ROIPct.GreaterThan(best.ROIPct) {
			best = row
		}
		if row.ROIPct.LessThan(worst.ROIPct) {
			worst = row
		}
	}
	return best, worst, true
}
