// Package alerts evaluates strategy thresholds against current prices and
// delivers the resulting messages.
package alerts

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

// Evaluate returns an alert for every enabled threshold crossed by a row's current price.
// Low buy levels fire at or below the threshold, high sell levels at or above it.
// Levels are independent, so several may fire for the same row.
func Evaluate(rows []domain.SymbolPosition, strategies domain.Strategies) []domain.Alert {
	var alerts []domain.Alert
	for _, row := range rows {
		strategy, ok := strategies.Lookup(row.Asset)
		if !ok {
			continue
		}

		for _, level := range domain.Levels {
			threshold := strategy.Threshold(level)
			if !crossed(level, row.CurrentPrice, threshold) {
				continue
			}
			alerts = append(alerts, domain.Alert{
				Asset:     row.Asset,
				Level:     level,
				Price:     row.CurrentPrice,
				Threshold: threshold,
				Message:   message(row.Asset, level, row.CurrentPrice, threshold),
			})
		}
	}
	return alerts
}

func crossed(level domain.LevelKind, price, threshold decimal.Decimal) bool {
	if threshold.IsZero() {
		return false
	}
	if level.IsBuy() {
		return price.LessThanOrEqual(threshold)
	}
	return price.GreaterThanOrEqual(threshold)
}

func message(asset string, level domain.LevelKind, price, threshold decimal.Decimal) string {
	if level.IsBuy() {
		return fmt.Sprintf("%s reached %s at %s <= %s", asset, level.Label(), price.StringFixed(4), formatThreshold(threshold))
	}
	return fmt.Sprintf("%s hit %s at %s >= %s", asset, level.Label(), price.StringFixed(4), formatThreshold(threshold))
}

// formatThreshold keeps at least one fractional digit: 120 renders as 120.0, 0.25 as 0.25.
func formatThreshold(threshold decimal.Decimal) string {
	if threshold.Equal(threshold.Truncate(0)) {
		return threshold.StringFixed(1)
	}
	return threshold.String()
}
