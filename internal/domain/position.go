package domain

import "github.com/shopspring/decimal"

// SymbolPosition valuation of one held asset matched to a market.
type SymbolPosition struct {
	Asset           string          `json:"asset"`
	Symbol          string          `json:"symbol"`
	Quantity        decimal.Decimal `json:"quantity"`
	AverageBuyPrice decimal.Decimal `json:"average_buy_price"`
	Invested        decimal.Decimal `json:"invested"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	UnrealizedPnL   decimal.Decimal `json:"unrealized_pnl"`
	ROIPct          decimal.Decimal `json:"roi_pct"`
	RealizedPnL     decimal.Decimal `json:"realized_pnl"`
}

// NewSymbolPosition derives value, unrealized PnL and ROI from quantity, price and cost basis.
func NewSymbolPosition(asset, symbol string, quantity, averageBuyPrice, invested, currentPrice, realizedPnL decimal.Decimal) SymbolPosition {
	currentValue := quantity.Mul(currentPrice)
	unrealized := currentValue.Sub(invested)

	roi := decimal.Zero
	if !invested.IsZero() {
		roi = unrealized.Div(invested).Mul(decimal.NewFromInt(100))
	}

	return SymbolPosition{
		Asset:           asset,
		Symbol:          symbol,
		Quantity:        quantity,
		AverageBuyPrice: averageBuyPrice,
		Invested:        invested,
		CurrentPrice:    currentPrice,
		CurrentValue:    currentValue,
		UnrealizedPnL:   unrealized,
		ROIPct:          roi,
		RealizedPnL:     realizedPnL,
	}
}

// PortfolioSummary totals across all portfolio rows.
type PortfolioSummary struct {
	TotalInvested decimal.Decimal `json:"total_invested"`
	TotalValue    decimal.Decimal `json:"total_value"`
	NetUnrealized decimal.Decimal `json:"net_unrealized"`
	RealizedPnL   decimal.Decimal `json:"realized_pnl"`
}

// Add returns the summary with row folded in.
func (s PortfolioSummary) Add(row SymbolPosition) PortfolioSummary {
	return PortfolioSummary{
		TotalInvested: s.TotalInvested.Add(row.Invested),
		TotalValue:    s.TotalValue.Add(row.CurrentValue),
		NetUnrealized: s.NetUnrealized.Add(row.UnrealizedPnL),
		RealizedPnL:   s.RealizedPnL.Add(row.RealizedPnL),
	}
}
